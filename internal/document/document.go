package document

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/factura/internal/totals"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicateNumber = errors.New("document number already used")
	ErrUnknownKind     = errors.New("unknown document kind")
	ErrItemIndex       = errors.New("item index out of range")
	ErrUnpriced        = errors.New("document kind carries no prices")
	ErrNotInvoice      = errors.New("only invoices carry a payment status")
	ErrUnknownStatus   = errors.New("unknown document status")
)

// Kind tags the document union.
type Kind string

const (
	KindInvoice       Kind = "invoice"
	KindPurchaseOrder Kind = "purchase_order"
	KindDeliveryNote  Kind = "delivery_note"
)

// Kinds lists every document kind.
var Kinds = []Kind{KindInvoice, KindPurchaseOrder, KindDeliveryNote}

func (k Kind) Valid() bool {
	switch k {
	case KindInvoice, KindPurchaseOrder, KindDeliveryNote:
		return true
	}

	return false
}

// Priced reports whether documents of this kind carry prices and totals.
func (k Kind) Priced() bool {
	return k == KindInvoice || k == KindPurchaseOrder
}

// Payable reports whether the kind tracks a status and a payment.
func (k Kind) Payable() bool {
	return k == KindInvoice
}

// Role names a party position for a kind.
type Role string

const (
	RoleCompany   Role = "company"
	RoleCustomer  Role = "customer"
	RoleSupplier  Role = "supplier"
	RoleSender    Role = "sender"
	RoleRecipient Role = "recipient"
)

// Roles returns the issuing and counter-party roles of a kind.
func (k Kind) Roles() (Role, Role) {
	switch k {
	case KindPurchaseOrder:
		return RoleCompany, RoleSupplier
	case KindDeliveryNote:
		return RoleSender, RoleRecipient
	}

	return RoleCompany, RoleCustomer
}

// Status represents the lifecycle state of an invoice.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every lifecycle state in display order.
var Statuses = []Status{StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Party is an address record.
type Party struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	TaxID      string `json:"taxId,omitempty"`
}

// Item is a priced line. Total is a cache of Quantity × UnitPrice.
type Item struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// NewItem returns an item with its total already established.
func NewItem(description string, quantity, unitPrice decimal.Decimal) Item {
	it := Item{
		ID:          uuid.NewString(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
	it.Reprice()

	return it
}

func (it Item) LineTotal() decimal.Decimal {
	return it.Total
}

// Reprice re-establishes Total from Quantity and UnitPrice.
func (it *Item) Reprice() {
	it.Total = totals.LineTotal(it.Quantity, it.UnitPrice)
}

func (it *Item) SetQuantity(q decimal.Decimal) {
	it.Quantity = q
	it.Reprice()
}

func (it *Item) SetUnitPrice(p decimal.Decimal) {
	it.UnitPrice = p
	it.Reprice()
}

// DeliveryItem is an unpriced delivery line.
type DeliveryItem struct {
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// TransportInfo describes how a delivery travels.
type TransportInfo struct {
	Carrier             string `json:"carrier"`
	TrackingNumber      string `json:"trackingNumber"`
	TransportMethod     string `json:"transportMethod"`
	SpecialInstructions string `json:"specialInstructions"`
}

// Financials holds the inputs (GlobalDiscount, TaxRate) and the derived
// amounts of a priced document. Derived fields are only trustworthy right
// after Recalculate.
type Financials struct {
	Subtotal             decimal.Decimal `json:"subtotal"`
	GlobalDiscount       decimal.Decimal `json:"globalDiscount"`
	GlobalDiscountAmount decimal.Decimal `json:"globalDiscountAmount"`
	TaxRate              decimal.Decimal `json:"taxRate"`
	TaxAmount            decimal.Decimal `json:"taxAmount"`
	Total                decimal.Decimal `json:"total"`
}

// Document is an invoice, purchase order or delivery note.
type Document struct {
	ID     uuid.UUID `json:"id"`
	UserID string    `json:"userId"`
	Kind   Kind      `json:"kind"`
	Number string    `json:"number"`

	Date         string `json:"date"`
	DueDate      string `json:"dueDate,omitempty"`
	DeliveryDate string `json:"deliveryDate,omitempty"`

	Issuer       Party          `json:"issuer"`
	Counterparty Party          `json:"counterparty"`
	Transport    *TransportInfo `json:"transport,omitempty"`

	Items         []Item         `json:"items,omitempty"`
	DeliveryItems []DeliveryItem `json:"deliveryItems,omitempty"`

	Financials

	Notes string `json:"notes,omitempty"`
	Terms string `json:"terms,omitempty"`

	Status   Status `json:"status,omitempty"`
	IsPaid   bool   `json:"isPaid"`
	PaidDate string `json:"paidDate,omitempty"`

	Template string `json:"template"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	DeletedAt *time.Time `json:"-"`
}

// Totals computes the financial tuple from the current items and rates
// without touching the document.
func (d *Document) Totals() totals.Totals {
	return totals.Compute(d.Items, d.GlobalDiscount, d.TaxRate)
}

// Recalculate reprices every item and rewrites the derived financial fields.
// Unpriced kinds get zeroed financials.
func (d *Document) Recalculate() {
	if !d.Kind.Priced() {
		d.Financials = Financials{}
		return
	}

	for i := range d.Items {
		d.Items[i].Reprice()
	}

	t := d.Totals()
	d.Subtotal = t.Subtotal
	d.GlobalDiscountAmount = t.DiscountAmount
	d.TaxAmount = t.TaxAmount
	d.Total = t.Total
}

func (d *Document) AddItem(it Item) {
	it.Reprice()
	d.Items = append(d.Items, it)
	d.Recalculate()
}

func (d *Document) RemoveItem(i int) error {
	if i < 0 || i >= len(d.Items) {
		return ErrItemIndex
	}

	d.Items = append(d.Items[:i], d.Items[i+1:]...)
	d.Recalculate()

	return nil
}

func (d *Document) SetItemQuantity(i int, q decimal.Decimal) error {
	if i < 0 || i >= len(d.Items) {
		return ErrItemIndex
	}

	d.Items[i].SetQuantity(q)
	d.Recalculate()

	return nil
}

func (d *Document) SetItemUnitPrice(i int, p decimal.Decimal) error {
	if i < 0 || i >= len(d.Items) {
		return ErrItemIndex
	}

	d.Items[i].SetUnitPrice(p)
	d.Recalculate()

	return nil
}

func (d *Document) SetGlobalDiscount(pct decimal.Decimal) {
	d.GlobalDiscount = pct
	d.Recalculate()
}

func (d *Document) SetTaxRate(pct decimal.Decimal) {
	d.TaxRate = pct
	d.Recalculate()
}

// Clone returns a deep copy so renders never share caller-owned slices.
func (d *Document) Clone() *Document {
	c := *d
	c.Items = append([]Item(nil), d.Items...)
	c.DeliveryItems = append([]DeliveryItem(nil), d.DeliveryItems...)

	if d.Transport != nil {
		t := *d.Transport
		c.Transport = &t
	}

	return &c
}
