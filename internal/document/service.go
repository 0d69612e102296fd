package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/factura/internal/totals"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=document
type Repository interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, userID string, id uuid.UUID) (*Document, error)
	UpdateDocument(ctx context.Context, doc *Document) error
	UpdateStatus(ctx context.Context, userID string, id uuid.UUID, status Status) error

	ListDocuments(ctx context.Context, filter ListFilter) ([]*Document, error)
	DeleteDocument(ctx context.Context, userID string, id uuid.UUID) error
}

// DefaultsProvider supplies the per-user values new documents are prefilled with.
type DefaultsProvider interface {
	Resolve(ctx context.Context, userID string) (Defaults, error)
}

// Defaults are resolved settings. The pipeline only reads them.
type Defaults struct {
	TemplateID string
	TaxRate    decimal.Decimal
	Currency   string
	Prefixes   map[Kind]string
	Terms      string
	Issuer     Party
}

// Prefix returns the numbering prefix for kind.
func (d Defaults) Prefix(k Kind) string {
	if p, ok := d.Prefixes[k]; ok {
		return p
	}

	return DefaultPrefixes[k]
}

// DefaultPrefixes are used when settings carry none.
var DefaultPrefixes = map[Kind]string{
	KindInvoice:       "FAC-",
	KindPurchaseOrder: "BC-",
	KindDeliveryNote:  "BL-",
}

type Service struct {
	repo     Repository
	defaults DefaultsProvider
	rates    totals.RateValidator
	now      func() time.Time
}

func NewService(repo Repository, defaults DefaultsProvider, rates totals.RateValidator) *Service {
	if rates == nil {
		rates = totals.AnyRate{}
	}

	return &Service{
		repo:     repo,
		defaults: defaults,
		rates:    rates,
		now:      time.Now,
	}
}

type CreateParams struct {
	UserID       string
	Kind         Kind
	Number       string
	Date         string
	DueDate      string
	DeliveryDate string

	Counterparty Party
	Transport    *TransportInfo

	Items         []Item
	DeliveryItems []DeliveryItem

	GlobalDiscount decimal.Decimal
	TaxRate        *decimal.Decimal

	Notes    string
	Terms    *string
	Template string
}

type ListFilter struct {
	UserID    string
	Kind      *Kind
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

// NextNumber builds a {prefix}{timestamp-suffix} number.
func NextNumber(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%06d", prefix, now.UnixMilli()%1_000_000)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Document, error) {
	if !params.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, params.Kind)
	}

	defaults, err := s.defaults.Resolve(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving defaults: %w", err)
	}

	now := s.now()

	doc := &Document{
		UserID:         params.UserID,
		Kind:           params.Kind,
		Number:         params.Number,
		Date:           params.Date,
		DueDate:        params.DueDate,
		DeliveryDate:   params.DeliveryDate,
		Issuer:         defaults.Issuer,
		Counterparty:   params.Counterparty,
		Transport:      params.Transport,
		Items:          params.Items,
		DeliveryItems:  params.DeliveryItems,
		Notes:          params.Notes,
		Terms:          defaults.Terms,
		Template:       params.Template,
		CreatedAt:      now,
		Financials:     Financials{GlobalDiscount: params.GlobalDiscount, TaxRate: defaults.TaxRate},
	}

	if doc.Number == "" {
		doc.Number = NextNumber(defaults.Prefix(params.Kind), now)
	}

	if doc.Date == "" {
		doc.Date = now.Format(time.DateOnly)
	}

	if doc.Template == "" {
		doc.Template = defaults.TemplateID
	}

	if params.TaxRate != nil {
		doc.TaxRate = *params.TaxRate
	}

	if params.Terms != nil {
		doc.Terms = *params.Terms
	}

	if err := s.prepare(doc); err != nil {
		return nil, err
	}

	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Document, error) {
	return s.repo.GetDocument(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Document, error) {
	return s.repo.ListDocuments(ctx, filter)
}

// Update re-establishes every derived field before persisting, so stale
// totals written by callers never reach the store.
func (s *Service) Update(ctx context.Context, doc *Document) error {
	if !doc.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, doc.Kind)
	}

	if err := s.prepare(doc); err != nil {
		return err
	}

	return s.repo.UpdateDocument(ctx, doc)
}

func (s *Service) UpdateStatus(ctx context.Context, userID string, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	doc, err := s.repo.GetDocument(ctx, userID, id)
	if err != nil {
		return err
	}

	if !doc.Kind.Payable() {
		return fmt.Errorf("updating status: %w: %s", ErrNotInvoice, doc.Kind)
	}

	return s.repo.UpdateStatus(ctx, userID, id, status)
}

// MarkPaid flags an invoice as paid on the given date (today when empty).
func (s *Service) MarkPaid(ctx context.Context, userID string, id uuid.UUID, paidDate string) (*Document, error) {
	doc, err := s.repo.GetDocument(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if !doc.Kind.Payable() {
		return nil, fmt.Errorf("marking paid: %w: %s", ErrNotInvoice, doc.Kind)
	}

	if paidDate == "" {
		paidDate = s.now().Format(time.DateOnly)
	}

	doc.IsPaid = true
	doc.PaidDate = paidDate
	doc.Status = StatusPaid

	if err := s.repo.UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// AppendItems adds imported lines to a priced document and persists it.
func (s *Service) AppendItems(ctx context.Context, userID string, id uuid.UUID, items []Item) (*Document, error) {
	doc, err := s.repo.GetDocument(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if !doc.Kind.Priced() {
		return nil, fmt.Errorf("appending items: %w: %s", ErrUnpriced, doc.Kind)
	}

	doc.Items = append(doc.Items, items...)

	if err := s.Update(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return s.repo.DeleteDocument(ctx, userID, id)
}

func (s *Service) prepare(doc *Document) error {
	for i := range doc.Items {
		if doc.Items[i].ID == "" {
			doc.Items[i].ID = uuid.NewString()
		}
	}

	doc.Recalculate()

	if doc.Kind.Payable() {
		if doc.Status == "" {
			doc.Status = StatusDraft
		}

		if !doc.Status.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownStatus, doc.Status)
		}
	} else {
		doc.Status = ""
		doc.IsPaid = false
		doc.PaidDate = ""
	}

	if !doc.Kind.Priced() {
		return nil
	}

	if err := s.rates.ValidateRate(doc.TaxRate); err != nil {
		return fmt.Errorf("validating tax rate: %w", err)
	}

	return nil
}
