package render

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/logo"
	"github.com/MrJamesThe3rd/factura/internal/templates"
)

const (
	DefaultCurrency    = "€"
	DefaultAttribution = "Généré avec Factura"
)

type Options struct {
	Currency    string
	Attribution string
	// HideBadge drops the lifecycle badge from the header.
	HideBadge bool
}

func (o Options) withDefaults() Options {
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}

	if o.Attribution == "" {
		o.Attribution = DefaultAttribution
	}

	return o
}

// Build snapshots doc into a block tree. An empty templateID uses the one
// frozen on the document; unknown ids resolve to the default template.
// The caller's document is never modified.
func Build(doc *document.Document, templateID string, asset *logo.Asset, opts Options) (*Tree, error) {
	if doc == nil {
		return nil, fmt.Errorf("building tree: nil document")
	}

	if !doc.Kind.Valid() {
		return nil, fmt.Errorf("building tree: %w: %q", document.ErrUnknownKind, doc.Kind)
	}

	opts = opts.withDefaults()

	snap := doc.Clone()
	snap.Recalculate()

	if templateID == "" {
		templateID = snap.Template
	}

	tpl, _ := templates.Lookup(templateID)

	tree := &Tree{
		Kind:       snap.Kind,
		TemplateID: tpl.ID,
		Tokens:     tpl.Tokens,
		Title:      Title(snap.Kind),
	}

	tree.Blocks = append(tree.Blocks, header(snap, asset, opts), parties(snap))

	if snap.Kind == document.KindDeliveryNote && snap.Transport != nil {
		if tb := transport(snap.Transport); len(tb.Fields) > 0 {
			tree.Blocks = append(tree.Blocks, tb)
		}
	}

	tree.Blocks = append(tree.Blocks, table(snap, opts))

	if snap.Kind.Priced() {
		tree.Blocks = append(tree.Blocks, totalsBlock(snap, opts))
	}

	if nb := notes(snap); len(nb.Sections) > 0 {
		tree.Blocks = append(tree.Blocks, nb)
	}

	tree.Blocks = append(tree.Blocks, &FooterBlock{Attribution: opts.Attribution, PageLabel: labelPage})

	return tree, nil
}

func header(doc *document.Document, asset *logo.Asset, opts Options) *HeaderBlock {
	h := &HeaderBlock{
		Title:  Title(doc.Kind),
		Number: labelNumber + " " + doc.Number,
	}

	h.Dates = appendField(h.Dates, labelDate, Date(doc.Date))

	switch doc.Kind {
	case document.KindDeliveryNote:
		h.Dates = appendField(h.Dates, labelDeliveryDate, Date(doc.DeliveryDate))
	default:
		h.Dates = appendField(h.Dates, labelDueDate, Date(doc.DueDate))
	}

	payable := doc.Kind.Payable()

	if payable && doc.IsPaid {
		h.Dates = appendField(h.Dates, labelPaidDate, Date(doc.PaidDate))
	}

	if asset != nil && asset.ImageData != "" {
		h.Logo = &Image{DataURI: asset.ImageData, Width: asset.Info.Width, Height: asset.Info.Height}
	}

	if payable && !opts.HideBadge {
		status := doc.Status
		if doc.IsPaid {
			status = document.StatusPaid
		}

		h.Badge = statusBadges[status]
	}

	return h
}

func appendField(fields []Field, label, value string) []Field {
	if value == "" {
		return fields
	}

	return append(fields, Field{Label: label, Value: value})
}

func parties(doc *document.Document) *PartyPairBlock {
	left, right := doc.Kind.Roles()

	return &PartyPairBlock{
		Left:  partyColumn(RoleLabel(left), doc.Issuer),
		Right: partyColumn(RoleLabel(right), doc.Counterparty),
	}
}

func partyColumn(label string, p document.Party) PartyColumn {
	col := PartyColumn{Label: label, Name: p.Name}

	addLine := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			col.Lines = append(col.Lines, s)
		}
	}

	addLine(p.Address)
	addLine(strings.TrimSpace(p.PostalCode + " " + p.City))

	if p.Phone != "" {
		addLine(labelPhone + " " + p.Phone)
	}

	if p.Email != "" {
		addLine(labelEmail + " " + p.Email)
	}

	if p.TaxID != "" {
		addLine(labelTaxID + " " + p.TaxID)
	}

	return col
}

func transport(t *document.TransportInfo) *TransportBlock {
	tb := &TransportBlock{Label: labelTransport}

	tb.Fields = appendField(tb.Fields, labelCarrier, t.Carrier)
	tb.Fields = appendField(tb.Fields, labelTracking, t.TrackingNumber)
	tb.Fields = appendField(tb.Fields, labelTransportMethod, t.TransportMethod)
	tb.Fields = appendField(tb.Fields, labelSpecialInstructions, StripMarkup(t.SpecialInstructions))

	return tb
}

func table(doc *document.Document, opts Options) *TableBlock {
	if !doc.Kind.Priced() {
		tb := &TableBlock{
			Columns: []Column{
				{Label: labelReference, Align: AlignLeft, Weight: 0.20},
				{Label: labelDescription, Align: AlignLeft, Weight: 0.48},
				{Label: labelQuantity, Align: AlignRight, Weight: 0.14},
				{Label: labelUnit, Align: AlignCenter, Weight: 0.18},
			},
			Empty: labelNoItems,
		}

		for _, it := range doc.DeliveryItems {
			tb.Rows = append(tb.Rows, []string{it.Reference, it.Description, Quantity(it.Quantity), it.Unit})
		}

		return tb
	}

	tb := &TableBlock{
		Columns: []Column{
			{Label: labelDescription, Align: AlignLeft, Weight: 0.46},
			{Label: labelQuantity, Align: AlignRight, Weight: 0.12},
			{Label: labelUnitPrice, Align: AlignRight, Weight: 0.20},
			{Label: labelLineTotal, Align: AlignRight, Weight: 0.22},
		},
		Empty: labelNoItems,
	}

	for _, it := range doc.Items {
		tb.Rows = append(tb.Rows, []string{
			it.Description,
			Quantity(it.Quantity),
			Money(it.UnitPrice, opts.Currency),
			Money(it.Total, opts.Currency),
		})
	}

	return tb
}

func totalsBlock(doc *document.Document, opts Options) *TotalsBlock {
	t := doc.Totals().Rounded()

	tb := &TotalsBlock{}
	tb.Lines = append(tb.Lines, TotalsLine{Label: labelSubtotal, Value: Money(t.Subtotal, opts.Currency)})

	if t.HasDiscount() {
		tb.Lines = append(tb.Lines, TotalsLine{
			Label: fmt.Sprintf("%s (%s)", labelDiscount, Percent(doc.GlobalDiscount)),
			Value: Money(t.DiscountAmount.Neg(), opts.Currency),
		})
	}

	tb.Lines = append(tb.Lines,
		TotalsLine{Label: fmt.Sprintf("%s (%s)", labelTax, Percent(doc.TaxRate)), Value: Money(t.TaxAmount, opts.Currency)},
		TotalsLine{Label: labelTotal, Value: Money(t.Total, opts.Currency), Grand: true},
	)

	return tb
}

func notes(doc *document.Document) *NotesBlock {
	nb := &NotesBlock{}

	if s := StripMarkup(doc.Notes); s != "" {
		nb.Sections = append(nb.Sections, NoteSection{Label: labelNotes, Text: s})
	}

	if s := StripMarkup(doc.Terms); s != "" {
		nb.Sections = append(nb.Sections, NoteSection{Label: labelTerms, Text: s})
	}

	return nb
}
