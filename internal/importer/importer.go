// Package importer turns spreadsheet exports into document lines.
package importer

import (
	"io"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/factura/internal/document"
)

type Format string

const (
	FormatCSV Format = "csv"
)

// Row is one imported line. UnitPrice is nil when the file has no price column.
type Row struct {
	Reference   string
	Description string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   *decimal.Decimal
}

type Importer interface {
	Parse(r io.Reader) ([]Row, error)
}

// Items converts rows to priced items with their totals established.
// Rows without a price get a zero unit price.
func Items(rows []Row) []document.Item {
	items := make([]document.Item, 0, len(rows))

	for _, r := range rows {
		price := decimal.Zero
		if r.UnitPrice != nil {
			price = *r.UnitPrice
		}

		desc := r.Description
		if desc == "" {
			desc = r.Reference
		}

		items = append(items, document.NewItem(desc, r.Quantity, price))
	}

	return items
}

func DeliveryItems(rows []Row) []document.DeliveryItem {
	items := make([]document.DeliveryItem, 0, len(rows))

	for _, r := range rows {
		items = append(items, document.DeliveryItem{
			Reference:   r.Reference,
			Description: r.Description,
			Quantity:    r.Quantity,
			Unit:        r.Unit,
		})
	}

	return items
}
