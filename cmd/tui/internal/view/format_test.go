package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/factura/internal/document"
)

func TestTotalsWarning(t *testing.T) {
	type testCase struct {
		name     string
		kind     document.Kind
		discount string
		want     bool
	}

	tests := []testCase{
		{name: "RegularInvoice", kind: document.KindInvoice, discount: "10"},
		{name: "DiscountAboveSubtotal", kind: document.KindInvoice, discount: "150", want: true},
		{name: "PurchaseOrderAboveSubtotal", kind: document.KindPurchaseOrder, discount: "101", want: true},
		{name: "DeliveryNoteIgnored", kind: document.KindDeliveryNote, discount: "150"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &document.Document{
				Kind:       tt.kind,
				Items:      []document.Item{document.NewItem("Audit", decimal.NewFromInt(1), decimal.NewFromInt(100))},
				Financials: document.Financials{GlobalDiscount: decimal.RequireFromString(tt.discount)},
			}

			got := TotalsWarning(doc)
			if tt.want {
				assert.Contains(t, got, "negative")
			} else {
				assert.Empty(t, got)
			}
		})
	}
}
