package view

import (
	"github.com/MrJamesThe3rd/factura/internal/document"
)

// documentFilter narrows the TUI user's documents to a selected timeframe
// and, optionally, a kind.
func documentFilter(tf TimeframeSelectedMsg, kind *document.Kind) document.ListFilter {
	filter := document.ListFilter{UserID: UserID, Kind: kind}

	if !tf.All {
		filter.StartDate = new(tf.Start)
		filter.EndDate = new(tf.End)
	}

	return filter
}

// kindOptions is the cycle used by kind filters; nil means every kind.
var kindOptions = []*document.Kind{
	nil,
	new(document.KindInvoice),
	new(document.KindPurchaseOrder),
	new(document.KindDeliveryNote),
}

func kindLabel(k *document.Kind) string {
	if k == nil {
		return "All"
	}

	return string(*k)
}
