package view

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/render"
)

const dbTimeout = 5 * time.Second

// FormatTotal shows the total of priced documents and the line count of delivery notes.
func FormatTotal(doc *document.Document, currency string) string {
	if !doc.Kind.Priced() {
		return fmt.Sprintf("%d ligne(s)", len(doc.DeliveryItems))
	}

	return render.Money(doc.Total, currency)
}

// TotalsWarning describes totals that need the user's attention, or "".
func TotalsWarning(doc *document.Document) string {
	if !doc.Kind.Priced() || !doc.Totals().NegativeBase() {
		return ""
	}

	return "the discount exceeds the subtotal, the total is negative"
}

// FormatDate formats an ISO date the way documents print it.
func FormatDate(iso string) string {
	return render.Date(iso)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
