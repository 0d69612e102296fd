// Package totals computes the financial summary of a priced document.
//
// All arithmetic is done in decimal with full precision. Rounding happens
// once, at presentation time, through Totals.Rounded.
package totals

import (
	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of fraction digits shown to users.
const DisplayPlaces = 2

// Line is anything that carries a cached line total.
type Line interface {
	LineTotal() decimal.Decimal
}

// Totals is the derived financial tuple of a document.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableBase    decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// LineTotal returns quantity × unit price.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// Compute derives the totals of items under a global discount and a tax rate,
// both expressed as percentages. Item totals are taken as they are; keeping
// them equal to quantity × unit price is the caller's job.
//
// Percentages outside [0, 100] are accepted. A negative taxable base is
// returned unchanged so callers can surface it.
func Compute[L Line](items []L, discountPct, taxPct decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	discount := percentOf(subtotal, discountPct)
	base := subtotal.Sub(discount)
	tax := percentOf(base, taxPct)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableBase:    base,
		TaxAmount:      tax,
		Total:          base.Add(tax),
	}
}

// Rounded returns a copy rounded half away from zero to DisplayPlaces.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:       t.Subtotal.Round(DisplayPlaces),
		DiscountAmount: t.DiscountAmount.Round(DisplayPlaces),
		TaxableBase:    t.TaxableBase.Round(DisplayPlaces),
		TaxAmount:      t.TaxAmount.Round(DisplayPlaces),
		Total:          t.Total.Round(DisplayPlaces),
	}
}

// HasDiscount reports whether a discount line should be shown.
func (t Totals) HasDiscount() bool {
	return t.DiscountAmount.IsPositive()
}

// NegativeBase reports whether the discount exceeded the subtotal.
func (t Totals) NegativeBase() bool {
	return t.TaxableBase.IsNegative()
}

// WarnNegativeBase flags totals whose discount exceeds the subtotal.
const WarnNegativeBase = "negative_taxable_base"

// Warnings lists the conditions a caller should show next to the totals.
func (t Totals) Warnings() []string {
	if t.NegativeBase() {
		return []string{WarnNegativeBase}
	}

	return nil
}

func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	// Shifting by two places is exact, unlike a division by 100.
	return amount.Mul(pct).Shift(-2)
}
