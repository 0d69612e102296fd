package render

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.French)

// spaces replaces the narrow and regular no-break spaces French grouping
// produces, so every backend draws the same glyph.
var spaces = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

func groupInt(n int64) string {
	return spaces.Replace(printer.Sprint(number.Decimal(n)))
}

// grouped renders d with French grouping and a decimal comma. places < 0
// keeps the significant fractional digits.
func grouped(d decimal.Decimal, places int32) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	if places >= 0 {
		d = d.Round(places)
	}

	whole := d.Truncate(0)
	out := sign + groupInt(whole.IntPart())

	var frac string

	if places >= 0 {
		frac = d.Sub(whole).StringFixed(places)
	} else {
		frac = d.Sub(whole).String()
	}

	if _, digits, ok := strings.Cut(frac, "."); ok && digits != "" {
		out += "," + digits
	}

	return out
}

// Money formats an amount with two decimals: "1 234,56 €".
func Money(d decimal.Decimal, currency string) string {
	s := grouped(d, 2)
	if currency == "" {
		return s
	}

	return s + " " + currency
}

// Quantity formats a quantity without trailing zeros: "1,5".
func Quantity(d decimal.Decimal) string {
	return grouped(d, -1)
}

// Percent formats a percentage: "19 %".
func Percent(d decimal.Decimal) string {
	return grouped(d, -1) + " %"
}

// Date renders an ISO date as dd/mm/yyyy. Unparseable values pass through.
func Date(iso string) string {
	if iso == "" {
		return ""
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("02/01/2006")
		}
	}

	return iso
}
