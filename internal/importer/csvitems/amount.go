package csvitems

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountNoise = strings.NewReplacer(
	" ", "", "\u00a0", "", "\u202f", "", "€", "", "EUR", "", "eur", "",
)

// parseNumber reads quantities and prices written either way:
// "1 234,56", "1.234,56", "1,234.56", "12.5", "3,50 €".
func parseNumber(s string) (decimal.Decimal, error) {
	clean := amountNoise.Replace(strings.TrimSpace(s))

	comma := strings.LastIndex(clean, ",")
	dot := strings.LastIndex(clean, ".")

	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case comma >= 0:
		if strings.Count(clean, ",") > 1 {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.Replace(clean, ",", ".", 1)
		}
	case dot >= 0 && strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	return decimal.NewFromString(clean)
}
