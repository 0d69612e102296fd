package totals

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrRateNotAllowed is returned by validators when a tax rate is not legal.
var ErrRateNotAllowed = errors.New("tax rate not allowed")

// RateError wraps a sentinel with the offending rate and the accepted ones.
type RateError struct {
	Err     error
	Rate    decimal.Decimal
	Allowed []decimal.Decimal
}

func (e *RateError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, a := range e.Allowed {
		allowed[i] = a.String() + "%"
	}

	return fmt.Sprintf("%s: %s%% (allowed: %s)", e.Err.Error(), e.Rate.String(), strings.Join(allowed, ", "))
}

func (e *RateError) Unwrap() error {
	return e.Err
}

// RateValidator decides whether a tax rate may be used on a document.
// Compute never consults it.
type RateValidator interface {
	ValidateRate(rate decimal.Decimal) error
}

// AllowedRates accepts only the enumerated rates.
type AllowedRates []decimal.Decimal

// DefaultRates is the 0/9/19 % enumeration.
var DefaultRates = AllowedRates{
	decimal.NewFromInt(0),
	decimal.NewFromInt(9),
	decimal.NewFromInt(19),
}

func (a AllowedRates) ValidateRate(rate decimal.Decimal) error {
	for _, allowed := range a {
		if allowed.Equal(rate) {
			return nil
		}
	}

	return &RateError{Err: ErrRateNotAllowed, Rate: rate, Allowed: a}
}

// AnyRate accepts every rate.
type AnyRate struct{}

func (AnyRate) ValidateRate(decimal.Decimal) error { return nil }

// NewRateValidator enumerates rates. An empty list accepts every rate.
func NewRateValidator(rates []decimal.Decimal) RateValidator {
	if len(rates) == 0 {
		return AnyRate{}
	}

	return AllowedRates(rates)
}
