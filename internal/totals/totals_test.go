package totals_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/factura/internal/totals"
)

type line struct {
	qty, price decimal.Decimal
}

func (l line) LineTotal() decimal.Decimal { return totals.LineTotal(l.qty, l.price) }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute(t *testing.T) {
	type args struct {
		items    []line
		discount decimal.Decimal
		tax      decimal.Decimal
	}

	type testCase struct {
		name string
		args args
		want totals.Totals
	}

	tests := []testCase{
		{
			name: "DiscountAndTax",
			args: args{
				items: []line{
					{qty: d("2"), price: d("100")},
					{qty: d("1"), price: d("50")},
				},
				discount: d("10"),
				tax:      d("19"),
			},
			want: totals.Totals{
				Subtotal:       d("250"),
				DiscountAmount: d("25"),
				TaxableBase:    d("225"),
				TaxAmount:      d("42.75"),
				Total:          d("267.75"),
			},
		},
		{
			name: "EmptyItems",
			args: args{discount: d("0"), tax: d("19")},
			want: totals.Totals{
				Subtotal:       d("0"),
				DiscountAmount: d("0"),
				TaxableBase:    d("0"),
				TaxAmount:      d("0"),
				Total:          d("0"),
			},
		},
		{
			name: "DiscountAboveHundredKeepsNegativeBase",
			args: args{
				items:    []line{{qty: d("1"), price: d("100")}},
				discount: d("150"),
				tax:      d("0"),
			},
			want: totals.Totals{
				Subtotal:       d("100"),
				DiscountAmount: d("150"),
				TaxableBase:    d("-50"),
				TaxAmount:      d("0"),
				Total:          d("-50"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := totals.Compute(tt.args.items, tt.args.discount, tt.args.tax)

			assert.True(t, tt.want.Subtotal.Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			assert.True(t, tt.want.DiscountAmount.Equal(got.DiscountAmount), "discount %s", got.DiscountAmount)
			assert.True(t, tt.want.TaxableBase.Equal(got.TaxableBase), "base %s", got.TaxableBase)
			assert.True(t, tt.want.TaxAmount.Equal(got.TaxAmount), "tax %s", got.TaxAmount)
			assert.True(t, tt.want.Total.Equal(got.Total), "total %s", got.Total)
		})
	}
}

func TestCompute_ZeroRatesAreNoOps(t *testing.T) {
	items := []line{{qty: d("3"), price: d("19.99")}, {qty: d("0.5"), price: d("7.10")}}

	got := totals.Compute(items, decimal.Zero, decimal.Zero)

	assert.True(t, got.Total.Equal(got.Subtotal))
	assert.False(t, got.HasDiscount())
}

func TestCompute_OrderIndependent(t *testing.T) {
	items := []line{
		{qty: d("3"), price: d("0.1")},
		{qty: d("7"), price: d("0.2")},
		{qty: d("1"), price: d("1234.567")},
		{qty: d("11"), price: d("0.03")},
	}
	reversed := []line{items[3], items[2], items[1], items[0]}

	a := totals.Compute(items, d("5"), d("19"))
	b := totals.Compute(reversed, d("5"), d("19"))

	assert.True(t, a.Subtotal.Equal(d("1236.597")))
	assert.True(t, a.Subtotal.Equal(b.Subtotal))
	assert.True(t, a.Total.Equal(b.Total))
}

func TestCompute_Idempotent(t *testing.T) {
	items := []line{{qty: d("3"), price: d("33.333")}, {qty: d("2"), price: d("0.01")}}

	first := totals.Compute(items, d("12.5"), d("9"))
	second := totals.Compute(items, d("12.5"), d("9"))

	assert.Equal(t, first.Total.String(), second.Total.String())
	assert.Equal(t, first.TaxAmount.String(), second.TaxAmount.String())
	assert.Equal(t, first.DiscountAmount.String(), second.DiscountAmount.String())
}

func TestCompute_ManySmallLinesDoNotDrift(t *testing.T) {
	items := make([]line, 1000)
	for i := range items {
		items[i] = line{qty: d("1"), price: d("0.1")}
	}

	got := totals.Compute(items, decimal.Zero, decimal.Zero)

	assert.Equal(t, "100", got.Subtotal.String())
}

func TestTotals_RoundedOnlyAtPresentation(t *testing.T) {
	items := []line{{qty: d("1"), price: d("10.005")}, {qty: d("1"), price: d("10.005")}}

	got := totals.Compute(items, decimal.Zero, decimal.Zero)

	assert.Equal(t, "20.01", got.Subtotal.String())
	assert.Equal(t, "20.01", got.Rounded().Subtotal.StringFixed(2))
}

func TestAllowedRates(t *testing.T) {
	require.NoError(t, totals.DefaultRates.ValidateRate(d("19")))
	require.NoError(t, totals.DefaultRates.ValidateRate(d("9.00")))

	err := totals.DefaultRates.ValidateRate(d("20"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, totals.ErrRateNotAllowed))

	var rateErr *totals.RateError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, "20", rateErr.Rate.String())
	assert.Contains(t, err.Error(), "allowed: 0%, 9%, 19%")

	assert.NoError(t, totals.AnyRate{}.ValidateRate(d("42")))
}

func TestNewRateValidator(t *testing.T) {
	assert.NoError(t, totals.NewRateValidator(nil).ValidateRate(d("7.7")))

	v := totals.NewRateValidator([]decimal.Decimal{d("5.5"), d("20")})
	assert.NoError(t, v.ValidateRate(d("5.50")))
	assert.ErrorIs(t, v.ValidateRate(d("10")), totals.ErrRateNotAllowed)
}

func TestTotals_Warnings(t *testing.T) {
	items := []line{{qty: d("1"), price: d("100")}}

	assert.Empty(t, totals.Compute(items, d("100"), d("19")).Warnings())
	assert.Equal(t, []string{totals.WarnNegativeBase}, totals.Compute(items, d("100.01"), d("19")).Warnings())
}
