package csvitems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1.234,56", want: "1234.56"},
		{in: "1 234,56 €", want: "1234.56"},
		{in: "1,234.56", want: "1234.56"},
		{in: "1.234.567", want: "1234567"},
		{in: "12.5", want: "12.5"},
		{in: "3,50", want: "3.5"},
		{in: "-588,74", want: "-588.74"},
		{in: "10 EUR", want: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseNumber(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := parseNumber("abc")
	assert.Error(t, err)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "quantite", fold(" QUANTITÉ "))
	assert.Equal(t, "prix unitaire ht", fold("Prix  unitaire HT"))
}
