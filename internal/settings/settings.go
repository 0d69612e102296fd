// Package settings stores per-user document defaults and resolves them over
// the process-wide configuration.
package settings

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/factura/internal/document"
)

var ErrUnknownTemplate = errors.New("unknown template")

// Settings are the values a user saved. Nil or empty fields fall back to Fallback.
type Settings struct {
	TemplateID string                   `json:"templateId,omitempty"`
	TaxRate    *decimal.Decimal         `json:"taxRate,omitempty"`
	Currency   string                   `json:"currency,omitempty"`
	Prefixes   map[document.Kind]string `json:"prefixes,omitempty"`
	Terms      string                   `json:"terms,omitempty"`
	Company    document.Party           `json:"company"`
}

// Fallback holds the configured defaults.
type Fallback struct {
	TemplateID string
	TaxRate    decimal.Decimal
	Currency   string
}
