package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/http/apierr"
	"github.com/MrJamesThe3rd/factura/internal/logo"
	"github.com/MrJamesThe3rd/factura/internal/render"
	"github.com/MrJamesThe3rd/factura/internal/totals"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "NotFound", err: fmt.Errorf("getting: %w", document.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "Duplicate", err: document.ErrDuplicateNumber, wantStatus: http.StatusConflict},
		{name: "NotInvoice", err: fmt.Errorf("marking paid: %w", document.ErrNotInvoice), wantStatus: http.StatusConflict},
		{name: "BadStatus", err: document.ErrUnknownStatus, wantStatus: http.StatusBadRequest},
		{name: "Rate", err: totals.DefaultRates.ValidateRate(decimal.NewFromInt(7)), wantStatus: http.StatusUnprocessableEntity},
		{name: "Unsupported", err: logo.ErrUnsupportedType, wantStatus: http.StatusUnsupportedMediaType},
		{name: "TooLarge", err: logo.ErrTooLarge, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "Exhausted", err: logo.ErrCompressionExhausted, wantStatus: http.StatusUnprocessableEntity},
		{name: "Quota", err: logo.ErrStorageQuotaExceeded, wantStatus: http.StatusInsufficientStorage},
		{name: "Render", err: fmt.Errorf("%w: boom", render.ErrRenderFailure), wantStatus: http.StatusInternalServerError},
		{name: "Unknown", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := apierr.Status(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestWrite_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	apierr.Write(rec, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("password=secret"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}
