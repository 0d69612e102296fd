package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/factura/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "classic", cfg.Render.DefaultTemplate)
	assert.True(t, decimal.NewFromInt(19).Equal(cfg.Render.TaxRate))
	assert.Equal(t, 200000, cfg.Logo.Budget)
	assert.Equal(t, 10<<20, cfg.Logo.MaxUpload)
	assert.Equal(t, 50_000_000, cfg.Logo.MaxPixels)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "postgres://postgres:@localhost:5432/factura?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RENDER_TAX_RATE", "20.5")
	t.Setenv("RENDER_ALLOWED_RATES", "0,5.5,20.5")
	t.Setenv("LOGO_BUDGET", "1000")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "20.5", cfg.Render.TaxRate.String())
	assert.Equal(t, 1000, cfg.Logo.Budget)

	rates, err := cfg.AllowedRates()
	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.Equal(t, "5.5", rates[1].String())
}

func TestAllowedRates_Invalid(t *testing.T) {
	t.Setenv("RENDER_ALLOWED_RATES", "0,abc")

	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = cfg.AllowedRates()
	assert.Error(t, err)
}
