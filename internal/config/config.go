package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Factura"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"factura"`
	}

	Redis struct {
		// Empty Addr keeps logos in process memory.
		Addr     string `envconfig:"REDIS_ADDR" default:""`
		Password string `envconfig:"REDIS_PASSWORD" default:""`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Auth struct {
		Secret string `envconfig:"AUTH_SECRET" default:""`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Render struct {
		DefaultTemplate string          `envconfig:"RENDER_DEFAULT_TEMPLATE" default:"classic"`
		TaxRate         decimal.Decimal `envconfig:"RENDER_TAX_RATE" default:"19"`
		Currency        string          `envconfig:"RENDER_CURRENCY" default:"€"`
		Attribution     string          `envconfig:"RENDER_ATTRIBUTION" default:"Généré avec Factura"`
		AllowedRates    []string        `envconfig:"RENDER_ALLOWED_RATES" default:"0,9,19"`
	}

	Logo struct {
		Budget       int `envconfig:"LOGO_BUDGET" default:"200000"`
		MaxUpload    int `envconfig:"LOGO_MAX_UPLOAD" default:"10485760"`
		MaxPixels    int `envconfig:"LOGO_MAX_PIXELS" default:"50000000"`
		StoreCeiling int `envconfig:"LOGO_STORE_CEILING" default:"5242880"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// AllowedRates parses the configured tax-rate enumeration.
func (c *Config) AllowedRates() ([]decimal.Decimal, error) {
	rates := make([]decimal.Decimal, 0, len(c.Render.AllowedRates))

	for _, r := range c.Render.AllowedRates {
		d, err := decimal.NewFromString(r)
		if err != nil {
			return nil, fmt.Errorf("parsing allowed rate %q: %w", r, err)
		}

		rates = append(rates, d)
	}

	return rates, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
