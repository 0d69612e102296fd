package settings

import (
	"context"
	"fmt"
	"maps"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/templates"
	"github.com/MrJamesThe3rd/factura/internal/totals"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=settings
type Repository interface {
	// GetSettings returns nil, nil when the user never saved settings.
	GetSettings(ctx context.Context, userID string) (*Settings, error)
	SaveSettings(ctx context.Context, userID string, s *Settings) error
}

type Service struct {
	repo     Repository
	fallback Fallback
	rates    totals.RateValidator
}

func NewService(repo Repository, fallback Fallback, rates totals.RateValidator) *Service {
	if rates == nil {
		rates = totals.AnyRate{}
	}

	return &Service{repo: repo, fallback: fallback, rates: rates}
}

func (s *Service) Get(ctx context.Context, userID string) (*Settings, error) {
	st, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	if st == nil {
		st = &Settings{}
	}

	return st, nil
}

func (s *Service) Save(ctx context.Context, userID string, st *Settings) error {
	if st.TemplateID != "" {
		if _, ok := templates.Lookup(st.TemplateID); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTemplate, st.TemplateID)
		}
	}

	if st.TaxRate != nil {
		if err := s.rates.ValidateRate(*st.TaxRate); err != nil {
			return fmt.Errorf("validating tax rate: %w", err)
		}
	}

	for k := range st.Prefixes {
		if !k.Valid() {
			return fmt.Errorf("%w: %q", document.ErrUnknownKind, k)
		}
	}

	if err := s.repo.SaveSettings(ctx, userID, st); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}

// Resolve merges the user's settings over the fallback. It implements
// document.DefaultsProvider.
func (s *Service) Resolve(ctx context.Context, userID string) (document.Defaults, error) {
	st, err := s.Get(ctx, userID)
	if err != nil {
		return document.Defaults{}, err
	}

	d := document.Defaults{
		TemplateID: s.fallback.TemplateID,
		TaxRate:    s.fallback.TaxRate,
		Currency:   s.fallback.Currency,
		Prefixes:   maps.Clone(document.DefaultPrefixes),
		Terms:      st.Terms,
		Issuer:     st.Company,
	}

	if st.TemplateID != "" {
		d.TemplateID = st.TemplateID
	}

	if d.TemplateID == "" {
		d.TemplateID = templates.DefaultID
	}

	if st.TaxRate != nil {
		d.TaxRate = *st.TaxRate
	}

	if st.Currency != "" {
		d.Currency = st.Currency
	}

	for k, p := range st.Prefixes {
		d.Prefixes[k] = p
	}

	return d, nil
}
