package logo

import (
	"context"
	"errors"
)

type Service struct {
	store   Store
	opts    Options
	ceiling int
}

func NewService(store Store, opts Options, ceiling int) *Service {
	return &Service{store: store, opts: opts.withDefaults(), ceiling: ceiling}
}

// Upload compresses raw and replaces the user's logo with it.
func (s *Service) Upload(ctx context.Context, userID, name string, raw []byte) (*Asset, error) {
	asset, err := Ingest(name, raw, s.opts)
	if err != nil {
		return nil, err
	}

	if err := NewSlot(s.store, userID, s.ceiling).Replace(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*Asset, error) {
	return NewSlot(s.store, userID, s.ceiling).Load(ctx)
}

// Find is Get with a missing logo reported as nil.
func (s *Service) Find(ctx context.Context, userID string) (*Asset, error) {
	asset, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNoLogo) {
		return nil, nil
	}

	return asset, err
}

func (s *Service) Remove(ctx context.Context, userID string) error {
	return NewSlot(s.store, userID, s.ceiling).Clear(ctx)
}
