package logo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

//go:generate mockgen -source=slot.go -destination=store_mock.go -package=logo
type Store interface {
	// Get returns ErrNoLogo when key holds nothing.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set must replace the whole value in one write, or leave it untouched.
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Slot is the single logo position owned by one user.
type Slot struct {
	store   Store
	userID  string
	ceiling int
}

// NewSlot binds a user's slot. A ceiling of zero disables the pre-write size check.
func NewSlot(store Store, userID string, ceiling int) *Slot {
	return &Slot{store: store, userID: userID, ceiling: ceiling}
}

func (s *Slot) Key() string {
	return "logo:" + s.userID
}

// Replace encodes the whole stored value before a single Set. On any failure
// the previous asset stays in place.
func (s *Slot) Replace(ctx context.Context, asset *Asset) error {
	value, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("encoding logo: %w", err)
	}

	if s.ceiling > 0 && len(value) > s.ceiling {
		return fmt.Errorf("%w: %d bytes (ceiling %d)", ErrStorageQuotaExceeded, len(value), s.ceiling)
	}

	if err := s.store.Set(ctx, s.Key(), value); err != nil {
		if errors.Is(err, ErrStorageQuotaExceeded) {
			return err
		}

		return fmt.Errorf("storing logo: %w", err)
	}

	return nil
}

func (s *Slot) Load(ctx context.Context) (*Asset, error) {
	value, err := s.store.Get(ctx, s.Key())
	if err != nil {
		if errors.Is(err, ErrNoLogo) {
			return nil, err
		}

		return nil, fmt.Errorf("loading logo: %w", err)
	}

	var asset Asset
	if err := json.Unmarshal(value, &asset); err != nil {
		return nil, fmt.Errorf("decoding logo: %w", err)
	}

	return &asset, nil
}

func (s *Slot) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.Key()); err != nil {
		return fmt.Errorf("removing logo: %w", err)
	}

	return nil
}
