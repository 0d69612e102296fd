// Package memstore keeps logos in process memory. It is used when no Redis
// address is configured.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrJamesThe3rd/factura/internal/logo"
)

// Store enforces a total byte ceiling across all keys, the way a browser
// origin quota would.
type Store struct {
	mu      sync.RWMutex
	values  map[string][]byte
	ceiling int
	used    int
}

var _ logo.Store = (*Store)(nil)

// New returns a store. A ceiling of zero means unbounded.
func New(ceiling int) *Store {
	return &Store{values: make(map[string][]byte), ceiling: ceiling}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, logo.ErrNoLogo
	}

	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used - len(s.values[key]) + len(value)
	if s.ceiling > 0 && used > s.ceiling {
		return fmt.Errorf("%w: %d of %d bytes", logo.ErrStorageQuotaExceeded, used, s.ceiling)
	}

	s.values[key] = append([]byte(nil), value...)
	s.used = used

	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.used -= len(s.values[key])
	delete(s.values, key)

	return nil
}
