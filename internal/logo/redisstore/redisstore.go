// Package redisstore keeps logos in Redis, one string key per user.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/factura/internal/logo"
)

type Store struct {
	client *redis.Client
}

var _ logo.Store = (*Store)(nil)

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Dial opens a client and checks the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, logo.ErrNoLogo
	}

	if err != nil {
		return nil, err
	}

	return val, nil
}

// Set is a single SET, so readers see either the old or the new value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	err := s.client.Set(ctx, key, value, 0).Err()
	if isOOM(err) {
		return fmt.Errorf("%w: %v", logo.ErrStorageQuotaExceeded, err)
	}

	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// isOOM reports a maxmemory rejection.
func isOOM(err error) bool {
	var rerr redis.Error
	return errors.As(err, &rerr) && strings.HasPrefix(rerr.Error(), "OOM")
}
