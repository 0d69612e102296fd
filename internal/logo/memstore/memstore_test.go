package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/factura/internal/logo"
	"github.com/MrJamesThe3rd/factura/internal/logo/memstore"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(0)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, logo.ErrNoLogo)

	require.NoError(t, s.Set(ctx, "k", []byte("one")))
	require.NoError(t, s.Set(ctx, "k", []byte("two")))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(v))

	require.NoError(t, s.Delete(ctx, "k"))

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, logo.ErrNoLogo)
}

func TestStore_QuotaLeavesPreviousValue(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(10)

	require.NoError(t, s.Set(ctx, "k", []byte("12345678")))

	err := s.Set(ctx, "k", []byte("this value is far too long"))
	assert.ErrorIs(t, err, logo.ErrStorageQuotaExceeded)

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "12345678", string(v))

	// replacing counts only the delta
	require.NoError(t, s.Set(ctx, "k", []byte("abcdefghij")))
}

func TestStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(0)
	require.NoError(t, s.Set(ctx, "k", []byte("abc")))

	v, _ := s.Get(ctx, "k")
	v[0] = 'x'

	v2, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(v2))
}
