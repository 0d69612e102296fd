package logo_test

import (
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/factura/internal/logo"
	"github.com/MrJamesThe3rd/factura/internal/logo/memstore"
)

func TestService_UploadReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	svc := logo.NewService(memstore.New(0), logo.Options{}, 0)

	_, err := svc.Get(ctx, "u1")
	assert.ErrorIs(t, err, logo.ErrNoLogo)

	first, err := svc.Upload(ctx, "u1", "a.png", encodePNG(t, solid(40, 40, color.Gray{Y: 10})))
	require.NoError(t, err)

	second, err := svc.Upload(ctx, "u1", "b.png", encodePNG(t, solid(80, 40, color.Gray{Y: 90})))
	require.NoError(t, err)
	assert.NotEqual(t, first.ImageData, second.ImageData)

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "b.png", got.Info.Name)
	assert.Equal(t, second.ImageData, got.ImageData)

	other, err := svc.Find(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestService_QuotaKeepsPreviousAsset(t *testing.T) {
	ctx := context.Background()
	small := encodePNG(t, solid(10, 10, color.Gray{Y: 10}))

	sized, err := logo.Ingest("sized", small, logo.Options{})
	require.NoError(t, err)

	// room for one small asset, not for a bigger one
	store := memstore.New(sized.Info.CompressedSize + 1024)
	svc := logo.NewService(store, logo.Options{}, 0)

	_, err = svc.Upload(ctx, "u1", "small.png", small)
	require.NoError(t, err)

	_, err = svc.Upload(ctx, "u1", "big.png", encodePNG(t, noise(200, 200)))
	assert.ErrorIs(t, err, logo.ErrStorageQuotaExceeded)
	assert.NotErrorIs(t, err, logo.ErrCompressionExhausted)

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "small.png", got.Info.Name)
}

func TestService_UploadRejectsBadInput(t *testing.T) {
	svc := logo.NewService(memstore.New(0), logo.Options{}, 0)

	_, err := svc.Upload(context.Background(), "u1", "x.txt", []byte("hello"))
	assert.ErrorIs(t, err, logo.ErrUnsupportedType)

	_, err = svc.Find(context.Background(), "u1")
	assert.NoError(t, err)
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()
	svc := logo.NewService(memstore.New(0), logo.Options{}, 0)

	_, err := svc.Upload(ctx, "u1", "a.png", encodePNG(t, solid(10, 10, color.Gray{Y: 10})))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "u1"))

	_, err = svc.Get(ctx, "u1")
	assert.ErrorIs(t, err, logo.ErrNoLogo)
}
