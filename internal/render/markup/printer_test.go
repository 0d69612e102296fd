package markup_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/factura/internal/render/markup"
)

type fakeSurface struct {
	err    error
	opened [][]byte
}

func (s *fakeSurface) Open(_ context.Context, page []byte) error {
	s.opened = append(s.opened, page)
	return s.err
}

func TestPrinter_Print(t *testing.T) {
	errBoom := errors.New("boom")

	type args struct {
		surfaceErr  error
		fallbackErr error
		noFallback  bool
	}

	type testCase struct {
		name         string
		args         args
		wantFallback int
		wantErr      error
	}

	tests := []testCase{
		{
			name: "SurfaceOpens",
		},
		{
			name:         "BlockedFallsBackToNativePrint",
			args:         args{surfaceErr: fmt.Errorf("wrapped: %w", markup.ErrPopupBlocked)},
			wantFallback: 1,
		},
		{
			name:         "FallbackFailureIsReported",
			args:         args{surfaceErr: markup.ErrPopupBlocked, fallbackErr: errBoom},
			wantFallback: 1,
			wantErr:      errBoom,
		},
		{
			name:    "BlockedWithoutFallback",
			args:    args{surfaceErr: markup.ErrPopupBlocked, noFallback: true},
			wantErr: markup.ErrPopupBlocked,
		},
		{
			name:    "OtherSurfaceErrorDoesNotFallBack",
			args:    args{surfaceErr: errBoom},
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := &fakeSurface{err: tt.args.surfaceErr}
			calls := 0

			var fallback markup.NativePrint
			if !tt.args.noFallback {
				fallback = func(context.Context) error {
					calls++
					return tt.args.fallbackErr
				}
			}

			err := markup.NewPrinter(surface, fallback, nil).Print(context.Background(), []byte("<html>"))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantFallback, calls)
			assert.Len(t, surface.opened, 1)
		})
	}
}

func TestFileSurface_Open(t *testing.T) {
	dir := t.TempDir()

	var seen string

	s := markup.FileSurface{
		Dir: dir,
		Opener: func(_ context.Context, path string) error {
			seen = path

			b, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "<html>page</html>", string(b))

			return nil
		},
	}

	require.NoError(t, s.Open(context.Background(), []byte("<html>page</html>")))
	require.NotEmpty(t, seen)

	_, err := os.Stat(seen)
	assert.True(t, os.IsNotExist(err), "page file should be removed")
}

func TestFileSurface_OpenerFailureIsPopupBlocked(t *testing.T) {
	s := markup.FileSurface{
		Dir:    t.TempDir(),
		Opener: func(context.Context, string) error { return errors.New("no display") },
	}

	err := s.Open(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, markup.ErrPopupBlocked)

	err = markup.FileSurface{Dir: t.TempDir()}.Open(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, markup.ErrPopupBlocked)
}
