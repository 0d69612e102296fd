package markup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrPopupBlocked reports that no print surface could be opened.
var ErrPopupBlocked = errors.New("print surface could not be opened")

// Surface displays a page and triggers its print dialog.
type Surface interface {
	Open(ctx context.Context, page []byte) error
}

// NativePrint prints whatever the host currently shows.
type NativePrint func(ctx context.Context) error

type Printer struct {
	surface  Surface
	fallback NativePrint
	log      *slog.Logger
}

func NewPrinter(surface Surface, fallback NativePrint, log *slog.Logger) *Printer {
	if log == nil {
		log = slog.Default()
	}

	return &Printer{surface: surface, fallback: fallback, log: log}
}

// Print opens page on the surface. When the surface is blocked it falls back
// to native printing; any other surface error is returned as is.
func (p *Printer) Print(ctx context.Context, page []byte) error {
	err := p.surface.Open(ctx, page)
	if err == nil {
		return nil
	}

	if !errors.Is(err, ErrPopupBlocked) {
		return fmt.Errorf("opening print surface: %w", err)
	}

	if p.fallback == nil {
		return err
	}

	p.log.Warn("print surface blocked, using native print", "error", err)

	if err := p.fallback(ctx); err != nil {
		return fmt.Errorf("native print: %w", err)
	}

	return nil
}

// FileSurface writes the page to a temporary file and hands its path to Opener,
// typically a browser launcher. The file is removed once Opener returns.
type FileSurface struct {
	Dir    string
	Opener func(ctx context.Context, path string) error
}

func (s FileSurface) Open(ctx context.Context, page []byte) error {
	f, err := os.CreateTemp(s.Dir, "factura-*.html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}

	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(page); err != nil {
		f.Close()
		return fmt.Errorf("writing print page: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("writing print page: %w", err)
	}

	if s.Opener == nil {
		return fmt.Errorf("%w: no opener", ErrPopupBlocked)
	}

	if err := s.Opener(ctx, filepath.Clean(path)); err != nil {
		return fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}

	return nil
}
