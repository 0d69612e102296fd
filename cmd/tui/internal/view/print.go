package view

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/MrJamesThe3rd/factura/internal/render"
	"github.com/MrJamesThe3rd/factura/internal/render/markup"
	"github.com/MrJamesThe3rd/factura/internal/render/pdf"
)

// browserGrace keeps the temporary page on disk while the browser loads it.
const browserGrace = 3 * time.Second

// Printer sends documents to the desktop: a self-printing page in the
// browser, or a self-printing PDF on the default printer when no browser
// can be launched.
type Printer struct {
	page *markup.Renderer
	pdf  *pdf.Renderer
}

func NewPrinter() *Printer {
	return &Printer{
		page: markup.New(markup.Options{AutoPrint: true}),
		pdf:  pdf.New(pdf.Options{AutoPrint: true}),
	}
}

func (p *Printer) Print(ctx context.Context, tree *render.Tree) error {
	page, err := p.page.RenderPage(tree)
	if err != nil {
		return err
	}

	native := func(ctx context.Context) error {
		return p.printPDF(ctx, tree)
	}

	return markup.NewPrinter(markup.FileSurface{Opener: openInBrowser}, native, nil).Print(ctx, page)
}

func (p *Printer) printPDF(ctx context.Context, tree *render.Tree) error {
	b, err := p.pdf.Bytes(tree)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "factura-*.pdf")
	if err != nil {
		return fmt.Errorf("creating print file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("writing print file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("writing print file: %w", err)
	}

	if out, err := exec.CommandContext(ctx, "lp", f.Name()).CombinedOutput(); err != nil {
		return fmt.Errorf("lp: %w: %s", err, out)
	}

	return nil
}

func openInBrowser(ctx context.Context, path string) error {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}

	cmd := exec.Command(name, path)
	if err := cmd.Start(); err != nil {
		return err
	}

	go cmd.Wait() //nolint:errcheck

	select {
	case <-time.After(browserGrace):
	case <-ctx.Done():
	}

	return nil
}
