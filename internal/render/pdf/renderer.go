// Package pdf draws a render.Tree as a paginated A4 document with gofpdf.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/jung-kurt/gofpdf"

	"github.com/MrJamesThe3rd/factura/internal/render"
)

const (
	pageW  = 210.0
	pageH  = 297.0
	margin = 15.0

	contentW = pageW - 2*margin

	// footerTop is the first ordinate reserved for the footer.
	footerTop = pageH - 20.0

	notesReserve          = 60.0
	notesReserveTransport = 80.0
)

type Options struct {
	// AutoPrint embeds a print action that runs when the file is opened.
	AutoPrint bool
	Logger    *slog.Logger
}

type Renderer struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options) *Renderer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Renderer{opts: opts, log: log}
}

// Render writes the PDF to w. Nothing is written unless the whole document
// was produced; every failure wraps render.ErrRenderFailure.
func (r *Renderer) Render(tree *render.Tree, w io.Writer) error {
	b, err := r.Bytes(tree)
	if err != nil {
		return err
	}

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}

	return nil
}

func (r *Renderer) Bytes(tree *render.Tree) ([]byte, error) {
	c, err := r.compose(tree)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.f.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrRenderFailure, err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) compose(tree *render.Tree) (c *composer, err error) {
	defer func() {
		if p := recover(); p != nil {
			c = nil
			err = fmt.Errorf("%w: %v", render.ErrRenderFailure, p)
		}
	}()

	if tree == nil {
		return nil, fmt.Errorf("%w: nil tree", render.ErrRenderFailure)
	}

	c = newComposer(tree, r.log)

	if r.opts.AutoPrint {
		c.f.SetJavascript("print(true);")
	}

	if err := c.run(); err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrRenderFailure, err)
	}

	if c.f.Err() {
		return nil, fmt.Errorf("%w: %v", render.ErrRenderFailure, c.f.Error())
	}

	return c, nil
}

func newPDF(tree *render.Tree) *gofpdf.Fpdf {
	f := gofpdf.New("P", "mm", "A4", "")
	f.SetMargins(margin, margin, margin)
	f.SetAutoPageBreak(false, 0)
	f.AliasNbPages("{nb}")
	f.SetTitle(tree.Title, true)
	f.SetCreator("Factura", true)

	return f
}
