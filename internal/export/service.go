package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/logo"
	"github.com/MrJamesThe3rd/factura/internal/render"
)

// Item represents a single exported document with its local file path.
type Item struct {
	Document *document.Document
	FilePath string
}

type Documents interface {
	List(ctx context.Context, filter document.ListFilter) ([]*document.Document, error)
}

type Logos interface {
	Find(ctx context.Context, userID string) (*logo.Asset, error)
}

// Renderer produces a finished artifact from a tree.
type Renderer interface {
	Bytes(tree *render.Tree) ([]byte, error)
}

// Service renders stored documents to PDF files.
type Service struct {
	documents Documents
	logos     Logos
	defaults  document.DefaultsProvider
	renderer  Renderer
	opts      render.Options
}

// NewService wires the export pipeline. defaults may be nil, in which case
// opts.Currency is used for every user.
func NewService(
	documents Documents,
	logos Logos,
	defaults document.DefaultsProvider,
	renderer Renderer,
	opts render.Options,
) *Service {
	return &Service{
		documents: documents,
		logos:     logos,
		defaults:  defaults,
		renderer:  renderer,
		opts:      opts,
	}
}

var filenamePrefixes = map[document.Kind]string{
	document.KindInvoice:       "facture",
	document.KindPurchaseOrder: "bon-de-commande",
	document.KindDeliveryNote:  "bon-de-livraison",
}

// Filename returns the download name of a document, e.g. facture-FAC-000123.pdf.
func Filename(doc *document.Document) string {
	prefix, ok := filenamePrefixes[doc.Kind]
	if !ok {
		prefix = "document"
	}

	number := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, doc.Number)

	return fmt.Sprintf("%s-%s.pdf", prefix, number)
}

// Tree builds the render tree of doc with its owner's logo.
func (s *Service) Tree(ctx context.Context, doc *document.Document, templateID string) (*render.Tree, error) {
	asset, err := s.logos.Find(ctx, doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading logo: %w", err)
	}

	opts := s.opts

	if s.defaults != nil {
		d, err := s.defaults.Resolve(ctx, doc.UserID)
		if err != nil {
			return nil, fmt.Errorf("resolving defaults: %w", err)
		}

		if d.Currency != "" {
			opts.Currency = d.Currency
		}
	}

	return render.Build(doc, templateID, asset, opts)
}

// Render produces the PDF of a single document. An empty templateID uses the
// document's own template.
func (s *Service) Render(ctx context.Context, doc *document.Document, templateID string) ([]byte, error) {
	tree, err := s.Tree(ctx, doc, templateID)
	if err != nil {
		return nil, err
	}

	return s.renderer.Bytes(tree)
}

// Export renders every document matching the filter into outputDir.
// It returns a list of items linking documents to their files.
func (s *Service) Export(ctx context.Context, filter document.ListFilter, templateID, outputDir string) ([]Item, error) {
	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(docs))

	for _, doc := range docs {
		b, err := s.Render(ctx, doc, templateID)
		if err != nil {
			return nil, fmt.Errorf("rendering document %s: %w", doc.Number, err)
		}

		path := filepath.Join(outputDir, Filename(doc))
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return nil, fmt.Errorf("writing file: %w", err)
		}

		items = append(items, Item{Document: doc, FilePath: path})
	}

	return items, nil
}

// Archive writes a zip of every matching document to w and returns how many
// documents it holds. Documents are rendered before anything is written.
func (s *Service) Archive(ctx context.Context, filter document.ListFilter, templateID string, w io.Writer) (int, error) {
	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing documents: %w", err)
	}

	files := make([][]byte, len(docs))

	for i, doc := range docs {
		if files[i], err = s.Render(ctx, doc, templateID); err != nil {
			return 0, fmt.Errorf("rendering document %s: %w", doc.Number, err)
		}
	}

	zw := zip.NewWriter(w)

	for i, doc := range docs {
		f, err := zw.Create(Filename(doc))
		if err != nil {
			return 0, fmt.Errorf("adding %s: %w", doc.Number, err)
		}

		if _, err := f.Write(files[i]); err != nil {
			return 0, fmt.Errorf("adding %s: %w", doc.Number, err)
		}
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("closing archive: %w", err)
	}

	return len(docs), nil
}

// GenerateSummary creates a plain-text listing of the exported items.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	currency := s.opts.Currency
	if currency == "" {
		currency = render.DefaultCurrency
	}

	for _, item := range items {
		doc := item.Document

		amount := fmt.Sprintf("%d article(s)", len(doc.DeliveryItems))
		if doc.Kind.Priced() {
			fresh := doc.Clone()
			fresh.Recalculate()
			amount = render.Money(fresh.Total, currency)
		}

		file := "Non généré"
		if item.FilePath != "" {
			file = filepath.Base(item.FilePath)
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s | %s\n",
			render.Date(doc.Date), doc.Number, doc.Counterparty.Name, amount, file)
	}

	return sb.String()
}
