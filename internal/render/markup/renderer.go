// Package markup renders a render.Tree as a printable HTML page. Each render
// gets its own scope class so several documents can share one page.
package markup

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/factura/internal/render"
)

//go:embed templates/*.tmpl
var files embed.FS

var tmpl = template.Must(template.ParseFS(files, "templates/*.tmpl"))

type Options struct {
	// AutoPrint adds a script that opens the print dialog once the page loads.
	AutoPrint bool
	// NewInstance overrides the per-render class generator.
	NewInstance func() string
}

type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	if opts.NewInstance == nil {
		opts.NewInstance = newInstance
	}

	return &Renderer{opts: opts}
}

func newInstance() string {
	return "doc-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Fragment is one rendered document: its scoped style and its body.
type Fragment struct {
	Scope         string
	TemplateClass string
	Instance      string
	Style         template.CSS
	Body          template.HTML
}

// RenderFragment renders tree without the surrounding page.
func (r *Renderer) RenderFragment(tree *render.Tree) (*Fragment, error) {
	return r.fragment(tree, r.opts.NewInstance())
}

func (r *Renderer) fragment(tree *render.Tree, instance string) (*Fragment, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: nil tree", render.ErrRenderFailure)
	}

	data, err := viewOf(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrRenderFailure, err)
	}

	data.TemplateClass = TemplateClass(tree.TemplateID)
	data.Instance = instance

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "fragment", data); err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrRenderFailure, err)
	}

	scope := Scope(tree.TemplateID, instance)

	return &Fragment{
		Scope:         scope,
		TemplateClass: data.TemplateClass,
		Instance:      instance,
		Style:         template.CSS(CSS(scope, Style(tree.Tokens))),
		Body:          template.HTML(buf.String()),
	}, nil
}

// RenderPage renders every tree into a single standalone page.
func (r *Renderer) RenderPage(trees ...*render.Tree) ([]byte, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: nothing to render", render.ErrRenderFailure)
	}

	page := pageView{AutoPrint: r.opts.AutoPrint, Title: trees[0].Title}
	seen := make(map[string]bool, len(trees))

	for _, t := range trees {
		instance := r.opts.NewInstance()
		for seen[instance] {
			instance = newInstance()
		}

		seen[instance] = true

		f, err := r.fragment(t, instance)
		if err != nil {
			return nil, err
		}

		page.Fragments = append(page.Fragments, f)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "page", page); err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrRenderFailure, err)
	}

	return buf.Bytes(), nil
}

// Render writes a standalone page for tree to w. Nothing is written on failure.
func (r *Renderer) Render(tree *render.Tree, w io.Writer) error {
	b, err := r.RenderPage(tree)
	if err != nil {
		return err
	}

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

type pageView struct {
	Title     string
	AutoPrint bool
	Fragments []*Fragment
}

type fragmentView struct {
	TemplateClass string
	Instance      string
	Blocks        []blockView
}

// blockView has exactly one field set.
type blockView struct {
	Header    *headerView
	Parties   *render.PartyPairBlock
	Transport *render.TransportBlock
	Table     *tableView
	Totals    *render.TotalsBlock
	Notes     *render.NotesBlock
	Footer    *render.FooterBlock
}

type headerView struct {
	Title  string
	Number string
	Dates  []render.Field
	Logo   template.URL
	Badge  string
}

type columnView struct {
	Label string
	Style template.CSS
}

type cellView struct {
	Text  string
	Style template.CSS
}

type tableView struct {
	Columns []columnView
	Rows    [][]cellView
	Empty   string
}

func viewOf(tree *render.Tree) (fragmentView, error) {
	var v fragmentView

	for i, b := range tree.Blocks {
		switch b := b.(type) {
		case *render.HeaderBlock:
			v.Blocks = append(v.Blocks, blockView{Header: header(b)})
		case *render.PartyPairBlock:
			v.Blocks = append(v.Blocks, blockView{Parties: b})
		case *render.TransportBlock:
			v.Blocks = append(v.Blocks, blockView{Transport: b})
		case *render.TableBlock:
			v.Blocks = append(v.Blocks, blockView{Table: table(b)})
		case *render.TotalsBlock:
			v.Blocks = append(v.Blocks, blockView{Totals: b})
		case *render.NotesBlock:
			v.Blocks = append(v.Blocks, blockView{Notes: b})
		case *render.FooterBlock:
			v.Blocks = append(v.Blocks, blockView{Footer: b})
		default:
			return v, fmt.Errorf("block %d: unsupported type %T", i, b)
		}
	}

	return v, nil
}

func header(b *render.HeaderBlock) *headerView {
	h := &headerView{Title: b.Title, Number: b.Number, Dates: b.Dates, Badge: b.Badge}

	// only inline images; anything else is dropped rather than fetched
	if b.Logo != nil && strings.HasPrefix(b.Logo.DataURI, "data:image/") {
		h.Logo = template.URL(b.Logo.DataURI)
	}

	return h
}

func table(b *render.TableBlock) *tableView {
	t := &tableView{Empty: b.Empty}

	for _, c := range b.Columns {
		t.Columns = append(t.Columns, columnView{
			Label: c.Label,
			Style: template.CSS(fmt.Sprintf("width: %.0f%%; text-align: %s", c.Weight*100, c.Align)),
		})
	}

	for _, row := range b.Rows {
		cells := make([]cellView, len(row))

		for i, text := range row {
			align := render.AlignLeft
			if i < len(b.Columns) {
				align = b.Columns[i].Align
			}

			cells[i] = cellView{Text: text, Style: template.CSS("text-align: " + align.String())}
		}

		t.Rows = append(t.Rows, cells)
	}

	return t
}
