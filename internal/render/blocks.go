// Package render turns a document into an ordered tree of typed blocks that
// both backends draw. Labels, number formats and block order live here only.
package render

import (
	"github.com/MrJamesThe3rd/factura/internal/document"
	"github.com/MrJamesThe3rd/factura/internal/templates"
)

// Tree is a render-ready snapshot. It shares nothing with the source document.
type Tree struct {
	Kind       document.Kind
	TemplateID string
	Tokens     templates.TokenSet
	Title      string
	Blocks     []Block
}

// Block is one of the *Block types below.
type Block interface {
	block()
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}

	return "left"
}

type Field struct {
	Label string
	Value string
}

// Image is a logo ready to draw. DataURI is kept verbatim; backends decode it.
type Image struct {
	DataURI string
	Width   int
	Height  int
}

type HeaderBlock struct {
	Title  string
	Number string
	Dates  []Field
	Logo   *Image
	Badge  string
}

type PartyColumn struct {
	Label string
	Name  string
	Lines []string
}

type PartyPairBlock struct {
	Left  PartyColumn
	Right PartyColumn
}

type TransportBlock struct {
	Label  string
	Fields []Field
}

type Column struct {
	Label string
	Align Align
	// Weight is the share of the content width, all weights sum to 1.
	Weight float64
}

type TableBlock struct {
	Columns []Column
	Rows    [][]string
	Empty   string
}

type TotalsLine struct {
	Label string
	Value string
	Grand bool
}

type TotalsBlock struct {
	Lines []TotalsLine
}

type NoteSection struct {
	Label string
	Text  string
}

type NotesBlock struct {
	Sections []NoteSection
}

type FooterBlock struct {
	Attribution string
	PageLabel   string
}

func (*HeaderBlock) block()    {}
func (*PartyPairBlock) block() {}
func (*TransportBlock) block() {}
func (*TableBlock) block()     {}
func (*TotalsBlock) block()    {}
func (*NotesBlock) block()     {}
func (*FooterBlock) block()    {}

// Footer returns the footer block. Every tree built by Build has one.
func (t *Tree) Footer() *FooterBlock {
	for _, b := range t.Blocks {
		if f, ok := b.(*FooterBlock); ok {
			return f
		}
	}

	return &FooterBlock{}
}
