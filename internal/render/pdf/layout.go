package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/MrJamesThe3rd/factura/internal/logo"
	"github.com/MrJamesThe3rd/factura/internal/render"
	"github.com/MrJamesThe3rd/factura/internal/templates"
)

const (
	headerH   = 42.0
	lineH     = 5.0
	cellPad   = 2.0
	rowPad    = 3.0
	stripH    = 7.0
	logoBox   = 30.0
	totalsW   = 80.0
	totalsRow = 7.0
)

// region names an element placed by the running cursor.
type region int

const (
	regionTableHeader region = iota
	regionTableRow
	regionTransportLabel
	regionNoteLine
)

// placement is where a flowed element landed.
type placement struct {
	region region
	page   int
	y      float64
}

type composer struct {
	f      *gofpdf.Fpdf
	tr     func(string) string
	tree   *render.Tree
	tokens templates.TokenSet
	log    *slog.Logger

	afterTransport bool
	placed         []placement
}

func newComposer(tree *render.Tree, log *slog.Logger) *composer {
	f := newPDF(tree)

	c := &composer{
		f:      f,
		tr:     f.UnicodeTranslatorFromDescriptor(""),
		tree:   tree,
		tokens: tree.Tokens,
		log:    log,
	}

	footer := tree.Footer()
	f.SetFooterFunc(func() { c.drawFooter(footer) })

	return c
}

func (c *composer) run() error {
	c.f.AddPage()

	y := margin

	for _, b := range c.tree.Blocks {
		switch blk := b.(type) {
		case *render.HeaderBlock:
			y = c.drawHeader(blk)
		case *render.PartyPairBlock:
			y = c.drawParties(blk, y)
		case *render.TransportBlock:
			y = c.drawTransport(blk, y)
		case *render.TableBlock:
			y = c.drawTable(blk, y)
		case *render.TotalsBlock:
			y = c.drawTotals(blk, y)
		case *render.NotesBlock:
			y = c.drawNotes(blk, y)
		case *render.FooterBlock:
			// drawn by the footer func on every page
		default:
			return fmt.Errorf("unsupported block %T", b)
		}

		if c.f.Err() {
			return c.f.Error()
		}
	}

	return nil
}

func (c *composer) newPage() float64 {
	c.f.AddPage()
	return margin
}

// ensure starts a new page when h does not fit above the footer.
func (c *composer) ensure(y, h float64) float64 {
	if y+h > footerTop {
		return c.newPage()
	}

	return y
}

func (c *composer) place(r region, y float64) {
	c.placed = append(c.placed, placement{region: r, page: c.f.PageNo(), y: y})
}

// placements returns the recorded positions of r in drawing order.
func (c *composer) placements(r region) []placement {
	var out []placement

	for _, p := range c.placed {
		if p.region == r {
			out = append(out, p)
		}
	}

	return out
}

func (c *composer) fill(hex string) {
	r, g, b := rgb(hex)
	c.f.SetFillColor(r, g, b)
}

func (c *composer) draw(hex string) {
	r, g, b := rgb(hex)
	c.f.SetDrawColor(r, g, b)
}

func (c *composer) text(hex string) {
	r, g, b := rgb(hex)
	c.f.SetTextColor(r, g, b)
}

func (c *composer) cell(x, y, w, h float64, s string, align render.Align, fill bool) {
	c.f.SetXY(x, y)
	c.f.CellFormat(w, h, c.tr(s), "", 0, alignStr(align)+"M", fill, 0, "")
}

func (c *composer) split(s string, w float64) []string {
	var out []string

	for _, para := range strings.Split(s, "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}

		for _, l := range c.f.SplitLines([]byte(c.tr(para)), w) {
			out = append(out, string(l))
		}
	}

	return out
}

func (c *composer) drawHeader(h *render.HeaderBlock) float64 {
	hg := c.tokens.HeaderGradient
	r1, g1, b1 := rgb(hg.From)
	r2, g2, b2 := rgb(hg.To)
	x1, y1, x2, y2 := gradientVector(hg.Angle)
	c.f.LinearGradient(0, 0, pageW, headerH, r1, g1, b1, r2, g2, b2, x1, y1, x2, y2)

	fg := c.tokens.HeaderForeground()

	if h.Logo != nil {
		c.drawLogo(h.Logo)
	}

	c.text(fg)
	c.f.SetFont("Helvetica", "B", 22)
	c.cell(margin, 8, contentW, 10, h.Title, render.AlignRight, false)

	c.f.SetFont("Helvetica", "", 11)
	c.cell(margin, 18, contentW, 6, h.Number, render.AlignRight, false)

	c.f.SetFont("Helvetica", "", 9)

	y := 24.0
	for _, d := range h.Dates {
		c.cell(margin, y, contentW, 4.5, d.Label+" : "+d.Value, render.AlignRight, false)
		y += 4.5
	}

	y = headerH + 6

	if h.Badge != "" {
		c.f.SetFont("Helvetica", "B", 9)
		w := c.f.GetStringWidth(c.tr(h.Badge)) + 2*cellPad + 2
		c.fill(c.tokens.Accent)
		c.draw(c.tokens.Secondary)
		c.f.SetLineWidth(0.3)
		c.f.Rect(pageW-margin-w, y-3, w, 6, "FD")
		c.text(c.tokens.Secondary)
		c.cell(pageW-margin-w, y-3, w, 6, h.Badge, render.AlignCenter, false)
		y += 6
	}

	return y
}

// drawLogo places the logo in the header. Undecodable data is skipped.
func (c *composer) drawLogo(img *render.Image) {
	raw, err := (&logo.Asset{ImageData: img.DataURI}).Bytes()
	if err != nil {
		c.log.Warn("omitting logo", "error", err)
		return
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		c.log.Warn("omitting undecodable logo", "error", err)
		return
	}

	info := c.f.RegisterImageOptionsReader("logo", gofpdf.ImageOptions{ImageType: imageType(format)}, bytes.NewReader(raw))
	if c.f.Err() || info == nil {
		c.log.Warn("omitting logo", "error", c.f.Error())
		c.f.ClearError()

		return
	}

	w, h := fitBox(float64(cfg.Width), float64(cfg.Height), logoBox, logoBox)
	c.f.ImageOptions("logo", margin, (headerH-h)/2, w, h, false, gofpdf.ImageOptions{ImageType: imageType(format)}, 0, "")
}

func (c *composer) drawStrip(x, y, w float64, label string) {
	c.fill(c.tokens.Accent)
	c.f.Rect(x, y, w, stripH, "F")
	c.fill(c.tokens.Primary)
	c.f.Rect(x, y, 1.2, stripH, "F")

	c.text(c.tokens.Primary)
	c.f.SetFont("Helvetica", "B", 9)
	c.cell(x+cellPad+1, y, w-cellPad-1, stripH, strings.ToUpper(label), render.AlignLeft, false)
}

func (c *composer) drawParties(p *render.PartyPairBlock, y float64) float64 {
	colW := (contentW - 10) / 2

	left := c.drawPartyColumn(p.Left, margin, y, colW)
	right := c.drawPartyColumn(p.Right, margin+colW+10, y, colW)

	return math.Max(left, right) + 6
}

func (c *composer) drawPartyColumn(col render.PartyColumn, x, y, w float64) float64 {
	c.drawStrip(x, y, w, col.Label)
	y += stripH + 2

	c.text(c.tokens.Text)

	if col.Name != "" {
		c.f.SetFont("Helvetica", "B", 11)
		c.cell(x, y, w, 6, col.Name, render.AlignLeft, false)
		y += 6
	}

	c.f.SetFont("Helvetica", "", 9.5)

	for _, l := range col.Lines {
		for _, s := range c.split(l, w) {
			c.f.SetXY(x, y)
			c.f.CellFormat(w, lineH, s, "", 0, "LM", false, 0, "")
			y += lineH
		}
	}

	return y
}

func (c *composer) drawTransport(t *render.TransportBlock, y float64) float64 {
	c.afterTransport = true

	y = c.ensure(y, stripH+2+float64(len(t.Fields))*lineH)
	c.drawStrip(margin, y, contentW, t.Label)
	y += stripH + 2

	c.text(c.tokens.Text)

	const labelW = 50.0

	for _, fld := range t.Fields {
		y = c.ensure(y, lineH)
		c.place(regionTransportLabel, y)

		c.f.SetFont("Helvetica", "B", 9.5)
		c.cell(margin, y, labelW, lineH, fld.Label, render.AlignLeft, false)

		c.f.SetFont("Helvetica", "", 9.5)

		for i, s := range c.split(fld.Value, contentW-labelW) {
			if i > 0 {
				y = c.ensure(y, lineH)
			}

			c.f.SetXY(margin+labelW, y)
			c.f.CellFormat(contentW-labelW, lineH, s, "", 0, "LM", false, 0, "")
			y += lineH
		}
	}

	return y + 6
}

func (c *composer) drawTableHeader(t *render.TableBlock, y float64) float64 {
	c.place(regionTableHeader, y)

	c.fill(c.tokens.Primary)
	c.text("#ffffff")
	c.f.SetFont("Helvetica", "B", 9.5)

	x := margin
	for _, col := range t.Columns {
		w := col.Weight * contentW
		c.f.Rect(x, y, w, 8, "F")
		c.cell(x+cellPad, y, w-2*cellPad, 8, col.Label, col.Align, false)
		x += w
	}

	return y + 8
}

func (c *composer) drawTable(t *render.TableBlock, y float64) float64 {
	y = c.ensure(y, 8+lineH+rowPad)
	y = c.drawTableHeader(t, y)

	c.f.SetFont("Helvetica", "", 9.5)

	if len(t.Rows) == 0 {
		c.text(c.tokens.Secondary)
		c.f.SetFont("Helvetica", "I", 9.5)
		c.cell(margin, y, contentW, lineH+rowPad*2, t.Empty, render.AlignCenter, false)

		return y + lineH + rowPad*2 + 6
	}

	for i, row := range t.Rows {
		c.f.SetFont("Helvetica", "", 9.5)

		cells := make([][]string, len(t.Columns))
		lines := 1

		for j, col := range t.Columns {
			if j >= len(row) {
				continue
			}

			cells[j] = c.split(row[j], col.Weight*contentW-2*cellPad)
			lines = max(lines, len(cells[j]))
		}

		rowH := float64(lines)*lineH + rowPad

		if y+rowH > footerTop {
			y = c.newPage()
			y = c.drawTableHeader(t, y)
			c.f.SetFont("Helvetica", "", 9.5)
		}

		c.place(regionTableRow, y)

		if i%2 == 1 {
			c.fill(c.tokens.Accent)
			c.f.Rect(margin, y, contentW, rowH, "F")
		}

		c.text(c.tokens.Text)

		x := margin
		for j, col := range t.Columns {
			w := col.Weight * contentW

			for k, s := range cells[j] {
				c.f.SetXY(x+cellPad, y+rowPad/2+float64(k)*lineH)
				c.f.CellFormat(w-2*cellPad, lineH, s, "", 0, alignStr(col.Align)+"M", false, 0, "")
			}

			x += w
		}

		y += rowH
	}

	c.draw(c.tokens.Border)
	c.f.SetLineWidth(0.3)
	c.f.Line(margin, y, margin+contentW, y)

	return y + 6
}

func (c *composer) drawTotals(t *render.TotalsBlock, y float64) float64 {
	panelH := float64(len(t.Lines))*totalsRow + 4
	y = c.ensure(y, panelH)

	x := pageW - margin - totalsW

	c.fill(c.tokens.Accent)
	c.f.Rect(x, y, totalsW, panelH, "F")

	ly := y + 2

	for _, l := range t.Lines {
		if l.Grand {
			c.draw(c.tokens.Primary)
			c.f.SetLineWidth(0.5)
			c.f.Line(x+cellPad, ly, x+totalsW-cellPad, ly)

			c.text(c.tokens.Primary)
			c.f.SetFont("Helvetica", "B", 11)
		} else {
			c.text(c.tokens.Text)
			c.f.SetFont("Helvetica", "", 9.5)
		}

		c.cell(x+cellPad, ly, totalsW/2, totalsRow, l.Label, render.AlignLeft, false)
		c.cell(x+totalsW/2, ly, totalsW/2-cellPad, totalsRow, l.Value, render.AlignRight, false)
		ly += totalsRow
	}

	return y + panelH + 8
}

// drawNotes starts on a fresh page when too little room is left, and wraps
// line by line onto following pages without entering the footer zone.
func (c *composer) drawNotes(n *render.NotesBlock, y float64) float64 {
	reserve := notesReserve
	if c.afterTransport {
		reserve = notesReserveTransport
	}

	if footerTop-y < reserve {
		y = c.newPage()
	}

	for i, sec := range n.Sections {
		if i > 0 {
			y += 4
		}

		y = c.ensure(y, 6+lineH)

		c.text(c.tokens.Primary)
		c.f.SetFont("Helvetica", "B", 10)
		c.cell(margin, y, contentW, 6, sec.Label, render.AlignLeft, false)
		y += 6

		c.text(c.tokens.Text)
		c.f.SetFont("Helvetica", "", 9.5)

		for _, s := range c.split(sec.Text, contentW) {
			y = c.ensure(y, lineH)

			c.f.SetXY(margin, y)
			c.f.CellFormat(contentW, lineH, s, "", 0, "LM", false, 0, "")
			c.place(regionNoteLine, y)

			y += lineH
		}
	}

	return y
}

func (c *composer) drawFooter(f *render.FooterBlock) {
	y := pageH - 14

	c.draw(c.tokens.Border)
	c.f.SetLineWidth(0.3)
	c.f.Line(margin, y, pageW-margin, y)

	c.text(c.tokens.Secondary)
	c.f.SetFont("Helvetica", "", 8)
	c.cell(margin, y+1, contentW/2, 6, f.Attribution, render.AlignLeft, false)

	c.f.SetXY(pageW/2, y+1)
	c.f.CellFormat(contentW/2, 6, fmt.Sprintf("%s %d/{nb}", c.tr(f.PageLabel), c.f.PageNo()), "", 0, "RM", false, 0, "")
}

func alignStr(a render.Align) string {
	switch a {
	case render.AlignCenter:
		return "C"
	case render.AlignRight:
		return "R"
	}

	return "L"
}

func imageType(format string) string {
	switch format {
	case "png":
		return "PNG"
	case "gif":
		return "GIF"
	}

	return "JPG"
}

// fitBox scales (w, h) to fit a box without upscaling.
func fitBox(w, h, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return boxW, boxH
	}

	// pixels to mm at 96 dpi
	w, h = w*25.4/96, h*25.4/96

	scale := math.Min(1, math.Min(boxW/w, boxH/h))

	return w * scale, h * scale
}
