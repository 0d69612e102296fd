package logo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultBudget    = 200_000
	DefaultMaxRaw    = 10 << 20
	DefaultMaxPixels = 50_000_000
)

// Options bound the (dimension × quality) search. Passes are tried in order,
// and within a pass every quality is tried in order.
type Options struct {
	Budget    int
	MaxRaw    int
	MaxPixels int
	Passes    []image.Point
	Qualities []int
}

func DefaultOptions() Options {
	return Options{
		Budget:    DefaultBudget,
		MaxRaw:    DefaultMaxRaw,
		MaxPixels: DefaultMaxPixels,
		Passes:    []image.Point{{X: 200, Y: 200}, {X: 150, Y: 150}},
		Qualities: []int{70, 50, 30, 20, 10},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()

	if o.Budget <= 0 {
		o.Budget = d.Budget
	}

	if o.MaxRaw <= 0 {
		o.MaxRaw = d.MaxRaw
	}

	if o.MaxPixels <= 0 {
		o.MaxPixels = d.MaxPixels
	}

	if len(o.Passes) == 0 {
		o.Passes = d.Passes
	}

	if len(o.Qualities) == 0 {
		o.Qualities = d.Qualities
	}

	return o
}

// Ingest decodes raw, then searches for the first JPEG encoding whose data URI
// is strictly shorter than the budget.
func Ingest(name string, raw []byte, opts Options) (*Asset, error) {
	opts = opts.withDefaults()

	if len(raw) > opts.MaxRaw {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(raw), opts.MaxRaw)
	}

	mt := mimetype.Detect(raw)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	// bound the canvas before allocating it
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedType, mt.String(), err)
	}

	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > int64(opts.MaxPixels) {
		return nil, fmt.Errorf("%w: %dx%d px (max %d px)", ErrTooLarge, cfg.Width, cfg.Height, opts.MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedType, mt.String(), err)
	}

	var buf bytes.Buffer

	for _, limit := range opts.Passes {
		scaled := fit(src, limit)

		for _, q := range opts.Qualities {
			buf.Reset()

			if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: q}); err != nil {
				return nil, fmt.Errorf("encoding jpeg: %w", err)
			}

			uri := dataURI("image/jpeg", buf.Bytes())
			if len(uri) >= opts.Budget {
				continue
			}

			size := scaled.Bounds().Size()

			return &Asset{
				ImageData: uri,
				Info: Info{
					Name:               name,
					OriginalSize:       len(raw),
					CompressedSize:     len(uri),
					CompressionQuality: float64(q) / 100,
					MimeType:           "image/jpeg",
					SourceMimeType:     mt.String(),
					UploadDate:         time.Now().UTC(),
					Width:              size.X,
					Height:             size.Y,
				},
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: budget %d bytes", ErrCompressionExhausted, opts.Budget)
}

// TargetSize scales (w, h) uniformly to fit within limit. It never upscales.
func TargetSize(w, h int, limit image.Point) image.Point {
	if w <= limit.X && h <= limit.Y {
		return image.Pt(w, h)
	}

	scale := min(float64(limit.X)/float64(w), float64(limit.Y)/float64(h))

	return image.Pt(
		max(1, int(float64(w)*scale+0.5)),
		max(1, int(float64(h)*scale+0.5)),
	)
}

// fit resamples src into an opaque RGBA canvas. Transparent pixels end up white.
func fit(src image.Image, limit image.Point) *image.RGBA {
	b := src.Bounds()
	size := TargetSize(b.Dx(), b.Dy(), limit)

	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if size == b.Size() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
		return dst
	}

	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	return dst
}
