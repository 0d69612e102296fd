package logo_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/factura/internal/logo"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func solid(w, h int, c color.Gray) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = c.Y
	}

	return img
}

func noise(w, h int) *image.RGBA {
	r := rand.New(rand.NewPCG(1, 2))
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i := range img.Pix {
		img.Pix[i] = uint8(r.IntN(256))
	}

	return img
}

// pngHeader is a PNG carrying only its IHDR chunk: it declares w x h grayscale
// pixels without any image data.
func pngHeader(w, h uint32) []byte {
	var chunk bytes.Buffer
	chunk.WriteString("IHDR")
	_ = binary.Write(&chunk, binary.BigEndian, w)
	_ = binary.Write(&chunk, binary.BigEndian, h)
	chunk.Write([]byte{8, 0, 0, 0, 0})

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(chunk.Len()-4))
	buf.Write(chunk.Bytes())
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk.Bytes()))

	return buf.Bytes()
}

func TestIngest(t *testing.T) {
	type args struct {
		raw  func(t *testing.T) []byte
		opts logo.Options
	}

	type testCase struct {
		name    string
		args    args
		wantErr error
		check   func(t *testing.T, a *logo.Asset)
	}

	tests := []testCase{
		{
			name: "SmallImageKeepsSizeAndFirstQuality",
			args: args{
				raw: func(t *testing.T) []byte { return encodePNG(t, solid(64, 32, color.Gray{Y: 80})) },
			},
			check: func(t *testing.T, a *logo.Asset) {
				assert.Equal(t, 0.7, a.Info.CompressionQuality)
				assert.Equal(t, 64, a.Info.Width)
				assert.Equal(t, 32, a.Info.Height)
				assert.Equal(t, "image/jpeg", a.Info.MimeType)
				assert.Equal(t, "image/png", a.Info.SourceMimeType)
			},
		},
		{
			name: "HugeSolidImageFitsFirstPass",
			args: args{
				raw: func(t *testing.T) []byte { return encodePNG(t, solid(5000, 5000, color.Gray{Y: 200})) },
			},
			check: func(t *testing.T, a *logo.Asset) {
				assert.Equal(t, 200, a.Info.Width)
				assert.Equal(t, 200, a.Info.Height)
				assert.Equal(t, 0.7, a.Info.CompressionQuality)
			},
		},
		{
			name: "AspectRatioPreserved",
			args: args{
				raw: func(t *testing.T) []byte { return encodePNG(t, solid(1000, 500, color.Gray{Y: 10})) },
			},
			check: func(t *testing.T, a *logo.Asset) {
				assert.Equal(t, 200, a.Info.Width)
				assert.Equal(t, 100, a.Info.Height)
			},
		},
		{
			name: "NotAnImage",
			args: args{
				raw: func(*testing.T) []byte { return []byte("just some plain text, not pixels") },
			},
			wantErr: logo.ErrUnsupportedType,
		},
		{
			name: "CorruptImage",
			args: args{
				raw: func(*testing.T) []byte { return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xff}, 64)...) },
			},
			wantErr: logo.ErrUnsupportedType,
		},
		{
			name: "TooLarge",
			args: args{
				raw:  func(*testing.T) []byte { return make([]byte, 2048) },
				opts: logo.Options{MaxRaw: 1024},
			},
			wantErr: logo.ErrTooLarge,
		},
		{
			name: "DeclaredDimensionsBeyondPixelCap",
			args: args{
				raw: func(*testing.T) []byte { return pngHeader(16000, 16000) },
			},
			wantErr: logo.ErrTooLarge,
		},
		{
			name: "PixelCapFromOptions",
			args: args{
				raw:  func(t *testing.T) []byte { return encodePNG(t, solid(64, 32, color.Gray{Y: 80})) },
				opts: logo.Options{MaxPixels: 1000},
			},
			wantErr: logo.ErrTooLarge,
		},
		{
			name: "HighEntropyExhaustsSearch",
			args: args{
				raw:  func(t *testing.T) []byte { return encodePNG(t, noise(400, 400)) },
				opts: logo.Options{Budget: 500},
			},
			wantErr: logo.ErrCompressionExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.args.raw(t)
			got, err := logo.Ingest("logo.png", raw, tt.args.opts)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Less(t, got.Info.CompressedSize, logo.DefaultBudget)
			assert.Equal(t, len(got.ImageData), got.Info.CompressedSize)
			assert.Equal(t, len(raw), got.Info.OriginalSize)
			assert.Equal(t, "logo.png", got.Info.Name)
			assert.Contains(t, got.ImageData, "data:image/jpeg;base64,")
			tt.check(t, got)
		})
	}
}

func TestIngest_SecondPassUsedWhenFirstExhausted(t *testing.T) {
	raw := encodePNG(t, noise(400, 400))

	first, err := logo.Ingest("n.png", raw, logo.Options{Passes: []image.Point{{X: 200, Y: 200}}, Qualities: []int{10}})
	require.NoError(t, err)

	opts := logo.Options{
		Budget:    first.Info.CompressedSize,
		Passes:    []image.Point{{X: 200, Y: 200}, {X: 150, Y: 150}},
		Qualities: []int{10},
	}

	got, err := logo.Ingest("n.png", raw, opts)
	require.NoError(t, err)
	assert.Equal(t, 150, got.Info.Width)
	assert.Less(t, got.Info.CompressedSize, opts.Budget)
}

func TestIngest_Deterministic(t *testing.T) {
	raw := encodePNG(t, noise(300, 120))

	a, err := logo.Ingest("x", raw, logo.Options{})
	require.NoError(t, err)

	b, err := logo.Ingest("x", raw, logo.Options{})
	require.NoError(t, err)

	assert.Equal(t, a.ImageData, b.ImageData)
	assert.Equal(t, a.Info.CompressionQuality, b.Info.CompressionQuality)
}

func TestIngest_TransparencyFlattenedToWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	raw := encodePNG(t, img)

	got, err := logo.Ingest("clear.png", raw, logo.Options{})
	require.NoError(t, err)

	b, err := got.Bytes()
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(b))
	require.NoError(t, err)

	r, g, bl, _ := decoded.At(10, 10).RGBA()
	assert.GreaterOrEqual(t, r>>8, uint32(250))
	assert.GreaterOrEqual(t, g>>8, uint32(250))
	assert.GreaterOrEqual(t, bl>>8, uint32(250))
}

func TestTargetSize(t *testing.T) {
	limit := image.Pt(200, 200)

	assert.Equal(t, image.Pt(50, 40), logo.TargetSize(50, 40, limit))
	assert.Equal(t, image.Pt(200, 200), logo.TargetSize(5000, 5000, limit))
	assert.Equal(t, image.Pt(200, 50), logo.TargetSize(800, 200, limit))
	assert.Equal(t, image.Pt(1, 200), logo.TargetSize(10, 5000, limit))
}
