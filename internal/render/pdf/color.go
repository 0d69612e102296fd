package pdf

import (
	"math"

	"github.com/MrJamesThe3rd/factura/internal/templates"
)

func rgb(hex string) (int, int, int) {
	return templates.RGB(hex)
}

// gradientVector converts a CSS angle into gofpdf's unit-square vector,
// whose origin is the bottom-left corner of the filled rectangle.
func gradientVector(angle int) (float64, float64, float64, float64) {
	rad := float64(angle) * math.Pi / 180
	dx, dy := math.Sin(rad)/2, math.Cos(rad)/2

	return 0.5 - dx, 0.5 - dy, 0.5 + dx, 0.5 + dy
}
