package templates

import (
	"strconv"
	"strings"
)

// RGB parses #rrggbb. Malformed values yield black.
func RGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}

	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

// IsLight reports whether dark text reads better than white on hex.
func IsLight(hex string) bool {
	r, g, b := RGB(hex)
	return 0.299*float64(r)+0.587*float64(g)+0.114*float64(b) > 186
}

// HeaderForeground is the text color drawn over the header gradient.
func (t TokenSet) HeaderForeground() string {
	if IsLight(t.HeaderGradient.From) {
		return t.Text
	}

	return "#ffffff"
}
