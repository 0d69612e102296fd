// Package logo ingests uploaded logos under a hard size budget and keeps one
// compressed asset per user.
package logo

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Asset is a compressed logo. ImageData is a self-contained data URI.
type Asset struct {
	ImageData string `json:"imageData"`
	Info      Info   `json:"info"`
}

type Info struct {
	Name               string    `json:"name"`
	OriginalSize       int       `json:"originalSize"`
	CompressedSize     int       `json:"compressedSize"`
	CompressionQuality float64   `json:"compressionQuality"`
	MimeType           string    `json:"mimeType"`
	SourceMimeType     string    `json:"sourceMimeType"`
	UploadDate         time.Time `json:"uploadDate"`
	Width              int       `json:"width"`
	Height             int       `json:"height"`
}

// Bytes decodes the data URI payload.
func (a *Asset) Bytes() ([]byte, error) {
	_, payload, ok := strings.Cut(a.ImageData, ";base64,")
	if !ok {
		return nil, fmt.Errorf("decoding logo: not a base64 data uri")
	}

	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding logo: %w", err)
	}

	return b, nil
}

func dataURI(mime string, b []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
}
