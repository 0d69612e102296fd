// Package encoding normalizes uploaded text files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding a file was decoded from.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO885915   Charset = "ISO-8859-15"
)

// sniffLen is how much of the input detection looks at.
const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

var decoders = map[Charset]encoding.Encoding{
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	Windows1252: charmap.Windows1252,
	ISO885915:   charmap.ISO8859_15,
}

// Decode returns a reader yielding r as UTF-8 and the charset it detected.
//
// A BOM wins; a UTF-8 BOM is stripped. Otherwise valid UTF-8 passes through,
// then chardet is consulted, and anything left is read as Windows-1252, the
// usual charset of spreadsheet exports on French desktops.
func Decode(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peeking input: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, UTF8, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decoded(br, UTF16LE), UTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decoded(br, UTF16BE), UTF16BE, nil
	}

	if validPrefix(buf) {
		return br, UTF8, nil
	}

	cs := detect(buf)
	if cs == UTF8 {
		return br, UTF8, nil
	}

	return decoded(br, cs), cs, nil
}

func decoded(r io.Reader, cs Charset) io.Reader {
	return transform.NewReader(r, decoders[cs].NewDecoder())
}

func detect(buf []byte) Charset {
	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil {
		return Windows1252
	}

	switch result.Charset {
	case "UTF-8":
		return UTF8
	case "ISO-8859-15":
		return ISO885915
	}

	return Windows1252
}

// validPrefix is utf8.Valid tolerating a rune cut by the sniff window.
func validPrefix(buf []byte) bool {
	if utf8.Valid(buf) {
		return true
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		tail := buf[len(buf)-cut:]
		if utf8.RuneStart(tail[0]) && !utf8.FullRune(tail) {
			return utf8.Valid(buf[:len(buf)-cut])
		}
	}

	return false
}
