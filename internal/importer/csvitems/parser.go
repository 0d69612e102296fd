// Package csvitems reads line items from spreadsheet CSV exports with French
// or English headers and any common separator.
package csvitems

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/factura/internal/encoding"
	"github.com/MrJamesThe3rd/factura/internal/importer"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]importer.Row, error) {
	utf8r, _, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffComma(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching item columns found: expected description or reference, and quantity")
	}

	return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
}

// sniffComma picks the separator that occurs most on the first non-empty line.
func sniffComma(data []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(data))

	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		best, bestN := ';', 0

		for _, c := range []rune{';', ',', '\t'} {
			if n := strings.Count(line, string(c)); n > bestN {
				best, bestN = c, n
			}
		}

		return best
	}

	return ';'
}

// detectProfile scans rows for a header that matches a known profile.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := indexHeader(row)

		for i := range profiles {
			if profiles[i].matches(cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// parseRows reads data rows. headerRowNum is the 0-based index of the header,
// used for error messages.
func parseRows(cols colIndex, rows [][]string, headerRowNum int) ([]importer.Row, error) {
	var out []importer.Row

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		ref := cellValue(row, cols, fieldReference)
		desc := cellValue(row, cols, fieldDescription)
		qty := cellValue(row, cols, fieldQuantity)

		if ref == "" && desc == "" {
			continue
		}

		if qty == "" {
			return nil, fmt.Errorf("row %d: missing quantity", rowNum)
		}

		q, err := parseNumber(qty)
		if err != nil {
			return nil, fmt.Errorf("row %d: quantity %q: %w", rowNum, qty, err)
		}

		item := importer.Row{
			Reference:   ref,
			Description: desc,
			Quantity:    q,
			Unit:        cellValue(row, cols, fieldUnit),
		}

		if s := cellValue(row, cols, fieldUnitPrice); s != "" {
			price, err := parseNumber(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: unit price %q: %w", rowNum, s, err)
			}

			item.UnitPrice = &price
		}

		out = append(out, item)
	}

	return out, nil
}

// cellValue safely gets a trimmed cell value for a field.
func cellValue(row []string, cols colIndex, f field) string {
	idx, ok := cols[f]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
