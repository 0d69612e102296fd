package csvitems

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type field int

const (
	fieldReference field = iota
	fieldDescription
	fieldQuantity
	fieldUnit
	fieldUnitPrice
)

// aliases lists the accepted header names per field, already folded.
var aliases = map[field][]string{
	fieldReference:   {"reference", "ref", "ref.", "code", "sku", "article"},
	fieldDescription: {"designation", "description", "libelle", "produit", "prestation"},
	fieldQuantity:    {"quantite", "qte", "qte.", "quantity", "qty"},
	fieldUnit:        {"unite", "unit", "u."},
	fieldUnitPrice:   {"prix unitaire", "prix unitaire ht", "pu", "pu ht", "p.u.", "unit price", "price", "prix"},
}

// Profile describes one accepted column layout.
// Adding a layout is just adding a Profile to the profiles slice.
type Profile struct {
	Name     string
	Required []field
}

// profiles is tried in order; more specific profiles come first.
var profiles = []Profile{
	{Name: "tarifé", Required: []field{fieldDescription, fieldQuantity, fieldUnitPrice}},
	{Name: "livraison", Required: []field{fieldReference, fieldQuantity}},
	{Name: "simple", Required: []field{fieldDescription, fieldQuantity}},
}

// fold lowercases s and drops accents so "Quantité" and "QUANTITE" match.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// colIndex maps fields to their index in the row.
type colIndex map[field]int

func indexHeader(row []string) colIndex {
	cols := make(colIndex)

	for i, cell := range row {
		name := fold(cell)
		if name == "" {
			continue
		}

		for f, names := range aliases {
			if _, seen := cols[f]; seen {
				continue
			}

			for _, a := range names {
				if name == a {
					cols[f] = i
				}
			}
		}
	}

	return cols
}

func (p Profile) matches(cols colIndex) bool {
	for _, f := range p.Required {
		if _, ok := cols[f]; !ok {
			return false
		}
	}

	return true
}
