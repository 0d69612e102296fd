// Package templates holds the fixed palette registry shared by both renderers.
package templates

// DefaultID is the template every unknown identifier falls back to.
const DefaultID = "classic"

// Gradient is a two-stop linear gradient. Angle is in degrees, CSS convention
// (90 = left to right).
type Gradient struct {
	From  string
	To    string
	Angle int
}

// TokenSet is the visual vocabulary of a template. Colors are #rrggbb.
type TokenSet struct {
	Primary        string
	Secondary      string
	Accent         string
	Background     string
	Text           string
	Border         string
	HeaderGradient Gradient
	AccentGradient Gradient
}

// Template is a registry entry.
type Template struct {
	ID          string
	DisplayName string
	Description string
	Tokens      TokenSet
}

// registry is declaration-ordered; pickers rely on this order.
var registry = []Template{
	{
		ID:          "classic",
		DisplayName: "Classique",
		Description: "Bleu marine sobre, adapté à tous les documents.",
		Tokens: TokenSet{
			Primary:        "#1e3a8a",
			Secondary:      "#3b82f6",
			Accent:         "#eff6ff",
			Background:     "#ffffff",
			Text:           "#1f2937",
			Border:         "#d1d5db",
			HeaderGradient: Gradient{From: "#1e3a8a", To: "#3b82f6", Angle: 135},
			AccentGradient: Gradient{From: "#eff6ff", To: "#dbeafe", Angle: 90},
		},
	},
	{
		ID:          "modern",
		DisplayName: "Moderne",
		Description: "Dégradé violet et lignes épurées.",
		Tokens: TokenSet{
			Primary:        "#7c3aed",
			Secondary:      "#a78bfa",
			Accent:         "#f5f3ff",
			Background:     "#ffffff",
			Text:           "#111827",
			Border:         "#e5e7eb",
			HeaderGradient: Gradient{From: "#7c3aed", To: "#db2777", Angle: 135},
			AccentGradient: Gradient{From: "#f5f3ff", To: "#fce7f3", Angle: 90},
		},
	},
	{
		ID:          "elegant",
		DisplayName: "Élégant",
		Description: "Noir profond rehaussé d'or.",
		Tokens: TokenSet{
			Primary:        "#111827",
			Secondary:      "#b45309",
			Accent:         "#fffbeb",
			Background:     "#ffffff",
			Text:           "#1f2937",
			Border:         "#e7e5e4",
			HeaderGradient: Gradient{From: "#111827", To: "#374151", Angle: 135},
			AccentGradient: Gradient{From: "#fffbeb", To: "#fef3c7", Angle: 90},
		},
	},
	{
		ID:          "minimal",
		DisplayName: "Minimaliste",
		Description: "Gris neutres, aucune fioriture.",
		Tokens: TokenSet{
			Primary:        "#374151",
			Secondary:      "#6b7280",
			Accent:         "#f9fafb",
			Background:     "#ffffff",
			Text:           "#111827",
			Border:         "#e5e7eb",
			HeaderGradient: Gradient{From: "#f3f4f6", To: "#e5e7eb", Angle: 180},
			AccentGradient: Gradient{From: "#f9fafb", To: "#f3f4f6", Angle: 90},
		},
	},
	{
		ID:          "corporate",
		DisplayName: "Entreprise",
		Description: "Vert institutionnel pour les grands comptes.",
		Tokens: TokenSet{
			Primary:        "#065f46",
			Secondary:      "#10b981",
			Accent:         "#ecfdf5",
			Background:     "#ffffff",
			Text:           "#1f2937",
			Border:         "#d1fae5",
			HeaderGradient: Gradient{From: "#065f46", To: "#059669", Angle: 135},
			AccentGradient: Gradient{From: "#ecfdf5", To: "#d1fae5", Angle: 90},
		},
	},
	{
		ID:          "creative",
		DisplayName: "Créatif",
		Description: "Orange chaleureux pour les indépendants.",
		Tokens: TokenSet{
			Primary:        "#c2410c",
			Secondary:      "#fb923c",
			Accent:         "#fff7ed",
			Background:     "#ffffff",
			Text:           "#292524",
			Border:         "#fed7aa",
			HeaderGradient: Gradient{From: "#ea580c", To: "#f59e0b", Angle: 135},
			AccentGradient: Gradient{From: "#fff7ed", To: "#ffedd5", Angle: 90},
		},
	},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(registry))
	for i, t := range registry {
		m[t.ID] = i
	}

	return m
}()

// Resolve returns the tokens for id, or the classic tokens for unknown ids.
func Resolve(id string) TokenSet {
	t, _ := Lookup(id)
	return t.Tokens
}

// Lookup returns the template for id. The boolean is false when id is unknown,
// in which case the classic template is returned.
func Lookup(id string) (Template, bool) {
	if i, ok := byID[id]; ok {
		return registry[i], true
	}

	return registry[byID[DefaultID]], false
}

// List returns every template in declaration order. The slice is a copy.
func List() []Template {
	out := make([]Template, len(registry))
	copy(out, registry)

	return out
}

// IDs returns the registered identifiers in declaration order.
func IDs() []string {
	ids := make([]string, len(registry))
	for i, t := range registry {
		ids[i] = t.ID
	}

	return ids
}

// Position returns the 1-based index of id and the registry size,
// for "N of M" pickers. Unknown ids report the default's position.
func Position(id string) (int, int) {
	i, ok := byID[id]
	if !ok {
		i = byID[DefaultID]
	}

	return i + 1, len(registry)
}
