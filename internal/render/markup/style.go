package markup

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/factura/internal/templates"
)

// Decl is one CSS declaration.
type Decl struct {
	Property string
	Value    string
}

// Rule applies declarations to a selector relative to the document root.
// An empty Selector targets the root itself.
type Rule struct {
	Selector string
	Decls    []Decl
}

// TemplateClass returns the static scope class of a template id.
func TemplateClass(id string) string {
	return "tpl-" + id
}

// ScopeClasses enumerates the static scope classes, one per registered template.
func ScopeClasses() []string {
	ids := templates.IDs()
	out := make([]string, len(ids))

	for i, id := range ids {
		out[i] = TemplateClass(id)
	}

	return out
}

func gradient(g templates.Gradient) string {
	return fmt.Sprintf("linear-gradient(%ddeg, %s, %s)", g.Angle, g.From, g.To)
}

// Style maps a token set to its rules. Every color a template owns is set here
// so nothing falls through to another document's styles.
func Style(t templates.TokenSet) []Rule {
	return []Rule{
		{"", []Decl{
			{"background-color", t.Background},
			{"color", t.Text},
			{"border-color", t.Border},
		}},
		{".doc-header", []Decl{
			{"background", gradient(t.HeaderGradient)},
			{"color", t.HeaderForeground()},
		}},
		{".doc-badge", []Decl{
			{"background-color", t.Accent},
			{"color", t.Secondary},
			{"border", "1px solid " + t.Secondary},
		}},
		{".doc-strip", []Decl{
			{"background-color", t.Accent},
			{"color", t.Primary},
			{"border-left", "3px solid " + t.Primary},
		}},
		{".doc-table th", []Decl{
			{"background-color", t.Primary},
			{"color", "#ffffff"},
		}},
		{".doc-table td", []Decl{
			{"border-bottom", "1px solid " + t.Border},
			{"color", t.Text},
		}},
		{".doc-table tbody tr:nth-child(even)", []Decl{
			{"background-color", t.Accent},
		}},
		{".doc-table .empty", []Decl{
			{"color", t.Secondary},
		}},
		{".doc-totals", []Decl{
			{"background", gradient(t.AccentGradient)},
			{"color", t.Text},
		}},
		{".doc-totals .grand", []Decl{
			{"color", t.Primary},
			{"border-top", "2px solid " + t.Primary},
		}},
		{".doc-notes h3", []Decl{
			{"color", t.Primary},
		}},
		{".doc-footer", []Decl{
			{"color", t.Secondary},
			{"border-top", "1px solid " + t.Border},
		}},
	}
}

// Scope returns the compound selector that every rule of one render is
// prefixed with.
func Scope(templateID, instance string) string {
	return "." + TemplateClass(templateID) + "." + instance
}

// CSS serializes rules under scope.
func CSS(scope string, rules []Rule) string {
	var b strings.Builder

	for _, r := range rules {
		sel := scope
		if r.Selector != "" {
			sel += " " + r.Selector
		}

		b.WriteString(sel)
		b.WriteString(" {")

		for _, d := range r.Decls {
			fmt.Fprintf(&b, " %s: %s;", d.Property, d.Value)
		}

		b.WriteString(" }\n")
	}

	return b.String()
}
