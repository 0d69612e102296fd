package render

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags open on a new line. Paragraph-like ones also end one.
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

func closesLine(tag string) bool {
	return tag != "br" && tag != "li" && tag != "tr"
}

// StripMarkup reduces simple inline markup to plain text. Block-level tags
// become line breaks and entities are decoded.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return normalizeLines(s)
	}

	var b strings.Builder

	z := html.NewTokenizer(strings.NewReader(s))

	for {
		tt := z.Next()

		switch tt {
		case html.ErrorToken:
			return normalizeLines(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if !blockTags[tok.Data] {
				continue
			}

			b.WriteByte('\n')

			if tok.Data == "li" {
				b.WriteString("• ")
			}
		case html.EndTagToken:
			tok := z.Token()
			if blockTags[tok.Data] && closesLine(tok.Data) {
				b.WriteByte('\n')
			}
		}
	}
}

// normalizeLines trims every line and collapses runs of blank lines.
func normalizeLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")

	out := make([]string, 0, len(lines))
	blank := false

	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}

			blank = true

			continue
		}

		out = append(out, l)
		blank = false
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
