package utils

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripper = bluemonday.StrictPolicy()

// CleanText strips all markup from user text and returns it trimmed and
// unescaped. Posts and comments are stored this way and escaped on render.
func CleanText(input string) string {
	return strings.TrimSpace(html.UnescapeString(stripper.Sanitize(input)))
}

// Linebreaks renders plain text as HTML paragraphs. Blank lines split
// paragraphs and single newlines become <br>; the text itself is escaped.
func Linebreaks(text string) template.HTML {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var b strings.Builder
	for _, p := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		lines := strings.Split(p, "\n")
		for i, l := range lines {
			lines[i] = template.HTMLEscapeString(l)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>\n")
	}
	return template.HTML(b.String())
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
