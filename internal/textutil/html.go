// Package textutil holds small text helpers shared by the screens.
package textutil

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// StripHTML removes markup from catalog summaries and collapses whitespace.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	plain := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(plain), " ")
}

// Truncate shortens s to at most width runes, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
