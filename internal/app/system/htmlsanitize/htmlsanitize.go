// Package htmlsanitize strips markup from user-supplied text before it is
// stored. List titles and item names are plain text; any HTML a client sends
// is removed so other members never receive it.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute.
var strict = bluemonday.StrictPolicy()

// PlainText returns s with all HTML removed. Entities are decoded so text
// like "Salt & Pepper" round-trips unchanged.
func PlainText(s string) string {
	if s == "" || IsPlainText(s) {
		return s
	}
	return html.UnescapeString(strict.Sanitize(s))
}

// IsPlainText reports whether s contains no tag-like sequences.
func IsPlainText(s string) bool {
	i := strings.IndexByte(s, '<')
	if i < 0 {
		return true
	}
	return strings.IndexByte(s[i:], '>') < 0
}
