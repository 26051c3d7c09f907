// backend/src/security/validation/sanitizers.go
package validation

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictHTMLPolicy *bluemonday.Policy
	ugcHTMLPolicy    *bluemonday.Policy
)

func init() {
	strictHTMLPolicy = bluemonday.StrictPolicy() // Removes all HTML tags
	ugcHTMLPolicy = bluemonday.UGCPolicy()
}

// SanitizeText removes all HTML tags and attributes from an input string.
func SanitizeText(s string) string {
	return strictHTMLPolicy.Sanitize(s)
}

// SanitizeHTML keeps the formatting tags of rendered Markdown and drops
// scripts, event handlers and unsafe URLs.
func SanitizeHTML(s string) string {
	return ugcHTMLPolicy.Sanitize(s)
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// CleanSearchTerm prepares user input for a LIKE lookup: tags and control
// characters are dropped and inner whitespace is collapsed.
func CleanSearchTerm(s string) string {
	cleaned := StripUnprintable(html.UnescapeString(SanitizeText(s)))
	return strings.Join(strings.Fields(cleaned), " ")
}
