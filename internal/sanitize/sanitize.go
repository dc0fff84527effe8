// Package sanitize strips disallowed markup from user-supplied text.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strictPolicy strips all markup. Used for usernames, room names and
	// descriptions.
	strictPolicy = bluemonday.StrictPolicy()

	// richPolicy allows a small set of inline formatting tags in message
	// bodies. Anchors may only carry their link target.
	richPolicy = func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "i", "em", "strong")
		p.AllowAttrs("href").OnElements("a")
		p.AllowURLSchemes("http", "https", "mailto")
		p.RequireParseableURLs(true)
		return p
	}()
)

// Strict removes every tag and attribute, leaving plain text only.
// Callers must check for empty output themselves.
func Strict(text string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(text))
}

// Rich keeps the inline formatting allow-list (b, i, em, strong, a[href])
// and removes everything else. Callers must check for empty output.
func Rich(text string) string {
	return strings.TrimSpace(richPolicy.Sanitize(text))
}
