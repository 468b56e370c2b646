// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Package htmlsanitize strips markup from user-supplied text before it is
// persisted or echoed into emails. Assignment notes are stored as plain
// text; anything that looks like HTML is removed, not escaped.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Note sanitizes a free-text assignment note down to plain text and trims
// surrounding whitespace.
func Note(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
