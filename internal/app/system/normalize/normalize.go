// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address so that lookups and the
// unique email index behave case-insensitively.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status uppercases and trims a BRD workflow status so that transition
// targets compare consistently regardless of caller formatting.
func Status(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
