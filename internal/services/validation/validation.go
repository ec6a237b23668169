// Package validation enforces the player name policy. Names are validated on
// the raw input and only then sanitized.
package validation

import (
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the limit on a player name, in characters
const MaxNameLength = 20

const (
	ReasonNameRequired = "Player name is required"
	ReasonNameTooLong  = "Player name must be 20 characters or less"
)

// ValidateName reports whether raw is an acceptable player name. The length
// limit applies to the untrimmed input.
func ValidateName(raw string) (bool, string) {
	if strings.TrimSpace(raw) == "" {
		return false, ReasonNameRequired
	}
	if utf8.RuneCountInString(raw) > MaxNameLength {
		return false, ReasonNameTooLong
	}
	return true, ""
}

var htmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&#x27;",
)

// SanitizeName trims, HTML escapes and truncates a name. Truncation happens
// after escaping and may cut an entity short.
func SanitizeName(raw string) string {
	escaped := htmlEscaper.Replace(strings.TrimSpace(raw))
	return truncate(escaped, MaxNameLength)
}

func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
