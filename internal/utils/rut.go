package utils

import (
	"regexp"
	"strings"
)

// rutPattern matches a Chilean RUT without dots: 7-8 digits, a dash
// and a verifier digit (0-9 or K).
var rutPattern = regexp.MustCompile(`^\d{7,8}-[\dkK]$`)

// ValidRUT reports whether s looks like a well-formed RUT. Only the
// shape is checked; the verifier digit is not recomputed, matching
// what the registration form enforces.
func ValidRUT(s string) bool {
	return rutPattern.MatchString(strings.TrimSpace(s))
}

// NormalizeRUT uppercases the verifier digit so "12345678-k" and
// "12345678-K" compare equal in the unique index.
func NormalizeRUT(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
