package util

import "strings"

// SanitizeUTF8 replaces invalid UTF-8 sequences with U+FFFD.
func SanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// DropInvalidUTF8 removes invalid UTF-8 sequences.
func DropInvalidUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}
