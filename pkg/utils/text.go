package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// NormalizeWhitespace collapses all runs of whitespace (spaces, tabs, newlines)
// into single spaces and trims leading/trailing whitespace. Canonical text
// rendering depends on this being deterministic: the same input always yields
// the same output byte-for-byte.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
