package utils

import "strings"

// NormalizeSpace trims s and collapses inner whitespace runs into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
