package domain

import "strings"

// NormalizeText canonicalises card text for deduplication: lower-cased,
// whitespace collapsed to single spaces, leading/trailing space removed.
// Two cards with equal normalized text are considered the same point.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
