package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText folds diacritics and lowercases a string so topic
// matching and search indexing compare like with like.
// Example: "Oración" -> "oracion", "Worship" -> "worship".
func NormalizeText(s string) string {
	if s == "" {
		return s
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, _ := transform.String(t, s)

	return strings.ToLower(normalized)
}

// ContainsNormalized reports whether haystack contains needle after
// both are normalized. Empty needles never match.
func ContainsNormalized(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(NormalizeText(haystack), NormalizeText(needle))
}
