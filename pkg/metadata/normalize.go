package metadata

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CleanName trims the value and collapses inner whitespace. This is the form that gets stored.
func CleanName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// NormalizeName is the comparison key for soft natural keys: cleaned and case folded.
func NormalizeName(raw string) string {
	return cases.Fold().String(CleanName(raw))
}

// HeaderKey additionally drops diacritics so "Área" and "area" address the same column.
func HeaderKey(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, raw)
	if err != nil {
		stripped = raw
	}
	return NormalizeName(strings.NewReplacer("_", " ", "-", " ").Replace(stripped))
}
