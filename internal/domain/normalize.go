package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, drops combining marks, and recomposes.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeCity folds a city name for comparison: trimmed, lower-cased, with
// diacritics removed. "Foz do Iguaçu" and "foz do iguacu" compare equal.
func NormalizeCity(city string) string {
	folded, _, err := transform.String(stripAccents, city)
	if err != nil {
		folded = city
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
