package customers

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldSearchTerm trims and strips combining accents from a user-typed search
// term so "pérez" and "perez" hit the same rows.
func foldSearchTerm(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	folded, _, err := transform.String(accentFolder, term)
	if err != nil {
		return term
	}
	return folded
}
