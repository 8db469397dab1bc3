package index

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// trailingQualifier matches one "(...)" or "[...]" suffix, e.g. the
// disambiguation part of "Paris (France)".
var trailingQualifier = regexp.MustCompile(`\s*(\([^()]*\)|\[[^\[\]]*\])\s*$`)

// NormalizeMention reduces a surface form to its lookup key: lower-cased,
// trailing bracketed qualifiers removed, transliterated to base characters
// and stripped of everything but letters and digits.
func NormalizeMention(s string) string {
	s = cases.Lower(language.Und).String(s)

	for {
		stripped := trailingQualifier.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}

	s = Transliterate(s)

	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Transliterate decomposes s and drops combining marks, so "Zürich"
// becomes "Zurich".
func Transliterate(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
