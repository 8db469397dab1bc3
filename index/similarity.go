package index

import (
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Similarity is 1 minus the Levenshtein distance normalized by the longer
// string's rune count. Two empty strings are identical.
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	d := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
