// Package filter provides string normalization and tokenization helpers used
// by the catalog client and the recommendation engine.
package filter

import (
	"strings"
	"unicode"
)

// minTokenLength is the shortest token considered meaningful for matching.
const minTokenLength = 3

// stopWords are common English words that carry no signal for server matching.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "into": {}, "can": {}, "want": {}, "need": {}, "use": {},
	"using": {}, "have": {}, "has": {}, "how": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "will": {}, "would": {}, "should": {},
	"could": {}, "about": {}, "some": {}, "like": {}, "get": {}, "make": {},
	"help": {}, "please": {}, "you": {}, "your": {}, "our": {}, "their": {},
}

// NormalizeString normalizes a string value for filtering/comparison.
// The value is made lowercase and has any leading and/or trailing whitespace removed.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSlice normalizes all values of a slice, returning a new slice.
// The values are normalized with the same behavior as NormalizeString.
func NormalizeSlice(s []string) []string {
	s2 := make([]string, len(s))
	for i := range s {
		s2[i] = NormalizeString(s[i])
	}
	return s2
}

// Tokenize splits free-form text into lowercase word tokens, dropping
// stop words and tokens shorter than three characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(NormalizeString(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLength {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}

	return tokens
}

// ContainsFold reports whether substr is contained within s, case-insensitively.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
