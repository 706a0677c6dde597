package resolver

import (
	"strings"
	"unicode/utf16"
)

// minTokenLength is exclusive: tokens must be longer than this to count.
// It stands in for a stop-word list.
const minTokenLength = 3

// Tokenize lower-cases s, splits it on whitespace and drops short tokens.
// Punctuation stays attached to its token.
func Tokenize(s string) []string {
	words := strings.Fields(strings.ToLower(s))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if utf16Len(w) > minTokenLength {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// utf16Len counts s in UTF-16 code units, so characters outside the BMP
// such as emoji count twice.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// MatchRatio returns the share of query tokens that overlap some entry token,
// where overlap means either token contains the other.
// ok is false when query has no tokens.
func MatchRatio(query, entry []string) (ratio float64, ok bool) {
	if len(query) == 0 {
		return 0, false
	}
	matched := 0
	for _, q := range query {
		for _, e := range entry {
			if strings.Contains(e, q) || strings.Contains(q, e) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(query)), true
}

// containsAny reports whether any keyword is a substring of text.
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
