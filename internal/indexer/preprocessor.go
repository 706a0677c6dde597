package indexer

import "strings"

// Preprocess trims text and collapses whitespace runs to single spaces.
func Preprocess(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
