package search

import "github.com/hyperjump/vta/pkg/utils"

// SnippetLength is the maximum snippet length in characters.
const SnippetLength = 160

// Snippet shortens post content for result listings.
func Snippet(content string) string {
	return utils.Truncate(content, SnippetLength)
}
