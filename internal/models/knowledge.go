// Package models defines core data structures for knowledge entries, questions, answers, and forum posts.
package models

// Link is a reference shown under an answer.
type Link struct {
	URL  string `json:"url" yaml:"url"`
	Text string `json:"text" yaml:"text"`
}

// KnowledgeEntry is a known question with its fixed answer and links.
type KnowledgeEntry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Links    []Link `json:"links" yaml:"links"`
}

// QueryResult is the resolver output for a single question.
// Question echoes the caller's input, never the corpus phrasing.
type QueryResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Links    []Link `json:"links"`
}

// CloneLinks returns a copy of links that is never nil.
func CloneLinks(links []Link) []Link {
	out := make([]Link, len(links))
	copy(out, links)
	return out
}
