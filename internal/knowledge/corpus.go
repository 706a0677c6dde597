// Package knowledge holds the fixed question/answer corpus and the keyword
// categories used when no corpus entry matches.
package knowledge

import "github.com/hyperjump/vta/internal/models"

// Corpus is a read-only, ordered view of known questions.
// Order matters: the first matching entry wins.
type Corpus interface {
	Entries() []models.KnowledgeEntry
	Len() int
}

// StaticCorpus is an immutable in-memory corpus.
type StaticCorpus struct {
	entries []models.KnowledgeEntry
}

// NewStaticCorpus copies entries into a new corpus.
func NewStaticCorpus(entries []models.KnowledgeEntry) *StaticCorpus {
	return &StaticCorpus{entries: cloneEntries(entries)}
}

// Entries returns a copy of the entries in corpus order.
func (c *StaticCorpus) Entries() []models.KnowledgeEntry {
	return cloneEntries(c.entries)
}

// Len returns the number of entries.
func (c *StaticCorpus) Len() int {
	return len(c.entries)
}

func cloneEntries(entries []models.KnowledgeEntry) []models.KnowledgeEntry {
	out := make([]models.KnowledgeEntry, len(entries))
	for i, e := range entries {
		out[i] = models.KnowledgeEntry{
			Question: e.Question,
			Answer:   e.Answer,
			Links:    models.CloneLinks(e.Links),
		}
	}
	return out
}

// Category is a keyword-triggered fallback answer.
// A category with no keywords is the default and always matches.
type Category struct {
	Name     string        `yaml:"name"`
	Keywords []string      `yaml:"keywords"`
	Answer   string        `yaml:"answer"`
	Links    []models.Link `yaml:"links"`
}

// IsDefault reports whether c matches every input.
func (c Category) IsDefault() bool {
	return len(c.Keywords) == 0
}
