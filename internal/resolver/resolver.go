// Package resolver picks the answer for a free-text question: an exact corpus
// match, then a fuzzy keyword match, then a keyword category fallback.
package resolver

import (
	"strings"

	"github.com/hyperjump/vta/internal/knowledge"
	"github.com/hyperjump/vta/internal/models"
)

// FuzzyThreshold is the match ratio a corpus entry must exceed (strictly).
const FuzzyThreshold = 0.4

// Stage names the step of the fallback chain that produced an answer.
type Stage string

const (
	StageExact    Stage = "exact"
	StageFuzzy    Stage = "fuzzy"
	StageCategory Stage = "category"
)

// Match describes how a question was resolved.
type Match struct {
	Stage Stage `json:"stage"`
	// EntryIndex is the corpus position for exact and fuzzy matches, -1 otherwise.
	EntryIndex int `json:"entry_index"`
	// Category is set for category matches.
	Category string `json:"category,omitempty"`
	// Ratio is the fuzzy match ratio of the winning entry.
	Ratio float64 `json:"ratio,omitempty"`
}

type preparedEntry struct {
	entry  models.KnowledgeEntry
	lower  string
	tokens []string
}

// Resolver resolves questions against a fixed corpus and category list.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	entries    []preparedEntry
	categories []knowledge.Category
}

// New prepares a resolver. A nil corpus is treated as empty; empty categories
// fall back to knowledge.DefaultCategories.
func New(corpus knowledge.Corpus, categories []knowledge.Category) *Resolver {
	r := &Resolver{}
	if corpus != nil {
		for _, e := range corpus.Entries() {
			r.entries = append(r.entries, preparedEntry{
				entry:  e,
				lower:  strings.ToLower(e.Question),
				tokens: Tokenize(e.Question),
			})
		}
	}
	if len(categories) == 0 {
		categories = knowledge.DefaultCategories()
	}
	r.categories = make([]knowledge.Category, len(categories))
	for i, c := range categories {
		keywords := make([]string, len(c.Keywords))
		for j, k := range c.Keywords {
			keywords[j] = strings.ToLower(k)
		}
		c.Keywords = keywords
		r.categories[i] = c
	}
	return r
}

// Resolve is the one-shot form of New(corpus, categories).Resolve(question).
func Resolve(question string, corpus knowledge.Corpus, categories []knowledge.Category) models.QueryResult {
	return New(corpus, categories).Resolve(question)
}

// Resolve returns the answer for question. The caller must pass a non-empty,
// trimmed question; Resolve always produces a result.
func (r *Resolver) Resolve(question string) models.QueryResult {
	result, _ := r.Explain(question)
	return result
}

// Explain resolves question and reports which stage produced the answer.
func (r *Resolver) Explain(question string) (models.QueryResult, Match) {
	lower := strings.ToLower(question)

	for i, pe := range r.entries {
		if pe.lower == lower {
			return resultFromEntry(question, pe.entry), Match{Stage: StageExact, EntryIndex: i}
		}
	}

	// First entry over the threshold wins even if a later entry scores higher.
	tokens := Tokenize(question)
	for i, pe := range r.entries {
		ratio, ok := MatchRatio(tokens, pe.tokens)
		if ok && ratio > FuzzyThreshold {
			return resultFromEntry(question, pe.entry), Match{Stage: StageFuzzy, EntryIndex: i, Ratio: ratio}
		}
	}

	c := r.classify(lower)
	return models.QueryResult{
		Question: question,
		Answer:   c.Answer,
		Links:    models.CloneLinks(c.Links),
	}, Match{Stage: StageCategory, EntryIndex: -1, Category: c.Name}
}

// classify returns the first category whose keywords appear in lower.
func (r *Resolver) classify(lower string) knowledge.Category {
	for _, c := range r.categories {
		if c.IsDefault() || containsAny(lower, c.Keywords) {
			return c
		}
	}
	// Custom category lists without a default still get an answer.
	builtin := knowledge.DefaultCategories()
	return builtin[len(builtin)-1]
}

func resultFromEntry(question string, e models.KnowledgeEntry) models.QueryResult {
	return models.QueryResult{
		Question: question,
		Answer:   e.Answer,
		Links:    models.CloneLinks(e.Links),
	}
}

// EntryCount returns the number of corpus entries.
func (r *Resolver) EntryCount() int {
	return len(r.entries)
}

// CategoryCount returns the number of fallback categories.
func (r *Resolver) CategoryCount() int {
	return len(r.categories)
}
