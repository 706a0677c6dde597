// Package keyword provides keyword (BM25) indexing and search over archived forum posts.
package keyword

import (
	"context"

	"github.com/hyperjump/vta/internal/models"
)

// SearchOptions optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// TitleBoost multiplies the score of matches in the post title. Values <= 1 disable it.
	TitleBoost float64
	// Fuzziness is the maximum edit distance for term matching (0 disables fuzzy matching).
	Fuzziness int
}

// PostIndex defines keyword search operations over posts.
type PostIndex interface {
	Index(ctx context.Context, post *models.Post) error
	IndexBatch(ctx context.Context, posts []models.Post) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Hit, error)
	Delete(ctx context.Context, id int64) error
	DocCount() (uint64, error)
	Close() error
}

// Hit is a single keyword search hit.
type Hit struct {
	ID    int64
	Score float64
}

// Dictionary exposes the indexed terms for query suggestions.
type Dictionary interface {
	Terms() ([]string, error)
	TermFrequency(term string) (int, error)
}
