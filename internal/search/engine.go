// Package search answers keyword queries over the forum post archive.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/vta/internal/keyword"
	"github.com/hyperjump/vta/internal/models"
	"github.com/hyperjump/vta/internal/ranking"
	"github.com/hyperjump/vta/internal/storage"
)

// DefaultTitleBoost lifts posts whose title matches the query.
const DefaultTitleBoost = 2.0

// Engine runs keyword search over archived posts.
type Engine struct {
	storage      storage.Storage
	keywordIndex keyword.PostIndex
	suggester    *keyword.Suggester
	ranker       *ranking.Ranker
	options      *keyword.SearchOptions
}

// NewEngine creates a search engine. suggester may be nil, which disables
// query suggestions.
func NewEngine(storage storage.Storage, keywordIndex keyword.PostIndex, suggester *keyword.Suggester) *Engine {
	return &Engine{
		storage:      storage,
		keywordIndex: keywordIndex,
		suggester:    suggester,
		options:      &keyword.SearchOptions{TitleBoost: DefaultTitleBoost},
	}
}

// WithRanker re-ranks keyword hits with r. A nil ranker keeps bleve's order.
func (e *Engine) WithRanker(r *ranking.Ranker) *Engine {
	e.ranker = r
	return e
}

// SearchPosts returns up to limit posts matching query, best first.
// When nothing matches and a suggester is set, the corrected query is searched
// instead and reported in Suggestion.
func (e *Engine) SearchPosts(ctx context.Context, query string, limit int) (*models.PostSearchResponse, error) {
	startTime := time.Now()
	query, limit, err := ProcessQuery(query, limit)
	if err != nil {
		return nil, err
	}

	hits, err := e.keywordIndex.Search(ctx, query, limit, e.options)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	response := &models.PostSearchResponse{Query: query}
	if len(hits) == 0 && e.suggester != nil {
		if corrected, ok := e.suggester.Correct(query); ok && corrected != query {
			hits, err = e.keywordIndex.Search(ctx, corrected, limit, e.options)
			if err != nil {
				return nil, fmt.Errorf("keyword search failed: %w", err)
			}
			response.Suggestion = corrected
			query = corrected
		}
	}
	response.Hits = make([]*models.PostHit, 0, len(hits))

	ids := make([]int64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	posts, err := e.storage.GetPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	byID := make(map[int64]*models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	candidates := make([]ranking.Candidate, 0, len(hits))
	for _, h := range hits {
		if post, ok := byID[h.ID]; ok {
			candidates = append(candidates, ranking.Candidate{Post: post, Score: h.Score})
		}
	}
	if e.ranker != nil {
		e.ranker.Rank(query, candidates)
	}
	NormalizeScores(candidates)
	for i, c := range candidates {
		response.Hits = append(response.Hits, &models.PostHit{
			Post:    c.Post,
			Score:   c.Score,
			Rank:    i + 1,
			Snippet: Snippet(c.Post.Content),
		})
	}
	response.Total = len(response.Hits)
	response.QueryTime = time.Since(startTime).Milliseconds()
	return response, nil
}

// RefreshSuggestions reloads the suggester's term list after indexing.
func (e *Engine) RefreshSuggestions() error {
	if e.suggester == nil {
		return nil
	}
	return e.suggester.Refresh()
}
