// Package indexer stores scraped posts in the archive and the keyword index.
package indexer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hyperjump/vta/internal/keyword"
	"github.com/hyperjump/vta/internal/models"
	"github.com/hyperjump/vta/internal/storage"
	"go.uber.org/zap"
)

const reindexPageSize = 500

// Indexer writes posts to storage and the keyword index.
type Indexer struct {
	storage      storage.Storage
	keywordIndex keyword.PostIndex
	logger       *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(storage storage.Storage, keywordIndex keyword.PostIndex, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		storage:      storage,
		keywordIndex: keywordIndex,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexRun records a scrape run, upserts its posts and indexes them.
// run.ID is generated when empty and run.PostCount is set from posts.
func (idx *Indexer) IndexRun(ctx context.Context, run *models.ScrapeRun, posts []models.Post) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.PostCount = len(posts)

	clean := make([]models.Post, len(posts))
	for i, p := range posts {
		p.Title = Preprocess(p.Title)
		p.Content = Preprocess(p.Content)
		clean[i] = p
	}

	if err := idx.storage.SavePosts(ctx, clean); err != nil {
		return fmt.Errorf("failed to save posts: %w", err)
	}
	if err := idx.storage.CreateRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	if len(clean) > 0 {
		if err := idx.keywordIndex.IndexBatch(ctx, clean); err != nil {
			return fmt.Errorf("failed to index posts: %w", err)
		}
	}

	idx.logger.Info("indexed scrape run",
		zap.String("run_id", run.ID),
		zap.String("category", run.Category),
		zap.Int("posts", run.PostCount),
	)
	return nil
}

// Reindex rebuilds the keyword index from every archived post and returns the count.
func (idx *Indexer) Reindex(ctx context.Context) (int, error) {
	total := 0
	for offset := 0; ; offset += reindexPageSize {
		page, err := idx.storage.ListPosts(ctx, offset, reindexPageSize)
		if err != nil {
			return total, fmt.Errorf("failed to list posts: %w", err)
		}
		if len(page) == 0 {
			break
		}
		posts := make([]models.Post, len(page))
		for i, p := range page {
			posts[i] = *p
		}
		if err := idx.keywordIndex.IndexBatch(ctx, posts); err != nil {
			return total, fmt.Errorf("failed to index posts: %w", err)
		}
		total += len(posts)
		idx.logger.Debug("reindexed page", zap.Int("offset", offset), zap.Int("posts", len(posts)))
		if len(page) < reindexPageSize {
			break
		}
	}
	return total, nil
}
