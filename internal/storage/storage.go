// Package storage defines the persistence interface for the forum post archive.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/vta/internal/models"
)

// ErrNotFound is returned when a post or run does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines scrape run and post persistence operations.
type Storage interface {
	// Run operations
	CreateRun(ctx context.Context, run *models.ScrapeRun) error
	ListRuns(ctx context.Context, limit int) ([]*models.ScrapeRun, error)

	// Post operations
	SavePosts(ctx context.Context, posts []models.Post) error
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	GetPosts(ctx context.Context, ids []int64) ([]*models.Post, error)
	ListPosts(ctx context.Context, offset, limit int) ([]*models.Post, error)

	// Stats
	CountPosts(ctx context.Context) (int64, error)
	CountRuns(ctx context.Context) (int64, error)

	Close() error
}
