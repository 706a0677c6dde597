// Package discourse collects course forum posts within a date range.
package discourse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/vta/internal/models"
	"go.uber.org/zap"
)

// DateLayout is the accepted format for date range bounds.
const DateLayout = "2006-01-02"

// DefaultBaseURL is the course Discourse forum.
const DefaultBaseURL = "https://discourse.onlinedegree.iitm.ac.in"

// ErrInvalidRange is returned when the start date is after the end date.
var ErrInvalidRange = errors.New("start date is after end date")

// Source supplies candidate posts before filtering.
type Source interface {
	Posts(ctx context.Context) ([]models.Post, error)
}

// Scraper filters posts from a Source by date range and category.
type Scraper struct {
	BaseURL string
	Source  Source
	logger  *zap.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// WithSource replaces the default seed source.
func WithSource(src Source) Option {
	return func(s *Scraper) { s.Source = src }
}

// New creates a scraper for baseURL. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, opts ...Option) *Scraper {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	s := &Scraper{BaseURL: baseURL, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.Source == nil {
		s.Source = NewSeedSource(baseURL)
	}
	return s
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// ScrapeByDateRange returns posts created between start and end (both
// YYYY-MM-DD, midnight UTC, inclusive) in the given category.
func (s *Scraper) ScrapeByDateRange(ctx context.Context, start, end, category string) ([]models.Post, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}

	s.logger.Info("scraping posts",
		zap.String("start", start),
		zap.String("end", end),
		zap.String("category", category),
	)

	candidates, err := s.Source.Posts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	posts := make([]models.Post, 0, len(candidates))
	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.EqualFold(p.Category, category) {
			continue
		}
		created := p.CreatedAt.UTC()
		if created.Before(from) || created.After(to) {
			continue
		}
		posts = append(posts, p)
	}

	s.logger.Info("scraped posts", zap.Int("count", len(posts)))
	return posts, nil
}
