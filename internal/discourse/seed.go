package discourse

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/vta/internal/models"
)

// SeedSource serves a fixed set of reference posts from the course forum.
// The live forum requires authentication, so this is the default source.
type SeedSource struct {
	baseURL string
}

// NewSeedSource returns the reference posts with URLs under baseURL.
func NewSeedSource(baseURL string) *SeedSource {
	return &SeedSource{baseURL: baseURL}
}

// Posts implements Source.
func (s *SeedSource) Posts(ctx context.Context) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.Post{
		{
			ID:        155939,
			Title:     "GA5 Question 8 Clarification",
			Author:    "teaching_assistant",
			CreatedAt: time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
			Content:   "Use the model that's mentioned in the question. For GA5 Question 8, you must use gpt-3.5-turbo-0125 even if the AI Proxy only supports gpt-4o-mini.",
			URL:       s.topicURL("ga5-question-8-clarification", 155939),
			Category:  "tds",
			Replies:   4,
			Likes:     12,
		},
		{
			ID:        165959,
			Title:     "GA4 Data Sourcing Discussion Thread - TDS Jan 2025",
			Author:    "course_instructor",
			CreatedAt: time.Date(2025, 2, 20, 14, 45, 0, 0, time.UTC),
			Content:   "For GA4 scoring, if a student gets 10/10 plus bonus points, the dashboard will display this as 110.",
			URL:       s.topicURL("ga4-data-sourcing-discussion-thread-tds-jan-2025", 165959),
			Category:  "tds",
			Replies:   388,
			Likes:     45,
		},
		{
			ID:        170234,
			Title:     "Docker vs Podman for TDS Course",
			Author:    "student_helper",
			CreatedAt: time.Date(2025, 1, 28, 9, 15, 0, 0, time.UTC),
			Content:   "While Docker is acceptable, Podman is the recommended containerization tool for this course due to its rootless architecture and security benefits.",
			URL:       s.topicURL("docker-vs-podman-for-tds-course", 170234),
			Category:  "tds",
			Replies:   23,
			Likes:     18,
		},
	}, nil
}

func (s *SeedSource) topicURL(slug string, id int64) string {
	return fmt.Sprintf("%s/t/%s/%d", s.baseURL, slug, id)
}
