package ranking

import (
	"strings"
	"time"

	"github.com/hyperjump/vta/internal/models"
)

// Candidate is a post with its current score.
type Candidate struct {
	Post  *models.Post
	Score float64
}

// ScoringContext carries what multipliers need to score one candidate.
type ScoringContext struct {
	// Query is the lower-cased query.
	Query string
	Post  *models.Post
	// Newest is the latest creation time among the candidates being ranked.
	Newest time.Time
}

// NewScoringContext creates a ScoringContext for post.
func NewScoringContext(query string, post *models.Post, newest time.Time) *ScoringContext {
	return &ScoringContext{
		Query:  strings.ToLower(strings.TrimSpace(query)),
		Post:   post,
		Newest: newest,
	}
}

// ScoreBreakdown records how a final score was reached.
type ScoreBreakdown struct {
	BaseScore   float64            `json:"base_score"`
	Multipliers map[string]float64 `json:"multipliers"`
	FinalScore  float64            `json:"final_score"`
}
