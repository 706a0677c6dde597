package ranking

import (
	"math"
	"strings"
)

// Multiplier adjusts a candidate's score.
type Multiplier interface {
	Name() string
	Multiply(ctx *ScoringContext, baseScore float64) float64
}

// TitlePhraseMultiplier boosts posts whose title contains the whole query.
type TitlePhraseMultiplier struct {
	config *RankingConfig
}

// NewTitlePhraseMultiplier creates a new TitlePhraseMultiplier.
func NewTitlePhraseMultiplier(config *RankingConfig) *TitlePhraseMultiplier {
	return &TitlePhraseMultiplier{config: config}
}

func (m *TitlePhraseMultiplier) Name() string {
	return "title_phrase"
}

func (m *TitlePhraseMultiplier) Multiply(ctx *ScoringContext, baseScore float64) float64 {
	if ctx.Query == "" || baseScore == 0 {
		return baseScore
	}
	if strings.Contains(strings.ToLower(ctx.Post.Title), ctx.Query) {
		return baseScore * m.config.TitlePhraseMultiplier
	}
	return baseScore
}

// EngagementMultiplier boosts posts with many likes and replies, log-scaled so
// a busy thread cannot bury a precise match.
type EngagementMultiplier struct {
	config *RankingConfig
}

// NewEngagementMultiplier creates a new EngagementMultiplier.
func NewEngagementMultiplier(config *RankingConfig) *EngagementMultiplier {
	return &EngagementMultiplier{config: config}
}

func (m *EngagementMultiplier) Name() string {
	return "engagement"
}

func (m *EngagementMultiplier) Multiply(ctx *ScoringContext, baseScore float64) float64 {
	n := ctx.Post.Likes + ctx.Post.Replies
	if n <= 0 {
		return baseScore
	}
	return baseScore * (1 + m.config.EngagementWeight*math.Log1p(float64(n)))
}

// RecencyMultiplier boosts posts close to the newest candidate. The boost
// halves every RecencyHalfLife.
type RecencyMultiplier struct {
	config *RankingConfig
}

// NewRecencyMultiplier creates a new RecencyMultiplier.
func NewRecencyMultiplier(config *RankingConfig) *RecencyMultiplier {
	return &RecencyMultiplier{config: config}
}

func (m *RecencyMultiplier) Name() string {
	return "recency"
}

func (m *RecencyMultiplier) Multiply(ctx *ScoringContext, baseScore float64) float64 {
	if m.config.RecencyHalfLife <= 0 || ctx.Post.CreatedAt.IsZero() || ctx.Newest.IsZero() {
		return baseScore
	}
	age := ctx.Newest.Sub(ctx.Post.CreatedAt)
	if age < 0 {
		age = 0
	}
	decay := math.Pow(0.5, float64(age)/float64(m.config.RecencyHalfLife))
	return baseScore * (1 + m.config.RecencyMaxBoost*decay)
}

// DefaultMultipliers returns the multipliers enabled by config.
func DefaultMultipliers(config *RankingConfig) []Multiplier {
	multipliers := []Multiplier{NewTitlePhraseMultiplier(config)}
	if config.EngagementWeight > 0 {
		multipliers = append(multipliers, NewEngagementMultiplier(config))
	}
	if config.RecencyHalfLife > 0 {
		multipliers = append(multipliers, NewRecencyMultiplier(config))
	}
	return multipliers
}
