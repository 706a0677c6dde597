// Package ranking re-orders keyword hits using post metadata.
package ranking

import (
	"sort"
	"time"
)

// Ranker applies multipliers to candidate scores.
type Ranker struct {
	config      *RankingConfig
	multipliers []Multiplier
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(config *RankingConfig) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()
	return &Ranker{
		config:      config,
		multipliers: DefaultMultipliers(config),
	}
}

// WithMultipliers sets custom multipliers.
func (r *Ranker) WithMultipliers(multipliers []Multiplier) *Ranker {
	r.multipliers = multipliers
	return r
}

// Score applies every multiplier to baseScore.
func (r *Ranker) Score(ctx *ScoringContext, baseScore float64) float64 {
	score := baseScore
	for _, m := range r.multipliers {
		score = m.Multiply(ctx, score)
	}
	return score
}

// Breakdown returns the per-multiplier factors for one candidate.
func (r *Ranker) Breakdown(ctx *ScoringContext, baseScore float64) *ScoreBreakdown {
	b := &ScoreBreakdown{BaseScore: baseScore, Multipliers: make(map[string]float64, len(r.multipliers))}
	score := baseScore
	for _, m := range r.multipliers {
		prev := score
		score = m.Multiply(ctx, score)
		if prev != 0 {
			b.Multipliers[m.Name()] = score / prev
		} else {
			b.Multipliers[m.Name()] = 1.0
		}
	}
	b.FinalScore = score
	return b
}

// Rank rescores candidates in place and sorts them best first. Equal scores
// keep their incoming order.
func (r *Ranker) Rank(query string, candidates []Candidate) {
	var newest time.Time
	for _, c := range candidates {
		if c.Post.CreatedAt.After(newest) {
			newest = c.Post.CreatedAt
		}
	}
	for i := range candidates {
		ctx := NewScoringContext(query, candidates[i].Post, newest)
		candidates[i].Score = r.Score(ctx, candidates[i].Score)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}
