package search

import "github.com/hyperjump/vta/internal/ranking"

// NormalizeScores scales candidate scores in place to (0,1] relative to the
// first, best candidate. Candidates must already be sorted best first.
func NormalizeScores(candidates []ranking.Candidate) {
	if len(candidates) == 0 {
		return
	}
	maxScore := candidates[0].Score
	for i := range candidates {
		if maxScore > 0 {
			candidates[i].Score /= maxScore
		} else {
			candidates[i].Score = 0
		}
	}
}
