package ranking

import "time"

// RankingConfig holds the multiplier settings used to re-rank keyword hits.
type RankingConfig struct {
	// TitlePhraseMultiplier applies when the whole query appears in the title.
	TitlePhraseMultiplier float64 `yaml:"title_phrase_multiplier"` // default: 1.5
	// EngagementWeight scales the log of likes plus replies.
	EngagementWeight float64 `yaml:"engagement_weight"` // default: 0.1
	// RecencyHalfLife is the age gap, relative to the newest candidate, at
	// which the recency boost halves. Zero disables recency.
	RecencyHalfLife time.Duration `yaml:"recency_half_life"`
	RecencyMaxBoost float64       `yaml:"recency_max_boost"` // default: 0.2
}

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	c := &RankingConfig{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero values. A negative EngagementWeight disables the
// engagement multiplier.
func (c *RankingConfig) ApplyDefaults() {
	if c.TitlePhraseMultiplier == 0 {
		c.TitlePhraseMultiplier = 1.5
	}
	if c.EngagementWeight == 0 {
		c.EngagementWeight = 0.1
	}
	if c.RecencyMaxBoost == 0 {
		c.RecencyMaxBoost = 0.2
	}
}
