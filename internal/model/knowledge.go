package model

import "time"

// KnowledgeCategory classifies a long-term knowledge item.
type KnowledgeCategory string

const (
	CategoryPattern    KnowledgeCategory = "pattern"
	CategoryBlindspot  KnowledgeCategory = "blindspot"
	CategoryPreference KnowledgeCategory = "preference"
	CategoryValue      KnowledgeCategory = "value"
	CategoryGoal       KnowledgeCategory = "goal"
	CategoryStrength   KnowledgeCategory = "strength"
	CategoryChallenge  KnowledgeCategory = "challenge"
)

// ValidCategories are the allowed knowledge categories.
var ValidCategories = map[KnowledgeCategory]bool{
	CategoryPattern:    true,
	CategoryBlindspot:  true,
	CategoryPreference: true,
	CategoryValue:      true,
	CategoryGoal:       true,
	CategoryStrength:   true,
	CategoryChallenge:  true,
}

// KnowledgeItem is a durable personal insight distilled from a sufficiently
// confident pattern. It is the only state in the pipeline with cross-run
// lifetime. One row exists per (user, category, source); re-detection
// refreshes the summary and raises confidence monotonically.
type KnowledgeItem struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Category    KnowledgeCategory `json:"category"`
	Summary     string            `json:"summary"`
	Confidence  float64           `json:"confidence"` // [0, 1]
	Source      PatternID         `json:"source"`
	LastUpdated time.Time         `json:"last_updated"`
}
