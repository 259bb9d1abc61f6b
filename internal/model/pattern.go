package model

import "time"

// PatternID is the stable key for a detectable pattern kind.
type PatternID string

const (
	PatternNutritionEnergy PatternID = "nutrition-meals-energy"
	PatternSleepAnxiety    PatternID = "sleep-anxiety"
	PatternExerciseSleep   PatternID = "exercise-sleep"
	PatternRelationalAuth  PatternID = "relational-authenticity"
	PatternRelationalDim   PatternID = "relational-authenticity-dimming"
	PatternStressTriggers  PatternID = "stress-triggers"
)

// Pattern is a behavioral correlation detected in a single run. Patterns are
// transient: created fresh on every detection pass, never mutated, never
// persisted directly (only their promoted knowledge form is).
type Pattern struct {
	ID           string         `json:"id"`
	PatternID    PatternID      `json:"pattern_id"`
	Domain       string         `json:"domain"`
	Description  string         `json:"description"`
	Confidence   float64        `json:"confidence"` // (0, 1]
	Evidence     map[string]any `json:"evidence,omitempty"`
	DiscoveredAt time.Time      `json:"discovered_at"`
}

// EvidencePoints sums the numeric evidence counters, a rough measure of how
// many observations support the pattern.
func (p Pattern) EvidencePoints() int {
	n := 0
	for _, v := range p.Evidence {
		switch x := v.(type) {
		case int:
			n += x
		case float64:
			n += int(x)
		}
	}
	return n
}
