package model

// CardEvidence summarizes the data behind a coaching card.
type CardEvidence struct {
	DataPoints int     `json:"data_points"`
	Confidence float64 `json:"confidence"`
}

// CoachingCard is a ranked, user-facing narrative derived from a single
// pattern. Cards are recomputed every run and never persisted.
type CoachingCard struct {
	ID              string        `json:"id"`
	Type            string        `json:"type"`
	Priority        int           `json:"priority"` // 1-3
	Observation     string        `json:"observation"`
	Reasoning       string        `json:"reasoning,omitempty"`
	Blindspot       string        `json:"blindspot,omitempty"`
	Question        string        `json:"question,omitempty"`
	SuggestedAction string        `json:"suggested_action,omitempty"`
	HowToImplement  string        `json:"how_to_implement,omitempty"`
	Evidence        *CardEvidence `json:"evidence,omitempty"`
}
