// Package promote persists sufficiently confident patterns as long-term
// knowledge.
package promote

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/coachkit/coachkit/internal/model"
	"github.com/coachkit/coachkit/internal/store"
)

// Threshold is the confidence a pattern needs before it is worth keeping
// across runs.
const Threshold = 0.65

// categoryBySource maps each durable pattern kind to the knowledge category
// it lands in. Pattern kinds absent from this table are deliberately not
// promoted. Adding a pattern kind means adding exactly one row here.
var categoryBySource = map[model.PatternID]model.KnowledgeCategory{
	model.PatternNutritionEnergy: model.CategoryPattern,
	model.PatternSleepAnxiety:    model.CategoryPattern,
	model.PatternExerciseSleep:   model.CategoryPattern,
	model.PatternRelationalAuth:  model.CategoryStrength,
	model.PatternRelationalDim:   model.CategoryBlindspot,
	model.PatternStressTriggers:  model.CategoryChallenge,
}

// Promoter upserts knowledge items derived from detected patterns.
type Promoter struct {
	knowledge store.KnowledgeStore
	log       *zap.Logger
}

// New creates a Promoter. A nil logger falls back to a no-op one.
func New(knowledge store.KnowledgeStore, log *zap.Logger) *Promoter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Promoter{knowledge: knowledge, log: log}
}

// Promote persists every pattern at or above Threshold whose kind maps to a
// knowledge category. Re-promoting an already-known pattern refreshes its
// summary and raises confidence to the max of old and new, so running the
// same detection twice never creates duplicate rows. One failing upsert does
// not stop the others; the joined error is returned for the caller to report.
func (p *Promoter) Promote(ctx context.Context, userID string, patterns []model.Pattern) error {
	var errs []error
	for _, pat := range patterns {
		if pat.Confidence < Threshold {
			continue
		}
		category, ok := categoryBySource[pat.PatternID]
		if !ok {
			continue
		}

		item := model.KnowledgeItem{
			UserID:      userID,
			Category:    category,
			Summary:     pat.Description,
			Confidence:  pat.Confidence,
			Source:      pat.PatternID,
			LastUpdated: pat.DiscoveredAt,
		}

		existing, err := p.knowledge.FindKnowledge(ctx, userID, category, pat.PatternID)
		switch {
		case err == nil:
			item.ID = existing.ID
			if existing.Confidence > item.Confidence {
				item.Confidence = existing.Confidence
			}
		case errors.Is(err, store.ErrNotFound):
			item.ID = ulid.Make().String()
		default:
			errs = append(errs, fmt.Errorf("find %s/%s: %w", category, pat.PatternID, err))
			continue
		}

		if _, err := p.knowledge.UpsertKnowledge(ctx, item); err != nil {
			errs = append(errs, fmt.Errorf("upsert %s/%s: %w", category, pat.PatternID, err))
			continue
		}
		p.log.Debug("promoted pattern to knowledge",
			zap.String("user_id", userID),
			zap.String("pattern", string(pat.PatternID)),
			zap.Float64("confidence", item.Confidence))
	}
	return errors.Join(errs...)
}
