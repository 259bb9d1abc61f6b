package promote

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/coachkit/coachkit/internal/model"
	"github.com/coachkit/coachkit/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sleepPattern(confidence float64) model.Pattern {
	return model.Pattern{
		ID:           "p1",
		PatternID:    model.PatternSleepAnxiety,
		Domain:       "sleep",
		Description:  "anxiety climbs after short nights",
		Confidence:   confidence,
		DiscoveredAt: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestPromoteCreatesKnowledge(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := New(s, nil)

	if err := p.Promote(ctx, "u1", []model.Pattern{sleepPattern(0.70)}); err != nil {
		t.Fatalf("promote: %v", err)
	}

	item, err := s.FindKnowledge(ctx, "u1", model.CategoryPattern, model.PatternSleepAnxiety)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if item.Confidence != 0.70 {
		t.Errorf("expected confidence 0.70, got %v", item.Confidence)
	}
	if item.Summary == "" {
		t.Error("expected summary from pattern description")
	}
}

func TestPromoteIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := New(s, nil)

	patterns := []model.Pattern{sleepPattern(0.70)}
	if err := p.Promote(ctx, "u1", patterns); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if err := p.Promote(ctx, "u1", patterns); err != nil {
		t.Fatalf("promote again: %v", err)
	}

	items, _ := s.ListKnowledge(ctx, "u1", 10)
	if len(items) != 1 {
		t.Fatalf("expected exactly 1 knowledge row after double promote, got %d", len(items))
	}
	if items[0].Confidence != 0.70 {
		t.Errorf("expected confidence 0.70, got %v", items[0].Confidence)
	}
}

func TestPromoteMonotonicMaxMerge(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := New(s, nil)

	p.Promote(ctx, "u1", []model.Pattern{sleepPattern(0.70)})
	// Re-detection at 0.68: above threshold but below the stored value
	p.Promote(ctx, "u1", []model.Pattern{sleepPattern(0.68)})

	item, _ := s.FindKnowledge(ctx, "u1", model.CategoryPattern, model.PatternSleepAnxiety)
	if item.Confidence != 0.70 {
		t.Errorf("expected confidence to stay 0.70, got %v", item.Confidence)
	}

	// Re-detection at 0.85 raises it
	p.Promote(ctx, "u1", []model.Pattern{sleepPattern(0.85)})
	item, _ = s.FindKnowledge(ctx, "u1", model.CategoryPattern, model.PatternSleepAnxiety)
	if item.Confidence != 0.85 {
		t.Errorf("expected confidence raised to 0.85, got %v", item.Confidence)
	}
}

func TestPromoteBelowThresholdSkipped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := New(s, nil)

	// 0.70 persists; a later 0.60 run is below threshold and must not touch
	// the stored row
	p.Promote(ctx, "u1", []model.Pattern{sleepPattern(0.70)})
	p.Promote(ctx, "u1", []model.Pattern{sleepPattern(0.60)})

	item, err := s.FindKnowledge(ctx, "u1", model.CategoryPattern, model.PatternSleepAnxiety)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if item.Confidence != 0.70 {
		t.Errorf("expected stored confidence 0.70, got %v", item.Confidence)
	}

	// Never promoted at all below threshold
	if err := p.Promote(ctx, "u2", []model.Pattern{sleepPattern(0.60)}); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if _, err := s.FindKnowledge(ctx, "u2", model.CategoryPattern, model.PatternSleepAnxiety); err != store.ErrNotFound {
		t.Errorf("expected no knowledge for sub-threshold pattern, got %v", err)
	}
}

func TestPromoteUnmappedPatternSkipped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := New(s, nil)

	unknown := sleepPattern(0.95)
	unknown.PatternID = model.PatternID("something-new")
	if err := p.Promote(ctx, "u1", []model.Pattern{unknown}); err != nil {
		t.Fatalf("unmapped pattern must not error: %v", err)
	}

	items, _ := s.ListKnowledge(ctx, "u1", 10)
	if len(items) != 0 {
		t.Errorf("expected no knowledge for unmapped pattern, got %d", len(items))
	}
}

func TestPromoteCategoryMapping(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := New(s, nil)

	dim := sleepPattern(0.80)
	dim.PatternID = model.PatternRelationalDim
	p.Promote(ctx, "u1", []model.Pattern{dim})

	if _, err := s.FindKnowledge(ctx, "u1", model.CategoryBlindspot, model.PatternRelationalDim); err != nil {
		t.Errorf("expected dimming pattern under blindspot category: %v", err)
	}
}
