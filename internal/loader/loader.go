// Package loader assembles a user's recent event window from the event store.
package loader

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coachkit/coachkit/internal/model"
	"github.com/coachkit/coachkit/internal/store"
)

// DefaultWindowDays is the trailing window when the caller passes none.
const DefaultWindowDays = 14

// Loader fetches each event source concurrently and merges the results into
// one timestamp-ascending slice.
type Loader struct {
	events store.EventStore
	log    *zap.Logger
}

// New creates a Loader. A nil logger falls back to a no-op one.
func New(events store.EventStore, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{events: events, log: log}
}

// Load returns all events for the user in the trailing window ending at now,
// ascending by timestamp. A source kind that fails is logged and skipped —
// partial insight beats no insight — but if every source fails the load
// fails too.
func (l *Loader) Load(ctx context.Context, userID string, windowDays int, now time.Time) ([]model.CoachEvent, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	from := now.AddDate(0, 0, -windowDays)

	results := make([][]model.CoachEvent, len(model.SourceKinds))
	errs := make([]error, len(model.SourceKinds))

	// Fan out one fetch per source kind. Failures land in errs rather than
	// cancelling the group, so one broken source cannot sink the rest.
	g, gctx := errgroup.WithContext(ctx)
	for i, kinds := range model.SourceKinds {
		g.Go(func() error {
			evs, err := l.events.ListEvents(gctx, userID, kinds, from, now)
			if err != nil {
				errs[i] = err
				l.log.Warn("event source failed, continuing without it",
					zap.String("user_id", userID),
					zap.Any("kinds", kinds),
					zap.Error(err))
				return nil
			}
			results[i] = evs
			return nil
		})
	}
	g.Wait()

	failed := 0
	var firstErr error
	for _, err := range errs {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failed == len(model.SourceKinds) {
		return nil, fmt.Errorf("all event sources failed: %w", firstErr)
	}

	var merged []model.CoachEvent
	for _, evs := range results {
		merged = append(merged, evs...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].When().Before(merged[j].When())
	})
	return merged, nil
}
