// Package store provides the event and knowledge storage interfaces and
// their SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/coachkit/coachkit/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// EventStore is the read/write contract for the daily-life event journal.
// The detection pipeline only reads; the CLI and importers write.
type EventStore interface {
	// PutEvent persists a single event for a user. Returns the stored ID.
	PutEvent(ctx context.Context, userID string, ev model.CoachEvent) (string, error)

	// ListEvents returns all events of the given kinds within [from, to),
	// ascending by timestamp.
	ListEvents(ctx context.Context, userID string, kinds []model.EventKind, from, to time.Time) ([]model.CoachEvent, error)
}

// KnowledgeStore is the contract for long-term personal knowledge.
type KnowledgeStore interface {
	// FindKnowledge looks up the knowledge item for a (user, category, source)
	// key. Returns ErrNotFound when none exists.
	FindKnowledge(ctx context.Context, userID string, category model.KnowledgeCategory, source model.PatternID) (*model.KnowledgeItem, error)

	// UpsertKnowledge inserts the item, or on a (user, category, source)
	// conflict refreshes the summary and raises confidence to the max of the
	// stored and offered values. The max-merge happens inside the store so it
	// holds under concurrent promotion for the same key.
	UpsertKnowledge(ctx context.Context, item model.KnowledgeItem) (*model.KnowledgeItem, error)

	// ListKnowledge returns up to limit items for a user, highest confidence
	// first.
	ListKnowledge(ctx context.Context, userID string, limit int) ([]model.KnowledgeItem, error)
}
