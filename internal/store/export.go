package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coachkit/coachkit/internal/model"
)

// EventRecord is the wire form of an event for export/import: the kind
// discriminator alongside the raw payload.
type EventRecord struct {
	UserID  string          `json:"user_id"`
	Kind    model.EventKind `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// ExportEvents returns all events for a user as wire records, oldest first.
func (s *SQLiteStore) ExportEvents(ctx context.Context, userID string) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, kind, payload FROM events
		WHERE user_id = ? ORDER BY entry_date ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []EventRecord
	for rows.Next() {
		var r EventRecord
		var kind, payload string
		if err := rows.Scan(&r.UserID, &kind, &payload); err != nil {
			return nil, err
		}
		r.Kind = model.EventKind(kind)
		r.Payload = json.RawMessage(payload)
		records = append(records, r)
	}
	return records, rows.Err()
}

// ImportEvents stores events from an export. Each record is decoded through
// the event union so malformed payloads are rejected rather than stored.
func (s *SQLiteStore) ImportEvents(ctx context.Context, records []EventRecord) (int, error) {
	imported := 0
	for i, r := range records {
		ev, err := decodeEvent(r.Kind, "", r.Payload)
		if err != nil {
			return imported, fmt.Errorf("record %d: %w", i, err)
		}
		if ev.When().IsZero() {
			return imported, fmt.Errorf("record %d: missing entry_date", i)
		}
		if _, err := s.PutEvent(ctx, r.UserID, ev); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// PruneEvents deletes events older than the cutoff for a user. Returns the
// number of rows removed.
func (s *SQLiteStore) PruneEvents(ctx context.Context, userID string, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM events WHERE user_id = ? AND entry_date < ?`,
		userID, before.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
