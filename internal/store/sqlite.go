package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/coachkit/coachkit/internal/model"
)

// SQLiteStore implements EventStore and KnowledgeStore using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		kind       TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		payload    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_user_kind ON events(user_id, kind, entry_date);

	CREATE TABLE IF NOT EXISTS knowledge (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		category     TEXT NOT NULL,
		summary      TEXT NOT NULL,
		confidence   REAL NOT NULL,
		source       TEXT NOT NULL,
		last_updated TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_knowledge_key ON knowledge(user_id, category, source);
	CREATE INDEX IF NOT EXISTS idx_knowledge_user ON knowledge(user_id, confidence DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// PutEvent persists one event. An empty ID on the event is filled in.
func (s *SQLiteStore) PutEvent(ctx context.Context, userID string, ev model.CoachEvent) (string, error) {
	id := s.newID()
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (id, user_id, kind, entry_date, payload) VALUES (?, ?, ?, ?, ?)`,
		id, userID, string(ev.Kind()), ev.When().UTC().Format(time.RFC3339), string(payload))
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

// ListEvents returns all events of the given kinds within [from, to),
// ascending by timestamp.
func (s *SQLiteStore) ListEvents(ctx context.Context, userID string, kinds []model.EventKind, from, to time.Time) ([]model.CoachEvent, error) {
	if len(kinds) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(kinds))
	placeholders = placeholders[:len(placeholders)-1]
	args := []interface{}{userID}
	for _, k := range kinds {
		args = append(args, string(k))
	}
	args = append(args, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, kind, payload FROM events
		WHERE user_id = ? AND kind IN (%s) AND entry_date >= ? AND entry_date < ?
		ORDER BY entry_date ASC`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.CoachEvent
	for rows.Next() {
		var id, kind, payload string
		if err := rows.Scan(&id, &kind, &payload); err != nil {
			return nil, err
		}
		ev, err := decodeEvent(model.EventKind(kind), id, []byte(payload))
		if err != nil {
			return nil, fmt.Errorf("decode event %s: %w", id, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func decodeEvent(kind model.EventKind, id string, payload []byte) (model.CoachEvent, error) {
	switch kind {
	case model.KindHealthCheckin:
		var e model.HealthCheckin
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		e.ID = id
		return e, nil
	case model.KindMoment:
		var e model.Moment
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		e.ID = id
		return e, nil
	case model.KindReflection:
		var e model.EveningReflection
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		e.ID = id
		return e, nil
	case model.KindConversationUser:
		var e model.ConversationUser
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		e.ID = id
		return e, nil
	case model.KindConversationCoach:
		var e model.ConversationCoach
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		e.ID = id
		return e, nil
	}
	return nil, fmt.Errorf("unknown event kind %q", kind)
}

// FindKnowledge looks up a knowledge item by its (user, category, source) key.
func (s *SQLiteStore) FindKnowledge(ctx context.Context, userID string, category model.KnowledgeCategory, source model.PatternID) (*model.KnowledgeItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, category, summary, confidence, source, last_updated
		FROM knowledge WHERE user_id = ? AND category = ? AND source = ?`,
		userID, string(category), string(source))

	item, err := scanKnowledge(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpsertKnowledge inserts or refreshes a knowledge item. The UNIQUE index on
// (user_id, category, source) plus MAX() on conflict keeps confidence
// monotonic even when two promotions race on the same key.
func (s *SQLiteStore) UpsertKnowledge(ctx context.Context, item model.KnowledgeItem) (*model.KnowledgeItem, error) {
	if item.ID == "" {
		item.ID = s.newID()
	}
	if item.LastUpdated.IsZero() {
		item.LastUpdated = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO knowledge (id, user_id, category, summary, confidence, source, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, category, source) DO UPDATE SET
			summary      = excluded.summary,
			confidence   = MAX(knowledge.confidence, excluded.confidence),
			last_updated = excluded.last_updated`,
		item.ID, item.UserID, string(item.Category), item.Summary,
		item.Confidence, string(item.Source), item.LastUpdated.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("upsert knowledge: %w", err)
	}

	return s.FindKnowledge(ctx, item.UserID, item.Category, item.Source)
}

// ListKnowledge returns up to limit items for a user, highest confidence first.
func (s *SQLiteStore) ListKnowledge(ctx context.Context, userID string, limit int) ([]model.KnowledgeItem, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, summary, confidence, source, last_updated
		FROM knowledge WHERE user_id = ?
		ORDER BY confidence DESC, last_updated DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.KnowledgeItem
	for rows.Next() {
		item, err := scanKnowledge(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanKnowledge(row scanner) (*model.KnowledgeItem, error) {
	var item model.KnowledgeItem
	var category, source, lastUpdated string

	err := row.Scan(&item.ID, &item.UserID, &category, &item.Summary,
		&item.Confidence, &source, &lastUpdated)
	if err != nil {
		return nil, err
	}

	item.Category = model.KnowledgeCategory(category)
	item.Source = model.PatternID(source)
	item.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)
	return &item, nil
}

// Close closes the store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
