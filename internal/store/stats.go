package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath         string      `json:"db_path"`
	DBSizeBytes    int64       `json:"db_size_bytes"`
	TotalEvents    int         `json:"total_events"`
	TotalKnowledge int         `json:"total_knowledge"`
	Kinds          []KindStats `json:"kinds"`
}

// KindStats holds per-event-kind counts.
type KindStats struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
	Users int    `json:"users"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&st.TotalEvents)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge`).Scan(&st.TotalKnowledge)

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) as cnt, COUNT(DISTINCT user_id) as users
		FROM events GROUP BY kind ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var k KindStats
		rows.Scan(&k.Kind, &k.Count, &k.Users)
		st.Kinds = append(st.Kinds, k)
	}

	return st, nil
}
