package driver

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// History records one CLI invocation per row in a local SQLite
// database, the ambient "compile history" domain
// component: session id, source hash, diagnostic count, result, and
// duration. Grounded on funvibe/funxy's direct use of
// modernc.org/sqlite and github.com/google/uuid for its own
// module/session store.
type History struct {
	db *sql.DB
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS runs (
	session_id   TEXT PRIMARY KEY,
	source_hash  TEXT NOT NULL,
	diag_count   INTEGER NOT NULL,
	result       INTEGER,
	duration_ms  INTEGER NOT NULL,
	ran_at       TEXT NOT NULL
);`

// OpenHistory opens (creating if absent) the SQLite database at path
// and ensures its schema exists.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("driver: opening history database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("driver: creating history schema: %w", err)
	}
	return &History{db: db}, nil
}

// Close releases the underlying database handle.
func (h *History) Close() error { return h.db.Close() }

// Record inserts one row for a completed run, tagging it with a fresh
// UUID session id the same way funxy's pipeline stamps module
// instances.
func (h *History) Record(sourceHash string, diagCount int, result *int32, duration time.Duration) (string, error) {
	sessionID := uuid.New().String()

	var resultVal sql.NullInt64
	if result != nil {
		resultVal = sql.NullInt64{Int64: int64(*result), Valid: true}
	}

	_, err := h.db.Exec(
		`INSERT INTO runs (session_id, source_hash, diag_count, result, duration_ms, ran_at) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, sourceHash, diagCount, resultVal, duration.Milliseconds(), time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00"),
	)
	if err != nil {
		return "", fmt.Errorf("driver: recording history: %w", err)
	}
	return sessionID, nil
}

// Run is one recorded history row, returned by Recent for display.
type Run struct {
	SessionID  string
	SourceHash string
	DiagCount  int
	Result     *int32
	DurationMS int64
	RanAt      string
}

// Recent returns the last n recorded runs, most recent first.
func (h *History) Recent(n int) ([]Run, error) {
	rows, err := h.db.Query(
		`SELECT session_id, source_hash, diag_count, result, duration_ms, ran_at FROM runs ORDER BY ran_at DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("driver: querying history: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var result sql.NullInt64
		if err := rows.Scan(&r.SessionID, &r.SourceHash, &r.DiagCount, &result, &r.DurationMS, &r.RanAt); err != nil {
			return nil, fmt.Errorf("driver: scanning history row: %w", err)
		}
		if result.Valid {
			v := int32(result.Int64)
			r.Result = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
