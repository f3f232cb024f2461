package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/danapr/lumen/pkg/state"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	id         TEXT PRIMARY KEY,
	thread_id  TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	state      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_checkpoints_thread
	ON checkpoints (thread_id, created_at);
`

// SQLiteSaver stores checkpoints in a SQLite database. Every Put appends a
// new row so earlier checkpoints of a thread remain inspectable; Get reads
// the newest row for the thread.
type SQLiteSaver struct {
	db *sql.DB
}

// NewSQLiteSaver opens (or creates) the database at path and ensures the
// checkpoint schema exists.
func NewSQLiteSaver(path string) (*SQLiteSaver, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize checkpoint schema: %w", err)
	}

	log.Info().Str("path", path).Msg("Checkpoint database opened")

	return &SQLiteSaver{db: db}, nil
}

// Get returns the latest checkpointed state for a thread.
func (s *SQLiteSaver) Get(ctx context.Context, threadID string) (state.State, error) {
	if err := ValidateThreadID(threadID); err != nil {
		return state.State{}, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT state FROM checkpoints
		 WHERE thread_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`, threadID)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return state.New(), nil
		}
		return state.State{}, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	var st state.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return state.State{}, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	return st, nil
}

// Put appends a new checkpoint row for a thread.
func (s *SQLiteSaver) Put(ctx context.Context, threadID string, st state.State) error {
	if err := ValidateThreadID(threadID); err != nil {
		return err
	}

	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate checkpoint id: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (id, thread_id, created_at, state) VALUES (?, ?, ?, ?)`,
		id, threadID, time.Now().UnixNano(), string(raw)); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	log.Debug().
		Str("thread_id", threadID).
		Str("checkpoint_id", id).
		Int("messages", len(st.Messages)).
		Msg("Checkpoint saved")

	return nil
}

// Threads lists thread ids ordered by most recent activity.
func (s *SQLiteSaver) Threads(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT thread_id FROM checkpoints
		 GROUP BY thread_id
		 ORDER BY MAX(created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	var threads []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan thread id: %w", err)
		}
		threads = append(threads, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read threads: %w", err)
	}
	return threads, nil
}

// History returns every checkpointed message count for a thread, oldest
// first. Used by the CLI to show how a thread grew over time.
func (s *SQLiteSaver) History(ctx context.Context, threadID string) ([]int, error) {
	if err := ValidateThreadID(threadID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT state FROM checkpoints
		 WHERE thread_id = ?
		 ORDER BY created_at ASC, id ASC`, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var counts []int
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		var st state.State
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
		}
		counts = append(counts, len(st.Messages))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return counts, nil
}

// Close releases the underlying database handle.
func (s *SQLiteSaver) Close() error {
	return s.db.Close()
}
