// Package persistence implements the Persistence Layer (§4.8): a
// relational store over modernc.org/sqlite with additive-merge writes,
// an auto-save timer, and neutral-document import/export.
//
// The schema and sql.Open("sqlite", path) wiring follow the pattern
// used across the retrieved pack's CLI-suggestion tooling (e.g.
// runger/clai's internal/suggestions store, which keys a command-event
// table the same way): a single SQLite file opened once at startup,
// WAL-mode for concurrent readers/writers, schema created with
// CREATE TABLE IF NOT EXISTS on every open.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pscue/pscue/internal/history"
	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/silog"
	"github.com/pscue/pscue/internal/workflow"
)

const schema = `
CREATE TABLE IF NOT EXISTS command_knowledge (
	command_key TEXT PRIMARY KEY,
	total_usage INTEGER NOT NULL DEFAULT 0,
	first_seen  INTEGER NOT NULL,
	last_used   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS argument_knowledge (
	command_key TEXT NOT NULL,
	argument    TEXT NOT NULL,
	usage_count INTEGER NOT NULL DEFAULT 0,
	first_seen  INTEGER NOT NULL,
	last_used   INTEGER NOT NULL,
	is_flag     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (command_key, argument)
);

CREATE TABLE IF NOT EXISTS command_history (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	command_line     TEXT NOT NULL,
	command          TEXT NOT NULL,
	arguments        TEXT NOT NULL,
	timestamp        INTEGER NOT NULL,
	working_directory TEXT NOT NULL,
	success          INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS workflow_transitions (
	from_key            TEXT NOT NULL,
	to_key              TEXT NOT NULL,
	frequency           INTEGER NOT NULL DEFAULT 0,
	total_time_delta_ms INTEGER NOT NULL DEFAULT 0,
	first_seen          INTEGER NOT NULL,
	last_seen           INTEGER NOT NULL,
	PRIMARY KEY (from_key, to_key)
);
`

// Store is the durable backing store for the Knowledge Graph, Workflow
// Learner, and Command History.
type Store struct {
	db  *sql.DB
	log *silog.Logger

	mu sync.Mutex // serializes writes (§5 "single writer task")
}

// Open opens (creating if necessary) the SQLite database at path, in
// WAL mode, and ensures the schema exists.
func Open(ctx context.Context, path string, log *silog.Logger) (*Store, error) {
	if log == nil {
		log = silog.Nop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadAll reads the entire store into fresh in-memory structures, per
// the §4.8 "on init: load everything into memory" lifecycle rule.
func (s *Store) LoadAll(ctx context.Context) (knowledge.Snapshot, workflow.Snapshot, []history.Entry, error) {
	ks, err := s.loadKnowledge(ctx)
	if err != nil {
		return knowledge.Snapshot{}, workflow.Snapshot{}, nil, fmt.Errorf("load knowledge: %w", err)
	}
	ws, err := s.loadWorkflow(ctx)
	if err != nil {
		return knowledge.Snapshot{}, workflow.Snapshot{}, nil, fmt.Errorf("load workflow: %w", err)
	}
	hist, err := s.loadHistory(ctx)
	if err != nil {
		return knowledge.Snapshot{}, workflow.Snapshot{}, nil, fmt.Errorf("load history: %w", err)
	}
	return ks, ws, hist, nil
}

// Clear deletes all rows from every table, for the management surface's
// "clear learned data" operation (§6). It does not delete the store
// file itself, so the next save starts from a clean, empty state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"command_knowledge", "argument_knowledge", "command_history", "workflow_transitions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func unixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func durationToMillis(d time.Duration) int64 {
	return d.Milliseconds()
}

func millisToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
