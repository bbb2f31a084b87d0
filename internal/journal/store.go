// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps a SQLite log of renumbering runs: one row per
// processed source with its marker counts and outcome. The journal is
// write-only from the renumbering point of view; no counter state is ever
// read back into a session.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/inout-renumber/pkg/types"
)

const defaultMaxResults = 20

// Store manages the journal SQLite database.
type Store struct {
	db         *sql.DB
	path       string
	maxResults int
}

// Open opens or creates the journal database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.JournalConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		path:       cfg.Path,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			mode TEXT NOT NULL,
			status TEXT NOT NULL,
			in_markers INTEGER NOT NULL DEFAULT 0,
			out_markers INTEGER NOT NULL DEFAULT 0,
			resets INTEGER NOT NULL DEFAULT 0,
			final_number INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			started_at TEXT NOT NULL,
			duration_ns INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one run record.
func (s *Store) Record(ctx context.Context, rec types.RunRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (source, mode, status, in_markers, out_markers, resets,
			final_number, error, started_at, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Source, string(rec.Mode), string(rec.Status),
		rec.InMarkers, rec.OutMarkers, rec.Resets, rec.FinalNumber,
		nullString(rec.Error),
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		int64(rec.Duration),
	)
	if err != nil {
		return fmt.Errorf("inserting run for %s: %w", rec.Source, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
