// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists metadata about past search runs in SQLite:
// which engines ran, how long they took, and how they ended. It stores no
// result items, so it is an audit log rather than a cache.
// Implements: docs/ARCHITECTURE § History.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/metasearch/pkg/types"
)

const dbFile = "history.db"

// Store manages the search history SQLite database.
type Store struct {
	db      *sql.DB
	maxRuns int
}

// NewStore opens or creates the history database at cfg.Dir/history.db,
// creating the schema when absent.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	maxRuns := cfg.MaxRuns
	if maxRuns <= 0 {
		maxRuns = 20
	}

	s := &Store{db: db, maxRuns: maxRuns}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_engines (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			engine_id TEXT NOT NULL,
			timing_ms INTEGER NOT NULL,
			total_items INTEGER,
			error_kind TEXT,
			error_message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_engines_run ON run_engines(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Run is one recorded multi-engine search.
type Run struct {
	ID        string
	Query     string
	CreatedAt time.Time
	Engines   []EngineOutcome
}

// EngineOutcome is one engine's row within a run.
type EngineOutcome struct {
	EngineID   string
	Timing     time.Duration
	TotalItems *int
	ErrorKind  string
	ErrorMsg   string
}

// RecordRun stores one multi-engine run and returns its generated id.
func (s *Store) RecordRun(ctx context.Context, query string, results map[string]*types.ResultSet) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, query, created_at) VALUES (?, ?, ?)`,
		runID, query, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for engineID, rs := range results {
		var kind, msg string
		if rs.Failed() {
			kind = string(rs.Err.Kind)
			msg = rs.Err.Message
		}
		var total any
		if rs.TotalItems != nil {
			total = *rs.TotalItems
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_engines (run_id, engine_id, timing_ms, total_items, error_kind, error_message)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, engineID, rs.Timing.Milliseconds(), total, kind, msg); err != nil {
			return "", fmt.Errorf("inserting engine outcome: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// List returns the most recent runs with their engine outcomes, newest
// first. A non-positive limit applies the configured default.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxRuns
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, created_at FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Query, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		outcomes, err := s.engineOutcomes(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Engines = outcomes
	}
	return runs, nil
}

func (s *Store) engineOutcomes(ctx context.Context, runID string) ([]EngineOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT engine_id, timing_ms, total_items, error_kind, error_message
		 FROM run_engines WHERE run_id = ? ORDER BY engine_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying engine outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []EngineOutcome
	for rows.Next() {
		var o EngineOutcome
		var timingMs int64
		var total sql.NullInt64
		var kind, msg sql.NullString
		if err := rows.Scan(&o.EngineID, &timingMs, &total, &kind, &msg); err != nil {
			return nil, fmt.Errorf("scanning engine outcome: %w", err)
		}
		o.Timing = time.Duration(timingMs) * time.Millisecond
		if total.Valid {
			n := int(total.Int64)
			o.TotalItems = &n
		}
		o.ErrorKind = kind.String
		o.ErrorMsg = msg.String
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// Prune deletes runs older than the cutoff and returns how many were
// removed. Engine rows cascade.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
