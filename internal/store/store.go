// Package store keeps a SQLite history of audit runs.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the run history tables.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Open opens dbPath and migrates it.
func Open(dbPath string) (*Store, error) {
	s, err := NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("store: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the history tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
  id                    INTEGER PRIMARY KEY,
  started_at            TIMESTAMP NOT NULL,
  module_folder         TEXT NOT NULL,
  tests_folder          TEXT NOT NULL,
  modules_missing_file  INTEGER NOT NULL,
  missing_tests         INTEGER NOT NULL,
  total_functions       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS module_results (
  id              INTEGER PRIMARY KEY,
  run_id          INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  module          TEXT NOT NULL,
  missing_file    INTEGER NOT NULL,
  missing_tests   INTEGER NOT NULL,
  function_count  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS missing_cases (
  id         INTEGER PRIMARY KEY,
  run_id     INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  module     TEXT NOT NULL,
  function   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_module_results_run ON module_results(run_id);
CREATE INDEX IF NOT EXISTS idx_missing_cases_run ON missing_cases(run_id);
`
