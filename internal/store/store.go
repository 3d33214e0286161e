// Package store persists learner progress and attempt records. Every
// logical write fans out into a set of denormalized rows submitted as one
// batch; reads pick whichever physical table matches the access pattern.
// The store performs no business-rule validation and no silent recovery:
// it persists exactly what the evaluation engine hands it and surfaces
// every failure to the caller.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the shared database handle and provides access to the
// per-entity repositories. The handle pools connections internally and is
// safe for concurrent use; no application-level locking is needed.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn, applies recommended pragmas
// and creates any missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// multiWrite submits a set of writes as a single batch. The caller observes
// all-or-nothing success or failure, and every statement is idempotent, so
// retrying a failed or timed-out batch is always safe. The batch is not
// promised to become visible atomically across tables to concurrent
// readers; a reader needing strict correctness should prefer the canonical
// by-id table.
func (s *Store) multiWrite(ctx context.Context, ops []writeOp) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	for _, op := range ops {
		if _, err := tx.NamedExecContext(ctx, op.query, op.arg); err != nil {
			tx.Rollback()
			return fmt.Errorf("batch statement: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for a long-lived shared handle.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. TRAVERSE_DB environment variable
// 2. $XDG_DATA_HOME/traverse/traverse.db
// 3. ~/.local/share/traverse/traverse.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("TRAVERSE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "traverse", "traverse.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
