// Package store manages a single per-dataset SQLite file: its schema
// lifecycle, boot ingestion, metadata overlay, and the bookmark/comment
// tables that hang off a boot's event rows.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import SQLite driver for database/sql
	_ "modernc.org/sqlite"
)

// Store wraps an open dataset file. One Store is opened per logical
// operation and closed when the operation completes; there is no shared
// connection pool across operations.
type Store struct {
	DB      *sql.DB
	Queries *Queries
	path    string
}

// Open opens (creating if necessary) the dataset store at path and brings
// its schema up to date. The upgrade runs on every open and is a no-op once
// the schema is current.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: empty path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create dataset directory: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dataset path: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", filepath.ToSlash(absPath))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset store: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping dataset store: %w", err)
	}

	s := &Store{
		DB:      db,
		Queries: New(db),
		path:    absPath,
	}

	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ensure schema for %s: %w", path, err)
	}

	return s, nil
}

// Path returns the absolute path of the underlying store file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// WithTx runs fn inside a single transaction, retrying the whole unit when
// the file is locked by another writer. Any error from fn rolls back every
// write made so far.
func (s *Store) WithTx(ctx context.Context, fn func(context.Context, *Queries) error) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("store: missing database handle")
	}

	return retryBusy(ctx, func() error {
		tx, err := s.DB.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		queries := s.Queries.WithTx(tx)

		if err := fn(ctx, queries); err != nil {
			_ = tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			_ = tx.Rollback()
			return err
		}

		return nil
	})
}
