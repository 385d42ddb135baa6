// Package userfilter resolves saved named filters.
//
// A saved filter is a persisted query-DSL filter expression resolvable by
// name at compile time. A name that resolves to nothing is not an error;
// the compiler simply skips it.
package userfilter

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/biosearch/genequery/internal/errors"
	"github.com/biosearch/genequery/internal/query"
)

// Store resolves saved filters by name.
// Get returns (nil, nil) when the name is unknown.
type Store interface {
	Get(ctx context.Context, name string) (query.M, error)
	Close() error
}

// SQLiteStore is the sqlite-backed saved-filter store.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS user_filters (
	name   TEXT PRIMARY KEY,
	filter TEXT NOT NULL
);`

// Open opens (or creates) the saved-filter database at path.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open filter store: %w", err)
	}

	// Single writer to prevent lock contention
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL mode must be set via PRAGMA for modernc.org/sqlite
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create filter schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Get returns the filter expression saved under name, or (nil, nil) when
// no filter with that name exists.
func (s *SQLiteStore) Get(ctx context.Context, name string) (query.M, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT filter FROM user_filters WHERE name = ?`, name).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.ExternalError(errors.ErrCodeFilterStore,
			fmt.Sprintf("looking up saved filter %q", name), err)
	}

	var filter query.M
	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		return nil, errors.ExternalError(errors.ErrCodeFilterStore,
			fmt.Sprintf("saved filter %q is not valid JSON", name), err)
	}
	return filter, nil
}

// Put saves a filter expression under name, replacing any previous value.
func (s *SQLiteStore) Put(ctx context.Context, name string, filter query.M) error {
	raw, err := json.Marshal(filter)
	if err != nil {
		return fmt.Errorf("encoding filter %q: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_filters (name, filter) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET filter = excluded.filter`,
		name, string(raw))
	if err != nil {
		return fmt.Errorf("saving filter %q: %w", name, err)
	}
	return nil
}

// Delete removes a saved filter. Deleting an unknown name is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_filters WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting filter %q: %w", name, err)
	}
	return nil
}

// List returns the names of every saved filter.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM user_filters ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing filters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning filter name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
