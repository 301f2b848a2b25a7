// Package store provides typed data access for users, posts, comments and
// contacts over a relational database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Sentinel errors returned by query methods. Callers branch on these rather
// than inspecting driver error strings.
var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict is returned when an insert or update violates a
	// uniqueness constraint (username, email or post title).
	ErrConflict = errors.New("store: already exists")
)

// DBTX is the subset of *sql.DB / *sql.Tx the queries need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds a database handle and exposes one method per query.
type Queries struct {
	db DBTX
}

// New creates a Queries value bound to the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// Both drivers in use (modernc.org/sqlite in production, mattn/go-sqlite3 in
// tests) surface the violated constraint in the message the same way.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
