// Package testutil provides shared test helpers for the blog project.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/olegiv/blog-go/internal/store"

	_ "github.com/mattn/go-sqlite3" // test driver; production uses modernc.org/sqlite
)

// TestDB creates an in-memory SQLite database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_fk=1&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	// A single connection keeps the in-memory database alive across queries.
	db.SetMaxOpenConns(1)

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}
