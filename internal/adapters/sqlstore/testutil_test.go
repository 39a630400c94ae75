// Repository tests run against an in-memory SQLite database loaded with the
// authoritative schema from db.GetSchemaSQL. Do not hardcode CREATE TABLE
// statements here; use setupTestDB and the seed helpers.
package sqlstore_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/quotedesk/internal/db"
)

var testNow = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})
	return testDB
}

// seedQuote inserts a quote at version 1 and returns its ID.
func seedQuote(t *testing.T, db *sql.DB, id, clientID, status string) string {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO quotes (id, client_id, status, quantity, version, created_at, updated_at) VALUES ($1, $2, $3, 1, 1, $4, $5)",
		id, clientID, status, testNow, testNow,
	)
	if err != nil {
		t.Fatalf("failed to seed quote: %v", err)
	}
	return id
}

// seedOrder inserts a confirmed order at version 1 for an existing quote.
func seedOrder(t *testing.T, db *sql.DB, id, quoteID, clientID string) string {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO orders (id, quote_id, client_id, status, total, version, created_at, updated_at) VALUES ($1, $2, $3, 'confirmed', 1000, 1, $4, $5)",
		id, quoteID, clientID, testNow, testNow,
	)
	if err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return id
}

// seedMessage inserts a message; a nil sender makes it a system message.
func seedMessage(t *testing.T, db *sql.DB, id, scopeType, scopeID string, sender *string, at time.Time) string {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO messages (id, scope_type, scope_id, sender_id, body, is_read, created_at) VALUES ($1, $2, $3, $4, $5, 0, $6)",
		id, scopeType, scopeID, sender, "body of "+id, at,
	)
	if err != nil {
		t.Fatalf("failed to seed message: %v", err)
	}
	return id
}

func strPtr(s string) *string { return &s }
