// Package testutil provides shared fixtures for tests: an in-memory
// database carrying the full production schema, row factories, and stub
// implementations of the pricing and notification interfaces.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/jchenq/portfolio-desk/internal/database"
)

// SetupTestDB creates an in-memory SQLite database for testing. The full
// migration chain is applied, so tests run against the production schema,
// including the seeded long-term and swing accounts. The database is
// closed automatically when the test completes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Migrations run serially; a single connection avoids the in-memory
	// database evaporating between pool connections.
	db.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
