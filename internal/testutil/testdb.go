package testutil

import (
	"database/sql"
	"testing"

	"github.com/nvetter/fieldline/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a fully migrated in-memory database whose lifetime is tied
// to the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

// NewTestUoW wraps the test database in a transaction boundary for wiring
// stores and services under test.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
