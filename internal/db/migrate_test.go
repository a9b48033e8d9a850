package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_CreatesSchema(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{"threads", "fields", "entries", "field_values"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Rerunnable(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	// The statement list is idempotent; a second pass must not fail.
	require.NoError(t, Migrate(database))
}

func TestMigrate_FieldValueUniquePerEntryField(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO threads (id, name, created_at) VALUES ('t1', 'Journal', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO fields (id, thread_id, name, ord, created_at, updated_at)
		VALUES ('f1', 't1', 'Mood', 1, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO entries (id, thread_id, body, created_at) VALUES ('e1', 't1', '', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO field_values (id, entry_id, field_id, value, created_at)
		VALUES ('v1', 'e1', 'f1', 'Happy', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO field_values (id, entry_id, field_id, value, created_at)
		VALUES ('v2', 'e1', 'f1', 'Sad', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err)
}
