package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies all schema statements. Statements are idempotent
// (IF NOT EXISTS) so re-running the full list on every open is safe.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS threads (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS fields (
		id              TEXT PRIMARY KEY,
		thread_id       TEXT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		ord             INTEGER NOT NULL DEFAULT 0,
		is_group        INTEGER NOT NULL DEFAULT 0,
		parent_field_id TEXT REFERENCES fields(id),
		deleted_at      TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_fields_thread ON fields(thread_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fields_parent ON fields(parent_field_id)`,

	`CREATE TABLE IF NOT EXISTS entries (
		id         TEXT PRIMARY KEY,
		thread_id  TEXT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
		body       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_entries_thread ON entries(thread_id)`,

	`CREATE TABLE IF NOT EXISTS field_values (
		id         TEXT PRIMARY KEY,
		entry_id   TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
		field_id   TEXT NOT NULL REFERENCES fields(id),
		value      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		UNIQUE(entry_id, field_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_field_values_entry ON field_values(entry_id)`,
	`CREATE INDEX IF NOT EXISTS idx_field_values_field ON field_values(field_id)`,
}
