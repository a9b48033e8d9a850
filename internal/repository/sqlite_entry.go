package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nvetter/fieldline/internal/db"
	"github.com/nvetter/fieldline/internal/domain"
)

// SQLiteEntryRepo implements EntryRepo over a DBTX.
type SQLiteEntryRepo struct {
	db db.DBTX
}

// NewSQLiteEntryRepo creates a new SQLiteEntryRepo.
func NewSQLiteEntryRepo(dbtx db.DBTX) *SQLiteEntryRepo {
	return &SQLiteEntryRepo{db: dbtx}
}

func (r *SQLiteEntryRepo) Create(ctx context.Context, e *domain.Entry) error {
	query := `INSERT INTO entries (id, thread_id, body, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.ThreadID, e.Body, e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}
	return nil
}

func (r *SQLiteEntryRepo) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	var e domain.Entry
	var createdAtStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, thread_id, body, created_at FROM entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.ThreadID, &e.Body, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("entry not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entry: %w", err)
	}
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &e, nil
}

func (r *SQLiteEntryRepo) ListByThread(ctx context.Context, threadID string) ([]*domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, thread_id, body, created_at FROM entries WHERE thread_id = ? ORDER BY created_at, id`,
		threadID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		var createdAtStr string
		if err := rows.Scan(&e.ID, &e.ThreadID, &e.Body, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning entry row: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}
