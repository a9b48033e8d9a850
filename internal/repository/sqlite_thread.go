package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nvetter/fieldline/internal/db"
	"github.com/nvetter/fieldline/internal/domain"
)

// SQLiteThreadRepo implements ThreadRepo over a DBTX.
type SQLiteThreadRepo struct {
	db db.DBTX
}

// NewSQLiteThreadRepo creates a new SQLiteThreadRepo.
func NewSQLiteThreadRepo(dbtx db.DBTX) *SQLiteThreadRepo {
	return &SQLiteThreadRepo{db: dbtx}
}

func (r *SQLiteThreadRepo) Create(ctx context.Context, t *domain.Thread) error {
	query := `INSERT INTO threads (id, name, created_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.Name, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting thread: %w", err)
	}
	return nil
}

func (r *SQLiteThreadRepo) GetByID(ctx context.Context, id string) (*domain.Thread, error) {
	var t domain.Thread
	var createdAtStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM threads WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("thread not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning thread: %w", err)
	}
	t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &t, nil
}

func (r *SQLiteThreadRepo) List(ctx context.Context) ([]*domain.Thread, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM threads ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	defer rows.Close()

	var threads []*domain.Thread
	for rows.Next() {
		var t domain.Thread
		var createdAtStr string
		if err := rows.Scan(&t.ID, &t.Name, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning thread row: %w", err)
		}
		t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		threads = append(threads, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating threads: %w", err)
	}
	return threads, nil
}
