package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/nvetter/fieldline/internal/db"
	"github.com/nvetter/fieldline/internal/domain"
)

// SQLiteFieldValueRepo implements FieldValueRepo over a DBTX.
type SQLiteFieldValueRepo struct {
	db db.DBTX
}

// NewSQLiteFieldValueRepo creates a new SQLiteFieldValueRepo.
func NewSQLiteFieldValueRepo(dbtx db.DBTX) *SQLiteFieldValueRepo {
	return &SQLiteFieldValueRepo{db: dbtx}
}

func (r *SQLiteFieldValueRepo) CreateBatch(ctx context.Context, values []domain.FieldValue) error {
	query := `INSERT INTO field_values (id, entry_id, field_id, value, created_at) VALUES (?, ?, ?, ?, ?)`
	for _, v := range values {
		_, err := r.db.ExecContext(ctx, query,
			v.ID, v.EntryID, v.FieldID, v.Value, v.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting field value for field %s: %w", v.FieldID, err)
		}
	}
	return nil
}

func (r *SQLiteFieldValueRepo) ListByEntry(ctx context.Context, entryID string) ([]domain.FieldValue, error) {
	query := `SELECT id, entry_id, field_id, value, created_at FROM field_values WHERE entry_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("listing field values: %w", err)
	}
	defer rows.Close()
	return scanFieldValues(rows)
}

func (r *SQLiteFieldValueRepo) ListByThread(ctx context.Context, threadID string) ([]domain.FieldValue, error) {
	query := `SELECT v.id, v.entry_id, v.field_id, v.value, v.created_at
		FROM field_values v
		JOIN entries e ON e.id = v.entry_id
		WHERE e.thread_id = ?
		ORDER BY e.created_at, e.id, v.created_at, v.id`
	rows, err := r.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("listing thread field values: %w", err)
	}
	defer rows.Close()
	return scanFieldValues(rows)
}

func scanFieldValues(rows rowIterator) ([]domain.FieldValue, error) {
	var values []domain.FieldValue
	for rows.Next() {
		var v domain.FieldValue
		var createdAtStr string
		if err := rows.Scan(&v.ID, &v.EntryID, &v.FieldID, &v.Value, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning field value row: %w", err)
		}
		var err error
		v.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating field values: %w", err)
	}
	return values, nil
}

type rowIterator interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}
