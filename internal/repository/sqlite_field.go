package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nvetter/fieldline/internal/db"
	"github.com/nvetter/fieldline/internal/domain"
)

// SQLiteFieldRepo implements FieldRepo over a DBTX, so the same code serves
// plain reads and transaction-scoped writes.
type SQLiteFieldRepo struct {
	db db.DBTX
}

// NewSQLiteFieldRepo creates a new SQLiteFieldRepo.
func NewSQLiteFieldRepo(dbtx db.DBTX) *SQLiteFieldRepo {
	return &SQLiteFieldRepo{db: dbtx}
}

func (r *SQLiteFieldRepo) GetFields(ctx context.Context, threadID string) ([]domain.Field, error) {
	query := `SELECT id, thread_id, name, ord, is_group, parent_field_id, deleted_at, created_at, updated_at
		FROM fields WHERE thread_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("listing fields: %w", err)
	}
	defer rows.Close()

	var fields []domain.Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fields: %w", err)
	}
	return fields, nil
}

func (r *SQLiteFieldRepo) SaveFields(ctx context.Context, threadID string, fields []domain.Field) error {
	query := `INSERT INTO fields (id, thread_id, name, ord, is_group, parent_field_id, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			ord = excluded.ord,
			is_group = excluded.is_group,
			parent_field_id = excluded.parent_field_id,
			deleted_at = excluded.deleted_at,
			updated_at = excluded.updated_at`
	for _, f := range fields {
		_, err := r.db.ExecContext(ctx, query,
			f.ID,
			threadID,
			f.Name,
			f.Order,
			boolToInt(f.IsGroup),
			nullableString(f.ParentFieldID),
			nullableTimeToString(f.DeletedAt, time.RFC3339),
			f.CreatedAt.Format(time.RFC3339),
			f.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("saving field %s: %w", f.ID, err)
		}
	}
	return nil
}

func (r *SQLiteFieldRepo) SoftDeleteField(ctx context.Context, threadID, fieldID string) error {
	var isGroup int
	var parentID sql.NullString
	var deletedAt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT is_group, parent_field_id, deleted_at FROM fields WHERE id = ? AND thread_id = ?`,
		fieldID, threadID,
	).Scan(&isGroup, &parentID, &deletedAt)
	if err == sql.ErrNoRows || (err == nil && deletedAt.Valid) {
		return fmt.Errorf("field %s: %w", fieldID, domain.ErrFieldNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading field %s: %w", fieldID, err)
	}

	now := nowUTC()
	if isGroup != 0 {
		_, err = r.db.ExecContext(ctx,
			`UPDATE fields SET deleted_at = ?, updated_at = ? WHERE parent_field_id = ? AND deleted_at IS NULL`,
			now, now, fieldID,
		)
		if err != nil {
			return fmt.Errorf("soft-deleting children of %s: %w", fieldID, err)
		}
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE fields SET deleted_at = ?, updated_at = ? WHERE id = ?`,
		now, now, fieldID,
	)
	if err != nil {
		return fmt.Errorf("soft-deleting field %s: %w", fieldID, err)
	}

	return r.renumberLevel(ctx, threadID, nullStringArg(parentID))
}

func (r *SQLiteFieldRepo) CreateGroup(ctx context.Context, threadID, parentID string, childIDs []string) error {
	var parentOfParent sql.NullString
	var deletedAt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT parent_field_id, deleted_at FROM fields WHERE id = ? AND thread_id = ?`,
		parentID, threadID,
	).Scan(&parentOfParent, &deletedAt)
	if err == sql.ErrNoRows || (err == nil && deletedAt.Valid) {
		return fmt.Errorf("group %s: %w", parentID, domain.ErrGroupNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading group %s: %w", parentID, err)
	}
	if parentOfParent.Valid {
		return fmt.Errorf("%w: %s is a child", domain.ErrGroupNesting, parentID)
	}

	now := nowUTC()
	if _, err := r.db.ExecContext(ctx,
		`UPDATE fields SET is_group = 1, updated_at = ? WHERE id = ?`, now, parentID,
	); err != nil {
		return fmt.Errorf("marking group %s: %w", parentID, err)
	}

	for i, childID := range childIDs {
		res, err := r.db.ExecContext(ctx,
			`UPDATE fields SET parent_field_id = ?, ord = ?, updated_at = ? WHERE id = ? AND thread_id = ? AND deleted_at IS NULL`,
			parentID, i+1, now, childID, threadID,
		)
		if err != nil {
			return fmt.Errorf("attaching child %s: %w", childID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("attaching child %s: %w", childID, err)
		}
		if n == 0 {
			return fmt.Errorf("field %s: %w", childID, domain.ErrFieldNotFound)
		}
	}

	return r.renumberLevel(ctx, threadID, nil)
}

func (r *SQLiteFieldRepo) RemoveFromGroup(ctx context.Context, threadID, fieldID string, toIndex int) error {
	var parentID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT parent_field_id FROM fields WHERE id = ? AND thread_id = ? AND deleted_at IS NULL`,
		fieldID, threadID,
	).Scan(&parentID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("field %s: %w", fieldID, domain.ErrFieldNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading field %s: %w", fieldID, err)
	}
	if !parentID.Valid {
		return fmt.Errorf("field %s is not grouped: %w", fieldID, domain.ErrGroupNotFound)
	}

	now := nowUTC()
	if _, err := r.db.ExecContext(ctx,
		`UPDATE fields SET ord = ord + 1 WHERE thread_id = ? AND parent_field_id IS NULL AND deleted_at IS NULL AND ord >= ?`,
		threadID, toIndex,
	); err != nil {
		return fmt.Errorf("shifting top-level fields: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE fields SET parent_field_id = NULL, ord = ?, updated_at = ? WHERE id = ?`,
		toIndex, now, fieldID,
	); err != nil {
		return fmt.Errorf("ungrouping field %s: %w", fieldID, err)
	}

	if err := r.renumberLevel(ctx, threadID, parentID.String); err != nil {
		return err
	}
	return r.renumberLevel(ctx, threadID, nil)
}

// renumberLevel reassigns contiguous 1..n orders at one nesting level,
// preserving the current relative order. parentID nil selects the top level.
func (r *SQLiteFieldRepo) renumberLevel(ctx context.Context, threadID string, parentID interface{}) error {
	query := `UPDATE fields SET ord = (
			SELECT rn FROM (
				SELECT id, ROW_NUMBER() OVER (ORDER BY ord, id) AS rn
				FROM fields
				WHERE thread_id = ? AND deleted_at IS NULL AND parent_field_id IS ?
			) ranked WHERE ranked.id = fields.id
		)
		WHERE thread_id = ? AND deleted_at IS NULL AND parent_field_id IS ?`
	if _, err := r.db.ExecContext(ctx, query, threadID, parentID, threadID, parentID); err != nil {
		return fmt.Errorf("renumbering fields: %w", err)
	}
	return nil
}

// nullStringArg converts a sql.NullString to a bind value preserving NULL.
func nullStringArg(s sql.NullString) interface{} {
	if !s.Valid {
		return nil
	}
	return s.String
}

func scanField(rows *sql.Rows) (domain.Field, error) {
	var f domain.Field
	var isGroup int
	var parentID, deletedAtStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := rows.Scan(
		&f.ID, &f.ThreadID, &f.Name, &f.Order,
		&isGroup, &parentID, &deletedAtStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return domain.Field{}, fmt.Errorf("scanning field row: %w", err)
	}

	f.IsGroup = isGroup != 0
	if parentID.Valid {
		p := parentID.String
		f.ParentFieldID = &p
	}
	f.DeletedAt = parseNullableTime(deletedAtStr, time.RFC3339)

	var parseErr error
	f.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return domain.Field{}, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	f.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return domain.Field{}, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return f, nil
}
