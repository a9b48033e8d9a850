package repository

import (
	"context"

	"github.com/nvetter/fieldline/internal/domain"
)

// FieldRepo is the persistence boundary for a thread's field definitions.
// Implementations must be atomic per call when constructed over a
// transaction-scoped DBTX; the field store never applies an in-memory
// mutation until a call here has succeeded.
type FieldRepo interface {
	// GetFields returns every field of the thread, soft-deleted ones
	// included, in creation order.
	GetFields(ctx context.Context, threadID string) ([]domain.Field, error)
	// SaveFields upserts the given field rows.
	SaveFields(ctx context.Context, threadID string, fields []domain.Field) error
	// SoftDeleteField marks a field deleted, cascading to its children when
	// it is a group, and renumbers the surviving siblings contiguously.
	SoftDeleteField(ctx context.Context, threadID, fieldID string) error
	// CreateGroup makes parentID a group owning exactly childIDs, in that
	// order, and renumbers the top level.
	CreateGroup(ctx context.Context, threadID, parentID string, childIDs []string) error
	// RemoveFromGroup pulls a child out of its group to top-level position
	// toIndex (1-based) and renumbers the group it left.
	RemoveFromGroup(ctx context.Context, threadID, fieldID string, toIndex int) error
}

type ThreadRepo interface {
	Create(ctx context.Context, t *domain.Thread) error
	GetByID(ctx context.Context, id string) (*domain.Thread, error)
	List(ctx context.Context) ([]*domain.Thread, error)
}

type EntryRepo interface {
	Create(ctx context.Context, e *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	// ListByThread returns the thread's entries in chronological order.
	ListByThread(ctx context.Context, threadID string) ([]*domain.Entry, error)
}

type FieldValueRepo interface {
	// CreateBatch inserts all values or none; callers run it inside a
	// transaction-scoped DBTX.
	CreateBatch(ctx context.Context, values []domain.FieldValue) error
	ListByEntry(ctx context.Context, entryID string) ([]domain.FieldValue, error)
	// ListByThread returns every value bound to any entry of the thread.
	ListByThread(ctx context.Context, threadID string) ([]domain.FieldValue, error)
}
