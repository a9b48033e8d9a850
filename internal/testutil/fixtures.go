package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nvetter/fieldline/internal/domain"
	"github.com/nvetter/fieldline/internal/repository"
	"github.com/stretchr/testify/require"
)

// NewTestThread builds a thread with a fresh ID.
func NewTestThread(name string) *domain.Thread {
	return &domain.Thread{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// SeedThread inserts a thread and returns it.
func SeedThread(t *testing.T, database *sql.DB, name string) *domain.Thread {
	t.Helper()
	th := NewTestThread(name)
	repo := repository.NewSQLiteThreadRepo(database)
	require.NoError(t, repo.Create(context.Background(), th))
	return th
}

// Field options
type FieldOption func(*domain.Field)

func WithOrder(o int) FieldOption {
	return func(f *domain.Field) {
		f.Order = o
	}
}

func WithParent(parentID string) FieldOption {
	return func(f *domain.Field) {
		f.ParentFieldID = &parentID
	}
}

func WithGroup() FieldOption {
	return func(f *domain.Field) {
		f.IsGroup = true
	}
}

func WithDeletedAt(at time.Time) FieldOption {
	return func(f *domain.Field) {
		f.DeletedAt = &at
	}
}

// NewTestField builds a field for the given thread.
func NewTestField(threadID, name string, opts ...FieldOption) domain.Field {
	now := time.Now().UTC()
	f := domain.Field{
		ID:        uuid.New().String(),
		ThreadID:  threadID,
		Name:      name,
		Order:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// NewTestEntry builds an entry for the given thread.
func NewTestEntry(threadID string, createdAt time.Time) *domain.Entry {
	return &domain.Entry{
		ID:        uuid.New().String(),
		ThreadID:  threadID,
		Body:      "test entry",
		CreatedAt: createdAt,
	}
}
