package service

import (
	"context"

	"github.com/nvetter/fieldline/internal/domain"
)

type ThreadService interface {
	Create(ctx context.Context, name string) (*domain.Thread, error)
	GetByID(ctx context.Context, id string) (*domain.Thread, error)
	List(ctx context.Context) ([]*domain.Thread, error)
}

type EntryService interface {
	// Create stores a new entry and binds the given field values to it in
	// one transaction. values maps field ID to raw user input.
	Create(ctx context.Context, threadID, body string, values map[string]string) (*domain.Entry, []domain.FieldValue, error)
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	ListByThread(ctx context.Context, threadID string) ([]*domain.Entry, error)
	// BindValues attaches field values to an existing entry. An unknown
	// field ID aborts the whole call; nothing is bound.
	BindValues(ctx context.Context, entryID string, values map[string]string) ([]domain.FieldValue, error)
}

type ExportService interface {
	// ExportCSV serializes the thread's entries and full field history.
	ExportCSV(ctx context.Context, threadID string) (string, error)
}
