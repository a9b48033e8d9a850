package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nvetter/fieldline/internal/db"
	"github.com/nvetter/fieldline/internal/domain"
	"github.com/nvetter/fieldline/internal/repository"
	"github.com/nvetter/fieldline/internal/store"
)

type entryService struct {
	entries repository.EntryRepo
	fields  *store.FieldStore
	uow     db.UnitOfWork
}

func NewEntryService(entries repository.EntryRepo, fields *store.FieldStore, uow db.UnitOfWork) EntryService {
	return &entryService{entries: entries, fields: fields, uow: uow}
}

func (s *entryService) Create(ctx context.Context, threadID, body string, values map[string]string) (*domain.Entry, []domain.FieldValue, error) {
	set, err := s.fields.Snapshot(ctx, threadID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	entry := &domain.Entry{
		ID:        uuid.New().String(),
		ThreadID:  threadID,
		Body:      body,
		CreatedAt: now,
	}
	bound, err := buildValues(set, entry.ID, values, now)
	if err != nil {
		return nil, nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteEntryRepo(tx).Create(ctx, entry); err != nil {
			return err
		}
		return repository.NewSQLiteFieldValueRepo(tx).CreateBatch(ctx, bound)
	})
	if err != nil {
		return nil, nil, err
	}
	return entry, bound, nil
}

func (s *entryService) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *entryService) ListByThread(ctx context.Context, threadID string) ([]*domain.Entry, error) {
	return s.entries.ListByThread(ctx, threadID)
}

func (s *entryService) BindValues(ctx context.Context, entryID string, values map[string]string) ([]domain.FieldValue, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	set, err := s.fields.Snapshot(ctx, entry.ThreadID)
	if err != nil {
		return nil, err
	}

	bound, err := buildValues(set, entryID, values, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteFieldValueRepo(tx).CreateBatch(ctx, bound)
	})
	if err != nil {
		return nil, err
	}
	return bound, nil
}

// buildValues resolves each (fieldID, raw) pair against the thread's field
// history and produces the immutable value records. Soft-deleted fields are
// legal targets; an unknown field ID fails the whole batch. Raw input is
// trimmed and an empty result is still a legal value.
func buildValues(set domain.FieldSet, entryID string, values map[string]string, now time.Time) ([]domain.FieldValue, error) {
	for fieldID := range values {
		if _, ok := set.ByID(fieldID); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrFieldNotFound, fieldID)
		}
	}

	// Emit in the field history's order so the result is deterministic.
	var bound []domain.FieldValue
	for _, f := range set.All() {
		raw, ok := values[f.ID]
		if !ok {
			continue
		}
		bound = append(bound, domain.FieldValue{
			ID:        uuid.New().String(),
			EntryID:   entryID,
			FieldID:   f.ID,
			Value:     strings.TrimSpace(raw),
			CreatedAt: now,
		})
	}
	return bound, nil
}
