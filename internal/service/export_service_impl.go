package service

import (
	"context"

	"github.com/nvetter/fieldline/internal/export"
	"github.com/nvetter/fieldline/internal/repository"
	"github.com/nvetter/fieldline/internal/store"
)

type exportService struct {
	fields  *store.FieldStore
	entries repository.EntryRepo
	values  repository.FieldValueRepo
}

func NewExportService(fields *store.FieldStore, entries repository.EntryRepo, values repository.FieldValueRepo) ExportService {
	return &exportService{fields: fields, entries: entries, values: values}
}

func (s *exportService) ExportCSV(ctx context.Context, threadID string) (string, error) {
	fields, err := s.fields.History(ctx, threadID)
	if err != nil {
		return "", err
	}
	entries, err := s.entries.ListByThread(ctx, threadID)
	if err != nil {
		return "", err
	}
	values, err := s.values.ListByThread(ctx, threadID)
	if err != nil {
		return "", err
	}
	return export.Render(fields, entries, values)
}
