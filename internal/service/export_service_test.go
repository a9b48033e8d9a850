package service

import (
	"context"
	"testing"
	"time"

	"github.com/nvetter/fieldline/internal/domain"
	"github.com/nvetter/fieldline/internal/repository"
	"github.com/nvetter/fieldline/internal/store"
	"github.com/nvetter/fieldline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exportFixture struct {
	fields  *store.FieldStore
	entries *repository.SQLiteEntryRepo
	binder  EntryService
	svc     ExportService
	thread  *domain.Thread
}

func newExportFixture(t *testing.T) *exportFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(db)
	fields := store.NewFieldStore(repository.NewSQLiteFieldRepo(db), uow)
	entryRepo := repository.NewSQLiteEntryRepo(db)
	return &exportFixture{
		fields:  fields,
		entries: entryRepo,
		binder:  NewEntryService(entryRepo, fields, uow),
		svc:     NewExportService(fields, entryRepo, repository.NewSQLiteFieldValueRepo(db)),
		thread:  testutil.SeedThread(t, db, "Health"),
	}
}

// seedEntry inserts an entry at an explicit time so export row order is
// deterministic, then binds the given values.
func (fx *exportFixture) seedEntry(t *testing.T, ctx context.Context, at time.Time, values map[string]string) {
	t.Helper()
	e := testutil.NewTestEntry(fx.thread.ID, at)
	require.NoError(t, fx.entries.Create(ctx, e))
	if len(values) > 0 {
		_, err := fx.binder.BindValues(ctx, e.ID, values)
		require.NoError(t, err)
	}
}

func TestExportService_GroupedFieldsEndToEnd(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	health, err := fx.fields.Create(ctx, fx.thread.ID, "Health")
	require.NoError(t, err)
	mood, err := fx.fields.Create(ctx, fx.thread.ID, "Mood")
	require.NoError(t, err)
	energy, err := fx.fields.Create(ctx, fx.thread.ID, "Energy")
	require.NoError(t, err)
	require.NoError(t, fx.fields.InterpretDrop(ctx, fx.thread.ID, mood.ID, health.ID, domain.DropOnto))
	require.NoError(t, fx.fields.InterpretDrop(ctx, fx.thread.ID, energy.ID, health.ID, domain.DropOnto))

	base := time.Now().UTC()
	fx.seedEntry(t, ctx, base.Add(-time.Hour), map[string]string{
		mood.ID:   "Happy, indeed",
		energy.ID: "High",
	})
	fx.seedEntry(t, ctx, base, map[string]string{
		mood.ID: "Flat",
	})

	csv, err := fx.svc.ExportCSV(ctx, fx.thread.ID)
	require.NoError(t, err)

	// Children export under dotted group names; a value containing a comma
	// is quoted; a missing value leaves an empty cell.
	assert.Equal(t,
		"Health.Mood,Health.Energy\n"+
			"\"Happy, indeed\",High\n"+
			"Flat,\n",
		csv)
}

func TestExportService_NeverBoundFieldsExcluded(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	mood, err := fx.fields.Create(ctx, fx.thread.ID, "Mood")
	require.NoError(t, err)
	_, err = fx.fields.Create(ctx, fx.thread.ID, "Unused")
	require.NoError(t, err)

	fx.seedEntry(t, ctx, time.Now().UTC(), map[string]string{mood.ID: "Happy"})

	csv, err := fx.svc.ExportCSV(ctx, fx.thread.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mood\nHappy\n", csv)
}

func TestExportService_DeletedFieldKeepsItsColumn(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	notes, err := fx.fields.Create(ctx, fx.thread.ID, "Notes")
	require.NoError(t, err)
	mood, err := fx.fields.Create(ctx, fx.thread.ID, "Mood")
	require.NoError(t, err)

	base := time.Now().UTC()
	fx.seedEntry(t, ctx, base.Add(-time.Hour), map[string]string{
		notes.ID: "fine",
		mood.ID:  "Happy",
	})
	require.NoError(t, fx.fields.Delete(ctx, fx.thread.ID, mood.ID))
	fx.seedEntry(t, ctx, base, map[string]string{notes.ID: "ok"})

	csv, err := fx.svc.ExportCSV(ctx, fx.thread.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notes,Mood\nfine,Happy\nok,\n", csv)
}

func TestExportService_NoBoundValuesYieldsEmptyExport(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	_, err := fx.fields.Create(ctx, fx.thread.ID, "Mood")
	require.NoError(t, err)
	fx.seedEntry(t, ctx, time.Now().UTC(), nil)

	csv, err := fx.svc.ExportCSV(ctx, fx.thread.ID)
	require.NoError(t, err)
	assert.Equal(t, "", csv)
}
