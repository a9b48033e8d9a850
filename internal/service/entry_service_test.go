package service

import (
	"context"
	"testing"

	"github.com/nvetter/fieldline/internal/domain"
	"github.com/nvetter/fieldline/internal/repository"
	"github.com/nvetter/fieldline/internal/store"
	"github.com/nvetter/fieldline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntryServiceFixture(t *testing.T) (EntryService, *store.FieldStore, *domain.Thread, repository.FieldValueRepo) {
	t.Helper()
	db := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(db)
	fields := store.NewFieldStore(repository.NewSQLiteFieldRepo(db), uow)
	svc := NewEntryService(repository.NewSQLiteEntryRepo(db), fields, uow)
	th := testutil.SeedThread(t, db, "Health")
	return svc, fields, th, repository.NewSQLiteFieldValueRepo(db)
}

func TestEntryService_CreateBindsValues(t *testing.T) {
	svc, fields, th, valueRepo := newEntryServiceFixture(t)
	ctx := context.Background()

	mood, err := fields.Create(ctx, th.ID, "Mood")
	require.NoError(t, err)
	energy, err := fields.Create(ctx, th.ID, "Energy")
	require.NoError(t, err)

	entry, bound, err := svc.Create(ctx, th.ID, "long day", map[string]string{
		mood.ID:   "  Happy  ",
		energy.ID: "",
	})
	require.NoError(t, err)
	require.Len(t, bound, 2)

	// Raw input is trimmed; an empty value is still a legal binding.
	byField := make(map[string]string)
	for _, v := range bound {
		byField[v.FieldID] = v.Value
	}
	assert.Equal(t, "Happy", byField[mood.ID])
	assert.Equal(t, "", byField[energy.ID])

	persisted, err := valueRepo.ListByEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)

	fetched, err := svc.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "long day", fetched.Body)
}

func TestEntryService_UnknownFieldAbortsWholeBatch(t *testing.T) {
	svc, fields, th, valueRepo := newEntryServiceFixture(t)
	ctx := context.Background()

	mood, err := fields.Create(ctx, th.ID, "Mood")
	require.NoError(t, err)

	_, _, err = svc.Create(ctx, th.ID, "body", map[string]string{
		mood.ID: "Happy",
		"bogus": "x",
	})
	require.ErrorIs(t, err, domain.ErrFieldNotFound)

	// Nothing was persisted, not even the entry.
	entries, err := svc.ListByThread(ctx, th.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	values, err := valueRepo.ListByThread(ctx, th.ID)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestEntryService_BindValuesOnExistingEntry(t *testing.T) {
	svc, fields, th, _ := newEntryServiceFixture(t)
	ctx := context.Background()

	mood, err := fields.Create(ctx, th.ID, "Mood")
	require.NoError(t, err)

	entry, _, err := svc.Create(ctx, th.ID, "body", nil)
	require.NoError(t, err)

	bound, err := svc.BindValues(ctx, entry.ID, map[string]string{mood.ID: "Calm"})
	require.NoError(t, err)
	require.Len(t, bound, 1)
	assert.Equal(t, "Calm", bound[0].Value)
	assert.Equal(t, entry.ID, bound[0].EntryID)
}

func TestEntryService_DeletedFieldStillBindable(t *testing.T) {
	svc, fields, th, _ := newEntryServiceFixture(t)
	ctx := context.Background()

	mood, err := fields.Create(ctx, th.ID, "Mood")
	require.NoError(t, err)
	require.NoError(t, fields.Delete(ctx, th.ID, mood.ID))

	// The field remains part of the thread's history, so importing or
	// backfilling a value against it succeeds.
	_, bound, err := svc.Create(ctx, th.ID, "body", map[string]string{mood.ID: "Wistful"})
	require.NoError(t, err)
	require.Len(t, bound, 1)
	assert.Equal(t, "Wistful", bound[0].Value)
}

func TestEntryService_RebindSameFieldRejected(t *testing.T) {
	svc, fields, th, _ := newEntryServiceFixture(t)
	ctx := context.Background()

	mood, err := fields.Create(ctx, th.ID, "Mood")
	require.NoError(t, err)

	entry, _, err := svc.Create(ctx, th.ID, "body", map[string]string{mood.ID: "Happy"})
	require.NoError(t, err)

	_, err = svc.BindValues(ctx, entry.ID, map[string]string{mood.ID: "Sad"})
	assert.Error(t, err)
}
