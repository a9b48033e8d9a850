package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/nvetter/fieldline/internal/domain"
	"github.com/nvetter/fieldline/internal/repository"
	"github.com/nvetter/fieldline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldRepo_SaveAndGetFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	group := testutil.NewTestField(th.ID, "Vitals", testutil.WithGroup(), testutil.WithOrder(1))
	child := testutil.NewTestField(th.ID, "Mood", testutil.WithParent(group.ID), testutil.WithOrder(1))
	deleted := testutil.NewTestField(th.ID, "Old", testutil.WithOrder(2),
		testutil.WithDeletedAt(time.Now().UTC()))

	require.NoError(t, repo.SaveFields(ctx, th.ID, []domain.Field{group, child, deleted}))

	fields, err := repo.GetFields(ctx, th.ID)
	require.NoError(t, err)
	require.Len(t, fields, 3)

	byID := make(map[string]domain.Field)
	for _, f := range fields {
		byID[f.ID] = f
	}
	assert.True(t, byID[group.ID].IsGroup)
	require.NotNil(t, byID[child.ID].ParentFieldID)
	assert.Equal(t, group.ID, *byID[child.ID].ParentFieldID)
	assert.NotNil(t, byID[deleted.ID].DeletedAt)
	assert.Nil(t, byID[group.ID].DeletedAt)
}

func TestFieldRepo_SaveFields_UpsertsExisting(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	f := testutil.NewTestField(th.ID, "Mood")
	require.NoError(t, repo.SaveFields(ctx, th.ID, []domain.Field{f}))

	f.Name = "Morale"
	f.Order = 3
	f.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.SaveFields(ctx, th.ID, []domain.Field{f}))

	fields, err := repo.GetFields(ctx, th.ID)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Morale", fields[0].Name)
	assert.Equal(t, 3, fields[0].Order)
}

func TestFieldRepo_SoftDeleteField_RenumbersSiblings(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	a := testutil.NewTestField(th.ID, "A", testutil.WithOrder(1))
	b := testutil.NewTestField(th.ID, "B", testutil.WithOrder(2))
	c := testutil.NewTestField(th.ID, "C", testutil.WithOrder(3))
	require.NoError(t, repo.SaveFields(ctx, th.ID, []domain.Field{a, b, c}))

	require.NoError(t, repo.SoftDeleteField(ctx, th.ID, b.ID))

	fields, err := repo.GetFields(ctx, th.ID)
	require.NoError(t, err)
	orders := make(map[string]int)
	for _, f := range fields {
		if f.DeletedAt == nil {
			orders[f.Name] = f.Order
		} else {
			assert.Equal(t, "B", f.Name)
		}
	}
	assert.Equal(t, map[string]int{"A": 1, "C": 2}, orders)
}

func TestFieldRepo_SoftDeleteField_CascadesToChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	group := testutil.NewTestField(th.ID, "Vitals", testutil.WithGroup(), testutil.WithOrder(1))
	c1 := testutil.NewTestField(th.ID, "Mood", testutil.WithParent(group.ID), testutil.WithOrder(1))
	c2 := testutil.NewTestField(th.ID, "Energy", testutil.WithParent(group.ID), testutil.WithOrder(2))
	after := testutil.NewTestField(th.ID, "Notes", testutil.WithOrder(2))
	require.NoError(t, repo.SaveFields(ctx, th.ID, []domain.Field{group, c1, c2, after}))

	require.NoError(t, repo.SoftDeleteField(ctx, th.ID, group.ID))

	fields, err := repo.GetFields(ctx, th.ID)
	require.NoError(t, err)
	for _, f := range fields {
		switch f.ID {
		case group.ID, c1.ID, c2.ID:
			assert.NotNil(t, f.DeletedAt, "%s should be deleted", f.Name)
		case after.ID:
			assert.Nil(t, f.DeletedAt)
			assert.Equal(t, 1, f.Order)
		}
	}
}

func TestFieldRepo_SoftDeleteField_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	err := repo.SoftDeleteField(ctx, th.ID, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrFieldNotFound)
}

func TestFieldRepo_SoftDeleteField_AlreadyDeleted(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	f := testutil.NewTestField(th.ID, "Mood", testutil.WithDeletedAt(time.Now().UTC()))
	require.NoError(t, repo.SaveFields(ctx, th.ID, []domain.Field{f}))

	err := repo.SoftDeleteField(ctx, th.ID, f.ID)
	assert.ErrorIs(t, err, domain.ErrFieldNotFound)
}

func TestFieldRepo_CreateGroup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	target := testutil.NewTestField(th.ID, "Vitals", testutil.WithOrder(1))
	dragged := testutil.NewTestField(th.ID, "Mood", testutil.WithOrder(2))
	other := testutil.NewTestField(th.ID, "Notes", testutil.WithOrder(3))
	require.NoError(t, repo.SaveFields(ctx, th.ID, []domain.Field{target, dragged, other}))

	require.NoError(t, repo.CreateGroup(ctx, th.ID, target.ID, []string{dragged.ID}))

	fields, err := repo.GetFields(ctx, th.ID)
	require.NoError(t, err)
	byID := make(map[string]domain.Field)
	for _, f := range fields {
		byID[f.ID] = f
	}
	assert.True(t, byID[target.ID].IsGroup)
	require.NotNil(t, byID[dragged.ID].ParentFieldID)
	assert.Equal(t, target.ID, *byID[dragged.ID].ParentFieldID)
	assert.Equal(t, 1, byID[dragged.ID].Order)
	// Top level closed the gap left by the dragged field.
	assert.Equal(t, 1, byID[target.ID].Order)
	assert.Equal(t, 2, byID[other.ID].Order)
}

func TestFieldRepo_CreateGroup_ChildParentRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	group := testutil.NewTestField(th.ID, "Vitals", testutil.WithGroup(), testutil.WithOrder(1))
	child := testutil.NewTestField(th.ID, "Mood", testutil.WithParent(group.ID), testutil.WithOrder(1))
	loose := testutil.NewTestField(th.ID, "Notes", testutil.WithOrder(2))
	require.NoError(t, repo.SaveFields(ctx, th.ID, []domain.Field{group, child, loose}))

	err := repo.CreateGroup(ctx, th.ID, child.ID, []string{loose.ID})
	assert.ErrorIs(t, err, domain.ErrGroupNesting)
}

func TestFieldRepo_CreateGroup_UnknownParent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	err := repo.CreateGroup(ctx, th.ID, "nonexistent", nil)
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestFieldRepo_RemoveFromGroup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	group := testutil.NewTestField(th.ID, "Vitals", testutil.WithGroup(), testutil.WithOrder(1))
	c1 := testutil.NewTestField(th.ID, "Mood", testutil.WithParent(group.ID), testutil.WithOrder(1))
	c2 := testutil.NewTestField(th.ID, "Energy", testutil.WithParent(group.ID), testutil.WithOrder(2))
	tail := testutil.NewTestField(th.ID, "Notes", testutil.WithOrder(2))
	require.NoError(t, repo.SaveFields(ctx, th.ID, []domain.Field{group, c1, c2, tail}))

	// Pull Mood out of the group to top-level position 2 (between the
	// group and Notes).
	require.NoError(t, repo.RemoveFromGroup(ctx, th.ID, c1.ID, 2))

	fields, err := repo.GetFields(ctx, th.ID)
	require.NoError(t, err)
	byID := make(map[string]domain.Field)
	for _, f := range fields {
		byID[f.ID] = f
	}
	assert.Nil(t, byID[c1.ID].ParentFieldID)
	assert.Equal(t, 2, byID[c1.ID].Order)
	assert.Equal(t, 1, byID[group.ID].Order)
	assert.Equal(t, 3, byID[tail.ID].Order)
	// The remaining child renumbers to 1.
	assert.Equal(t, 1, byID[c2.ID].Order)
	require.NotNil(t, byID[c2.ID].ParentFieldID)
}

func TestFieldRepo_RemoveFromGroup_NotGrouped(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteFieldRepo(db)
	ctx := context.Background()

	th := testutil.SeedThread(t, db, "Health")
	f := testutil.NewTestField(th.ID, "Mood", testutil.WithOrder(1))
	require.NoError(t, repo.SaveFields(ctx, th.ID, []domain.Field{f}))

	err := repo.RemoveFromGroup(ctx, th.ID, f.ID, 1)
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}
