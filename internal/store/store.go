// Package store holds the authoritative in-memory view of each thread's
// field definitions and funnels every mutation through validation and
// persistence before committing it.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nvetter/fieldline/internal/db"
	"github.com/nvetter/fieldline/internal/domain"
	"github.com/nvetter/fieldline/internal/repository"
)

// FieldStore serializes all field mutations per thread and keeps a committed
// snapshot per thread. A mutation is validated against the snapshot, persisted
// through the repository, and only then applied to the snapshot; a repository
// failure therefore leaves the in-memory view untouched. Readers observe
// committed snapshots without blocking behind in-flight mutations.
type FieldStore struct {
	reads repository.FieldRepo
	uow   db.UnitOfWork

	mu      sync.RWMutex
	threads map[string]domain.FieldSet
	locks   map[string]*sync.Mutex
}

// NewFieldStore creates a FieldStore. reads serves cache misses; uow scopes
// each mutation's repository calls to one transaction.
func NewFieldStore(reads repository.FieldRepo, uow db.UnitOfWork) *FieldStore {
	return &FieldStore{
		reads:   reads,
		uow:     uow,
		threads: make(map[string]domain.FieldSet),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Snapshot returns the committed field set for the thread, loading it from
// the repository on first access.
func (s *FieldStore) Snapshot(ctx context.Context, threadID string) (domain.FieldSet, error) {
	return s.load(ctx, threadID)
}

// Fields returns the thread's active fields.
func (s *FieldStore) Fields(ctx context.Context, threadID string) ([]domain.Field, error) {
	set, err := s.load(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return set.Active(), nil
}

// History returns every field of the thread, soft-deleted ones included.
func (s *FieldStore) History(ctx context.Context, threadID string) ([]domain.Field, error) {
	set, err := s.load(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return set.All(), nil
}

// FieldByID resolves a field from the thread's history.
func (s *FieldStore) FieldByID(ctx context.Context, threadID, fieldID string) (domain.Field, error) {
	set, err := s.load(ctx, threadID)
	if err != nil {
		return domain.Field{}, err
	}
	f, ok := set.ByID(fieldID)
	if !ok {
		return domain.Field{}, fmt.Errorf("%w: %s", domain.ErrFieldNotFound, fieldID)
	}
	return f, nil
}

// Create validates and persists a new top-level field.
func (s *FieldStore) Create(ctx context.Context, threadID, name string) (domain.Field, error) {
	var created domain.Field

	err := s.mutate(ctx, threadID, func(set domain.FieldSet) (domain.FieldSet, persistFunc, error) {
		now := time.Now().UTC()
		next, f, err := set.Create(domain.Field{
			ID:        uuid.New().String(),
			ThreadID:  threadID,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return set, nil, err
		}
		created = f
		return next, s.saveDiff(threadID, set, next), nil
	})
	if err != nil {
		return domain.Field{}, err
	}
	return created, nil
}

// Rename changes a field's name.
func (s *FieldStore) Rename(ctx context.Context, threadID, fieldID, newName string) error {
	return s.mutate(ctx, threadID, func(set domain.FieldSet) (domain.FieldSet, persistFunc, error) {
		next, err := set.Rename(fieldID, newName, time.Now().UTC())
		if err != nil {
			return set, nil, err
		}
		return next, s.saveDiff(threadID, set, next), nil
	})
}

// Delete soft-deletes a field; deleting a group cascades to its children.
func (s *FieldStore) Delete(ctx context.Context, threadID, fieldID string) error {
	return s.mutate(ctx, threadID, func(set domain.FieldSet) (domain.FieldSet, persistFunc, error) {
		next, err := set.Delete(fieldID, time.Now().UTC())
		if err != nil {
			return set, nil, err
		}
		persist := func(ctx context.Context, repo repository.FieldRepo) error {
			return repo.SoftDeleteField(ctx, threadID, fieldID)
		}
		return next, persist, nil
	})
}

// Reorder moves a field within its nesting level to the 1-based toIndex.
func (s *FieldStore) Reorder(ctx context.Context, threadID, fieldID string, toIndex int) error {
	return s.mutate(ctx, threadID, func(set domain.FieldSet) (domain.FieldSet, persistFunc, error) {
		next, err := set.Reorder(fieldID, toIndex, time.Now().UTC())
		if err != nil {
			return set, nil, err
		}
		return next, s.saveDiff(threadID, set, next), nil
	})
}

// InterpretDrop applies one discrete drag-drop outcome. Rejected drops leave
// both the repository and the snapshot unchanged.
func (s *FieldStore) InterpretDrop(ctx context.Context, threadID, draggedID, targetID string, kind domain.DropKind) error {
	return s.mutate(ctx, threadID, func(set domain.FieldSet) (domain.FieldSet, persistFunc, error) {
		next, err := set.InterpretDrop(draggedID, targetID, kind, time.Now().UTC())
		if err != nil {
			return set, nil, err
		}

		before, beforeOK := set.ByID(draggedID)
		after, afterOK := next.ByID(draggedID)
		if !beforeOK || !afterOK {
			return set, nil, fmt.Errorf("%w: %s", domain.ErrFieldNotFound, draggedID)
		}

		var persist persistFunc
		switch {
		case kind == domain.DropOnto && (before.ParentFieldID == nil || *before.ParentFieldID == targetID):
			// CreateGroup renumbers the target's children and the top
			// level. A dragged field leaving a different group also
			// needs that group's survivors renumbered, so that case
			// takes the diff path below instead.
			children := next.Children(targetID)
			childIDs := make([]string, len(children))
			for i, c := range children {
				childIDs[i] = c.ID
			}
			persist = func(ctx context.Context, repo repository.FieldRepo) error {
				return repo.CreateGroup(ctx, threadID, targetID, childIDs)
			}
		case kind == domain.DropBetween && before.ParentFieldID != nil && after.ParentFieldID == nil:
			toIndex := after.Order
			persist = func(ctx context.Context, repo repository.FieldRepo) error {
				return repo.RemoveFromGroup(ctx, threadID, draggedID, toIndex)
			}
		default:
			persist = s.saveDiff(threadID, set, next)
		}
		return next, persist, nil
	})
}

// persistFunc writes one validated mutation through a tx-scoped repository.
type persistFunc func(ctx context.Context, repo repository.FieldRepo) error

// mutate runs one serialized mutation against the thread's committed
// snapshot: validate via fn, persist, then commit the new snapshot.
func (s *FieldStore) mutate(ctx context.Context, threadID string, fn func(domain.FieldSet) (domain.FieldSet, persistFunc, error)) error {
	lock := s.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	set, err := s.load(ctx, threadID)
	if err != nil {
		return err
	}

	next, persist, err := fn(set)
	if err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return persist(ctx, repository.NewSQLiteFieldRepo(tx))
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.threads[threadID] = next
	s.mu.Unlock()
	return nil
}

// saveDiff persists only the fields that differ between two snapshots.
func (s *FieldStore) saveDiff(threadID string, before, after domain.FieldSet) persistFunc {
	changed := diffFields(before, after)
	return func(ctx context.Context, repo repository.FieldRepo) error {
		return repo.SaveFields(ctx, threadID, changed)
	}
}

// diffFields returns the fields of after that are new or changed relative to
// before.
func diffFields(before, after domain.FieldSet) []domain.Field {
	var changed []domain.Field
	for _, f := range after.All() {
		old, ok := before.ByID(f.ID)
		if !ok || !fieldEqual(old, f) {
			changed = append(changed, f)
		}
	}
	return changed
}

func fieldEqual(a, b domain.Field) bool {
	if a.Name != b.Name || a.Order != b.Order || a.IsGroup != b.IsGroup {
		return false
	}
	if (a.ParentFieldID == nil) != (b.ParentFieldID == nil) {
		return false
	}
	if a.ParentFieldID != nil && *a.ParentFieldID != *b.ParentFieldID {
		return false
	}
	if (a.DeletedAt == nil) != (b.DeletedAt == nil) {
		return false
	}
	return true
}

func (s *FieldStore) threadLock(threadID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[threadID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[threadID] = lock
	}
	return lock
}

func (s *FieldStore) load(ctx context.Context, threadID string) (domain.FieldSet, error) {
	s.mu.RLock()
	set, ok := s.threads[threadID]
	s.mu.RUnlock()
	if ok {
		return set, nil
	}

	fields, err := s.reads.GetFields(ctx, threadID)
	if err != nil {
		return domain.FieldSet{}, err
	}
	loaded := domain.NewFieldSet(fields)

	// Fill-if-absent: a mutation may have committed a fresher snapshot
	// while this read was in flight.
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.threads[threadID]; ok {
		return existing, nil
	}
	s.threads[threadID] = loaded
	return loaded, nil
}
