package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldSet is a snapshot of one thread's fields, soft-deleted ones included.
// All operations are copy-on-write: they return a new snapshot and never
// modify the receiver, so a rejected operation leaves no partial mutation
// behind by construction.
type FieldSet struct {
	fields []Field
}

// NewFieldSet builds a snapshot from the given fields. The slice is copied.
func NewFieldSet(fields []Field) FieldSet {
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return FieldSet{fields: cp}
}

// All returns every field in the set, soft-deleted ones included.
func (s FieldSet) All() []Field {
	cp := make([]Field, len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Active returns the non-deleted fields.
func (s FieldSet) Active() []Field {
	var out []Field
	for _, f := range s.fields {
		if !f.IsDeleted() {
			out = append(out, f)
		}
	}
	return out
}

// ActiveCount counts non-deleted fields, groups and children individually.
func (s FieldSet) ActiveCount() int {
	n := 0
	for _, f := range s.fields {
		if !f.IsDeleted() {
			n++
		}
	}
	return n
}

// TopLevel returns the active top-level fields (plain fields and groups)
// sorted by order.
func (s FieldSet) TopLevel() []Field {
	var out []Field
	for _, f := range s.fields {
		if !f.IsDeleted() && f.ParentFieldID == nil {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Children returns the active children of the given group sorted by order.
func (s FieldSet) Children(groupID string) []Field {
	var out []Field
	for _, f := range s.fields {
		if !f.IsDeleted() && f.ParentFieldID != nil && *f.ParentFieldID == groupID {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// ByID looks up a field by ID, soft-deleted ones included.
func (s FieldSet) ByID(id string) (Field, bool) {
	for _, f := range s.fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// activeByID resolves an ID to a non-deleted field.
func (s FieldSet) activeByID(id string) (Field, bool) {
	f, ok := s.ByID(id)
	if !ok || f.IsDeleted() {
		return Field{}, false
	}
	return f, true
}

// validateName checks the shared name rules for create and rename. excludeID
// exempts the field being renamed from the duplicate check.
func (s FieldSet) validateName(name, excludeID string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrNameTooLong, name, MaxNameLength)
	}
	for _, f := range s.fields {
		if f.ID != excludeID && !f.IsDeleted() && f.Name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	return nil
}

// Create validates and appends a new top-level field. The caller supplies
// identity and timestamps; the set assigns the order. Returns the field as
// stored.
func (s FieldSet) Create(f Field) (FieldSet, Field, error) {
	f.Name = strings.TrimSpace(f.Name)
	if err := s.validateName(f.Name, ""); err != nil {
		return s, Field{}, err
	}
	if s.ActiveCount() >= MaxActiveFields {
		return s, Field{}, fmt.Errorf("%w (max %d)", ErrFieldLimit, MaxActiveFields)
	}

	maxOrder := 0
	for _, t := range s.TopLevel() {
		if t.Order > maxOrder {
			maxOrder = t.Order
		}
	}
	f.Order = maxOrder + 1
	f.IsGroup = false
	f.ParentFieldID = nil
	f.DeletedAt = nil

	next := s.clone()
	next.fields = append(next.fields, f)
	return next, f, nil
}

// Rename changes an active field's name, subject to the same validation as
// Create. Renaming a field to its current name succeeds.
func (s FieldSet) Rename(id, newName string, now time.Time) (FieldSet, error) {
	f, ok := s.activeByID(id)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrFieldNotFound, id)
	}
	newName = strings.TrimSpace(newName)
	if err := s.validateName(newName, f.ID); err != nil {
		return s, err
	}

	next := s.clone()
	i := next.indexOf(id)
	next.fields[i].Name = newName
	next.fields[i].UpdatedAt = now
	return next, nil
}

// Delete soft-deletes an active field. Deleting a group cascades to all of
// its children. The remaining siblings are renumbered to stay contiguous.
func (s FieldSet) Delete(id string, now time.Time) (FieldSet, error) {
	f, ok := s.activeByID(id)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrFieldNotFound, id)
	}

	next := s.clone()
	next.markDeleted(id, now)
	if f.IsGroup {
		for _, c := range s.Children(f.ID) {
			next.markDeleted(c.ID, now)
		}
	}
	next.renumberLevel(f.ParentFieldID, now)
	return next, nil
}

// Reorder moves an active field to the 1-based position toIndex within its
// current nesting level. The index is clamped to the valid range; the level
// always ends up a contiguous permutation.
func (s FieldSet) Reorder(id string, toIndex int, now time.Time) (FieldSet, error) {
	f, ok := s.activeByID(id)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrFieldNotFound, id)
	}

	ids := s.levelIDs(f.ParentFieldID)
	from := indexOfString(ids, id)
	ids = append(ids[:from], ids[from+1:]...)

	to := toIndex - 1
	if to < 0 {
		to = 0
	}
	if to > len(ids) {
		to = len(ids)
	}
	ids = append(ids[:to], append([]string{id}, ids[to:]...)...)

	next := s.clone()
	next.applyOrder(ids, now)
	return next, nil
}

// InterpretDrop turns one discrete drag-drop outcome into a new snapshot.
//
// A DropBetween on the dragged field's own level is a pure reorder. A
// DropBetween from inside a group onto a top-level target pulls the child out
// of its group. A DropOnto a plain field converts the target into a group
// with the dragged field as its first child; a DropOnto an existing group
// appends, subject to the child limit. A group can never be dragged onto
// anything.
func (s FieldSet) InterpretDrop(draggedID, targetID string, kind DropKind, now time.Time) (FieldSet, error) {
	if draggedID == targetID {
		return s, fmt.Errorf("%w: dragged and target are the same field", ErrInvalidDrop)
	}
	dragged, ok := s.activeByID(draggedID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrFieldNotFound, draggedID)
	}
	target, ok := s.activeByID(targetID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrFieldNotFound, targetID)
	}

	switch kind {
	case DropBetween:
		return s.dropBetween(dragged, target, now)
	case DropOnto:
		return s.dropOnto(dragged, target, now)
	default:
		return s, fmt.Errorf("%w: unknown drop kind %q", ErrInvalidDrop, kind)
	}
}

func (s FieldSet) dropBetween(dragged, target Field, now time.Time) (FieldSet, error) {
	if sameLevel(dragged, target) {
		return s.Reorder(dragged.ID, target.Order, now)
	}

	// Child dragged out of its group to the top level.
	if dragged.ParentFieldID != nil && target.ParentFieldID == nil {
		sourceGroup := *dragged.ParentFieldID

		next := s.clone()
		i := next.indexOf(dragged.ID)
		next.fields[i].ParentFieldID = nil
		next.fields[i].UpdatedAt = now
		next.renumberLevel(&sourceGroup, now)

		// Insert at the target's top-level position.
		ids := next.levelIDs(nil)
		ids = removeString(ids, dragged.ID)
		at := indexOfString(ids, target.ID)
		ids = append(ids[:at], append([]string{dragged.ID}, ids[at:]...)...)
		next.applyOrder(ids, now)
		return next, nil
	}

	// Top-level field dragged between two children of a group.
	if dragged.ParentFieldID == nil && target.ParentFieldID != nil {
		if dragged.IsGroup {
			return s, fmt.Errorf("%w: %q", ErrGroupNesting, dragged.Name)
		}
		groupID := *target.ParentFieldID
		if len(s.Children(groupID)) >= MaxGroupChildren {
			return s, fmt.Errorf("%w (max %d)", ErrGroupChildLimit, MaxGroupChildren)
		}

		next := s.clone()
		i := next.indexOf(dragged.ID)
		next.fields[i].ParentFieldID = &groupID
		next.fields[i].UpdatedAt = now
		next.renumberLevel(nil, now)

		ids := next.levelIDs(&groupID)
		ids = removeString(ids, dragged.ID)
		at := indexOfString(ids, target.ID)
		ids = append(ids[:at], append([]string{dragged.ID}, ids[at:]...)...)
		next.applyOrder(ids, now)
		return next, nil
	}

	// Child of one group dropped between children of another.
	if dragged.IsGroup {
		return s, fmt.Errorf("%w: %q", ErrGroupNesting, dragged.Name)
	}
	return s, fmt.Errorf("%w: cross-group between drop", ErrInvalidDrop)
}

func (s FieldSet) dropOnto(dragged, target Field, now time.Time) (FieldSet, error) {
	if dragged.IsGroup {
		return s, fmt.Errorf("%w: %q", ErrGroupNesting, dragged.Name)
	}
	if target.ParentFieldID != nil {
		// Grouping under a child would nest groups.
		return s, fmt.Errorf("%w: %q is already a child", ErrGroupNesting, target.Name)
	}

	if target.IsGroup {
		children := s.Children(target.ID)
		count := len(children)
		alreadyChild := dragged.ParentFieldID != nil && *dragged.ParentFieldID == target.ID
		if alreadyChild {
			count--
		}
		if count >= MaxGroupChildren {
			return s, fmt.Errorf("%w (max %d)", ErrGroupChildLimit, MaxGroupChildren)
		}

		maxOrder := 0
		for _, c := range children {
			if c.ID != dragged.ID && c.Order > maxOrder {
				maxOrder = c.Order
			}
		}

		next := s.clone()
		sourceLevel := dragged.ParentFieldID
		i := next.indexOf(dragged.ID)
		next.fields[i].ParentFieldID = &target.ID
		next.fields[i].Order = maxOrder + 1
		next.fields[i].UpdatedAt = now
		next.renumberLevel(sourceLevel, now)
		if sourceLevel == nil || *sourceLevel != target.ID {
			next.renumberLevel(&target.ID, now)
		}
		return next, nil
	}

	// Plain field becomes a group with the dragged field as first child.
	next := s.clone()
	sourceLevel := dragged.ParentFieldID
	ti := next.indexOf(target.ID)
	next.fields[ti].IsGroup = true
	next.fields[ti].UpdatedAt = now
	di := next.indexOf(dragged.ID)
	next.fields[di].ParentFieldID = &target.ID
	next.fields[di].Order = 1
	next.fields[di].UpdatedAt = now
	next.renumberLevel(sourceLevel, now)
	return next, nil
}

func sameLevel(a, b Field) bool {
	if a.ParentFieldID == nil && b.ParentFieldID == nil {
		return true
	}
	if a.ParentFieldID != nil && b.ParentFieldID != nil {
		return *a.ParentFieldID == *b.ParentFieldID
	}
	return false
}

func (s FieldSet) clone() FieldSet {
	cp := make([]Field, len(s.fields))
	copy(cp, s.fields)
	return FieldSet{fields: cp}
}

func (s FieldSet) indexOf(id string) int {
	for i := range s.fields {
		if s.fields[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *FieldSet) markDeleted(id string, now time.Time) {
	i := s.indexOf(id)
	s.fields[i].DeletedAt = &now
	s.fields[i].UpdatedAt = now
}

// levelIDs returns the active field IDs at one nesting level in order.
// parentID nil selects the top level.
func (s FieldSet) levelIDs(parentID *string) []string {
	var level []Field
	if parentID == nil {
		level = s.TopLevel()
	} else {
		level = s.Children(*parentID)
	}
	ids := make([]string, len(level))
	for i, f := range level {
		ids[i] = f.ID
	}
	return ids
}

// applyOrder assigns contiguous orders 1..n to the given IDs.
func (s *FieldSet) applyOrder(ids []string, now time.Time) {
	for pos, id := range ids {
		i := s.indexOf(id)
		if s.fields[i].Order != pos+1 {
			s.fields[i].Order = pos + 1
			s.fields[i].UpdatedAt = now
		}
	}
}

// renumberLevel closes any gaps at one nesting level, preserving order.
func (s *FieldSet) renumberLevel(parentID *string, now time.Time) {
	s.applyOrder(s.levelIDs(parentID), now)
}

func indexOfString(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func removeString(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
