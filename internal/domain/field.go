package domain

import "time"

// Thread is the organizational container for journal entries. Entry and
// thread management is conventional glue; fields are the interesting part.
type Thread struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Field is a named, user-defined structured data point attachable to entries
// of one thread. A field is either top-level, a group (owns children), or a
// child of exactly one group; it is never more than one of those at a time.
type Field struct {
	ID            string
	ThreadID      string
	Name          string
	Order         int
	IsGroup       bool
	ParentFieldID *string
	DeletedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Role resolves the field's structural variant.
func (f *Field) Role() FieldRole {
	switch {
	case f.ParentFieldID != nil:
		return RoleChild
	case f.IsGroup:
		return RoleGroup
	default:
		return RoleTopLevel
	}
}

// IsDeleted reports whether the field has been soft-deleted.
func (f *Field) IsDeleted() bool {
	return f.DeletedAt != nil
}

// Entry is a single journal entry. Entry content itself is out of scope;
// entries exist here so values can be bound and exported.
type Entry struct {
	ID        string
	ThreadID  string
	Body      string
	CreatedAt time.Time
}

// FieldValue binds one user-entered value to one field of one entry.
// Immutable once created; the value is already trimmed and may be empty.
type FieldValue struct {
	ID        string
	EntryID   string
	FieldID   string
	Value     string
	CreatedAt time.Time
}
