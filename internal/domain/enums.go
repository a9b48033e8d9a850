package domain

// DropKind classifies the discrete outcome of a drag gesture. The caller's
// geometry decides which kind applies; this core only interprets the result.
type DropKind string

const (
	// DropBetween inserts the dragged field at the target's position.
	DropBetween DropKind = "between"
	// DropOnto drops the dragged field onto the target, creating or
	// extending a group.
	DropOnto DropKind = "onto"
)

// FieldRole is the closed variant set describing how a field participates in
// the grouping structure.
type FieldRole string

const (
	RoleTopLevel FieldRole = "top_level"
	RoleGroup    FieldRole = "group"
	RoleChild    FieldRole = "child"
)

// Structural limits for a thread's field set.
const (
	MaxNameLength    = 50
	MaxActiveFields  = 20
	MaxGroupChildren = 10
)
