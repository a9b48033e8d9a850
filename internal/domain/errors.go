package domain

import "errors"

var (
	// ErrEmptyName rejects a blank or whitespace-only field name.
	ErrEmptyName = errors.New("field name is empty")
	// ErrNameTooLong rejects names over MaxNameLength characters.
	ErrNameTooLong = errors.New("field name too long")
	// ErrDuplicateName rejects a name already used by a non-deleted field
	// of the same thread (case-sensitive).
	ErrDuplicateName = errors.New("field name already in use")

	// ErrFieldLimit signals the per-thread cap of MaxActiveFields.
	ErrFieldLimit = errors.New("field limit reached for thread")
	// ErrGroupChildLimit signals the per-group cap of MaxGroupChildren.
	ErrGroupChildLimit = errors.New("group child limit reached")

	// ErrGroupNesting rejects any drop that would make a group a child.
	ErrGroupNesting = errors.New("a group cannot become a child of another group")
	// ErrFieldNotFound signals an unknown field ID.
	ErrFieldNotFound = errors.New("field not found")
	// ErrGroupNotFound signals a group ID that does not resolve to a group.
	ErrGroupNotFound = errors.New("group not found")
	// ErrInvalidDrop rejects a drop combination the UI should never emit,
	// such as dropping a field onto itself.
	ErrInvalidDrop = errors.New("invalid drop")
)

// IsValidation reports whether err is recoverable by the caller with
// corrected input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrNameTooLong) ||
		errors.Is(err, ErrDuplicateName)
}

// IsLimit reports whether err signals a hard ceiling; retrying with the same
// input will fail again.
func IsLimit(err error) bool {
	return errors.Is(err, ErrFieldLimit) || errors.Is(err, ErrGroupChildLimit)
}

// IsStructural reports whether err indicates a caller/UI logic defect. The
// operation that returned it was a no-op.
func IsStructural(err error) bool {
	return errors.Is(err, ErrGroupNesting) ||
		errors.Is(err, ErrFieldNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrInvalidDrop)
}
