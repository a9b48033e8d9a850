package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCategories(t *testing.T) {
	wrapped := fmt.Errorf("adding field: %w", ErrDuplicateName)
	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsLimit(wrapped))
	assert.False(t, IsStructural(wrapped))

	assert.True(t, IsLimit(fmt.Errorf("%w (max %d)", ErrFieldLimit, MaxActiveFields)))
	assert.True(t, IsLimit(ErrGroupChildLimit))

	for _, err := range []error{ErrGroupNesting, ErrFieldNotFound, ErrGroupNotFound, ErrInvalidDrop} {
		assert.True(t, IsStructural(err))
		assert.False(t, IsValidation(err))
	}
}
