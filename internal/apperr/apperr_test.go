package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("ingredients", "must not be empty")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("recipe")))
	assert.Equal(t, KindInternal, KindOf(errors.New("something else")))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("toggling save: %w", SelfSave())
	assert.Equal(t, KindSelfSave, KindOf(err))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := CommitFailed(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestValidationNamesField(t *testing.T) {
	err := Validationf("instructions", "%s must decode to a non-empty array", "instructions")
	var e *Error
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, "instructions", e.Field)
}
