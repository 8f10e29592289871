package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	t.Run("plain app error", func(t *testing.T) {
		err := NotFound("group not found")
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("wrapped app error", func(t *testing.T) {
		cause := errors.New("dial tcp: timeout")
		err := Unresolved("user lookup failed", cause)
		wrapped := fmt.Errorf("resolve sender: %w", err)

		assert.Equal(t, CodeUnresolved, CodeOf(wrapped))
		assert.ErrorIs(t, wrapped, err)
	})

	t.Run("foreign error", func(t *testing.T) {
		assert.Equal(t, CodeUnknown, CodeOf(errors.New("boom")))
	})
}

func TestHasCode(t *testing.T) {
	err := AlreadyExists("reaction already exists")
	assert.True(t, HasCode(err, CodeAlreadyExists))
	assert.False(t, HasCode(err, CodeNotFound))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := Wrap(CodeAlreadyExists, "membership already exists", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "membership already exists")
	assert.Contains(t, err.Error(), "duplicate key")
}
