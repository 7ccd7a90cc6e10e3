package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	cause := New("cause")
	wrapped := New("outer").Wrap(cause)

	assert.Equal(t, "outer", wrapped.Error())
	require.NotNil(t, wrapped.Unwrap())
	assert.Equal(t, "cause", wrapped.Unwrap().Error())
}

func TestIs(t *testing.T) {
	sentinel := New("sentinel")

	assert.True(t, Is(sentinel, sentinel))
	assert.True(t, Is(New("outer").Wrap(sentinel), sentinel))
	assert.True(t, Is(fmt.Errorf("stdlib: %w", sentinel), sentinel))
	assert.False(t, Is(New("other"), sentinel))
}

func TestAs(t *testing.T) {
	var target *Error
	err := fmt.Errorf("outer: %w", New("inner"))

	require.True(t, As(err, &target))
	assert.Equal(t, "inner", target.Error())
}

func TestNilUnwrap(t *testing.T) {
	var e *Error
	assert.Nil(t, e.Unwrap())
}
