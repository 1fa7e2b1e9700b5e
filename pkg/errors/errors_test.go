package errors

import (
	stderr "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, e3 == e2)
}

func TestWrapKeepsSentinel(t *testing.T) {
	sentinel := New("not found")
	cause := stderr.New("key missing")

	wrapped := sentinel.Wrap(cause)
	require.True(t, Is(wrapped, sentinel))
	require.True(t, Is(wrapped, cause))
	require.Equal(t, "not found: key missing", wrapped.Error())

	// the sentinel is left untouched
	require.Equal(t, "not found", sentinel.Error())
	require.Nil(t, sentinel.Unwrap())

	rewrapped := wrapped.Wrapf("package %s", "foo")
	require.True(t, Is(rewrapped, sentinel))
	require.Equal(t, "not found: package foo", rewrapped.Error())
}

func TestAs(t *testing.T) {
	var target *Error
	err := New("conflict").Wrap(stderr.New("duplicate"))
	require.True(t, As(err, &target))
	require.Equal(t, "conflict: duplicate", target.Error())
}
