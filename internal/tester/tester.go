package tester

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Eq asserts that got == want (deep equality) and stops the test otherwise.
func Eq[T any](t *testing.T, got, want T, msgAndArgs ...any) {
	t.Helper()
	require.Equal(t, want, got, msgAndArgs...)
}

// True asserts that cond is true.
func True(t *testing.T, cond bool, msgAndArgs ...any) {
	t.Helper()
	require.True(t, cond, msgAndArgs...)
}

// False asserts that cond is false.
func False(t *testing.T, cond bool, msgAndArgs ...any) {
	t.Helper()
	require.False(t, cond, msgAndArgs...)
}

// NoErr asserts that err is nil.
func NoErr(t *testing.T, err error, msgAndArgs ...any) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// ErrAs asserts that err unwraps to target and returns it for further checks.
func ErrAs[E error](t *testing.T, err error, msgAndArgs ...any) E {
	t.Helper()
	var target E
	require.ErrorAs(t, err, &target, msgAndArgs...)
	return target
}

// InDelta reports float mismatches beyond delta without stopping the test.
func InDelta(t *testing.T, got, want, delta float64, msgAndArgs ...any) bool {
	t.Helper()
	return assert.InDelta(t, want, got, delta, msgAndArgs...)
}
