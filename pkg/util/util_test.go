package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReverseG(t *testing.T) {
	in := []int{1, 2, 3, 4}
	got := ReverseG(in)
	require.Equal(t, []int{4, 3, 2, 1}, got)
	require.Equal(t, []int{1, 2, 3, 4}, in, "input must not be mutated")

	require.Equal(t, []string{"b", "a"}, ReverseG([]string{"a", "b"}))
	require.Empty(t, ReverseG([]int{}))
}

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("disk on fire")
	err := WrapErrorf(orig, ErrNotFound, "edge (%d, %d)", 3, 7)

	require.Equal(t, "edge (3, 7)", err.Error())
	require.ErrorIs(t, err, orig)

	var serviceErr *Error
	require.ErrorAs(t, err, &serviceErr)
	require.Equal(t, ErrNotFound, serviceErr.Code())
}

func TestKphToMps(t *testing.T) {
	require.InDelta(t, 10.0, KphToMps(36), 1e-9)
	require.Equal(t, 0.0, KphToMps(0))
}

func TestMinInt(t *testing.T) {
	require.Equal(t, 1, MinInt(1, 2))
	require.Equal(t, -3, MinInt(5, -3))
}
