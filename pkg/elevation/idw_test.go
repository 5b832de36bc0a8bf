package elevation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDWExactSampleHit(t *testing.T) {
	idw := NewIDW([]Sample{
		NewSample(0, 0, 10),
		NewSample(10, 0, 20),
	}, 50, 2)

	z, err := idw.Elevation(10, 0)
	require.NoError(t, err)
	require.Equal(t, 20.0, z)
}

func TestIDWInterpolates(t *testing.T) {
	idw := NewIDW([]Sample{
		NewSample(0, 0, 10),
		NewSample(10, 0, 20),
	}, 50, 2)

	// midpoint weights both samples equally
	z, err := idw.Elevation(5, 0)
	require.NoError(t, err)
	require.InDelta(t, 15.0, z, 1e-9)

	// closer to the higher sample, result skews toward it
	z, err = idw.Elevation(8, 0)
	require.NoError(t, err)
	require.Greater(t, z, 15.0)
	require.Less(t, z, 20.0)
}

func TestIDWRadiusFiltersSamples(t *testing.T) {
	idw := NewIDW([]Sample{
		NewSample(0, 0, 10),
		NewSample(100, 0, 1000),
	}, 20, 2)

	// the far sample sits outside the radius and must not contribute
	z, err := idw.Elevation(5, 0)
	require.NoError(t, err)
	require.Equal(t, 10.0, z)
}

func TestIDWOutOfBounds(t *testing.T) {
	idw := NewIDW([]Sample{NewSample(0, 0, 10)}, 20, 2)

	_, err := idw.Elevation(500, 500)
	require.ErrorIs(t, err, ErrOutOfBounds)

	empty := NewIDW(nil, 20, 2)
	_, err = empty.Elevation(0, 0)
	require.ErrorIs(t, err, ErrOutOfBounds)
}
