package routing

import (
	"testing"

	da "github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/roadnet-go/roadnet/pkg/util"
	"github.com/stretchr/testify/require"
)

// chainModel is an L-shaped corridor with interior degree-2 vertices:
// nodes 0, 2 and 4, chain vertices 1 and 3.
func chainModel() *da.Graph {
	vertices := []geo.Point{
		geo.NewPoint(0, 0),
		geo.NewPoint(50, 0),
		geo.NewPoint(100, 0),
		geo.NewPoint(100, 50),
		geo.NewPoint(100, 100),
	}
	edges := []da.Edge{
		{ID: 0, I: 0, J: 2, Vseq: []da.Index{0, 1, 2}, Length: 100},
		{ID: 1, I: 2, J: 4, Vseq: []da.Index{2, 3, 4}, Length: 100},
	}
	return da.NewGraph(vertices, []da.Index{0, 2, 4}, edges, nil, nil)
}

func chainPath(t *testing.T) *Path {
	t.Helper()
	p, err := NewPath(chainModel(), []da.Index{0, 2, 4})
	require.NoError(t, err)
	return p
}

func TestNewPathValidation(t *testing.T) {
	model := chainModel()

	_, err := NewPath(model, nil)
	require.ErrorIs(t, err, ErrEmptyPath)

	_, err = NewPath(model, []da.Index{0, 4})
	require.ErrorIs(t, err, da.ErrEdgeNotFound)

	p, err := NewPath(model, []da.Index{4, 2, 0})
	require.NoError(t, err, "paths may traverse edges against storage order")
	require.Equal(t, da.Index(4), p.Start())
	require.Equal(t, da.Index(0), p.Goal())
}

func TestPathDerivations(t *testing.T) {
	p := chainPath(t)

	require.Equal(t, [][2]da.Index{{0, 2}, {2, 4}}, p.Edges())

	lengths, err := p.Lengths()
	require.NoError(t, err)
	require.Equal(t, []float64{100, 100}, lengths)

	total, err := p.Length()
	require.NoError(t, err)
	require.Equal(t, 200.0, total)

	vseq, err := p.VertexSequence()
	require.NoError(t, err)
	require.Equal(t, []da.Index{0, 1, 2, 3, 4}, vseq)

	points, err := p.Points()
	require.NoError(t, err)
	require.Len(t, points, 5)
	require.Equal(t, geo.NewPoint(100, 50), points[3])
}

func TestPathReversedVertexSequence(t *testing.T) {
	p, err := NewPath(chainModel(), []da.Index{4, 2, 0})
	require.NoError(t, err)

	vseq, err := p.VertexSequence()
	require.NoError(t, err)
	require.Equal(t, []da.Index{4, 3, 2, 1, 0}, vseq)
}

func TestPathResampleContinuous(t *testing.T) {
	p := chainPath(t)

	points, err := p.Resample(25, ResampleContinuous)
	require.NoError(t, err)
	// 200 long, spaced every 25, both endpoints included
	require.Len(t, points, 9)
	require.Equal(t, geo.NewPoint(0, 0), points[0])
	require.Equal(t, geo.NewPoint(100, 100), points[8])
	// crosses the vertex boundary without snapping to it
	require.InDelta(t, 100.0, points[5].X, 1e-9)
	require.InDelta(t, 25.0, points[5].Y, 1e-9)

	// a single straight 100-length edge at interval 25 gives exactly five
	// points, each 25 apart
	single, err := NewPath(chainModel(), []da.Index{0, 2})
	require.NoError(t, err)
	points, err = single.Resample(25, ResampleContinuous)
	require.NoError(t, err)
	require.Len(t, points, 5)
	for i := 1; i < len(points); i++ {
		require.InDelta(t, 25.0, points[i-1].Distance2D(points[i]), 1e-9)
	}

	// spacing that does not divide a 100-length edge
	points, err = single.Resample(30, ResampleContinuous)
	require.NoError(t, err)
	require.Len(t, points, 5)
	require.InDelta(t, 90.0, points[3].X, 1e-9)
	require.Equal(t, geo.NewPoint(100, 0), points[4])
}

func TestPathResampleFromVertices(t *testing.T) {
	single, err := NewPath(chainModel(), []da.Index{0, 2})
	require.NoError(t, err)

	points, err := single.Resample(30, ResampleFromVertices)
	require.NoError(t, err)
	// each 50-length segment restarts the spacing at its vertex
	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
	}
	require.Equal(t, []float64{0, 30, 50, 80, 100}, xs)
}

func TestPathResampleEven(t *testing.T) {
	single, err := NewPath(chainModel(), []da.Index{0, 2})
	require.NoError(t, err)

	points, err := single.Resample(30, ResampleEven)
	require.NoError(t, err)
	// 50-length segments split once into 25s so no gap exceeds 30
	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
	}
	require.Equal(t, []float64{0, 25, 50, 75, 100}, xs)
}

func TestPathResampleBadInput(t *testing.T) {
	p := chainPath(t)

	_, err := p.Resample(0, ResampleContinuous)
	require.ErrorIs(t, err, util.ErrBadParamInput)
	_, err = p.Resample(-5, ResampleContinuous)
	require.ErrorIs(t, err, util.ErrBadParamInput)
	_, err = p.Resample(25, ResampleMethod(9))
	require.ErrorIs(t, err, util.ErrBadParamInput)
}

func TestPathArrivalTimes(t *testing.T) {
	p := chainPath(t)

	// 36 kph is 10 m/s over two 100 m edges
	times, err := p.ArrivalTimes(36, "kph")
	require.NoError(t, err)
	require.InDelta(t, 10.0, times[0], 1e-9)
	require.InDelta(t, 20.0, times[1], 1e-9)

	times, err = p.ArrivalTimes(10, "mps")
	require.NoError(t, err)
	require.InDelta(t, 20.0, times[1], 1e-9)

	_, err = p.ArrivalTimes(10, "furlongs")
	require.ErrorIs(t, err, ErrUnknownSpeedUnit)
}

func TestPathArrivalTimesPerEdge(t *testing.T) {
	p := chainPath(t)

	times, err := p.ArrivalTimesPerEdge([]float64{10, 20}, "mps")
	require.NoError(t, err)
	require.InDelta(t, 10.0, times[0], 1e-9)
	require.InDelta(t, 15.0, times[1], 1e-9)

	_, err = p.ArrivalTimesPerEdge([]float64{10}, "mps")
	require.ErrorIs(t, err, ErrSpeedMismatch)
}

func TestPathStaleAfterReduce(t *testing.T) {
	model := chainModel()
	p, err := NewPath(model, []da.Index{0, 2, 4})
	require.NoError(t, err)

	model.ReduceBounds(-10, -10, 110, 10)

	_, err = p.Length()
	require.ErrorIs(t, err, ErrStaleModel)
	_, err = p.VertexSequence()
	require.ErrorIs(t, err, ErrStaleModel)
	_, err = p.Resample(25, ResampleContinuous)
	require.ErrorIs(t, err, ErrStaleModel)
	_, err = p.ArrivalTimes(36, "kph")
	require.ErrorIs(t, err, ErrStaleModel)

	// node sequence itself stays readable
	require.Equal(t, []da.Index{0, 2, 4}, p.Nodes())
}
