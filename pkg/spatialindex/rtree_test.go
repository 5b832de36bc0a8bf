package spatialindex

import (
	"testing"

	"github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func cornerIndex(t *testing.T) (*NodeIndex, *datastructure.Graph) {
	t.Helper()
	vertices := []geo.Point{
		geo.NewPoint(0, 0),
		geo.NewPoint(100, 0),
		geo.NewPoint(0, 100),
		geo.NewPoint(100, 100),
	}
	edges := []datastructure.Edge{
		{ID: 0, I: 0, J: 1, Vseq: []datastructure.Index{0, 1}, Length: 100},
		{ID: 1, I: 0, J: 2, Vseq: []datastructure.Index{0, 2}, Length: 100},
		{ID: 2, I: 1, J: 3, Vseq: []datastructure.Index{1, 3}, Length: 100},
		{ID: 3, I: 2, J: 3, Vseq: []datastructure.Index{2, 3}, Length: 100},
	}
	g := datastructure.NewGraph(vertices, []datastructure.Index{0, 1, 2, 3}, edges, nil, nil)
	return BuildNodeIndex(g, zap.NewNop()), g
}

func TestNodeIndexWithin(t *testing.T) {
	ni, _ := cornerIndex(t)

	require.Equal(t, []datastructure.Index{0, 1}, ni.Within(-10, -10, 110, 10))
	require.Equal(t, []datastructure.Index{0, 1, 2, 3}, ni.Within(0, 0, 100, 100), "box is closed")
	require.Empty(t, ni.Within(200, 200, 300, 300))
}

func TestNodeIndexWithinRadius(t *testing.T) {
	ni, _ := cornerIndex(t)

	require.Equal(t, []datastructure.Index{0}, ni.WithinRadius(geo.NewPoint(0, 0), 100), "radius is exclusive")
	require.Equal(t, []datastructure.Index{0, 1, 2}, ni.WithinRadius(geo.NewPoint(0, 0), 120))

	// bounding box candidates farther than r must be filtered out
	require.Equal(t, []datastructure.Index{0}, ni.WithinRadius(geo.NewPoint(10, 10), 100))
}

func TestNodeIndexNearest(t *testing.T) {
	ni, _ := cornerIndex(t)

	n, ok := ni.Nearest(geo.NewPoint(90, 95), 50)
	require.True(t, ok)
	require.Equal(t, datastructure.Index(3), n)

	_, ok = ni.Nearest(geo.NewPoint(500, 500), 50)
	require.False(t, ok)

	// equidistant corners resolve to the smaller node ID
	n, ok = ni.Nearest(geo.NewPoint(50, 50), 200)
	require.True(t, ok)
	require.Equal(t, datastructure.Index(0), n)
}

func TestNodeIndexMatchesLinearScan(t *testing.T) {
	ni, g := cornerIndex(t)

	for _, box := range [][4]float64{
		{-10, -10, 50, 150},
		{0, 0, 100, 100},
		{60, 60, 200, 200},
	} {
		require.Equal(t,
			g.NodesWithinBounds(box[0], box[1], box[2], box[3]),
			ni.Within(box[0], box[1], box[2], box[3]))
	}

	centers := []geo.Point{geo.NewPoint(0, 0), geo.NewPoint(50, 50), geo.NewPoint(99, 1)}
	for _, c := range centers {
		require.Equal(t, g.NodesWithinRadius(c, 130), ni.WithinRadius(c, 130))
	}
}
