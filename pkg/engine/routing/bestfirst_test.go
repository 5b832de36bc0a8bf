package routing

import (
	"context"
	"testing"

	da "github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/stretchr/testify/require"
)

// trapModel baits the greedy search with a dead-end node 1 sitting right
// on the straight line from 0 to the goal 4; the real route detours
// through 2 and 3.
//
//	2 ------- 3
//	|         |
//	0 -- 1    4
func trapModel() *da.Graph {
	vertices := []geo.Point{
		geo.NewPoint(0, 0),
		geo.NewPoint(50, 0),
		geo.NewPoint(0, 60),
		geo.NewPoint(100, 60),
		geo.NewPoint(100, 0),
	}
	edges := []da.Edge{
		{ID: 0, I: 0, J: 1, Vseq: []da.Index{0, 1}, Length: 50},
		{ID: 1, I: 0, J: 2, Vseq: []da.Index{0, 2}, Length: 60},
		{ID: 2, I: 2, J: 3, Vseq: []da.Index{2, 3}, Length: 100},
		{ID: 3, I: 3, J: 4, Vseq: []da.Index{3, 4}, Length: 60},
	}
	return da.NewGraph(vertices, []da.Index{0, 1, 2, 3, 4}, edges, nil, nil)
}

func TestBestFirstEscapesDeadEnd(t *testing.T) {
	bf := NewBestFirst(trapModel())

	path, err := bf.ShortestPath(context.Background(), 0, 4)
	require.NoError(t, err)

	// the excursion into the dead end is excised from the result
	require.Equal(t, []da.Index{0, 2, 3, 4}, path.Nodes())
}

func TestBestFirstResultIsSimple(t *testing.T) {
	for _, model := range []*da.Graph{trapModel(), diagModel()} {
		bf := NewBestFirst(model)
		for _, s := range model.Nodes() {
			for _, g := range model.Nodes() {
				path, err := bf.ShortestPath(context.Background(), s, g)
				require.NoError(t, err)

				seen := make(map[da.Index]struct{})
				for _, n := range path.Nodes() {
					_, dup := seen[n]
					require.False(t, dup, "route %d -> %d revisits node %d", s, g, n)
					seen[n] = struct{}{}
				}
				require.Equal(t, s, path.Start())
				require.Equal(t, g, path.Goal())
			}
		}
	}
}

func TestBestFirstNoPath(t *testing.T) {
	bf := NewBestFirst(gridModel())
	_, err := bf.ShortestPath(context.Background(), 0, 5)
	require.ErrorIs(t, err, ErrNoPath)
}

func TestBestFirstSourceEqualsGoal(t *testing.T) {
	bf := NewBestFirst(gridModel())
	path, err := bf.ShortestPath(context.Background(), 3, 3)
	require.NoError(t, err)
	require.Equal(t, []da.Index{3}, path.Nodes())
}

func TestPruneCycles(t *testing.T) {
	testCases := []struct {
		name string
		in   []da.Index
		want []da.Index
	}{
		{"no repeats", []da.Index{0, 1, 2}, []da.Index{0, 1, 2}},
		{"single loop", []da.Index{0, 1, 0, 2}, []da.Index{0, 2}},
		{"nested loops", []da.Index{0, 1, 2, 1, 3, 0, 4}, []da.Index{0, 4}},
		{"tail loop", []da.Index{5, 6, 7, 6}, []da.Index{5, 6}},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, pruneCycles(tt.in))
		})
	}
}
