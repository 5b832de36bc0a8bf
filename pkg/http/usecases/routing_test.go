package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	da "github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/engine/routing"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/roadnet-go/roadnet/pkg/spatialindex"
	"github.com/roadnet-go/roadnet/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testService(t *testing.T) *RoutingService {
	t.Helper()
	vertices := []geo.Point{
		geo.NewPoint(0, 0),
		geo.NewPoint(100, 0),
		geo.NewPoint(0, 100),
		geo.NewPoint(100, 100),
		geo.NewPoint(1000, 1000),
	}
	edges := []da.Edge{
		{ID: 0, I: 0, J: 1, Vseq: []da.Index{0, 1}, Length: 100},
		{ID: 1, I: 0, J: 2, Vseq: []da.Index{0, 2}, Length: 100},
		{ID: 2, I: 1, J: 3, Vseq: []da.Index{1, 3}, Length: 100},
		{ID: 3, I: 2, J: 3, Vseq: []da.Index{2, 3}, Length: 100},
	}
	graph := da.NewGraph(vertices, []da.Index{0, 1, 2, 3, 4}, edges, nil, nil)

	log := zap.NewNop()
	engines := map[string]routing.Engine{
		"dijkstra": routing.NewDijkstra(graph),
		"astar":    routing.NewAStar(graph),
	}
	return NewRoutingService(log, graph, spatialindex.BuildNodeIndex(graph, log),
		engines, 50.0, 25.0, 36.0, time.Second)
}

func TestRoutingServiceShortestPath(t *testing.T) {
	rs := testService(t)

	route, err := rs.ShortestPath(context.Background(), "dijkstra", 2, 3, 99, 98)
	require.NoError(t, err)
	require.Equal(t, 200.0, route.Distance)
	require.Equal(t, []da.Index{0, 1, 3}, route.Nodes)
	require.NotEmpty(t, route.Polyline)
	require.Len(t, route.ArrivalTimes, 2)
	require.InDelta(t, 20.0, route.ArrivalTimes[1], 1e-9)
}

func TestRoutingServiceUnknownEngine(t *testing.T) {
	rs := testService(t)

	_, err := rs.ShortestPath(context.Background(), "warp", 0, 0, 100, 100)
	var serviceErr *util.Error
	require.True(t, errors.As(err, &serviceErr))
	require.Equal(t, util.ErrBadParamInput, serviceErr.Code())
}

func TestRoutingServiceSnapOutOfRadius(t *testing.T) {
	rs := testService(t)

	_, err := rs.ShortestPath(context.Background(), "dijkstra", 400, 400, 100, 100)
	var serviceErr *util.Error
	require.True(t, errors.As(err, &serviceErr))
	require.Equal(t, util.ErrBadParamInput, serviceErr.Code())
}

func TestRoutingServiceNoRoute(t *testing.T) {
	rs := testService(t)

	// node 4 is isolated
	_, err := rs.ShortestPath(context.Background(), "astar", 0, 0, 1000, 1000)
	var serviceErr *util.Error
	require.True(t, errors.As(err, &serviceErr))
	require.Equal(t, util.ErrNotFound, serviceErr.Code())
	require.ErrorIs(t, err, routing.ErrNoPath)
}

func TestRoutingServiceNearest(t *testing.T) {
	rs := testService(t)

	res, err := rs.Nearest(95, 5)
	require.NoError(t, err)
	require.Equal(t, da.Index(1), res.Node)
	require.Equal(t, 100.0, res.X)
	require.Equal(t, 0.0, res.Y)
	require.InDelta(t, 7.0710678, res.Distance, 1e-5)

	_, err = rs.Nearest(500, 500)
	var serviceErr *util.Error
	require.True(t, errors.As(err, &serviceErr))
	require.Equal(t, util.ErrNotFound, serviceErr.Code())
}

func TestRoutingServiceGraphInfo(t *testing.T) {
	rs := testService(t)

	info := rs.GraphInfo()
	require.Equal(t, 5, info.Vertices)
	require.Equal(t, 5, info.Nodes)
	require.Equal(t, 4, info.Edges)
	require.Zero(t, info.RingNodes)
	require.Equal(t, uint64(0), info.Generation)
}
