package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	roadnet "github.com/roadnet-go/roadnet/pkg"
	da "github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/engine/routing"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/roadnet-go/roadnet/pkg/util"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

type SpatialIndex interface {
	Nearest(p geo.Point, maxRadius float64) (da.Index, bool)
}

type RouteResult struct {
	Distance     float64
	Polyline     string
	ArrivalTimes []float64
	Nodes        []da.Index
}

type NearestResult struct {
	Node     da.Index
	X, Y     float64
	Distance float64
}

type GraphInfo struct {
	Vertices   int
	Nodes      int
	Edges      int
	RingNodes  int
	Generation uint64
}

// RoutingService snaps query coordinates to graph nodes and answers route
// queries through one of the registered engines.
type RoutingService struct {
	log              *zap.Logger
	graph            *da.Graph
	spatialIndex     SpatialIndex
	engines          map[string]routing.Engine
	searchRadius     float64
	resampleInterval float64
	defaultSpeedKph  float64
	queryTimeout     time.Duration
}

func NewRoutingService(log *zap.Logger, graph *da.Graph, spatialIndex SpatialIndex,
	engines map[string]routing.Engine, searchRadius, resampleInterval, defaultSpeedKph float64,
	queryTimeout time.Duration) *RoutingService {
	return &RoutingService{
		log:              log,
		graph:            graph,
		spatialIndex:     spatialIndex,
		engines:          engines,
		searchRadius:     searchRadius,
		resampleInterval: resampleInterval,
		defaultSpeedKph:  defaultSpeedKph,
		queryTimeout:     queryTimeout,
	}
}

func (rs *RoutingService) ShortestPath(ctx context.Context, engineName string,
	origX, origY, dstX, dstY float64) (*RouteResult, error) {

	engine, ok := rs.engines[engineName]
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"unknown engine %q", engineName)
	}

	s, ok := rs.spatialIndex.Nearest(geo.NewPoint(origX, origY), rs.searchRadius)
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"no node within %g of origin (%g, %g)", rs.searchRadius, origX, origY)
	}
	g, ok := rs.spatialIndex.Nearest(geo.NewPoint(dstX, dstY), rs.searchRadius)
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"no node within %g of destination (%g, %g)", rs.searchRadius, dstX, dstY)
	}

	if rs.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rs.queryTimeout)
		defer cancel()
	}

	path, err := engine.ShortestPath(ctx, s, g)
	if err != nil {
		if errors.Is(err, routing.ErrNoPath) {
			return nil, util.WrapErrorf(err, util.ErrNotFound,
				"no route from (%g, %g) to (%g, %g)", origX, origY, dstX, dstY)
		}
		return nil, err
	}

	dist, err := path.Length()
	if err != nil {
		return nil, err
	}
	points, err := path.Resample(rs.resampleInterval, routing.ResampleContinuous)
	if err != nil {
		return nil, err
	}
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Y, p.X}
	}
	times, err := path.ArrivalTimes(rs.defaultSpeedKph, roadnet.UNIT_KPH)
	if err != nil {
		return nil, err
	}

	return &RouteResult{
		Distance:     dist,
		Polyline:     string(polyline.EncodeCoords(coords)),
		ArrivalTimes: times,
		Nodes:        path.Nodes(),
	}, nil
}

func (rs *RoutingService) Nearest(x, y float64) (*NearestResult, error) {
	p := geo.NewPoint(x, y)
	n, ok := rs.spatialIndex.Nearest(p, rs.searchRadius)
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrNotFound,
			"no node within %g of (%g, %g)", rs.searchRadius, x, y)
	}
	coord, err := rs.graph.NodeCoord(n)
	if err != nil {
		return nil, fmt.Errorf("nearest node %d: %w", n, err)
	}
	return &NearestResult{
		Node:     n,
		X:        coord.X,
		Y:        coord.Y,
		Distance: coord.Distance2D(p),
	}, nil
}

func (rs *RoutingService) GraphInfo() GraphInfo {
	return GraphInfo{
		Vertices:   rs.graph.NumberOfVertices(),
		Nodes:      rs.graph.NumberOfNodes(),
		Edges:      rs.graph.NumberOfEdges(),
		RingNodes:  len(rs.graph.RingNodes()),
		Generation: rs.graph.Generation(),
	}
}
