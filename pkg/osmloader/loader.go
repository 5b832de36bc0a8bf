// Package osmloader adapts OpenStreetMap extracts to the builder's polyline
// input. It is a thin boundary adapter: the topology core never depends on
// it. Coordinates are passed through as (x=lon, y=lat); reprojection to a
// Cartesian frame, when needed, is the caller's concern.
package osmloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/roadnet-go/roadnet/pkg/concurrent"
	"github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"go.uber.org/zap"
)

// Road classes passable by a vehicle.
// Reference: https://wiki.openstreetmap.org/wiki/Key:highway
var passableRoads = map[string]struct{}{
	"motorway": {}, "trunk": {}, "primary": {}, "secondary": {},
	"tertiary": {}, "unclassified": {}, "residential": {},
	"motorway_link": {}, "trunk_link": {}, "primary_link": {},
	"secondary_link": {}, "tertiary_link": {}, "living_street": {},
}

type Loader struct {
	log *zap.Logger
}

func NewLoader(log *zap.Logger) *Loader {
	return &Loader{log: log}
}

type fileResult struct {
	path      string
	polylines []datastructure.Polyline
	err       error
}

// Load parses one or more .osm.pbf or .osm files into tagged polylines.
// Files are parsed concurrently; a file that fails to parse is skipped with
// a logged error rather than failing the whole batch.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]datastructure.Polyline, error) {
	if len(paths) == 1 {
		res := l.parseFile(ctx, paths[0])
		if res.err != nil {
			return nil, fmt.Errorf("parse %s: %w", paths[0], res.err)
		}
		return res.polylines, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(paths) {
		workers = len(paths)
	}
	pool := concurrent.NewWorkerPool[string, fileResult](workers, len(paths))
	for _, p := range paths {
		pool.AddJob(p)
	}
	pool.Close()
	pool.Start(ctx, func(ctx context.Context, path string) fileResult {
		return l.parseFile(ctx, path)
	})
	pool.Wait()

	out := make([]datastructure.Polyline, 0)
	for res := range pool.CollectResults() {
		if res.err != nil {
			l.log.Error("skipping unparsable map file",
				zap.String("path", res.path), zap.Error(res.err))
			continue
		}
		out = append(out, res.polylines...)
	}
	return out, nil
}

type wayRef struct {
	nodes []int64
	tag   string
}

// parseFile scans the file twice: the first pass collects passable-road
// ways and the node IDs they reference, the second resolves those node IDs
// to coordinates.
func (l *Loader) parseFile(ctx context.Context, path string) fileResult {
	ways := make([]wayRef, 0)
	needed := make(map[int64]struct{})

	err := l.scan(ctx, path, func(o osm.Object) {
		way, ok := o.(*osm.Way)
		if !ok || len(way.Nodes) < 2 {
			return
		}
		if _, passable := passableRoads[way.Tags.Find("highway")]; !passable {
			return
		}
		ref := wayRef{nodes: make([]int64, len(way.Nodes)), tag: way.Tags.Find("highway")}
		for i, n := range way.Nodes {
			ref.nodes[i] = int64(n.ID)
			needed[int64(n.ID)] = struct{}{}
		}
		ways = append(ways, ref)
	})
	if err != nil {
		return fileResult{path: path, err: err}
	}

	coords := make(map[int64]geo.Point, len(needed))
	err = l.scan(ctx, path, func(o osm.Object) {
		node, ok := o.(*osm.Node)
		if !ok {
			return
		}
		if _, ok := needed[int64(node.ID)]; ok {
			coords[int64(node.ID)] = geo.NewPoint(node.Lon, node.Lat)
		}
	})
	if err != nil {
		return fileResult{path: path, err: err}
	}

	polylines := make([]datastructure.Polyline, 0, len(ways))
	dropped := 0
	for _, ref := range ways {
		points := make([]geo.Point, 0, len(ref.nodes))
		complete := true
		for _, id := range ref.nodes {
			p, ok := coords[id]
			if !ok {
				complete = false
				break
			}
			points = append(points, p)
		}
		if !complete {
			dropped++
			continue
		}
		polylines = append(polylines, datastructure.Polyline{Points: points, Tag: ref.tag})
	}

	l.log.Info("parsed map file",
		zap.String("path", filepath.Base(path)),
		zap.Int("roads", len(polylines)),
		zap.Int("dropped", dropped))
	return fileResult{path: path, polylines: polylines}
}

func (l *Loader) scan(ctx context.Context, path string, visit func(osm.Object)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".pbf":
		scanner := osmpbf.New(ctx, f, 1)
		defer scanner.Close()
		for scanner.Scan() {
			visit(scanner.Object())
		}
		return scanner.Err()
	case ".osm", ".xml":
		scanner := osmxml.New(ctx, f)
		defer scanner.Close()
		for scanner.Scan() {
			visit(scanner.Object())
		}
		return scanner.Err()
	default:
		return fmt.Errorf("unsupported map file extension %q", filepath.Ext(path))
	}
}
