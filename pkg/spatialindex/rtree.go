package spatialindex

import (
	"sort"

	"github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// NodeIndex is an R-tree over the model's node coordinates, serving
// nearest-node snapping for query endpoints and fast radius candidate
// lookup. It is built once per model generation; a reduced model needs a
// fresh index.
type NodeIndex struct {
	tr    *rtree.RTreeG[datastructure.Index]
	graph *datastructure.Graph
}

func BuildNodeIndex(graph *datastructure.Graph, log *zap.Logger) *NodeIndex {
	log.Info("building R-tree node index", zap.Int("nodes", graph.NumberOfNodes()))
	var tr rtree.RTreeG[datastructure.Index]
	for _, n := range graph.Nodes() {
		p, _ := graph.NodeCoord(n)
		tr.Insert([2]float64{p.X, p.Y}, [2]float64{p.X, p.Y}, n)
	}
	return &NodeIndex{tr: &tr, graph: graph}
}

// Within returns the node IDs inside the closed box, ascending.
func (ni *NodeIndex) Within(xmin, ymin, xmax, ymax float64) []datastructure.Index {
	results := make([]datastructure.Index, 0)
	ni.tr.Search([2]float64{xmin, ymin}, [2]float64{xmax, ymax},
		func(min, max [2]float64, n datastructure.Index) bool {
			results = append(results, n)
			return true
		})
	sort.Slice(results, func(a, b int) bool { return results[a] < results[b] })
	return results
}

// WithinRadius returns the node IDs strictly closer than r to center,
// ascending. The R-tree search is over the bounding box; candidates are
// filtered by exact distance.
func (ni *NodeIndex) WithinRadius(center geo.Point, r float64) []datastructure.Index {
	results := make([]datastructure.Index, 0)
	ni.tr.Search([2]float64{center.X - r, center.Y - r}, [2]float64{center.X + r, center.Y + r},
		func(min, max [2]float64, n datastructure.Index) bool {
			p, _ := ni.graph.NodeCoord(n)
			if p.Distance2D(center) < r {
				results = append(results, n)
			}
			return true
		})
	sort.Slice(results, func(a, b int) bool { return results[a] < results[b] })
	return results
}

// Nearest returns the node closest to p within maxRadius. Ties on distance
// break toward the smaller node ID.
func (ni *NodeIndex) Nearest(p geo.Point, maxRadius float64) (datastructure.Index, bool) {
	best := datastructure.Index(0)
	bestDist := maxRadius
	found := false
	ni.tr.Search([2]float64{p.X - maxRadius, p.Y - maxRadius}, [2]float64{p.X + maxRadius, p.Y + maxRadius},
		func(min, max [2]float64, n datastructure.Index) bool {
			q, _ := ni.graph.NodeCoord(n)
			d := q.Distance2D(p)
			if d < bestDist || (d == bestDist && found && n < best) {
				best = n
				bestDist = d
				found = true
			}
			return true
		})
	return best, found
}
