package datastructure

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/roadnet-go/roadnet/pkg/util"
)

// Graph is the queryable topological model of a road network: a node table,
// an edge table, and a vertex-sequence index keyed by canonical endpoint
// pair. All query methods are read-only; the only mutators are
// ReduceBounds/ReduceRadius, which atomically replace the node and edge
// tables and bump the generation counter. Paths and cached search results
// hold the generation they were built against so stale references are
// detectable.
//
// Node IDs are vertex IDs; the vertex table always keeps the full
// deduplicated vertex set so edge vertex sequences stay resolvable after a
// reduction.
type Graph struct {
	vertices  []geo.Point
	nodes     map[Index]struct{}
	nodeIDs   []Index
	edges     []Edge
	edgeIndex map[EdgePair]Index
	adjacency map[Index][]Index
	tags      *util.IDMap
	ringNodes []Index

	generation uint64
}

// NewGraph builds the model from already-extracted tables. The nodes slice
// lists node vertex IDs, edges carry canonical endpoints (I <= J), and
// ringNodes lists vertices that were forced into the node set to root
// otherwise unrootable closed loops.
func NewGraph(vertices []geo.Point, nodes []Index, edges []Edge, tags *util.IDMap, ringNodes []Index) *Graph {
	if tags == nil {
		tags = util.NewIDMap()
	}
	g := &Graph{
		vertices:  vertices,
		edges:     edges,
		tags:      tags,
		ringNodes: append([]Index(nil), ringNodes...),
	}
	g.setNodes(nodes)
	g.rebuildIndexes()
	return g
}

func (g *Graph) setNodes(nodes []Index) {
	g.nodes = make(map[Index]struct{}, len(nodes))
	g.nodeIDs = append([]Index(nil), nodes...)
	sort.Slice(g.nodeIDs, func(a, b int) bool { return g.nodeIDs[a] < g.nodeIDs[b] })
	for _, n := range g.nodeIDs {
		g.nodes[n] = struct{}{}
	}
}

func (g *Graph) rebuildIndexes() {
	g.edgeIndex = make(map[EdgePair]Index, len(g.edges))
	g.adjacency = make(map[Index][]Index, len(g.nodeIDs))
	for _, e := range g.edges {
		pair := NewEdgePair(e.I, e.J)
		if _, ok := g.edgeIndex[pair]; !ok {
			// parallel chains between the same node pair keep the
			// first-seen edge as the lookup result
			g.edgeIndex[pair] = e.ID
		}
		if e.I != e.J {
			g.adjacency[e.I] = append(g.adjacency[e.I], e.J)
			g.adjacency[e.J] = append(g.adjacency[e.J], e.I)
		}
	}
	for n, adj := range g.adjacency {
		sort.Slice(adj, func(a, b int) bool { return adj[a] < adj[b] })
		// parallel edges produce repeated neighbor entries
		g.adjacency[n] = compactSorted(adj)
	}
}

func compactSorted(xs []Index) []Index {
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x != xs[i-1] {
			out = append(out, x)
		}
	}
	return out
}

func (g *Graph) NumberOfVertices() int { return len(g.vertices) }
func (g *Graph) NumberOfNodes() int    { return len(g.nodeIDs) }
func (g *Graph) NumberOfEdges() int    { return len(g.edges) }

// Generation counts how many times the model has been reduced.
func (g *Graph) Generation() uint64 { return g.generation }

func (g *Graph) HasNode(i Index) bool {
	_, ok := g.nodes[i]
	return ok
}

// Nodes returns the node IDs in ascending order.
func (g *Graph) Nodes() []Index {
	return append([]Index(nil), g.nodeIDs...)
}

func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// RingNodes returns the vertices that were forced into the node set because
// their component was a closed loop with no junction or dead end.
func (g *Graph) RingNodes() []Index {
	return append([]Index(nil), g.ringNodes...)
}

// Neighbors returns the node IDs adjacent to node i, in ascending order.
func (g *Graph) Neighbors(i Index) []Index {
	return append([]Index(nil), g.adjacency[i]...)
}

// Actions returns the ordered (i, n) pairs leaving node i, one per adjacent
// node.
func (g *Graph) Actions(i Index) [][2]Index {
	adj := g.adjacency[i]
	out := make([][2]Index, 0, len(adj))
	for _, n := range adj {
		out = append(out, [2]Index{i, n})
	}
	return out
}

// EdgeID resolves the undirected pair (i, j) to an edge ID.
func (g *Graph) EdgeID(i, j Index) (Index, bool) {
	id, ok := g.edgeIndex[NewEdgePair(i, j)]
	return id, ok
}

func (g *Graph) EdgeByID(id Index) (Edge, error) {
	if int(id) >= len(g.edges) {
		return Edge{}, fmt.Errorf("edge id %d: %w", id, ErrEdgeNotFound)
	}
	return g.edges[id], nil
}

// Length returns the length of edge (i, j).
func (g *Graph) Length(i, j Index) (float64, error) {
	id, ok := g.EdgeID(i, j)
	if !ok {
		return 0, fmt.Errorf("length(%d, %d): %w", i, j, ErrEdgeNotFound)
	}
	return g.edges[id].Length, nil
}

// VertexSequence returns the ordered vertex IDs of edge (i, j), starting at
// i. The stored sequence runs from the smaller endpoint, so a query from the
// larger endpoint returns the mirror sequence.
func (g *Graph) VertexSequence(i, j Index) ([]Index, error) {
	id, ok := g.EdgeID(i, j)
	if !ok {
		return nil, fmt.Errorf("vertex sequence (%d, %d): %w", i, j, ErrEdgeNotFound)
	}
	e := g.edges[id]
	if i == e.I {
		return append([]Index(nil), e.Vseq...), nil
	}
	return util.ReverseG(e.Vseq), nil
}

func (g *Graph) NodeCoord(i Index) (geo.Point, error) {
	if !g.HasNode(i) {
		return geo.Point{}, fmt.Errorf("node %d: %w", i, ErrNodeNotFound)
	}
	return g.vertices[i], nil
}

func (g *Graph) VertexCoord(i Index) (geo.Point, error) {
	if int(i) >= len(g.vertices) {
		return geo.Point{}, fmt.Errorf("vertex %d: %w", i, ErrVertexNotFound)
	}
	return g.vertices[i], nil
}

// NodeDistance returns the 2D Euclidean distance between two nodes. Both IDs
// must be valid vertex IDs; search engines validate endpoints before
// querying.
func (g *Graph) NodeDistance(i, j Index) float64 {
	return g.vertices[i].Distance2D(g.vertices[j])
}

// Bounds returns the axis-aligned bounding box of the node table.
func (g *Graph) Bounds() (geo.Point, geo.Point) {
	if len(g.nodeIDs) == 0 {
		return geo.Point{}, geo.Point{}
	}
	min := g.vertices[g.nodeIDs[0]]
	max := min
	for _, n := range g.nodeIDs[1:] {
		p := g.vertices[n]
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// NodesWithinBounds returns the node IDs inside the closed box
// [xmin, xmax] x [ymin, ymax], ascending.
func (g *Graph) NodesWithinBounds(xmin, ymin, xmax, ymax float64) []Index {
	out := make([]Index, 0)
	for _, n := range g.nodeIDs {
		p := g.vertices[n]
		if xmin <= p.X && p.X <= xmax && ymin <= p.Y && p.Y <= ymax {
			out = append(out, n)
		}
	}
	return out
}

// NodesWithinRadius returns the node IDs strictly closer than r to center,
// ascending.
func (g *Graph) NodesWithinRadius(center geo.Point, r float64) []Index {
	out := make([]Index, 0)
	for _, n := range g.nodeIDs {
		if g.vertices[n].Distance2D(center) < r {
			out = append(out, n)
		}
	}
	return out
}

// ReduceBounds shrinks the model in place to the nodes inside the box and
// the edges whose both endpoints survive.
func (g *Graph) ReduceBounds(xmin, ymin, xmax, ymax float64) {
	g.reduce(g.NodesWithinBounds(xmin, ymin, xmax, ymax))
}

// ReduceRadius shrinks the model in place to the nodes within r of center
// and the edges whose both endpoints survive.
func (g *Graph) ReduceRadius(center geo.Point, r float64) {
	g.reduce(g.NodesWithinRadius(center, r))
}

func (g *Graph) reduce(keep []Index) {
	g.setNodes(keep)
	kept := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if g.HasNode(e.I) && g.HasNode(e.J) {
			e.ID = Index(len(kept))
			kept = append(kept, e)
		}
	}
	g.edges = kept

	ring := g.ringNodes[:0]
	for _, n := range g.ringNodes {
		if g.HasNode(n) {
			ring = append(ring, n)
		}
	}
	g.ringNodes = ring

	g.rebuildIndexes()
	g.generation++
}

// TagName resolves a tag ID back to the road-class string.
func (g *Graph) TagName(id int) string {
	return g.tags.GetName(id)
}

func (g *Graph) Tags() *util.IDMap {
	return g.tags
}

// RandomNode picks a node uniformly using rng.
func (g *Graph) RandomNode(rng *rand.Rand) Index {
	return g.nodeIDs[rng.Intn(len(g.nodeIDs))]
}
