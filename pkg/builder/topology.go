package builder

import (
	"context"
	"fmt"
	"sort"

	"github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/roadnet-go/roadnet/pkg/util"
	"go.uber.org/zap"
)

type extraction struct {
	nodes     []datastructure.Index
	edges     []datastructure.Edge
	ringNodes []datastructure.Index
}

type walkState struct {
	neighbors  map[datastructure.Index][]datastructure.Index
	nodeSet    map[datastructure.Index]struct{}
	linkLength map[datastructure.EdgePair]float64
	linkTag    map[datastructure.EdgePair]int
	covered    map[datastructure.Index]struct{}
	edges      []datastructure.Edge
}

// extractTopology classifies vertices into nodes (degree != 2) and walks
// maximal degree-2 chains between them, emitting one edge per chain. The
// walk expands a frontier of nodes, starting from the smallest node ID for
// determinism; disconnected components restart the frontier from the
// smallest unvisited node. Every vertex and link is visited once.
func (b *Builder) extractTopology(ctx context.Context, vertices []geo.Point,
	links []datastructure.Link) (extraction, error) {

	st := &walkState{
		neighbors:  make(map[datastructure.Index][]datastructure.Index),
		nodeSet:    make(map[datastructure.Index]struct{}),
		linkLength: make(map[datastructure.EdgePair]float64, len(links)),
		linkTag:    make(map[datastructure.EdgePair]int, len(links)),
		covered:    make(map[datastructure.Index]struct{}),
	}

	for _, l := range links {
		st.neighbors[l.I] = append(st.neighbors[l.I], l.J)
		st.neighbors[l.J] = append(st.neighbors[l.J], l.I)
		pair := datastructure.EdgePair{l.I, l.J}
		st.linkLength[pair] = l.Length
		st.linkTag[pair] = l.Tag
	}
	for _, adj := range st.neighbors {
		sort.Slice(adj, func(a, b int) bool { return adj[a] < adj[b] })
	}

	// Node set: every vertex whose degree is not exactly 2, including
	// isolated vertices (degree 0).
	nodes := make([]datastructure.Index, 0)
	for v := datastructure.Index(0); int(v) < len(vertices); v++ {
		if len(st.neighbors[v]) != 2 {
			nodes = append(nodes, v)
			st.nodeSet[v] = struct{}{}
		}
	}

	if err := b.walkFrontier(ctx, st, nodes); err != nil {
		return extraction{}, err
	}

	ringNodes, err := b.walkRings(ctx, st, vertices, &nodes)
	if err != nil {
		return extraction{}, err
	}

	return extraction{nodes: nodes, edges: st.edges, ringNodes: ringNodes}, nil
}

func (b *Builder) walkFrontier(ctx context.Context, st *walkState, nodes []datastructure.Index) error {
	if len(nodes) == 0 {
		return nil
	}

	history := make(map[[2]datastructure.Index]struct{})
	visited := make(map[datastructure.Index]struct{}, len(nodes))
	leaves := []datastructure.Index{nodes[0]}

	for len(leaves) > 0 {
		if util.StopConcurrentOperation(ctx) {
			return fmt.Errorf("topology extraction: %w", ctx.Err())
		}

		newLeaves := make(map[datastructure.Index]struct{})
		for _, o := range leaves {
			for _, n := range st.neighbors[o] {
				if _, ok := history[[2]datastructure.Index{o, n}]; ok {
					continue
				}
				vseq, q, p := st.walkChain(o, n)
				st.emitEdge(vseq)
				history[[2]datastructure.Index{q, p}] = struct{}{}
				newLeaves[q] = struct{}{}
			}
			visited[o] = struct{}{}
			st.covered[o] = struct{}{}
			if b.progress != nil {
				b.progress(float64(len(visited)) / float64(len(nodes)))
			}
		}

		leaves = leaves[:0]
		for q := range newLeaves {
			if _, ok := visited[q]; !ok {
				leaves = append(leaves, q)
			}
		}
		sort.Slice(leaves, func(a, b int) bool { return leaves[a] < leaves[b] })

		if len(leaves) == 0 && len(visited) < len(nodes) {
			// disconnected component: restart from the smallest
			// unvisited node
			for _, n := range nodes {
				if _, ok := visited[n]; !ok {
					leaves = append(leaves, n)
					break
				}
			}
		}
	}
	return nil
}

// walkChain advances from the ordered pair (o, n) through degree-2 vertices
// until it reaches a node q, and returns the accumulated vertex sequence
// plus the final (q, p) pair whose reverse traversal must not be re-walked.
func (st *walkState) walkChain(o, n datastructure.Index) ([]datastructure.Index, datastructure.Index, datastructure.Index) {
	vseq := []datastructure.Index{o, n}
	p, q := o, n
	for {
		if _, ok := st.nodeSet[q]; ok {
			break
		}
		// degree is exactly 2 here, so exactly one neighbor differs
		// from the vertex we came from
		adj := st.neighbors[q]
		x := adj[0]
		if x == p {
			x = adj[1]
		}
		vseq = append(vseq, x)
		p, q = q, x
	}
	return vseq, q, p
}

// emitEdge canonicalizes the walked sequence so the smaller endpoint comes
// first, sums the constituent link lengths, takes the majority tag
// (first-seen wins ties), and records interior vertices as covered.
func (st *walkState) emitEdge(vseq []datastructure.Index) {
	tagCounts := make(map[int]int)
	bestTag, bestCount := 0, 0
	length := 0.0
	for k := 0; k+1 < len(vseq); k++ {
		pair := datastructure.NewEdgePair(vseq[k], vseq[k+1])
		length += st.linkLength[pair]
		t := st.linkTag[pair]
		tagCounts[t]++
		if tagCounts[t] > bestCount {
			bestTag, bestCount = t, tagCounts[t]
		}
	}

	for _, v := range vseq[1 : len(vseq)-1] {
		st.covered[v] = struct{}{}
	}

	i, j := vseq[0], vseq[len(vseq)-1]
	if j < i {
		i, j = j, i
		vseq = util.ReverseG(vseq)
	} else {
		vseq = append([]datastructure.Index(nil), vseq...)
	}

	st.edges = append(st.edges, datastructure.Edge{
		ID:     datastructure.Index(len(st.edges)),
		I:      i,
		J:      j,
		Vseq:   vseq,
		Length: length,
		Tag:    bestTag,
	})
}

// walkRings handles connected components consisting entirely of degree-2
// vertices: a closed loop with no junction or dead end cannot be rooted by
// the frontier walk, so the lowest-ID vertex of each such component is
// forced into the node set and one ring edge (v, v) is emitted.
func (b *Builder) walkRings(ctx context.Context, st *walkState, vertices []geo.Point,
	nodes *[]datastructure.Index) ([]datastructure.Index, error) {

	ringNodes := make([]datastructure.Index, 0)
	for v := datastructure.Index(0); int(v) < len(vertices); v++ {
		if len(st.neighbors[v]) == 0 {
			continue
		}
		if _, ok := st.covered[v]; ok {
			continue
		}
		if util.StopConcurrentOperation(ctx) {
			return nil, fmt.Errorf("topology extraction: %w", ctx.Err())
		}

		st.nodeSet[v] = struct{}{}
		st.covered[v] = struct{}{}
		// walk toward the smaller neighbor; the loop closes back at v
		vseq, _, _ := st.walkChain(v, st.neighbors[v][0])
		st.emitEdge(vseq)

		*nodes = append(*nodes, v)
		ringNodes = append(ringNodes, v)
	}

	if len(ringNodes) > 0 && b.log != nil {
		b.log.Warn("closed loops without junctions found, forced lowest-ID vertices into node set",
			zap.Int("rings", len(ringNodes)))
	}
	return ringNodes, nil
}
