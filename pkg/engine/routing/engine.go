// Package routing implements shortest-path search over the topological
// model: Dijkstra, A* with an admissible Euclidean heuristic, and a greedy
// best-first fallback. Dijkstra and A* memoize per-source distance and
// predecessor tables so repeated goal queries from the same source resume
// instead of restarting, and completed (source, goal) paths are cached and
// returned verbatim.
package routing

import (
	"context"
	"fmt"

	da "github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/util"
)

// Engine finds a path between two node IDs. Implementations are single
// writer per source: concurrent queries against one engine instance need
// external synchronization, while separate instances over the same model
// are safe in parallel.
type Engine interface {
	ShortestPath(ctx context.Context, s, g da.Index) (*Path, error)
}

// searchState holds the memoized relaxation tables for one source node.
// Absence from dist means tentative distance infinity.
type searchState struct {
	dist    map[da.Index]float64
	origin  map[da.Index]da.Index
	settled map[da.Index]struct{}
}

func newSearchState(s da.Index) *searchState {
	return &searchState{
		dist:    map[da.Index]float64{s: 0},
		origin:  make(map[da.Index]da.Index),
		settled: make(map[da.Index]struct{}),
	}
}

func (st *searchState) isSettled(n da.Index) bool {
	_, ok := st.settled[n]
	return ok
}

// reconstruct walks the predecessor table backward from g to s.
func (st *searchState) reconstruct(s, g da.Index) []da.Index {
	reversed := []da.Index{g}
	for reversed[len(reversed)-1] != s {
		reversed = append(reversed, st.origin[reversed[len(reversed)-1]])
	}
	return util.ReverseG(reversed)
}

func validateEndpoints(model *da.Graph, s, g da.Index) error {
	if !model.HasNode(s) {
		return fmt.Errorf("source %d: %w", s, da.ErrNodeNotFound)
	}
	if !model.HasNode(g) {
		return fmt.Errorf("goal %d: %w", g, da.ErrNodeNotFound)
	}
	return nil
}

func searchInterrupted(ctx context.Context, s, g da.Index) error {
	if util.StopConcurrentOperation(ctx) {
		return fmt.Errorf("shortest path %d -> %d: %w", s, g, ctx.Err())
	}
	return nil
}
