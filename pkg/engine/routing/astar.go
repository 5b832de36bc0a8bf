package routing

import (
	"context"
	"fmt"

	da "github.com/roadnet-go/roadnet/pkg/datastructure"
)

// AStar shares Dijkstra's relaxation but extracts by f(n) = g(n) + h(n, G),
// with h the straight-line 2D distance to the goal. Edge lengths are never
// shorter than the straight line between their endpoints, so h is
// admissible and consistent and settled distances are exact. The distance
// and predecessor tables persist per source; the priority queue is rebuilt
// per goal because h depends on the goal.
type AStar struct {
	model   *da.Graph
	sources map[da.Index]*searchState
	cache   map[[2]da.Index]*Path
}

func NewAStar(model *da.Graph) *AStar {
	return &AStar{
		model:   model,
		sources: make(map[da.Index]*searchState),
		cache:   make(map[[2]da.Index]*Path),
	}
}

func (a *AStar) state(s da.Index) *searchState {
	st, ok := a.sources[s]
	if !ok {
		st = newSearchState(s)
		a.sources[s] = st
	}
	return st
}

func (a *AStar) ShortestPath(ctx context.Context, s, g da.Index) (*Path, error) {
	if err := validateEndpoints(a.model, s, g); err != nil {
		return nil, err
	}
	if cached, ok := a.cache[[2]da.Index{s, g}]; ok {
		return cached, nil
	}
	if s == g {
		return a.finish(s, g, []da.Index{s})
	}

	st := a.state(s)

	// seed the per-goal queue from the unsettled frontier of the memoized
	// distance table
	pq := da.NewFourAryHeap[da.Index]()
	heapNodes := make(map[da.Index]*da.PriorityQueueNode[da.Index])
	for n, dn := range st.dist {
		if st.isSettled(n) {
			continue
		}
		hn := da.NewPriorityQueueNode(dn+a.model.NodeDistance(n, g), n)
		heapNodes[n] = hn
		pq.Insert(hn)
	}

	for !st.isSettled(g) {
		if err := searchInterrupted(ctx, s, g); err != nil {
			return nil, err
		}
		if pq.IsEmpty() {
			return nil, fmt.Errorf("shortest path %d -> %d: %w", s, g, ErrNoPath)
		}

		min, err := pq.ExtractMin()
		if err != nil {
			return nil, err
		}
		x := min.GetItem()
		delete(heapNodes, x)
		st.settled[x] = struct{}{}

		// relax even when x is the goal so the memoized distance table
		// stays usable for later goals reached through this one
		dx := st.dist[x]
		for _, n := range a.model.Neighbors(x) {
			if st.isSettled(n) {
				continue
			}
			w, err := a.model.Length(x, n)
			if err != nil {
				return nil, err
			}
			alt := dx + w
			cur, seen := st.dist[n]
			if seen && alt >= cur {
				continue
			}
			st.dist[n] = alt
			st.origin[n] = x
			f := alt + a.model.NodeDistance(n, g)
			if hn, ok := heapNodes[n]; ok {
				if err := pq.DecreaseKey(hn, f); err != nil {
					return nil, err
				}
			} else {
				hn := da.NewPriorityQueueNode(f, n)
				heapNodes[n] = hn
				pq.Insert(hn)
			}
		}
		if x == g {
			break
		}
	}

	return a.finish(s, g, st.reconstruct(s, g))
}

func (a *AStar) finish(s, g da.Index, nseq []da.Index) (*Path, error) {
	path, err := NewPath(a.model, nseq)
	if err != nil {
		return nil, err
	}
	a.cache[[2]da.Index{s, g}] = path
	return path, nil
}
