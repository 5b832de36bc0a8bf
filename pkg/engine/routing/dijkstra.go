package routing

import (
	"context"
	"fmt"

	da "github.com/roadnet-go/roadnet/pkg/datastructure"
)

// Dijkstra runs textbook Dijkstra over the edge-length metric. State for a
// source persists across goal queries: the priority queue and distance
// tables are kept, so a later goal resumes the relaxation where the
// previous query stopped. Minimum extraction breaks rank ties by ascending
// node ID, making results reproducible.
type Dijkstra struct {
	model   *da.Graph
	sources map[da.Index]*dijkstraState
	cache   map[[2]da.Index]*Path
}

type dijkstraState struct {
	*searchState
	pq        *da.MinHeap[da.Index]
	heapNodes map[da.Index]*da.PriorityQueueNode[da.Index]
}

func NewDijkstra(model *da.Graph) *Dijkstra {
	return &Dijkstra{
		model:   model,
		sources: make(map[da.Index]*dijkstraState),
		cache:   make(map[[2]da.Index]*Path),
	}
}

func (d *Dijkstra) state(s da.Index) *dijkstraState {
	st, ok := d.sources[s]
	if !ok {
		st = &dijkstraState{
			searchState: newSearchState(s),
			pq:          da.NewFourAryHeap[da.Index](),
			heapNodes:   make(map[da.Index]*da.PriorityQueueNode[da.Index]),
		}
		hn := da.NewPriorityQueueNode(0, s)
		st.pq.Insert(hn)
		st.heapNodes[s] = hn
		d.sources[s] = st
	}
	return st
}

func (d *Dijkstra) ShortestPath(ctx context.Context, s, g da.Index) (*Path, error) {
	if err := validateEndpoints(d.model, s, g); err != nil {
		return nil, err
	}
	if cached, ok := d.cache[[2]da.Index{s, g}]; ok {
		return cached, nil
	}
	if s == g {
		return d.finish(s, g, []da.Index{s})
	}

	st := d.state(s)
	for !st.isSettled(g) {
		if err := searchInterrupted(ctx, s, g); err != nil {
			return nil, err
		}
		if st.pq.IsEmpty() {
			return nil, fmt.Errorf("shortest path %d -> %d: %w", s, g, ErrNoPath)
		}

		min, err := st.pq.ExtractMin()
		if err != nil {
			return nil, err
		}
		x := min.GetItem()
		delete(st.heapNodes, x)
		st.settled[x] = struct{}{}

		// relax even when x is the goal: the tables persist per source,
		// so a later goal may route through this one
		if err := d.relax(st, x); err != nil {
			return nil, err
		}
		if x == g {
			break
		}
	}

	return d.finish(s, g, st.reconstruct(s, g))
}

func (d *Dijkstra) relax(st *dijkstraState, x da.Index) error {
	dx := st.dist[x]
	for _, n := range d.model.Neighbors(x) {
		if st.isSettled(n) {
			continue
		}
		w, err := d.model.Length(x, n)
		if err != nil {
			return err
		}
		alt := dx + w
		cur, seen := st.dist[n]
		if seen && alt >= cur {
			continue
		}
		st.dist[n] = alt
		st.origin[n] = x
		if hn, ok := st.heapNodes[n]; ok {
			if err := st.pq.DecreaseKey(hn, alt); err != nil {
				return err
			}
		} else {
			hn := da.NewPriorityQueueNode(alt, n)
			st.heapNodes[n] = hn
			st.pq.Insert(hn)
		}
	}
	return nil
}

func (d *Dijkstra) finish(s, g da.Index, nseq []da.Index) (*Path, error) {
	path, err := NewPath(d.model, nseq)
	if err != nil {
		return nil, err
	}
	d.cache[[2]da.Index{s, g}] = path
	return path, nil
}
