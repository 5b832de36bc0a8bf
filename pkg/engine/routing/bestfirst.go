package routing

import (
	"context"
	"fmt"

	da "github.com/roadnet-go/roadnet/pkg/datastructure"
)

// BestFirst is a greedy fallback with no optimality guarantee: from the
// current node it always takes the unused edge whose far endpoint is
// closest (straight-line) to the goal, backtracking from dead ends, then
// excises any repeated-node cycles from the result. It exists for fast
// approximate answers on large graphs; use Dijkstra or AStar when the
// shortest path matters. The search is iterative, never recursive, so long
// paths cannot exhaust the stack.
type BestFirst struct {
	model *da.Graph
}

func NewBestFirst(model *da.Graph) *BestFirst {
	return &BestFirst{model: model}
}

func (bf *BestFirst) ShortestPath(ctx context.Context, s, g da.Index) (*Path, error) {
	if err := validateEndpoints(bf.model, s, g); err != nil {
		return nil, err
	}
	if s == g {
		return NewPath(bf.model, []da.Index{s})
	}

	path := []da.Index{s}
	used := make(map[[2]da.Index]struct{})

	x := s
	for x != g {
		if err := searchInterrupted(ctx, s, g); err != nil {
			return nil, err
		}

		cands := bf.unusedActions(x, used)
		for len(cands) == 0 {
			// dead end: drop it and retry from the previous node
			path = path[:len(path)-1]
			if len(path) == 0 {
				return nil, fmt.Errorf("shortest path %d -> %d: %w", s, g, ErrNoPath)
			}
			x = path[len(path)-1]
			cands = bf.unusedActions(x, used)
		}

		best := cands[0]
		bestDist := bf.model.NodeDistance(best[1], g)
		for _, c := range cands[1:] {
			d := bf.model.NodeDistance(c[1], g)
			if d < bestDist {
				best, bestDist = c, d
			}
		}

		used[best] = struct{}{}
		x = best[1]
		path = append(path, x)
	}

	return NewPath(bf.model, pruneCycles(path))
}

// unusedActions returns the outgoing (x, n) pairs not yet traversed.
// Actions are ID-ordered, so equal goal distances resolve to the smaller
// neighbor.
func (bf *BestFirst) unusedActions(x da.Index, used map[[2]da.Index]struct{}) [][2]da.Index {
	actions := bf.model.Actions(x)
	cands := actions[:0]
	for _, a := range actions {
		if _, ok := used[a]; !ok {
			cands = append(cands, a)
		}
	}
	return cands
}

// pruneCycles repeatedly locates the most-repeated node and excises the
// span between its first and last occurrence, until no node repeats.
func pruneCycles(path []da.Index) []da.Index {
	for {
		counts := make(map[da.Index]int, len(path))
		var most da.Index
		mostCount := 0
		for _, n := range path {
			counts[n]++
			if counts[n] > mostCount {
				most, mostCount = n, counts[n]
			}
		}
		if mostCount < 2 {
			return path
		}

		first, last := -1, -1
		for i, n := range path {
			if n == most {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		path = append(path[:first+1], path[last+1:]...)
	}
}
