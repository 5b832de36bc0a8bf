package builder

import (
	"sort"

	"github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/geo"
)

// dedup flattens all polyline points into one stream, assigns the unique
// coordinate set dense IDs by lexicographic sort-and-unique, and remaps each
// polyline to a vertex-ID sequence. Deduplication is exact-match on raw
// coordinates: sort order, not hashing, fixes the ID assignment, which
// downstream tie-breaks rely on. Polylines with fewer than two points are
// skipped.
func (b *Builder) dedup() ([]geo.Point, [][]datastructure.Index, []int) {
	b.skipped = 0
	kept := make([]datastructure.Polyline, 0, len(b.polylines))
	total := 0
	for _, pl := range b.polylines {
		if len(pl.Points) < 2 {
			b.skipped++
			continue
		}
		kept = append(kept, pl)
		total += len(pl.Points)
	}

	flat := make([]geo.Point, 0, total)
	for _, pl := range kept {
		flat = append(flat, pl.Points...)
	}

	vertices := sortUnique(flat)

	index := make(map[[2]float64]datastructure.Index, len(vertices))
	for id, v := range vertices {
		index[[2]float64{v.X, v.Y}] = datastructure.Index(id)
	}

	vseqs := make([][]datastructure.Index, len(kept))
	tagIDs := make([]int, len(kept))
	for k, pl := range kept {
		seq := make([]datastructure.Index, len(pl.Points))
		for i, p := range pl.Points {
			seq[i] = index[[2]float64{p.X, p.Y}]
		}
		vseqs[k] = seq
		tagIDs[k] = b.tags.GetID(pl.Tag)
	}

	return vertices, vseqs, tagIDs
}

func sortUnique(points []geo.Point) []geo.Point {
	sorted := make([]geo.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Less(sorted[b]) })

	unique := sorted[:0]
	for i, p := range sorted {
		if i == 0 || !p.Equal2D(sorted[i-1]) {
			unique = append(unique, p)
		}
	}
	return unique
}

// buildLinks emits one link per consecutive vertex pair of each polyline,
// deduplicated by canonical (min, max) key. Consecutive duplicate points
// collapse to the same vertex and contribute no link.
func (b *Builder) buildLinks(vertices []geo.Point, vseqs [][]datastructure.Index, tagIDs []int) []datastructure.Link {
	seen := make(map[datastructure.EdgePair]struct{})
	links := make([]datastructure.Link, 0)
	for k, seq := range vseqs {
		for i := 0; i+1 < len(seq); i++ {
			vi, vj := seq[i], seq[i+1]
			if vi == vj {
				continue
			}
			pair := datastructure.NewEdgePair(vi, vj)
			if _, ok := seen[pair]; ok {
				continue
			}
			seen[pair] = struct{}{}
			length := b.linkLength(vertices[vi], vertices[vj])
			links = append(links, datastructure.NewLink(vi, vj, tagIDs[k], length))
		}
	}
	return links
}

func (b *Builder) linkLength(p, q geo.Point) float64 {
	if b.elev != nil {
		return p.Distance3D(q)
	}
	return p.Distance2D(q)
}
