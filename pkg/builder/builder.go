// Package builder turns raw tagged polylines into a topological road-network
// model: it deduplicates geometry into a unique vertex set and canonical
// link set, classifies vertices into nodes (degree != 2), and collapses
// maximal degree-2 chains into edges via a frontier walk.
package builder

import (
	"context"

	"github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/elevation"
	"github.com/roadnet-go/roadnet/pkg/util"
	"go.uber.org/zap"
)

type Option func(*Builder)

// WithElevation attaches an elevation source; vertices get a z-coordinate
// and link lengths become 3D.
func WithElevation(src elevation.Source) Option {
	return func(b *Builder) { b.elev = src }
}

// WithProgress registers a progress-fraction callback (0..1), invoked
// periodically during topology extraction. Optional; never required for
// correctness.
func WithProgress(fn func(float64)) Option {
	return func(b *Builder) { b.progress = fn }
}

type Builder struct {
	log       *zap.Logger
	polylines []datastructure.Polyline
	tags      *util.IDMap
	elev      elevation.Source
	progress  func(float64)
	skipped   int
}

func NewBuilder(log *zap.Logger, opts ...Option) *Builder {
	b := &Builder{
		log:  log,
		tags: util.NewIDMap(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddBatch appends a batch of raw polylines. Batches may share vertices at
// boundaries; Build re-runs the full deduplication over everything added so
// far.
func (b *Builder) AddBatch(batch []datastructure.Polyline) {
	b.polylines = append(b.polylines, batch...)
}

// SkippedPolylines reports how many degenerate polylines (fewer than two
// points) were discarded by the last Build.
func (b *Builder) SkippedPolylines() int {
	return b.skipped
}

// Build runs dedup, optional elevation attachment, and topology extraction,
// and returns the queryable model.
func (b *Builder) Build(ctx context.Context) (*datastructure.Graph, error) {
	vertices, vseqs, tagIDs := b.dedup()
	b.log.Info("deduplicated input geometry",
		zap.Int("vertices", len(vertices)),
		zap.Int("polylines", len(vseqs)),
		zap.Int("skipped", b.skipped))

	if b.elev != nil {
		misses := 0
		for i := range vertices {
			z, err := b.elev.Elevation(vertices[i].X, vertices[i].Y)
			if err != nil {
				misses++
				continue
			}
			vertices[i].Z = z
		}
		if misses > 0 {
			b.log.Warn("elevation lookups failed, affected vertices stay at z=0",
				zap.Int("misses", misses))
		}
	}

	links := b.buildLinks(vertices, vseqs, tagIDs)
	b.log.Info("built link set", zap.Int("links", len(links)))

	ext, err := b.extractTopology(ctx, vertices, links)
	if err != nil {
		return nil, err
	}
	b.log.Info("extracted topology",
		zap.Int("nodes", len(ext.nodes)),
		zap.Int("edges", len(ext.edges)),
		zap.Int("ring_nodes", len(ext.ringNodes)))

	return datastructure.NewGraph(vertices, ext.nodes, ext.edges, b.tags, ext.ringNodes), nil
}
