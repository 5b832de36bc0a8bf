package datastructure

import (
	"github.com/roadnet-go/roadnet/pkg/geo"
)

type Index uint32

// Link is one raw tagged segment between two vertices, as emitted by the
// deduplicator. I <= J always (undirected canonical order).
type Link struct {
	I, J   Index
	Tag    int
	Length float64
}

func NewLink(i, j Index, tag int, length float64) Link {
	if j < i {
		i, j = j, i
	}
	return Link{I: i, J: j, Tag: tag, Length: length}
}

// Edge is a maximal chain of links between two nodes, collapsed to a single
// topological connection. Vseq runs from I to J; for a ring edge I == J and
// Vseq starts and ends at the same vertex.
type Edge struct {
	ID     Index
	I, J   Index
	Vseq   []Index
	Length float64
	Tag    int
}

// EdgePair is a canonical undirected endpoint pair used as a lookup key.
type EdgePair [2]Index

func NewEdgePair(i, j Index) EdgePair {
	if j < i {
		i, j = j, i
	}
	return EdgePair{i, j}
}

// Polyline is a raw tagged input geometry: an ordered point sequence whose
// consecutive pairs become links.
type Polyline struct {
	Points []geo.Point
	Tag    string
}

func NewPolyline(tag string, points ...geo.Point) Polyline {
	return Polyline{Points: points, Tag: tag}
}
