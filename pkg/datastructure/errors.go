package datastructure

import "errors"

var (
	// ErrEdgeNotFound is returned when an edge lookup between two node IDs
	// does not resolve.
	ErrEdgeNotFound = errors.New("no edge between the given nodes")

	// ErrNodeNotFound is returned when a node ID is not in the node table.
	ErrNodeNotFound = errors.New("node does not exist")

	// ErrVertexNotFound is returned when a vertex ID is out of range.
	ErrVertexNotFound = errors.New("vertex does not exist")
)
