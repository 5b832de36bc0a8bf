package routing

import "errors"

var (
	// ErrNoPath means the search exhausted every node reachable from the
	// source without settling the goal. It is a normal outcome on
	// disconnected graphs, distinct from cancellation and timeouts, which
	// surface as wrapped context errors.
	ErrNoPath = errors.New("no path exists between the given nodes")

	// ErrStaleModel means a Path references a model generation that has
	// since been reduced, so its node IDs can no longer be trusted.
	ErrStaleModel = errors.New("path was built against a model that has since been reduced")

	ErrUnknownSpeedUnit = errors.New(`speed unit must be "kph" or "mps"`)

	ErrSpeedMismatch = errors.New("per-edge speed count does not match path edge count")

	ErrEmptyPath = errors.New("path must contain at least one node")
)
