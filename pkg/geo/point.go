package geo

import (
	"math"

	"github.com/golang/geo/r2"
)

const (
	EPS = 1e-9
)

// Point is an immutable 2D point in a Cartesian frame, optionally carrying
// an elevation. The planar part is an r2.Point so the usual vector
// operations are available through embedding.
type Point struct {
	r2.Point
	Z float64
}

func NewPoint(x, y float64) Point {
	return Point{Point: r2.Point{X: x, Y: y}}
}

func NewPoint3(x, y, z float64) Point {
	return Point{Point: r2.Point{X: x, Y: y}, Z: z}
}

// Distance2D returns the planar Euclidean distance between p and q,
// ignoring elevation.
func (p Point) Distance2D(q Point) float64 {
	return p.Point.Sub(q.Point).Norm()
}

// Distance3D returns the Euclidean distance between p and q including the
// elevation component.
func (p Point) Distance3D(q Point) float64 {
	d := p.Point.Sub(q.Point)
	dz := p.Z - q.Z
	return math.Sqrt(d.X*d.X + d.Y*d.Y + dz*dz)
}

// Equal2D reports exact planar coordinate equality. Vertex deduplication
// relies on exact float matching, not a tolerance.
func (p Point) Equal2D(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// Less orders points lexicographically by (x, y). Deduplication assigns
// vertex IDs in this order so downstream tie-breaks are deterministic.
func (p Point) Less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// equal operator
func Eq(a, b float64) bool {
	return math.Abs(a-b) <= EPS
}

// less than operator
func Lt(a, b float64) bool {
	return a+EPS < b
}

// less than or equal operator
func Le(a, b float64) bool {
	return a <= b+EPS
}

func Ge(a, b float64) bool {
	return Le(b, a)
}

func Gt(a, b float64) bool {
	return Lt(b, a)
}
