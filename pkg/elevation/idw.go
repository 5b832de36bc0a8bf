// Package elevation supplies interpolated elevations for 2D query points.
// The core treats it as an opaque boundary: any Source implementation works.
package elevation

import (
	"errors"
	"fmt"
	"math"

	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/tidwall/rtree"
)

// ErrOutOfBounds is returned when a query point has no samples within the
// interpolation radius.
var ErrOutOfBounds = errors.New("coordinate is outside of the sampled extents")

type Source interface {
	Elevation(x, y float64) (float64, error)
}

type Sample struct {
	X, Y, Z float64
}

func NewSample(x, y, z float64) Sample {
	return Sample{X: x, Y: y, Z: z}
}

// IDW interpolates elevation by inverse-distance weighting over the samples
// within a fixed radius of the query point. A query that lands exactly on a
// sample returns that sample's elevation.
type IDW struct {
	tr     *rtree.RTreeG[Sample]
	radius float64
	power  float64
}

func NewIDW(samples []Sample, radius, power float64) *IDW {
	var tr rtree.RTreeG[Sample]
	for _, s := range samples {
		tr.Insert([2]float64{s.X, s.Y}, [2]float64{s.X, s.Y}, s)
	}
	return &IDW{tr: &tr, radius: radius, power: power}
}

func (idw *IDW) Elevation(x, y float64) (float64, error) {
	q := geo.NewPoint(x, y)

	var exact *Sample
	num, den := 0.0, 0.0
	count := 0
	idw.tr.Search(
		[2]float64{x - idw.radius, y - idw.radius},
		[2]float64{x + idw.radius, y + idw.radius},
		func(min, max [2]float64, s Sample) bool {
			d := geo.NewPoint(s.X, s.Y).Distance2D(q)
			if d > idw.radius {
				return true
			}
			if d == 0 {
				exact = &s
				return false
			}
			w := 1.0 / math.Pow(d, idw.power)
			num += w * s.Z
			den += w
			count++
			return true
		})

	if exact != nil {
		return exact.Z, nil
	}
	if count == 0 {
		return 0, fmt.Errorf("elevation(%v, %v): %w", x, y, ErrOutOfBounds)
	}
	return num / den, nil
}
