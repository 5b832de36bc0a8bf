package routing

import (
	"fmt"
	"math"
	"sort"

	"github.com/roadnet-go/roadnet/pkg"
	da "github.com/roadnet-go/roadnet/pkg/datastructure"
	"github.com/roadnet-go/roadnet/pkg/geo"
	"github.com/roadnet-go/roadnet/pkg/util"
)

// ResampleMethod selects how Resample spaces points along the path.
type ResampleMethod int

const (
	// ResampleFromVertices inserts points exactly interval-apart along
	// each link, measured from each vertex independently. Original
	// vertices are retained, so final segments may be uneven.
	ResampleFromVertices ResampleMethod = iota + 1
	// ResampleEven subdivides each link evenly so no gap exceeds the
	// interval. Original vertices are retained.
	ResampleEven
	// ResampleContinuous spaces points at the fixed interval measured
	// continuously along the whole path, ignoring vertex boundaries.
	// Both endpoints are always included.
	ResampleContinuous
)

// Path is a resolved node sequence bound to the model (and model
// generation) it was built against. Derived quantities such as edge
// lengths, vertex and point sequences, resampled geometry and arrival
// times are computed lazily through model lookups, which fail with
// ErrStaleModel if the model has been reduced since.
type Path struct {
	model      *da.Graph
	generation uint64
	nseq       []da.Index
}

// NewPath binds a node sequence to the model, verifying that every
// consecutive node pair resolves to an edge (undirected lookup).
func NewPath(model *da.Graph, nseq []da.Index) (*Path, error) {
	if len(nseq) == 0 {
		return nil, ErrEmptyPath
	}
	for k := 0; k+1 < len(nseq); k++ {
		if _, ok := model.EdgeID(nseq[k], nseq[k+1]); !ok {
			return nil, fmt.Errorf("path step %d: edge (%d, %d): %w",
				k, nseq[k], nseq[k+1], da.ErrEdgeNotFound)
		}
	}
	return &Path{model: model, generation: model.Generation(), nseq: nseq}, nil
}

func (p *Path) check() error {
	if p.generation != p.model.Generation() {
		return fmt.Errorf("path built at generation %d, model at %d: %w",
			p.generation, p.model.Generation(), ErrStaleModel)
	}
	return nil
}

// Nodes returns the node sequence, including start and goal.
func (p *Path) Nodes() []da.Index {
	return append([]da.Index(nil), p.nseq...)
}

func (p *Path) Start() da.Index { return p.nseq[0] }
func (p *Path) Goal() da.Index  { return p.nseq[len(p.nseq)-1] }

// Edges returns the consecutive node pairs along the path.
func (p *Path) Edges() [][2]da.Index {
	out := make([][2]da.Index, 0, len(p.nseq)-1)
	for k := 0; k+1 < len(p.nseq); k++ {
		out = append(out, [2]da.Index{p.nseq[k], p.nseq[k+1]})
	}
	return out
}

// Lengths returns the length of each edge along the path.
func (p *Path) Lengths() ([]float64, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(p.nseq)-1)
	for _, e := range p.Edges() {
		l, err := p.model.Length(e[0], e[1])
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Length returns the total path length.
func (p *Path) Length() (float64, error) {
	lengths, err := p.Lengths()
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, l := range lengths {
		total += l
	}
	return total, nil
}

// VertexSequence concatenates the per-edge vertex sequences, deduplicating
// the shared endpoints.
func (p *Path) VertexSequence() ([]da.Index, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	vseq := []da.Index{p.Start()}
	for _, e := range p.Edges() {
		seq, err := p.model.VertexSequence(e[0], e[1])
		if err != nil {
			return nil, err
		}
		vseq = append(vseq, seq[1:]...)
	}
	return vseq, nil
}

// Points returns the coordinates of each vertex along the path.
func (p *Path) Points() ([]geo.Point, error) {
	vseq, err := p.VertexSequence()
	if err != nil {
		return nil, err
	}
	points := make([]geo.Point, len(vseq))
	for i, v := range vseq {
		points[i], err = p.model.VertexCoord(v)
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

// Resample returns a point sequence along the path spaced by interval
// according to the chosen method. Spacing is measured in the 2D plane;
// elevations are interpolated linearly.
func (p *Path) Resample(interval float64, method ResampleMethod) ([]geo.Point, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("resample interval %v: %w", interval, util.ErrBadParamInput)
	}
	points, err := p.Points()
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return points, nil
	}
	switch method {
	case ResampleFromVertices:
		return resampleFromVertices(points, interval), nil
	case ResampleEven:
		return resampleEven(points, interval), nil
	case ResampleContinuous:
		return resampleContinuous(points, interval), nil
	default:
		return nil, fmt.Errorf("resample method %d: %w", method, util.ErrBadParamInput)
	}
}

func lerp(a, b geo.Point, t float64) geo.Point {
	return geo.NewPoint3(
		a.X+(b.X-a.X)*t,
		a.Y+(b.Y-a.Y)*t,
		a.Z+(b.Z-a.Z)*t,
	)
}

func resampleFromVertices(points []geo.Point, d float64) []geo.Point {
	out := []geo.Point{points[0]}
	for k := 1; k < len(points); k++ {
		prev, cur := points[k-1], points[k]
		s := prev.Distance2D(cur)
		for r := d; geo.Lt(r, s); r += d {
			out = append(out, lerp(prev, cur, r/s))
		}
		out = append(out, cur)
	}
	return out
}

func resampleEven(points []geo.Point, d float64) []geo.Point {
	out := []geo.Point{points[0]}
	for k := 1; k < len(points); k++ {
		prev, cur := points[k-1], points[k]
		s := prev.Distance2D(cur)
		if geo.Gt(s, d) {
			n := math.Floor(s / d)
			r := s / (n + 1)
			for i := 1.0; i <= n; i++ {
				out = append(out, lerp(prev, cur, i*r/s))
			}
		}
		out = append(out, cur)
	}
	return out
}

func resampleContinuous(points []geo.Point, d float64) []geo.Point {
	cdists := make([]float64, len(points))
	for k := 1; k < len(points); k++ {
		cdists[k] = cdists[k-1] + points[k-1].Distance2D(points[k])
	}
	total := cdists[len(cdists)-1]

	out := []geo.Point{points[0]}
	for k := 1; ; k++ {
		t := d * float64(k)
		if !geo.Lt(t, total) {
			break
		}
		i := sort.SearchFloat64s(cdists, t)
		if i == 0 {
			i = 1
		}
		r := t - cdists[i-1]
		seg := cdists[i] - cdists[i-1]
		out = append(out, lerp(points[i-1], points[i], r/seg))
	}
	return append(out, points[len(points)-1])
}

// ArrivalTimes returns the cumulative arrival time in seconds at each node
// after the start, travelling at a constant speed.
func (p *Path) ArrivalTimes(speed float64, unit string) ([]float64, error) {
	lengths, err := p.Lengths()
	if err != nil {
		return nil, err
	}
	speeds := make([]float64, len(lengths))
	for i := range speeds {
		speeds[i] = speed
	}
	return arrivalTimes(lengths, speeds, unit)
}

// ArrivalTimesPerEdge is ArrivalTimes with one average speed per edge.
func (p *Path) ArrivalTimesPerEdge(speeds []float64, unit string) ([]float64, error) {
	lengths, err := p.Lengths()
	if err != nil {
		return nil, err
	}
	if len(speeds) != len(lengths) {
		return nil, fmt.Errorf("%d speeds for %d edges: %w", len(speeds), len(lengths), ErrSpeedMismatch)
	}
	return arrivalTimes(lengths, speeds, unit)
}

func arrivalTimes(lengths, speeds []float64, unit string) ([]float64, error) {
	times := make([]float64, len(lengths))
	elapsed := 0.0
	for i, l := range lengths {
		v := speeds[i]
		switch unit {
		case pkg.UNIT_KPH:
			v = util.KphToMps(v)
		case pkg.UNIT_MPS:
		default:
			return nil, fmt.Errorf("unit %q: %w", unit, ErrUnknownSpeedUnit)
		}
		elapsed += l / v
		times[i] = elapsed
	}
	return times, nil
}
