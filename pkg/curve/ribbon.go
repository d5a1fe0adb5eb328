package curve

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Up is the world vertical axis. Rails are perpendicular to it.
var Up = v3.Vec{X: 0, Y: 1, Z: 0}

// degenerateEpsilon bounds |tangent x Up| / |tangent|, the sine of the
// tangent's angle to vertical, below which a sample has no usable lateral
// direction.
const degenerateEpsilon = 1e-9

// DegeneratePolicy selects what happens when a sample's tangent is
// vertical or zero.
type DegeneratePolicy int

const (
	// DegenerateError fails with a *DegenerateGeometryError.
	DegenerateError DegeneratePolicy = iota
	// DegenerateReusePrevious reuses the lateral direction of the previous
	// sample. The first sample still fails if it is degenerate.
	DegenerateReusePrevious
)

func (p DegeneratePolicy) String() string {
	switch p {
	case DegenerateError:
		return "error"
	case DegenerateReusePrevious:
		return "reuse-previous"
	default:
		return "unknown"
	}
}

// RibbonParams controls the cross-section built at each sample.
type RibbonParams struct {
	Extrude   float64 // full road width; each side is offset by Extrude/2
	EdgeWidth float64 // width of each edge strip beyond the road
	Policy    DegeneratePolicy
}

// Validate rejects negative widths.
func (rp RibbonParams) Validate() error {
	if rp.Extrude < 0 {
		return configErr("extrude", "must not be negative, got %g", rp.Extrude)
	}
	if rp.EdgeWidth < 0 {
		return configErr("edge-width", "must not be negative, got %g", rp.EdgeWidth)
	}
	return nil
}

// Ribbons holds the three flat point sequences derived from one sample
// pass.
type Ribbons struct {
	Road  []v3.Vec // left, center, right per sample
	Inner []v3.Vec // road left edge, inner edge outer rim per sample
	Outer []v3.Vec // road right edge, outer edge outer rim per sample
}

// RoadStride and EdgeStride are the number of ribbon points per sample.
const (
	RoadStride = 3
	EdgeStride = 2
)

// Lateral returns normalize(tangent x Up) and whether it is well defined.
func Lateral(tangent v3.Vec) (v3.Vec, bool) {
	c := tangent.Cross(Up)
	l := c.Length()
	if l == 0 || l < degenerateEpsilon*tangent.Length() {
		return v3.Vec{}, false
	}
	return c.MulScalar(1 / l), true
}

// Directions returns the lateral rail direction for every sample,
// applying the degenerate-tangent policy.
func Directions(samples []Sample, policy DegeneratePolicy) ([]v3.Vec, error) {
	dirs := make([]v3.Vec, len(samples))
	for i, s := range samples {
		d, ok := Lateral(s.Tangent)
		if !ok {
			if policy != DegenerateReusePrevious || i == 0 {
				return nil, &DegenerateGeometryError{
					Sample:  i,
					Tangent: [3]float64{s.Tangent.X, s.Tangent.Y, s.Tangent.Z},
				}
			}
			d = dirs[i-1]
		}
		dirs[i] = d
	}
	return dirs, nil
}

// BuildRibbons derives the road, inner and outer ribbons from samples.
func BuildRibbons(samples []Sample, rp RibbonParams) (*Ribbons, error) {
	if err := rp.Validate(); err != nil {
		return nil, err
	}
	dirs, err := Directions(samples, rp.Policy)
	if err != nil {
		return nil, err
	}

	half := rp.Extrude / 2
	rim := half + rp.EdgeWidth
	r := &Ribbons{
		Road:  make([]v3.Vec, 0, RoadStride*len(samples)),
		Inner: make([]v3.Vec, 0, EdgeStride*len(samples)),
		Outer: make([]v3.Vec, 0, EdgeStride*len(samples)),
	}
	for i, s := range samples {
		d := dirs[i]
		pos := s.Position
		left := pos.Sub(d.MulScalar(half))
		right := pos.Add(d.MulScalar(half))

		r.Road = append(r.Road, left, pos, right)
		r.Inner = append(r.Inner, left, pos.Sub(d.MulScalar(rim)))
		r.Outer = append(r.Outer, right, pos.Add(d.MulScalar(rim)))
	}
	return r, nil
}
