// Package curve turns a control polygon into a densely sampled Catmull-Rom
// curve and the offset ribbons that the strip chunker consumes.
package curve

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MinPoints is the smallest control polygon accepted for either topology.
const MinPoints = 3

// MinResolution is the smallest number of samples per segment. The final
// segment steps by 1/(resolution-1), which needs at least two samples.
const MinResolution = 2

// Polygon is an ordered set of control points. Index is identity: the
// curve passes through Points[i] at the start of segment i.
type Polygon struct {
	Points     []v3.Vec `json:"points"`
	Closed     bool     `json:"closed"`
	Resolution int      `json:"resolution"` // samples per segment
}

// SegmentCount returns the number of spline segments between control
// points: one per point when closed, one fewer when open.
func (p *Polygon) SegmentCount() int {
	n := len(p.Points)
	if p.Closed {
		return n
	}
	if n == 0 {
		return 0
	}
	return n - 1
}

// SampleCount returns the number of samples Evaluate produces.
func (p *Polygon) SampleCount() int {
	return p.Resolution * p.SegmentCount()
}

// Validate checks the polygon against the topology and resolution rules.
func (p *Polygon) Validate() error {
	if p == nil {
		return configErr("points", "polygon is nil")
	}
	topology := "open"
	if p.Closed {
		topology = "closed"
	}
	if len(p.Points) < MinPoints {
		return configErr("points", "%s polygon needs at least %d points, got %d",
			topology, MinPoints, len(p.Points))
	}
	if p.Resolution < MinResolution {
		return configErr("resolution", "must be at least %d, got %d", MinResolution, p.Resolution)
	}
	for i, pt := range p.Points {
		if !finite(pt) {
			return configErr("points", "point %d has a non-finite coordinate", i)
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the control points.
func (p *Polygon) Bounds() sdf.Box3 {
	if len(p.Points) == 0 {
		return sdf.Box3{}
	}
	box := sdf.Box3{Min: p.Points[0], Max: p.Points[0]}
	for _, pt := range p.Points[1:] {
		box = box.Include(pt)
	}
	return box
}

// RegularPolygon returns n points evenly spaced on a circle of the given
// radius in the XZ plane, centered on center and wound counter-clockwise
// when viewed from above.
func RegularPolygon(center v3.Vec, radius float64, n int) []v3.Vec {
	if n <= 0 {
		return nil
	}
	pts := make([]v3.Vec, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = center.Add(v3.Vec{X: radius * math.Cos(a), Z: -radius * math.Sin(a)})
	}
	return pts
}

func finite(v v3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
