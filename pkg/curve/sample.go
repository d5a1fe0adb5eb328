package curve

import (
	"github.com/chazu/roadspline/pkg/spline"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Sample is one evaluated point of the curve.
type Sample struct {
	Position v3.Vec `json:"position"`
	Tangent  v3.Vec `json:"tangent"`
}

// Segment holds the Hermite inputs for the span between two consecutive
// control points.
type Segment struct {
	P0, P1 v3.Vec
	M0, M1 v3.Vec
	Last   bool // geometrically final segment of the curve
}

// Segments returns the Hermite inputs for every segment of p, in order.
// p must be valid.
func Segments(p *Polygon) []Segment {
	pts := p.Points
	n := len(pts)
	count := p.SegmentCount()
	segs := make([]Segment, count)

	for i := 0; i < count; i++ {
		p0 := pts[i]
		p1 := pts[(i+1)%n]

		// Tangent at p0: central difference, wrapping on closed curves and
		// one-sided at the start of an open one.
		var m0 v3.Vec
		switch {
		case i > 0:
			m0 = p1.Sub(pts[i-1]).MulScalar(0.5)
		case p.Closed:
			m0 = p1.Sub(pts[n-1]).MulScalar(0.5)
		default:
			m0 = p1.Sub(p0)
		}

		// Tangent at p1: one-sided at the end of an open curve.
		var m1 v3.Vec
		if !p.Closed && i == n-2 {
			m1 = p1.Sub(p0)
		} else {
			m1 = pts[(i+2)%n].Sub(p0).MulScalar(0.5)
		}

		segs[i] = Segment{P0: p0, P1: p1, M0: m0, M1: m1, Last: i == count-1}
	}
	return segs
}

// Evaluate samples the curve through the control polygon. It returns
// Resolution samples per segment in segment-major order. The last segment
// is stepped so that its final sample lands exactly on its end point: the
// first control point for a closed curve, the last one for an open curve.
func Evaluate(p *Polygon) ([]Sample, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res := p.Resolution
	out := make([]Sample, 0, p.SampleCount())
	for _, seg := range Segments(p) {
		step := 1.0 / float64(res)
		if seg.Last {
			step = 1.0 / float64(res-1)
		}
		for j := 0; j < res; j++ {
			t := float64(j) * step
			if seg.Last && j == res-1 {
				t = 1
			}
			pos, tan := spline.Interpolate(seg.P0, seg.P1, seg.M0, seg.M1, t)
			out = append(out, Sample{Position: pos, Tangent: tan})
		}
	}
	return out, nil
}
