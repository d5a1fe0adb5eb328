package strip

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Quad is one extrudable strip segment: the upper face read from the
// ribbon and the same points lowered by the strip thickness.
type Quad struct {
	Upper []v3.Vec
	Lower []v3.Vec
}

// Points returns the upper points followed by the lower points, the
// 8- or 12-point prism handed to a triangulator.
func (q Quad) Points() []v3.Vec {
	pts := make([]v3.Vec, 0, len(q.Upper)+len(q.Lower))
	pts = append(pts, q.Upper...)
	return append(pts, q.Lower...)
}

// Indices runs the state machine over a plan without touching geometry
// and returns the ribbon indices read by every quad.
func Indices(length, segments int, w Width) ([][]int, error) {
	p, err := NewPlan(length, segments, w)
	if err != nil {
		return nil, err
	}
	out := make([][]int, 0, segments)
	s, c := Start(p)
	for s != Done {
		var idx []int
		idx, s, c, err = Step(s, c, p)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}

// Chunk regroups ribbon into segments quads of width w and extrudes each
// one downward by thickness. Quads are freshly allocated; none shares a
// backing array with the ribbon or another quad.
func Chunk(ribbon []v3.Vec, segments int, w Width, thickness float64) ([]Quad, error) {
	all, err := Indices(len(ribbon), segments, w)
	if err != nil {
		return nil, err
	}
	down := v3.Vec{Y: thickness}
	quads := make([]Quad, len(all))
	for i, idx := range all {
		q := Quad{
			Upper: make([]v3.Vec, len(idx)),
			Lower: make([]v3.Vec, len(idx)),
		}
		for j, k := range idx {
			q.Upper[j] = ribbon[k]
			q.Lower[j] = ribbon[k].Sub(down)
		}
		quads[i] = q
	}
	return quads, nil
}
