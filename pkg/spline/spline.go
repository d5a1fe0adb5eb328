// Package spline evaluates cubic Hermite segments, the building block of
// the Catmull-Rom curves used for road centerlines.
package spline

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Interpolate evaluates the cubic Hermite segment from p0 to p1 with
// endpoint derivatives m0 and m1 at parameter t. It returns the position
// and the analytic derivative of the position with respect to t.
//
// At t=0 the result is (p0, m0) and at t=1 it is (p1, m1). Values of t
// outside [0,1] extrapolate the same cubic.
func Interpolate(p0, p1, m0, m1 v3.Vec, t float64) (position, tangent v3.Vec) {
	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	position = p0.MulScalar(h00).
		Add(m0.MulScalar(h10)).
		Add(p1.MulScalar(h01)).
		Add(m1.MulScalar(h11))

	d00 := 6*t2 - 6*t
	d10 := 3*t2 - 4*t + 1
	d01 := -6*t2 + 6*t
	d11 := 3*t2 - 2*t

	tangent = p0.MulScalar(d00).
		Add(m0.MulScalar(d10)).
		Add(p1.MulScalar(d01)).
		Add(m1.MulScalar(d11))

	return position, tangent
}
