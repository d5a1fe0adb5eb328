package tessellate

import (
	"sync"

	"github.com/chazu/roadspline/pkg/curve"
	"github.com/chazu/roadspline/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Road owns one control polygon and the geometry last generated from it.
// Edits mark the cached result stale; nothing is recomputed until
// Regenerate is called. Road is safe for concurrent use.
type Road struct {
	mu      sync.Mutex
	name    string
	polygon curve.Polygon
	params  Params
	kernel  kernel.Kernel

	result *Result
	stale  bool
	passes uint64
}

// NewRoad copies the polygon's points so later edits by the caller do not
// reach the road.
func NewRoad(name string, polygon curve.Polygon, params Params, k kernel.Kernel) *Road {
	polygon.Points = append([]v3.Vec(nil), polygon.Points...)
	return &Road{
		name:    name,
		polygon: polygon,
		params:  params,
		kernel:  k,
		stale:   true,
	}
}

// Name returns the road's name.
func (r *Road) Name() string { return r.name }

// Polygon returns a copy of the current control polygon.
func (r *Road) Polygon() curve.Polygon {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.polygon
	p.Points = append([]v3.Vec(nil), p.Points...)
	return p
}

// SetPoints replaces the control points.
func (r *Road) SetPoints(pts []v3.Vec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polygon.Points = append([]v3.Vec(nil), pts...)
	r.stale = true
}

// MovePoint moves control point i. It reports false if i is out of range.
func (r *Road) MovePoint(i int, to v3.Vec) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.polygon.Points) {
		return false
	}
	r.polygon.Points[i] = to
	r.stale = true
	return true
}

// SetClosed switches between a closed loop and an open curve.
func (r *Road) SetClosed(closed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.polygon.Closed != closed {
		r.polygon.Closed = closed
		r.stale = true
	}
}

// SetResolution sets the samples per segment.
func (r *Road) SetResolution(res int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.polygon.Resolution != res {
		r.polygon.Resolution = res
		r.stale = true
	}
}

// SetParams replaces the cross-section and extrusion settings.
func (r *Road) SetParams(p Params) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.params != p {
		r.params = p
		r.stale = true
	}
}

// Regenerate rebuilds the geometry from the current polygon and params.
// On failure the previous result is kept and the road stays stale.
func (r *Road) Regenerate() (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := Generate(&r.polygon, r.params, r.kernel)
	if err != nil {
		return nil, err
	}
	for _, m := range res.Meshes() {
		m.PartName = r.name + "/" + m.PartName
	}
	r.result = res
	r.stale = false
	r.passes++
	return res, nil
}

// Result returns the cached result, which is nil before the first
// successful Regenerate, and whether it reflects the current inputs.
func (r *Road) Result() (*Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result, r.result != nil && !r.stale
}

// Passes returns the number of successful Regenerate calls.
func (r *Road) Passes() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes
}
