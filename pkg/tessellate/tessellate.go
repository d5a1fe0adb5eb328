// Package tessellate runs the road pipeline: it samples a control polygon,
// builds the road and edge ribbons, chunks each ribbon into quads and
// turns the quads into one triangle mesh per ribbon using a kernel.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/roadspline/pkg/curve"
	"github.com/chazu/roadspline/pkg/kernel"
	"github.com/chazu/roadspline/pkg/strip"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Mesh part names.
const (
	PartRoad  = "road"
	PartInner = "inner"
	PartOuter = "outer"
)

// Params are the cross-section and extrusion settings of a road.
type Params struct {
	Extrude   float64                `json:"extrude"`    // road width
	EdgeWidth float64                `json:"edgeWidth"`  // width of each edge strip
	Thickness float64                `json:"thickness"`  // extrusion depth, downward
	Policy    curve.DegeneratePolicy `json:"degenerate"` // vertical tangent handling
}

// DefaultParams returns the settings used when a road description leaves
// them out.
func DefaultParams() Params {
	return Params{
		Extrude:   2,
		EdgeWidth: 0.5,
		Thickness: 0.2,
	}
}

// DefaultResolution is the number of samples per segment used when a road
// description leaves it out.
const DefaultResolution = 10

// Validate checks the widths and the thickness.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"extrude", p.Extrude}, {"edge-width", p.EdgeWidth}, {"thickness", p.Thickness}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &curve.ConfigurationError{Field: f.name, Reason: "must be finite"}
		}
	}
	if p.Thickness <= 0 {
		return &curve.ConfigurationError{
			Field:  "thickness",
			Reason: fmt.Sprintf("must be positive, got %g", p.Thickness),
		}
	}
	return p.ribbon().Validate()
}

func (p Params) ribbon() curve.RibbonParams {
	return curve.RibbonParams{Extrude: p.Extrude, EdgeWidth: p.EdgeWidth, Policy: p.Policy}
}

// Result holds the output of one generation pass.
type Result struct {
	Road    *kernel.Mesh
	Inner   *kernel.Mesh
	Outer   *kernel.Mesh
	Samples []curve.Sample
	Ribbons *curve.Ribbons
	Closed  bool
	Params  Params
}

// Meshes returns the road, inner and outer meshes in that order.
func (r *Result) Meshes() []*kernel.Mesh {
	return []*kernel.Mesh{r.Road, r.Inner, r.Outer}
}

// Segments returns the number of strip segments in each mesh.
func (r *Result) Segments() int {
	return SegmentCount(len(r.Samples), r.Closed)
}

// View returns a read-only debug view over the samples.
func (r *Result) View(origin v3.Vec) curve.View {
	return curve.NewView(r.Samples, r.Params.ribbon(), origin)
}

// SegmentCount returns the number of strip segments for a ribbon built
// from samples cross-sections: one per sample on a closed loop, since the
// last segment wraps to the first sample, and one fewer on an open curve.
func SegmentCount(samples int, closed bool) int {
	if closed {
		return samples
	}
	return samples - 1
}

// ribbonJob is one ribbon waiting to be meshed.
type ribbonJob struct {
	name   string
	points []v3.Vec
	width  strip.Width
}

// Generate builds the road, inner edge and outer edge meshes for polygon.
// The polygon is only read. Inputs are checked before any sampling starts.
func Generate(polygon *curve.Polygon, params Params, k kernel.Kernel) (*Result, error) {
	log := Logger()
	if k == nil {
		return nil, fmt.Errorf("tessellate: nil kernel")
	}
	if err := polygon.Validate(); err != nil {
		log.Warn("tessellate: rejected polygon", "err", err)
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	if err := params.Validate(); err != nil {
		log.Warn("tessellate: rejected params", "err", err)
		return nil, fmt.Errorf("tessellate: %w", err)
	}

	samples, err := curve.Evaluate(polygon)
	if err != nil {
		return nil, fmt.Errorf("tessellate: sample: %w", err)
	}
	ribbons, err := curve.BuildRibbons(samples, params.ribbon())
	if err != nil {
		return nil, fmt.Errorf("tessellate: ribbons: %w", err)
	}

	segments := SegmentCount(len(samples), polygon.Closed)
	jobs := []ribbonJob{
		{PartRoad, ribbons.Road, strip.Road},
		{PartInner, ribbons.Inner, strip.Edge},
		{PartOuter, ribbons.Outer, strip.Edge},
	}

	meshes := make(map[string]*kernel.Mesh, len(jobs))
	for _, job := range jobs {
		m, err := buildMesh(job, segments, params.Thickness, k)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %s ribbon: %w", job.name, err)
		}
		log.Debug("tessellate: ribbon meshed",
			"part", job.name,
			"points", len(job.points),
			"segments", m.Segments,
			"triangles", m.TriangleCount())
		meshes[job.name] = m
	}

	log.Info("tessellate: generated road",
		"controlPoints", len(polygon.Points),
		"closed", polygon.Closed,
		"samples", len(samples),
		"segments", segments)

	return &Result{
		Road:    meshes[PartRoad],
		Inner:   meshes[PartInner],
		Outer:   meshes[PartOuter],
		Samples: samples,
		Ribbons: ribbons,
		Closed:  polygon.Closed,
		Params:  params,
	}, nil
}

// buildMesh chunks one ribbon, triangulates and converts every quad, and
// combines the fragments. Every fragment the kernel handed out is released
// before returning, on success or failure.
func buildMesh(job ribbonJob, segments int, thickness float64, k kernel.Kernel) (*kernel.Mesh, error) {
	quads, err := strip.Chunk(job.points, segments, job.width, thickness)
	if err != nil {
		return nil, err
	}

	var handed []*kernel.Fragment
	defer func() {
		if rel, ok := k.(kernel.Releaser); ok {
			for _, f := range handed {
				rel.Release(f)
			}
		}
	}()

	prisms := lo.Map(quads, func(q strip.Quad, _ int) []v3.Vec { return q.Points() })
	fragments := make([]*kernel.Fragment, 0, len(prisms))
	for i, pts := range prisms {
		raw, err := k.Triangulate(pts)
		if err != nil {
			return nil, fmt.Errorf("segment %d: triangulate: %w", i, err)
		}
		handed = append(handed, raw)
		flat := k.Convert(raw)
		if flat != raw {
			handed = append(handed, flat)
		}
		fragments = append(fragments, flat)
	}

	m, err := k.Combine(fragments)
	if err != nil {
		return nil, fmt.Errorf("combine: %w", err)
	}
	m.PartName = job.name
	return m, nil
}
