package curve

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// LineKind tags a debug line with what it depicts.
type LineKind int

const (
	LineCenter LineKind = iota // centerline between consecutive samples
	LineRail                   // road cross-section, left rail to right rail
	LineEdge                   // edge strip span beyond a rail
)

func (k LineKind) String() string {
	switch k {
	case LineCenter:
		return "center"
	case LineRail:
		return "rail"
	case LineEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Line is a debug segment in world space.
type Line struct {
	From, To v3.Vec
	Kind     LineKind
}

// View is a read-only window over a sample sequence for debug drawing.
// It never changes the samples it wraps.
type View struct {
	samples []Sample
	params  RibbonParams
	origin  v3.Vec
}

// NewView wraps samples. All emitted geometry is translated by origin.
func NewView(samples []Sample, rp RibbonParams, origin v3.Vec) View {
	return View{samples: samples, params: rp, origin: origin}
}

// Len returns the number of samples.
func (v View) Len() int { return len(v.samples) }

// At returns sample i.
func (v View) At(i int) Sample { return v.samples[i] }

// Centerline returns the polyline joining consecutive samples.
func (v View) Centerline() []Line {
	if len(v.samples) < 2 {
		return nil
	}
	lines := make([]Line, 0, len(v.samples)-1)
	for i := 0; i < len(v.samples)-1; i++ {
		lines = append(lines, Line{
			From: v.samples[i].Position.Add(v.origin),
			To:   v.samples[i+1].Position.Add(v.origin),
			Kind: LineCenter,
		})
	}
	return lines
}

// CrossSections returns, per sample, the rail line and the two edge
// lines. Samples without a lateral direction are skipped.
func (v View) CrossSections() []Line {
	half := v.params.Extrude / 2
	rim := half + v.params.EdgeWidth
	var lines []Line
	for _, s := range v.samples {
		d, ok := Lateral(s.Tangent)
		if !ok {
			continue
		}
		pos := s.Position.Add(v.origin)
		left := pos.Sub(d.MulScalar(half))
		right := pos.Add(d.MulScalar(half))
		lines = append(lines,
			Line{From: right, To: left, Kind: LineRail},
			Line{From: right, To: pos.Add(d.MulScalar(rim)), Kind: LineEdge},
			Line{From: left, To: pos.Sub(d.MulScalar(rim)), Kind: LineEdge},
		)
	}
	return lines
}

// Markers returns a cube of edge length size around every sample.
func (v View) Markers(size float64) []sdf.Box3 {
	h := v3.Vec{X: size / 2, Y: size / 2, Z: size / 2}
	boxes := make([]sdf.Box3, len(v.samples))
	for i, s := range v.samples {
		c := s.Position.Add(v.origin)
		boxes[i] = sdf.Box3{Min: c.Sub(h), Max: c.Add(h)}
	}
	return boxes
}
