package engine

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/chazu/roadspline/pkg/curve"
	"github.com/chazu/roadspline/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a control point.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPoints wraps a generated point sequence, such as a circle.
type sexpPoints struct {
	pts []v3.Vec
}

func (p *sexpPoints) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(points %d)", len(p.pts))
}
func (p *sexpPoints) Type() *zygo.RegisteredType { return nil }

// sexpRoadRef is returned by (road ...).
type sexpRoadRef struct {
	name string
}

func (r *sexpRoadRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(roadref %q)", r.name)
}
func (r *sexpRoadRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// keyword followed directly by another keyword, or last in the list, is a
// flag and gets SexpNull. Keywords named in valued always consume the next
// argument, so their value may itself be a keyword.
func parseArgs(args []zygo.Sexp, valued ...string) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			if _, next := isKW(args[i+1]); !next || slices.Contains(valued, name) {
				result.kw[name] = args[i+1]
				i++
				continue
			}
		}
		result.kw[name] = zygo.SexpNull
	}
	return result
}

// unknown returns the keywords in pa that are not in allowed, sorted.
func (pa kwArgs) unknown(allowed ...string) []string {
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[a] = true
	}
	var extra []string
	for k := range pa.kw {
		if !ok[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean. A bare flag (SexpNull from parseArgs) is true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toPolicy converts :error or :reuse-previous to a DegeneratePolicy.
func toPolicy(s zygo.Sexp) (curve.DegeneratePolicy, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	switch name {
	case curve.DegenerateError.String():
		return curve.DegenerateError, nil
	case curve.DegenerateReusePrevious.String():
		return curve.DegenerateReusePrevious, nil
	}
	return 0, fmt.Errorf("invalid policy %q, expected error or reuse-previous", name)
}

// toVec3 extracts a point from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toPoints accepts a generated point sequence or a list/array of vec3.
func toPoints(s zygo.Sexp) ([]v3.Vec, error) {
	if p, ok := s.(*sexpPoints); ok {
		return append([]v3.Vec(nil), p.pts...), nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	pts := make([]v3.Vec, 0, len(items))
	for i, item := range items {
		v, err := toVec3(item)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		pts = append(pts, v)
	}
	return pts, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// roadKeywords are the keyword arguments accepted by (road ...).
var roadKeywords = []string{
	"points", "closed", "resolution", "extrude", "edge-width", "thickness", "degenerate",
}

// registerBuiltins installs the road DSL builtins into a zygomys
// environment. Declared roads are appended to prog.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, prog *Program) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	vec3 := func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 3 arguments, got %d", name, len(args))
		}
		var c [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %s: %w", name, axis, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	}
	env.AddFunction("vec3", vec3)

	// (point x y z) reads better inside control point lists.
	env.AddFunction("point", vec3)

	// -----------------------------------------------------------------------
	// (circle :radius 20 :points 8 :center (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		radius, count := 1.0, 8
		var center v3.Vec

		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: radius: %w", err)
			}
			radius = f
		}
		if v, ok := pa.kw["points"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: points: %w", err)
			}
			count = n
		}
		if v, ok := pa.kw["center"]; ok {
			c, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: center: %w", err)
			}
			center = c
		}
		if radius <= 0 {
			return zygo.SexpNull, fmt.Errorf("circle: radius must be positive, got %g", radius)
		}
		if count < curve.MinPoints {
			return zygo.SexpNull, fmt.Errorf("circle: needs at least %d points, got %d", curve.MinPoints, count)
		}

		return &sexpPoints{pts: curve.RegularPolygon(center, radius, count)}, nil
	})

	// -----------------------------------------------------------------------
	// (road "name" :points (list (vec3 0 0 0) ...) :closed true
	//       :resolution 10 :extrude 4 :edge-width 1 :thickness 0.5
	//       :degenerate :reuse-previous)
	// -----------------------------------------------------------------------
	env.AddFunction("road", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args, "degenerate")
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("road requires a name argument")
		}
		roadName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("road: name: %w", err)
		}
		if len(pa.positional) > 1 {
			return zygo.SexpNull, fmt.Errorf("road %q: unexpected positional argument %s",
				roadName, pa.positional[1].SexpString(nil))
		}

		def := RoadDef{
			Name:    roadName,
			Polygon: curve.Polygon{Resolution: tessellate.DefaultResolution},
			Params:  tessellate.DefaultParams(),
		}

		v, ok := pa.kw["points"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("road %q: :points is required", roadName)
		}
		pts, err := toPoints(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("road %q: points: %w", roadName, err)
		}
		def.Polygon.Points = pts

		if v, ok := pa.kw["closed"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("road %q: closed: %w", roadName, err)
			}
			def.Polygon.Closed = b
		}
		if v, ok := pa.kw["resolution"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("road %q: resolution: %w", roadName, err)
			}
			def.Polygon.Resolution = n
		}
		for _, f := range []struct {
			kw  string
			dst *float64
		}{
			{"extrude", &def.Params.Extrude},
			{"edge-width", &def.Params.EdgeWidth},
			{"thickness", &def.Params.Thickness},
		} {
			v, ok := pa.kw[f.kw]
			if !ok {
				continue
			}
			x, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("road %q: %s: %w", roadName, f.kw, err)
			}
			*f.dst = x
		}
		if v, ok := pa.kw["degenerate"]; ok {
			p, err := toPolicy(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("road %q: degenerate: %w", roadName, err)
			}
			def.Params.Policy = p
		}

		for _, kw := range pa.unknown(roadKeywords...) {
			prog.Warnings = append(prog.Warnings, EvalWarning{
				Message: fmt.Sprintf("road %q: unknown keyword :%s ignored", roadName, kw),
				Road:    roadName,
			})
		}

		if !prog.add(def) {
			return zygo.SexpNull, fmt.Errorf("road %q is already defined", roadName)
		}
		return &sexpRoadRef{name: roadName}, nil
	})
}
