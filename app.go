package main

import (
	"image"
	"log"

	"github.com/chazu/roadspline/pkg/engine"
	"github.com/chazu/roadspline/pkg/kernel"
	"github.com/chazu/roadspline/pkg/kernel/sdfx"
	"github.com/chazu/roadspline/pkg/preview"
	"github.com/chazu/roadspline/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// colorPalette assigns distinct colors to the road, inner and outer parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App ties the road engine to a geometry kernel.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format written by -json.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
	Segments int       `json:"segments"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// RoadSummary describes one generated road.
type RoadSummary struct {
	Name      string `json:"name"`
	Closed    bool   `json:"closed"`
	Samples   int    `json:"samples"`
	Segments  int    `json:"segments"`
	Triangles int    `json:"triangles"`
}

// EvalResult is the full result of evaluating a road file.
type EvalResult struct {
	Roads    []RoadSummary   `json:"roads"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`

	results []*tessellate.Result
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp() *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: sdfx.New(),
	}
}

// Evaluate takes road source and returns mesh data + errors. A road that
// fails to generate is reported and the remaining roads are still built.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Roads:    []RoadSummary{},
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the source into road definitions.
	prog, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the output format.
	if len(evalErrs) > 0 {
		result.Errors = append(result.Errors, lo.Map(evalErrs, func(e engine.EvalError, _ int) EvalErrorData {
			return EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		})...)
		return result
	}
	result.Warnings = append(result.Warnings, lo.Map(prog.Warnings, func(w engine.EvalWarning, _ int) EvalErrorData {
		return EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message}
	})...)

	// Step 3: Generate each road's meshes.
	for _, def := range prog.Roads {
		road := tessellate.NewRoad(def.Name, def.Polygon, def.Params, a.kernel)
		res, err := road.Regenerate()
		if err != nil {
			log.Printf("Generate %q error: %v", def.Name, err)
			result.Errors = append(result.Errors, EvalErrorData{
				Message: "road " + def.Name + ": " + err.Error(),
			})
			continue
		}

		summary := RoadSummary{
			Name:     def.Name,
			Closed:   res.Closed,
			Samples:  len(res.Samples),
			Segments: res.Segments(),
		}

		// Step 4: Convert kernel meshes to MeshData.
		for _, m := range res.Meshes() {
			summary.Triangles += m.TriangleCount()
			result.Meshes = append(result.Meshes, MeshData{
				Vertices: m.Vertices,
				Normals:  m.Normals,
				Indices:  m.Indices,
				PartName: m.PartName,
				Color:    colorPalette[len(result.Meshes)%len(colorPalette)],
				Segments: m.Segments,
			})
		}
		result.Roads = append(result.Roads, summary)
		result.results = append(result.results, res)
	}

	return result
}

// Preview renders the meshes of result from above. With debug set the
// centerline and cross-section lines of every road are drawn on top.
func (a *App) Preview(result EvalResult, debug bool, opt preview.Options) (*image.RGBA, error) {
	var scene preview.Scene
	for _, m := range result.Meshes {
		c, err := preview.ParseHexColor(m.Color)
		if err != nil {
			return nil, err
		}
		scene.Layers = append(scene.Layers, preview.Layer{Vertices: m.Vertices, Indices: m.Indices, Color: c})
	}
	if debug {
		for _, res := range result.results {
			view := res.View(v3.Vec{})
			scene.Lines = append(scene.Lines, view.Centerline()...)
			scene.Lines = append(scene.Lines, view.CrossSections()...)
		}
	}
	return preview.Render(scene, opt)
}
