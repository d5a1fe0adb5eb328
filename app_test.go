package main

import (
	"os"
	"strings"
	"testing"

	"github.com/chazu/roadspline/pkg/kernel/sdfx"
	"github.com/chazu/roadspline/pkg/preview"
)

// TestE2ELoopExample exercises the full pipeline: road source -> engine ->
// road definitions -> tessellate -> meshes.
func TestE2ELoopExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/loop.road")
	if err != nil {
		t.Fatalf("failed to read loop.road: %v", err)
	}

	result := app.Evaluate(string(source))

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	// Three roads, each with a road body and two edges.
	if len(result.Meshes) != 9 {
		t.Fatalf("expected 9 meshes, got %d", len(result.Meshes))
	}

	expectedParts := map[string]bool{}
	for _, road := range []string{"loop", "spur", "roundabout"} {
		for _, part := range []string{"road", "inner", "outer"} {
			expectedParts[road+"/"+part] = false
		}
	}

	for _, m := range result.Meshes {
		if _, ok := expectedParts[m.PartName]; !ok {
			t.Errorf("unexpected part name: %q", m.PartName)
			continue
		}
		expectedParts[m.PartName] = true

		if len(m.Vertices) == 0 {
			t.Errorf("part %q: no vertices", m.PartName)
		}
		if len(m.Normals) != len(m.Vertices) {
			t.Errorf("part %q: %d normals for %d vertex floats", m.PartName, len(m.Normals), len(m.Vertices))
		}
		if len(m.Indices) == 0 {
			t.Errorf("part %q: no indices", m.PartName)
		}
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}

	for name, found := range expectedParts {
		if !found {
			t.Errorf("missing mesh for part %q", name)
		}
	}

	// loop: 4 points x 8 samples, closed. spur: 3 segments x 6, open.
	// roundabout: 8 points x default resolution 10, closed.
	want := []RoadSummary{
		{Name: "loop", Closed: true, Samples: 32, Segments: 32},
		{Name: "spur", Closed: false, Samples: 18, Segments: 17},
		{Name: "roundabout", Closed: true, Samples: 80, Segments: 80},
	}
	if len(result.Roads) != len(want) {
		t.Fatalf("expected %d road summaries, got %d", len(want), len(result.Roads))
	}
	for i, w := range want {
		got := result.Roads[i]
		if got.Name != w.Name || got.Closed != w.Closed || got.Samples != w.Samples || got.Segments != w.Segments {
			t.Errorf("road %d = %+v, want %+v", i, got, w)
		}
		if got.Triangles == 0 {
			t.Errorf("road %q: no triangles", got.Name)
		}
	}

	// An open strip has no degenerate closing segment: 20 triangles per
	// road prism and 12 per edge prism.
	if got, want := result.Roads[1].Triangles, 17*(20+12+12); got != want {
		t.Errorf("spur triangles = %d, want %d", got, want)
	}

	if live := app.kernel.(*sdfx.SdfxKernel).Live(); live != 0 {
		t.Errorf("kernel holds %d fragments after evaluation, want 0", live)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(road "test"`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleRoad ensures a minimal open road renders three meshes.
func TestE2ESingleRoad(t *testing.T) {
	app := NewApp()
	source := `(road "main" :resolution 4 :points (list (vec3 0 0 0) (vec3 10 0 0) (vec3 20 0 5)))`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 3 {
		t.Fatalf("expected 3 meshes, got %d", len(result.Meshes))
	}
	for i, part := range []string{"road", "inner", "outer"} {
		if got := result.Meshes[i].PartName; got != "main/"+part {
			t.Errorf("mesh %d part name = %q, want %q", i, got, "main/"+part)
		}
		// 2 segments x 4 samples, open: 7 strip segments.
		if got := result.Meshes[i].Segments; got != 7 {
			t.Errorf("mesh %d segments = %d, want 7", i, got)
		}
	}
	if !strings.HasPrefix(result.Meshes[0].Color, "#") {
		t.Errorf("expected hex color, got %q", result.Meshes[0].Color)
	}
}

// TestE2EPreview renders the example file with debug lines.
func TestE2EPreview(t *testing.T) {
	app := NewApp()
	source, err := os.ReadFile("examples/loop.road")
	if err != nil {
		t.Fatalf("failed to read loop.road: %v", err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	opt := preview.DefaultOptions()
	opt.Width, opt.Height = 256, 192
	img, err := app.Preview(result, true, opt)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 192 {
		t.Errorf("image size %dx%d, want 256x192", b.Dx(), b.Dy())
	}

	painted := 0
	for y := 0; y < 192; y++ {
		for x := 0; x < 256; x++ {
			if img.RGBAAt(x, y) != opt.Background {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Error("preview is blank")
	}
}

func TestE2EPreviewEmpty(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")
	if _, err := app.Preview(result, false, preview.DefaultOptions()); err == nil {
		t.Error("expected an error previewing an empty result")
	}
}
