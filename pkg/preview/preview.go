// Package preview draws a top-down image of generated road meshes and
// their debug lines. The camera looks down -Y: world X maps to image x and
// world Z to image y.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/roadspline/pkg/curve"
	"golang.org/x/image/vector"
)

// ErrEmptyScene is returned when a scene has nothing to frame.
var ErrEmptyScene = errors.New("preview: empty scene")

// Layer is one flat mesh drawn in a single color.
type Layer struct {
	Vertices []float32 // x,y,z triples
	Indices  []uint32  // triangles
	Color    color.RGBA
}

// Scene is everything drawn into one image. Layers are painted in order,
// lines on top.
type Scene struct {
	Layers []Layer
	Lines  []curve.Line
}

// Options control the output image.
type Options struct {
	Width, Height int
	Margin        int     // pixels kept clear on every side
	LineWidth     float64 // pixels
	Background    color.RGBA
}

// DefaultOptions returns a 1024x1024 image on a dark background.
func DefaultOptions() Options {
	return Options{
		Width:      1024,
		Height:     1024,
		Margin:     16,
		LineWidth:  1.5,
		Background: color.RGBA{R: 32, G: 32, B: 32, A: 255},
	}
}

// lineColors follow the usual gizmo convention, in drawing order.
var lineColors = []struct {
	kind  curve.LineKind
	color color.RGBA
}{
	{curve.LineCenter, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	{curve.LineRail, color.RGBA{R: 230, G: 40, B: 40, A: 255}},
	{curve.LineEdge, color.RGBA{R: 40, G: 200, B: 60, A: 255}},
}

// frame maps world XZ to pixel coordinates.
type frame struct {
	minX, minZ float64
	scale      float64
	offX, offY float64
}

func (f frame) project(x, z float64) (float32, float32) {
	return float32(f.offX + (x-f.minX)*f.scale), float32(f.offY + (z-f.minZ)*f.scale)
}

// fit computes a frame that shows the whole scene with its aspect ratio
// preserved.
func fit(s Scene, opt Options) (frame, error) {
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	include := func(x, z float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minZ, maxZ = math.Min(minZ, z), math.Max(maxZ, z)
	}
	for _, l := range s.Layers {
		for i := 0; i+2 < len(l.Vertices); i += 3 {
			include(float64(l.Vertices[i]), float64(l.Vertices[i+2]))
		}
	}
	for _, l := range s.Lines {
		include(l.From.X, l.From.Z)
		include(l.To.X, l.To.Z)
	}
	if math.IsInf(minX, 1) {
		return frame{}, ErrEmptyScene
	}

	w := float64(opt.Width - 2*opt.Margin)
	h := float64(opt.Height - 2*opt.Margin)
	spanX := math.Max(maxX-minX, 1e-9)
	spanZ := math.Max(maxZ-minZ, 1e-9)
	scale := math.Min(w/spanX, h/spanZ)

	return frame{
		minX:  minX,
		minZ:  minZ,
		scale: scale,
		offX:  float64(opt.Margin) + (w-spanX*scale)/2,
		offY:  float64(opt.Margin) + (h-spanZ*scale)/2,
	}, nil
}

// Render draws s into a new image.
//
// Only upward-facing triangles are filled; walls project to zero area and
// the underside would cancel the top face.
func Render(s Scene, opt Options) (*image.RGBA, error) {
	if opt.Width <= 2*opt.Margin || opt.Height <= 2*opt.Margin {
		return nil, fmt.Errorf("preview: image %dx%d too small for margin %d", opt.Width, opt.Height, opt.Margin)
	}
	f, err := fit(s, opt)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(opt.Background), image.Point{}, draw.Src)

	r := vector.NewRasterizer(opt.Width, opt.Height)
	for _, l := range s.Layers {
		r.Reset(opt.Width, opt.Height)
		if fillLayer(r, f, l) == 0 {
			continue
		}
		r.Draw(dst, dst.Bounds(), image.NewUniform(l.Color), image.Point{})
	}

	for _, lc := range lineColors {
		r.Reset(opt.Width, opt.Height)
		n := 0
		for _, l := range s.Lines {
			if l.Kind != lc.kind {
				continue
			}
			strokeLine(r, f, l, opt.LineWidth)
			n++
		}
		if n > 0 {
			r.Draw(dst, dst.Bounds(), image.NewUniform(lc.color), image.Point{})
		}
	}
	return dst, nil
}

// fillLayer adds the layer's upward-facing triangles to r and returns how
// many it added.
func fillLayer(r *vector.Rasterizer, f frame, l Layer) int {
	vert := func(i uint32) (x, z float64, ok bool) {
		j := int(i) * 3
		if j+2 >= len(l.Vertices) {
			return 0, 0, false
		}
		return float64(l.Vertices[j]), float64(l.Vertices[j+2]), true
	}

	n := 0
	for t := 0; t+2 < len(l.Indices); t += 3 {
		ax, az, ok0 := vert(l.Indices[t])
		bx, bz, ok1 := vert(l.Indices[t+1])
		cx, cz, ok2 := vert(l.Indices[t+2])
		if !ok0 || !ok1 || !ok2 {
			continue
		}
		// y component of (b-a) x (c-a)
		if (bz-az)*(cx-ax)-(bx-ax)*(cz-az) <= 0 {
			continue
		}
		r.MoveTo(f.project(ax, az))
		r.LineTo(f.project(bx, bz))
		r.LineTo(f.project(cx, cz))
		r.ClosePath()
		n++
	}
	return n
}

// strokeLine adds a line as a thin quad of the given pixel width.
func strokeLine(r *vector.Rasterizer, f frame, l curve.Line, width float64) {
	x0, y0 := f.project(l.From.X, l.From.Z)
	x1, y1 := f.project(l.To.X, l.To.Z)
	dx, dy := float64(x1-x0), float64(y1-y0)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx := float32(-dy / length * width / 2)
	ny := float32(dx / length * width / 2)

	r.MoveTo(x0+nx, y0+ny)
	r.LineTo(x1+nx, y1+ny)
	r.LineTo(x1-nx, y1-ny)
	r.LineTo(x0-nx, y0-ny)
	r.ClosePath()
}

// ParseHexColor parses "#rrggbb" or "#rgb".
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("preview: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("preview: invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("preview: encode png: %w", err)
	}
	return nil
}
