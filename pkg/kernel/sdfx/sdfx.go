// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx CAD library's vector, triangle and box types.
package sdfx

import (
	"fmt"
	"sync"

	"github.com/chazu/roadspline/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*SdfxKernel)(nil)
var _ kernel.Releaser = (*SdfxKernel)(nil)

// minArea is the smallest doubled triangle area that contributes a normal.
const minArea = 1e-12

// SdfxKernel implements kernel.Kernel using sdfx geometry types. It
// tracks every fragment it hands out until the fragment is released.
type SdfxKernel struct {
	mu   sync.Mutex
	live map[*kernel.Fragment]struct{}
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{live: make(map[*kernel.Fragment]struct{})}
}

func (k *SdfxKernel) track(f *kernel.Fragment) *kernel.Fragment {
	k.mu.Lock()
	k.live[f] = struct{}{}
	k.mu.Unlock()
	return f
}

// Release forgets a fragment. Releasing an unknown fragment is a no-op.
func (k *SdfxKernel) Release(f *kernel.Fragment) {
	k.mu.Lock()
	delete(k.live, f)
	k.mu.Unlock()
}

// Live returns the number of fragments handed out and not yet released.
func (k *SdfxKernel) Live() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.live)
}

// Triangulate closes an extrusion prism. The first half of points is the
// upper face, laid out as two cross-sections of equal width; the second
// half is the same face lowered. Faces follow the point order: the upper
// face, the lower face reversed, the two cross-section walls and the two
// rail walls.
func (k *SdfxKernel) Triangulate(points []v3.Vec) (*kernel.Fragment, error) {
	if len(points) != 8 && len(points) != 12 {
		return nil, fmt.Errorf("sdfx: triangulate: expected 8 or 12 points, got %d", len(points))
	}
	n := uint32(len(points) / 2)
	w := n / 2

	up0 := func(i uint32) uint32 { return i }         // upper, first cross-section
	up1 := func(i uint32) uint32 { return w + i }     // upper, second cross-section
	lo0 := func(i uint32) uint32 { return n + i }     // lower, first cross-section
	lo1 := func(i uint32) uint32 { return n + w + i } // lower, second cross-section

	faces := make([][3]uint32, 0, 8*(w-1)+4)
	quad := func(a, b, c, d uint32) {
		faces = append(faces, [3]uint32{a, b, c}, [3]uint32{a, c, d})
	}

	for i := uint32(0); i+1 < w; i++ {
		quad(up0(i), up0(i+1), up1(i+1), up1(i))
		quad(lo1(i), lo1(i+1), lo0(i+1), lo0(i))
		quad(up0(i+1), up0(i), lo0(i), lo0(i+1))
		quad(up1(i), up1(i+1), lo1(i+1), lo1(i))
	}
	quad(up0(0), up1(0), lo1(0), lo0(0))
	quad(up1(w-1), up0(w-1), lo0(w-1), lo1(w-1))

	f := &kernel.Fragment{
		Vertices:   append([]v3.Vec(nil), points...),
		Faces:      faces,
		QuadPoints: int(n),
	}
	return k.track(f), nil
}

// Convert gives every face its own three vertices so that normals
// computed by Combine are per face. The input fragment is not modified.
func (k *SdfxKernel) Convert(f *kernel.Fragment) *kernel.Fragment {
	out := &kernel.Fragment{
		Vertices:   make([]v3.Vec, 0, 3*len(f.Faces)),
		Faces:      make([][3]uint32, len(f.Faces)),
		QuadPoints: f.QuadPoints,
	}
	for i, face := range f.Faces {
		base := uint32(len(out.Vertices))
		for _, vi := range face {
			out.Vertices = append(out.Vertices, f.Vertices[vi])
		}
		out.Faces[i] = [3]uint32{base, base + 1, base + 2}
	}
	return k.track(out)
}

// Combine merges fragments into one mesh. Vertex normals are the
// area-weighted average of the normals of the faces that use the vertex,
// which is a flat face normal for converted fragments.
func (k *SdfxKernel) Combine(fs []*kernel.Fragment) (*kernel.Mesh, error) {
	var numVerts, numFaces int
	for _, f := range fs {
		numVerts += len(f.Vertices)
		numFaces += len(f.Faces)
	}

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numFaces*3),
		Segments: len(fs),
	}

	var offset uint32
	for fi, f := range fs {
		acc := make([]v3.Vec, len(f.Vertices))
		for _, face := range f.Faces {
			for _, vi := range face {
				if int(vi) >= len(f.Vertices) {
					return nil, fmt.Errorf("sdfx: combine: fragment %d: vertex index %d out of range", fi, vi)
				}
			}
			tri := sdf.Triangle3{f.Vertices[face[0]], f.Vertices[face[1]], f.Vertices[face[2]]}
			area := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Length()
			if area < minArea {
				continue
			}
			n := tri.Normal().MulScalar(area)
			for _, vi := range face {
				acc[vi] = acc[vi].Add(n)
			}
			m.Indices = append(m.Indices, face[0]+offset, face[1]+offset, face[2]+offset)
		}

		for i, v := range f.Vertices {
			n := acc[i]
			if l := n.Length(); l > 0 {
				n = n.MulScalar(1 / l)
			}
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
		offset += uint32(len(f.Vertices))
		m.QuadPoints += f.QuadPoints
	}
	return m, nil
}

// Triangles returns the faces of f as sdfx triangles.
func Triangles(f *kernel.Fragment) []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, len(f.Faces))
	for i, face := range f.Faces {
		tris[i] = &sdf.Triangle3{f.Vertices[face[0]], f.Vertices[face[1]], f.Vertices[face[2]]}
	}
	return tris
}
