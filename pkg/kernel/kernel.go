// Package kernel defines the mesh-building collaborators of the road
// pipeline. Implementations (sdfx) triangulate extruded strip segments,
// flatten them for low-poly shading and merge them into one mesh. The
// abstraction allows swapping backends without changing the pipeline.
package kernel

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Fragment is the triangulated prism of one strip segment. Faces index
// into Vertices and keep the winding of the points they were built from.
type Fragment struct {
	Vertices   []v3.Vec
	Faces      [][3]uint32
	QuadPoints int // upper-face points of the source quad
}

// TriangleCount returns the number of faces.
func (f *Fragment) TriangleCount() int {
	return len(f.Faces)
}

// Triangulator turns an 8- or 12-point extrusion prism (upper face
// followed by lower face) into a closed fragment. Point order is winding
// order; implementations must not reorder points.
type Triangulator interface {
	Triangulate(points []v3.Vec) (*Fragment, error)
}

// Converter rewrites a fragment for flat shading by giving every face its
// own vertices. Face order is preserved.
type Converter interface {
	Convert(f *Fragment) *Fragment
}

// Combiner merges the fragments of one ribbon into a single mesh.
type Combiner interface {
	Combine(fs []*Fragment) (*Mesh, error)
}

// Releaser is implemented by kernels that hold resources per fragment.
// Release is called once for every fragment after it has been combined.
type Releaser interface {
	Release(f *Fragment)
}

// Kernel is the full set of collaborators the pipeline needs.
type Kernel interface {
	Triangulator
	Converter
	Combiner
}
