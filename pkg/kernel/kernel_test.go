package kernel

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBoundingBox(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		min, max := (&Mesh{}).BoundingBox()
		if min != [3]float64{} || max != [3]float64{} {
			t.Errorf("BoundingBox() = %v %v, want zeros", min, max)
		}
	})
	t.Run("two vertices", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, -2, 3, -4, 5, 0.5}}
		min, max := m.BoundingBox()
		if min != [3]float64{-4, -2, 0.5} {
			t.Errorf("min = %v, want [-4 -2 0.5]", min)
		}
		if max != [3]float64{1, 5, 3} {
			t.Errorf("max = %v, want [1 5 3]", max)
		}
	})
}

// --- Compile-time interface check with a stub kernel ---

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. It emits one triangle per call.
type stubKernel struct{}

func (k *stubKernel) Triangulate(points []v3.Vec) (*Fragment, error) {
	return &Fragment{
		Vertices:   points[:3],
		Faces:      [][3]uint32{{0, 1, 2}},
		QuadPoints: len(points) / 2,
	}, nil
}

func (k *stubKernel) Convert(f *Fragment) *Fragment { return f }

func (k *stubKernel) Combine(fs []*Fragment) (*Mesh, error) {
	m := &Mesh{Segments: len(fs)}
	for _, f := range fs {
		m.QuadPoints += f.QuadPoints
	}
	return m, nil
}

// Compile-time check that the stub implements the interface.
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelRoundTrip(t *testing.T) {
	var k Kernel = &stubKernel{}
	pts := make([]v3.Vec, 8)
	f, err := k.Triangulate(pts)
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	if f.TriangleCount() != 1 {
		t.Errorf("TriangleCount() = %d, want 1", f.TriangleCount())
	}
	m, err := k.Combine([]*Fragment{k.Convert(f), f})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if m.Segments != 2 || m.QuadPoints != 8 {
		t.Errorf("Segments/QuadPoints = %d/%d, want 2/8", m.Segments, m.QuadPoints)
	}
	if !m.IsEmpty() {
		t.Error("stub Combine() should return empty mesh")
	}
}
