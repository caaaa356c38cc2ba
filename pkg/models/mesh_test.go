package models

import (
	"math"
	"testing"

	"github.com/taigrr/softy/pkg/math3d"
)

func TestNewCube(t *testing.T) {
	cube := NewCube(2)

	if cube.VertexCount() != 24 {
		t.Errorf("vertices = %d, want 24", cube.VertexCount())
	}
	if cube.TriangleCount() != 12 {
		t.Errorf("triangles = %d, want 12", cube.TriangleCount())
	}
	lo, hi := cube.GetBounds()
	if lo != math3d.V3(-1, -1, -1) || hi != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %v..%v", lo, hi)
	}

	// Every face winds counter-clockwise seen from outside, so its geometric
	// normal agrees with the stored normal and points away from the center.
	for i := range cube.TriangleCount() {
		f := cube.GetFace(i)
		p0, n, _ := cube.GetVertex(f[0])
		p1, _, _ := cube.GetVertex(f[1])
		p2, _, _ := cube.GetVertex(f[2])
		geo := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		if geo.Dot(n) < 0.999 {
			t.Errorf("face %d: winding normal %v disagrees with %v", i, geo, n)
		}
		if p0.Dot(n) <= 0 {
			t.Errorf("face %d: normal %v points inward", i, n)
		}
	}
}

func TestNewQuad(t *testing.T) {
	q := NewQuad(4, 2)
	lo, hi := q.GetBounds()
	if lo != math3d.V3(-2, -1, 0) || hi != math3d.V3(2, 1, 0) {
		t.Errorf("bounds = %v..%v", lo, hi)
	}
	if _, n, _ := q.GetVertex(0); n != math3d.V3(0, 0, 1) {
		t.Errorf("normal = %v, want +Z", n)
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	m := NewMesh("tent")
	a := m.AddVertex(MeshVertex{Position: math3d.V3(-1, 0, 0)})
	b := m.AddVertex(MeshVertex{Position: math3d.V3(0, 0, 1)})
	c := m.AddVertex(MeshVertex{Position: math3d.V3(0, 1, 0)})
	d := m.AddVertex(MeshVertex{Position: math3d.V3(1, 0, 0)})
	m.AddTriangle(a, b, c)
	m.AddTriangle(b, d, c)

	m.CalculateSmoothNormals()
	for i, v := range m.Vertices {
		if math.Abs(v.Normal.Len()-1) > 1e-9 {
			t.Errorf("vertex %d normal %v is not unit length", i, v.Normal)
		}
	}
	// The shared vertices average both faces, so they lean along +Z only.
	if n := m.Vertices[b].Normal; math.Abs(n.X) > 1e-9 {
		t.Errorf("shared normal = %v, want no x component", n)
	}
}

func TestNormalize(t *testing.T) {
	m := NewCube(1)
	m.Transform(math3d.Translate(math3d.V3(5, 5, 5)))
	m.Normalize(2)

	if c := m.Center(); c.Len() > 1e-9 {
		t.Errorf("center = %v, want origin", c)
	}
	if s := m.Size(); math.Abs(s.X-2) > 1e-9 {
		t.Errorf("size = %v, want 2", s)
	}
}

func TestClone(t *testing.T) {
	m := NewCube(1)
	c := m.Clone()
	c.Vertices[0].Position = math3d.V3(9, 9, 9)
	c.Faces[0].V[0] = 5
	if m.Vertices[0].Position == c.Vertices[0].Position || m.Faces[0].V[0] == 5 {
		t.Error("clone shares storage with the original")
	}
}
