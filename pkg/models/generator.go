package models

import "github.com/taigrr/softy/pkg/math3d"

// cornerColors tint the four corners of every generated quad: black, red,
// green and blue.
var cornerColors = [4]math3d.Vec4{
	{X: 0, Y: 0, Z: 0, W: 1},
	{X: 1, Y: 0, Z: 0, W: 1},
	{X: 0, Y: 1, Z: 0, W: 1},
	{X: 0, Y: 0, Z: 1, W: 1},
}

// addQuad appends a quad centered at c spanning ±u and ±v. The quad faces
// along u × v and is split into two counter-clockwise triangles.
func (m *Mesh) addQuad(c, u, v math3d.Vec3) {
	n := u.Cross(v).Normalize()
	corners := [4]struct {
		p  math3d.Vec3
		uv math3d.Vec2
	}{
		{c.Sub(u).Sub(v), math3d.V2(0, 0)},
		{c.Add(u).Sub(v), math3d.V2(1, 0)},
		{c.Add(u).Add(v), math3d.V2(1, 1)},
		{c.Sub(u).Add(v), math3d.V2(0, 1)},
	}

	base := len(m.Vertices)
	for i, k := range corners {
		m.AddVertex(MeshVertex{Position: k.p, Normal: n, UV: k.uv, Color: cornerColors[i]})
	}
	m.AddTriangle(base, base+1, base+2)
	m.AddTriangle(base, base+2, base+3)
}

// NewCube returns an axis-aligned cube with edge length size centered on
// the origin. Each face has its own four vertices, so normals are flat.
func NewCube(size float64) *Mesh {
	h := size / 2
	m := NewMesh("cube")
	x := math3d.V3(h, 0, 0)
	y := math3d.V3(0, h, 0)
	z := math3d.V3(0, 0, h)

	m.addQuad(z, x, y)          // front, +Z
	m.addQuad(z.Negate(), y, x) // back, -Z
	m.addQuad(x, z.Negate(), y) // right, +X
	m.addQuad(x.Negate(), z, y) // left, -X
	m.addQuad(y, x, z.Negate()) // top, +Y
	m.addQuad(y.Negate(), x, z) // bottom, -Y
	m.CalculateBounds()
	return m
}

// NewQuad returns a width x height quad in the XY plane facing +Z.
func NewQuad(width, height float64) *Mesh {
	m := NewMesh("quad")
	m.addQuad(math3d.Vec3{}, math3d.V3(width/2, 0, 0), math3d.V3(0, height/2, 0))
	m.CalculateBounds()
	return m
}
