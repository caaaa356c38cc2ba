package render

import "github.com/taigrr/softy/pkg/math3d"

// NearEpsilon is the smallest w a vertex may have after clipping. Keeping w
// strictly positive makes the perspective divide safe for geometry that
// crosses the eye plane.
const NearEpsilon = 0x1p-23

// ClipPlane identifies one of the homogeneous half-spaces a triangle is
// clipped against. Planes are applied in declaration order.
type ClipPlane int

const (
	PlaneW    ClipPlane = iota // w >= NearEpsilon
	PlanePosX                  // x <= w
	PlaneNegX                  // x >= -w
	PlanePosY                  // y <= w
	PlaneNegY                  // y >= -w
	PlanePosZ                  // z <= w
	PlaneNegZ                  // z >= -w

	numClipPlanes = iota
)

// maxPolygonVertices bounds a clipped triangle. Every plane adds at most one
// vertex to a convex polygon, so 3 + planes is a hard limit; clipped
// triangles stay within 9 vertices in practice.
const maxPolygonVertices = 3 + numClipPlanes

var planeNames = [numClipPlanes]string{"w", "+x", "-x", "+y", "-y", "+z", "-z"}

func (p ClipPlane) String() string {
	if p < 0 || p >= numClipPlanes {
		return "invalid"
	}
	return planeNames[p]
}

// Distance returns the signed distance of v to the plane in homogeneous
// units. It is non-negative exactly when v is inside.
func (p ClipPlane) Distance(v math3d.Vec4) float64 {
	switch p {
	case PlaneW:
		return v.W - NearEpsilon
	case PlanePosX:
		return v.W - v.X
	case PlaneNegX:
		return v.W + v.X
	case PlanePosY:
		return v.W - v.Y
	case PlaneNegY:
		return v.W + v.Y
	case PlanePosZ:
		return v.W - v.Z
	case PlaneNegZ:
		return v.W + v.Z
	}
	return 0
}

// IsInside reports whether v lies in the plane's half-space.
func (p ClipPlane) IsInside(v math3d.Vec4) bool {
	return p.Distance(v) >= 0
}

// intersect returns the fraction along prev->cur where the segment crosses
// the plane. Callers only use it when the endpoints are on opposite sides.
func (p ClipPlane) intersect(prev, cur math3d.Vec4) float64 {
	dp := p.Distance(prev)
	return dp / (dp - p.Distance(cur))
}

// IsVisible reports whether v is inside every clip plane.
func IsVisible(v math3d.Vec4) bool {
	return v.W >= NearEpsilon &&
		v.X <= v.W && v.X >= -v.W &&
		v.Y <= v.W && v.Y >= -v.W &&
		v.Z <= v.W && v.Z >= -v.W
}

// FrustumReject reports whether a triangle is entirely outside the view
// volume because all three vertices are outside the same plane. A false
// result does not mean the triangle is visible.
func FrustumReject(p0, p1, p2 math3d.Vec4) bool {
	for p := range ClipPlane(numClipPlanes) {
		if !p.IsInside(p0) && !p.IsInside(p1) && !p.IsInside(p2) {
			return true
		}
	}
	return false
}

// Polygon is a convex polygon with room for a triangle clipped against
// every plane.
type Polygon struct {
	verts [maxPolygonVertices]VertexOutput
	n     int
}

// Len returns the number of vertices.
func (p *Polygon) Len() int { return p.n }

// At returns vertex i.
func (p *Polygon) At(i int) VertexOutput { return p.verts[i] }

// Reset empties the polygon.
func (p *Polygon) Reset() { p.n = 0 }

// Append adds v. It panics if the polygon is full.
func (p *Polygon) Append(v VertexOutput) {
	p.verts[p.n] = v
	p.n++
}

// SetTriangle replaces the contents with a single triangle.
func (p *Polygon) SetTriangle(v0, v1, v2 VertexOutput) {
	p.verts[0], p.verts[1], p.verts[2] = v0, v1, v2
	p.n = 3
}

// ClipPolygon clips in against plane with Sutherland-Hodgman and writes the
// result to out. Inputs with fewer than three vertices, and results that
// collapse below three, leave out empty.
func ClipPolygon(plane ClipPlane, in, out *Polygon) {
	out.Reset()
	n := in.n
	if n < 3 {
		return
	}

	prev := &in.verts[n-1]
	prevIn := plane.IsInside(prev.Position)
	for i := range n {
		cur := &in.verts[i]
		curIn := plane.IsInside(cur.Position)

		if prevIn != curIn {
			t := plane.intersect(prev.Position, cur.Position)
			out.Append(LerpVertex(*prev, *cur, t))
		}
		if curIn {
			out.Append(*cur)
		}

		prev, prevIn = cur, curIn
	}

	if out.n < 3 {
		out.Reset()
	}
}

// Clipper clips triangles against the view volume. It owns the scratch
// polygons so clipping does not allocate. A Clipper is not safe for
// concurrent use.
type Clipper struct {
	front, back Polygon

	// Clipped counts triangles that needed the full plane walk.
	Clipped int
}

// ClipTriangle appends the visible part of the triangle to dst as a flat
// list of triangles and returns the extended slice. Triangles entirely
// inside the volume are appended unchanged. Partially visible ones are
// clipped against each plane in order and fanned from their first vertex.
func (c *Clipper) ClipTriangle(dst []VertexOutput, v0, v1, v2 VertexOutput) []VertexOutput {
	if IsVisible(v0.Position) && IsVisible(v1.Position) && IsVisible(v2.Position) {
		return append(dst, v0, v1, v2)
	}
	c.Clipped++

	in, out := &c.front, &c.back
	in.SetTriangle(v0, v1, v2)
	for p := range ClipPlane(numClipPlanes) {
		ClipPolygon(p, in, out)
		if out.n == 0 {
			return dst
		}
		in, out = out, in
	}

	for i := 2; i < in.n; i++ {
		dst = append(dst, in.verts[0], in.verts[i-1], in.verts[i])
	}
	return dst
}

// ClipTriangles clips an indexed triangle list and returns the visible
// triangles as a flat vertex list. indices must hold whole triangles that
// reference valid entries of verts.
func ClipTriangles(verts []VertexOutput, indices []int) []VertexOutput {
	var c Clipper
	out := make([]VertexOutput, 0, len(indices))
	for i := 0; i+2 < len(indices); i += 3 {
		out = c.ClipTriangle(out, verts[indices[i]], verts[indices[i+1]], verts[indices[i+2]])
	}
	return out
}
