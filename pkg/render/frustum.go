package render

import "github.com/taigrr/softy/pkg/math3d"

// Plane is the plane Normal·p + D = 0. Points with a positive distance are
// on the side the normal points to.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize rescales the plane so Normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// Distance returns the signed distance from the plane to point.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the six side planes of a view volume with normals pointing
// inward, indexed by ClipPlane minus one (the near-w plane has no
// world-space counterpart).
type Frustum struct {
	Planes [numClipPlanes - 1]Plane
}

// NewFrustumFromMatrix extracts the frustum of a view-projection matrix
// (Gribb/Hartmann). A point p is inside plane k exactly when the clip-space
// vertex m*p is inside ClipPlane(k+1).
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	row := func(i int) math3d.Vec4 {
		return math3d.V4(m[i], m[i+4], m[i+8], m[i+12])
	}
	w := row(3)

	var f Frustum
	for p := PlanePosX; p < numClipPlanes; p++ {
		axis := row(int(p-PlanePosX) / 2)
		var eq math3d.Vec4
		if (p-PlanePosX)%2 == 0 {
			eq = w.Sub(axis) // c <= w
		} else {
			eq = w.Add(axis) // c >= -w
		}
		pl := Plane{Normal: eq.Vec3(), D: eq.W}
		pl.Normalize()
		f.Planes[p-PlanePosX] = pl
	}
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the middle of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Transform returns the box that bounds b after transforming it by m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	var out AABB
	for i := range 8 {
		corner := b.Min
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		p := m.MulVec3(corner)
		if i == 0 {
			out = AABB{Min: p, Max: p}
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// IntersectAABB reports whether any part of box may be inside the frustum.
// It tests the corner furthest along each plane normal, so boxes near a
// frustum corner can report a false positive.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, pl := range f.Planes {
		far := box.Min
		if pl.Normal.X >= 0 {
			far.X = box.Max.X
		}
		if pl.Normal.Y >= 0 {
			far.Y = box.Max.Y
		}
		if pl.Normal.Z >= 0 {
			far.Z = box.Max.Z
		}
		if pl.Distance(far) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is inside every plane.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.Distance(p) < 0 {
			return false
		}
	}
	return true
}
