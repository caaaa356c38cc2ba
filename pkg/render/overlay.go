package render

import "github.com/taigrr/softy/pkg/math3d"

// Overlay draws world-space debug lines (axes, grids, bounding boxes) on
// top of a rendered frame. Lines are clipped in homogeneous space against
// the same planes as triangles, so segments crossing the camera plane are
// drawn correctly.
type Overlay struct {
	camera *Camera
	target RenderTarget
}

// NewOverlay creates an overlay viewing through camera.
func NewOverlay(camera *Camera, target RenderTarget) *Overlay {
	return &Overlay{camera: camera, target: target}
}

// DrawLine3D draws the world-space segment p1-p2.
func (o *Overlay) DrawLine3D(p1, p2 math3d.Vec3, c Color) {
	vp := o.camera.ViewProjectionMatrix()
	a := vp.MulVec4(math3d.V4FromV3(p1, 1))
	b := vp.MulVec4(math3d.V4FromV3(p2, 1))

	a, b, ok := ClipSegment(a, b)
	if !ok {
		return
	}

	w, h := o.target.Size()
	view := Viewport{Width: w, Height: h}
	s0 := view.Map(VertexOutput{Position: a})
	s1 := view.Map(VertexOutput{Position: b})
	DrawLine(o.target, int(s0.X), int(s0.Y), int(s1.X), int(s1.Y), c)
}

// ClipSegment clips the clip-space segment a-b to the view volume. It
// reports false when nothing is left.
func ClipSegment(a, b math3d.Vec4) (math3d.Vec4, math3d.Vec4, bool) {
	t0, t1 := 0.0, 1.0
	for p := range ClipPlane(numClipPlanes) {
		da, db := p.Distance(a), p.Distance(b)
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			t0 = max(t0, da/(da-db))
		case db < 0:
			t1 = min(t1, da/(da-db))
		}
	}
	if t0 > t1 {
		return a, b, false
	}
	return a.Lerp(b, t0), a.Lerp(b, t1), true
}

// boxEdges lists the corner pairs of a box whose corner i has bit 0 set
// for max X, bit 1 for max Y and bit 2 for max Z.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawBox draws the edges of box transformed by world.
func (o *Overlay) DrawBox(box AABB, world math3d.Mat4, c Color) {
	var corners [8]math3d.Vec3
	for i := range corners {
		p := box.Min
		if i&1 != 0 {
			p.X = box.Max.X
		}
		if i&2 != 0 {
			p.Y = box.Max.Y
		}
		if i&4 != 0 {
			p.Z = box.Max.Z
		}
		corners[i] = world.MulVec3(p)
	}
	for _, e := range boxEdges {
		o.DrawLine3D(corners[e[0]], corners[e[1]], c)
	}
}

// DrawAxes draws the X, Y and Z axes from the origin in red, green and
// blue.
func (o *Overlay) DrawAxes(length float64) {
	origin := math3d.Vec3{}
	o.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	o.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	o.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}

// DrawGrid draws a size x size grid on the XZ plane at height y.
func (o *Overlay) DrawGrid(size, step, y float64, c Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	n := int(size/step + 0.5)
	for i := range n + 1 {
		k := -half + float64(i)*step
		o.DrawLine3D(math3d.V3(k, y, -half), math3d.V3(k, y, half), c)
		o.DrawLine3D(math3d.V3(-half, y, k), math3d.V3(half, y, k), c)
	}
}
