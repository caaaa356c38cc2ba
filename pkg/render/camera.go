package render

import (
	"math"

	"github.com/taigrr/softy/pkg/math3d"
)

// Camera is a perspective camera oriented by Euler angles. It supplies the
// view and projection matrices of the constant buffer.
type Camera struct {
	Position math3d.Vec3

	Pitch float64 // about X, radians
	Yaw   float64 // about Y, radians
	Roll  float64 // about Z, radians

	FOV         float64 // vertical, radians
	AspectRatio float64 // width / height
	Near        float64
	Far         float64

	view, proj, viewProj math3d.Mat4
	viewDirty, projDirty bool
	viewProjDirty        bool
}

// NewCamera returns a camera at (0, 0, 3) looking down -Z with a 60° field
// of view.
func NewCamera() *Camera {
	return &Camera{
		Position:      math3d.V3(0, 0, 3),
		FOV:           math.Pi / 3,
		AspectRatio:   1,
		Near:          0.1,
		Far:           100,
		viewDirty:     true,
		projDirty:     true,
		viewProjDirty: true,
	}
}

func (c *Camera) touchView() {
	c.viewDirty = true
	c.viewProjDirty = true
}

func (c *Camera) touchProj() {
	c.projDirty = true
	c.viewProjDirty = true
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.touchView()
}

// SetRotation sets pitch, yaw and roll in radians.
func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.Pitch, c.Yaw, c.Roll = pitch, yaw, roll
	c.touchView()
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.touchProj()
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.touchProj()
}

// SetAspectFromTarget sets the aspect ratio from a render target. Targets
// drawn as terminal half-blocks have square pixels, so no correction is
// needed.
func (c *Camera) SetAspectFromTarget(t RenderTarget) {
	w, h := t.Size()
	if w > 0 && h > 0 {
		c.SetAspectRatio(float64(w) / float64(h))
	}
}

// SetClipPlanes sets the near and far plane distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near, c.Far = near, far
	c.touchProj()
}

// Forward returns the viewing direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// MoveForward moves the camera along its viewing direction.
func (c *Camera) MoveForward(distance float64) {
	c.SetPosition(c.Position.Add(c.Forward().Scale(distance)))
}

// LookAt turns the camera towards target. Roll is reset.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.SetRotation(math.Asin(dir.Y), math.Atan2(-dir.X, -dir.Z), 0)
}

// ViewMatrix returns the world to view transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		rot := math3d.RotateZ(-c.Roll).
			Mul(math3d.RotateX(-c.Pitch)).
			Mul(math3d.RotateY(-c.Yaw))
		c.view = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
	}
	return c.view
}

// ProjectionMatrix returns the view to clip transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.proj = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.proj
}

// ViewProjectionMatrix returns ProjectionMatrix * ViewMatrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty {
		c.viewProj = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewProjDirty = false
	}
	return c.viewProj
}

// Frustum returns the world-space view frustum.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}
