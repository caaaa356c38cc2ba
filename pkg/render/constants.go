package render

import "github.com/taigrr/softy/pkg/math3d"

// ConstantBuffer carries per-draw data to the shaders. Shaders must treat
// it as read-only.
type ConstantBuffer struct {
	World      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
	Properties map[string]any
}

// NewConstantBuffer returns a buffer with identity matrices.
func NewConstantBuffer() *ConstantBuffer {
	return &ConstantBuffer{
		World:      math3d.Identity(),
		View:       math3d.Identity(),
		Projection: math3d.Identity(),
		Properties: map[string]any{},
	}
}

// WorldViewProjection returns Projection * View * World.
func (cb *ConstantBuffer) WorldViewProjection() math3d.Mat4 {
	return cb.Projection.Mul(cb.View).Mul(cb.World)
}

// Property returns the named property.
func (cb *ConstantBuffer) Property(name string) (any, bool) {
	v, ok := cb.Properties[name]
	return v, ok
}

// Vec4Property returns the named property as a Vec4. Color values are
// converted to [0,1] RGBA. def is returned when the property is missing or
// has another type.
func (cb *ConstantBuffer) Vec4Property(name string, def math3d.Vec4) math3d.Vec4 {
	switch v := cb.Properties[name].(type) {
	case math3d.Vec4:
		return v
	case Color:
		return Vec4FromColor(v)
	}
	return def
}

// Vec3Property returns the named property as a Vec3, or def.
func (cb *ConstantBuffer) Vec3Property(name string, def math3d.Vec3) math3d.Vec3 {
	if v, ok := cb.Properties[name].(math3d.Vec3); ok {
		return v
	}
	return def
}

// FloatProperty returns the named property as a float64, or def.
func (cb *ConstantBuffer) FloatProperty(name string, def float64) float64 {
	if v, ok := cb.Properties[name].(float64); ok {
		return v
	}
	return def
}
