package render

import (
	"math"

	"github.com/taigrr/softy/pkg/math3d"
)

// VertexShader transforms a mesh vertex into clip space.
type VertexShader interface {
	Transform(cb *ConstantBuffer, in Vertex) VertexOutput
}

// FragmentShader computes the color of one covered sample.
type FragmentShader interface {
	Shade(cb *ConstantBuffer, in VertexOutput) Color
}

// VertexShaderFunc adapts a function to VertexShader.
type VertexShaderFunc func(cb *ConstantBuffer, in Vertex) VertexOutput

// Transform calls f.
func (f VertexShaderFunc) Transform(cb *ConstantBuffer, in Vertex) VertexOutput {
	return f(cb, in)
}

// FragmentShaderFunc adapts a function to FragmentShader.
type FragmentShaderFunc func(cb *ConstantBuffer, in VertexOutput) Color

// Shade calls f.
func (f FragmentShaderFunc) Shade(cb *ConstantBuffer, in VertexOutput) Color {
	return f(cb, in)
}

// Shader pairs a vertex and a fragment stage.
type Shader struct {
	Vertex   VertexShader
	Fragment FragmentShader
}

// NewShader returns a Shader using DefaultVertexShader and fs.
func NewShader(fs FragmentShader) *Shader {
	return &Shader{Vertex: DefaultVertexShader, Fragment: fs}
}

// Material property names understood by the stock shaders.
const (
	PropColor    = "Color"    // Color or math3d.Vec4
	PropLightDir = "LightDir" // math3d.Vec3, direction towards the light
	PropAmbient  = "Ambient"  // float64 in [0,1]
)

// DefaultVertexShader projects positions with World, View and Projection,
// and moves normals and positions to world space for lighting.
var DefaultVertexShader VertexShader = VertexShaderFunc(func(cb *ConstantBuffer, in Vertex) VertexOutput {
	world := cb.World.MulVec4(math3d.V4FromV3(in.Position, 1))
	return VertexOutput{
		Position: cb.Projection.Mul(cb.View).MulVec4(world),
		Normal:   cb.World.MulVec3Dir(in.Normal).Normalize(),
		UV:       in.UV,
		Color:    in.Color,
		World:    world.Vec3(),
	}
})

// UnlitColorShader fills every sample with the material color.
func UnlitColorShader() *Shader {
	return NewShader(FragmentShaderFunc(func(cb *ConstantBuffer, _ VertexOutput) Color {
		return ColorFromVec4(cb.Vec4Property(PropColor, math3d.V4(1, 1, 1, 1)))
	}))
}

// VertexColorShader outputs the interpolated vertex color.
func VertexColorShader() *Shader {
	return NewShader(FragmentShaderFunc(func(_ *ConstantBuffer, in VertexOutput) Color {
		return ColorFromVec4(in.Color)
	}))
}

// NormalShader maps the world-space normal to RGB.
func NormalShader() *Shader {
	return NewShader(FragmentShaderFunc(func(_ *ConstantBuffer, in VertexOutput) Color {
		n := in.Normal.Normalize()
		return ColorFromVec4(math3d.V4(n.X*0.5+0.5, n.Y*0.5+0.5, n.Z*0.5+0.5, 1))
	}))
}

// LambertShader lights the material color with a single directional light:
// ambient + (1 - ambient) * max(0, n·l).
func LambertShader() *Shader {
	return NewShader(FragmentShaderFunc(func(cb *ConstantBuffer, in VertexOutput) Color {
		base := cb.Vec4Property(PropColor, math3d.V4(1, 1, 1, 1))
		light := cb.Vec3Property(PropLightDir, math3d.V3(0.5, 1, 0.75)).Normalize()
		ambient := cb.FloatProperty(PropAmbient, 0.3)

		diffuse := math.Max(0, in.Normal.Normalize().Dot(light))
		k := ambient + (1-ambient)*diffuse
		return ColorFromVec4(math3d.V4(base.X*k, base.Y*k, base.Z*k, base.W))
	}))
}
