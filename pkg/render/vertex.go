package render

import "github.com/taigrr/softy/pkg/math3d"

// Vertex is a mesh vertex as fed to a VertexShader.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
	Color    math3d.Vec4
}

// VertexOutput is a vertex after the vertex stage. Position is in clip
// space; every other field is interpolated across the triangle.
type VertexOutput struct {
	Position math3d.Vec4
	Normal   math3d.Vec3
	UV       math3d.Vec2
	Color    math3d.Vec4
	World    math3d.Vec3
}

// LerpVertex interpolates every attribute of a and b by t.
func LerpVertex(a, b VertexOutput, t float64) VertexOutput {
	return VertexOutput{
		Position: a.Position.Lerp(b.Position, t),
		Normal:   a.Normal.Lerp(b.Normal, t),
		UV:       a.UV.Lerp(b.UV, t),
		Color:    a.Color.Lerp(b.Color, t),
		World:    a.World.Lerp(b.World, t),
	}
}

// BarycentricVertex blends three vertices with weights b0, b1 and b2.
func BarycentricVertex(v0, v1, v2 VertexOutput, b0, b1, b2 float64) VertexOutput {
	return VertexOutput{
		Position: v0.Position.Scale(b0).Add(v1.Position.Scale(b1)).Add(v2.Position.Scale(b2)),
		Normal:   v0.Normal.Scale(b0).Add(v1.Normal.Scale(b1)).Add(v2.Normal.Scale(b2)),
		UV:       v0.UV.Scale(b0).Add(v1.UV.Scale(b1)).Add(v2.UV.Scale(b2)),
		Color:    v0.Color.Scale(b0).Add(v1.Color.Scale(b1)).Add(v2.Color.Scale(b2)),
		World:    v0.World.Scale(b0).Add(v1.World.Scale(b1)).Add(v2.World.Scale(b2)),
	}
}
