package render

import "github.com/taigrr/softy/pkg/math3d"

// ScreenVertex is a clipped vertex after the perspective divide and the
// viewport transform.
type ScreenVertex struct {
	X, Y float64 // pixels, origin top-left, y down
	Z    float64 // NDC depth in [-1, 1]
	InvW float64 // 1/w of the clip-space position

	Attr VertexOutput
}

// Pos returns the screen position as a Vec2.
func (v ScreenVertex) Pos() math3d.Vec2 {
	return math3d.V2(v.X, v.Y)
}

// Viewport maps normalized device coordinates to a Width x Height target.
type Viewport struct {
	Width, Height int
}

// Map divides v by its w and maps NDC x and y in [-1, 1] to [0, Width] and
// [Height, 0]. The result is not clamped. v.Position.W must be positive,
// which the clipper guarantees.
func (vp Viewport) Map(v VertexOutput) ScreenVertex {
	hw := float64(vp.Width) * 0.5
	hh := float64(vp.Height) * 0.5
	invW := 1 / v.Position.W
	ndc := v.Position.PerspectiveDivide()
	return ScreenVertex{
		X:    ndc.X*hw + hw,
		Y:    hh - ndc.Y*hh,
		Z:    ndc.Z,
		InvW: invW,
		Attr: v,
	}
}
