package render

import (
	"fmt"

	"github.com/taigrr/softy/pkg/math3d"
)

// CullMode selects which faces the rasterizer discards. Front faces wind
// counter-clockwise in clip space.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

func (m CullMode) String() string {
	switch m {
	case CullBack:
		return "back"
	case CullFront:
		return "front"
	case CullNone:
		return "none"
	}
	return "invalid"
}

// ParseCullMode parses "back", "front" or "none".
func ParseCullMode(s string) (CullMode, error) {
	for m := CullBack; m <= CullNone; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return CullBack, fmt.Errorf("unknown cull mode %q", s)
}

// SignedArea returns twice the signed area of a screen-space triangle.
// With y pointing down, front-facing triangles have a negative area.
func SignedArea(a, b, c math3d.Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// IsBackFacing reports whether a screen-space triangle faces away from the
// viewer. Degenerate triangles are neither front nor back facing.
func IsBackFacing(v0, v1, v2 ScreenVertex) bool {
	return SignedArea(v0.Pos(), v1.Pos(), v2.Pos()) > 0
}

// Culls reports whether a triangle with the given SignedArea is discarded.
// Zero-area triangles are always discarded.
func (m CullMode) Culls(area float64) bool {
	switch {
	case area == 0:
		return true
	case m == CullBack:
		return area > 0
	case m == CullFront:
		return area < 0
	}
	return false
}
