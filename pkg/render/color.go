package render

import (
	"image/color"

	"github.com/taigrr/softy/pkg/math3d"
)

// Color is the pixel format of a Framebuffer.
type Color = color.RGBA

// Palette used by the stock shaders and the viewer.
var (
	ColorBlack   = Color{R: 0, G: 0, B: 0, A: 255}
	ColorWhite   = Color{R: 255, G: 255, B: 255, A: 255}
	ColorRed     = Color{R: 255, G: 0, B: 0, A: 255}
	ColorGreen   = Color{R: 0, G: 255, B: 0, A: 255}
	ColorBlue    = Color{R: 0, G: 0, B: 255, A: 255}
	ColorYellow  = Color{R: 255, G: 255, B: 0, A: 255}
	ColorCyan    = Color{R: 0, G: 255, B: 255, A: 255}
	ColorMagenta = Color{R: 255, G: 0, B: 255, A: 255}
	ColorGray    = Color{R: 128, G: 128, B: 128, A: 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color with alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ColorFromVec4 converts a linear [0,1] RGBA vector to a Color, clamping
// each channel.
func ColorFromVec4(v math3d.Vec4) Color {
	return Color{
		R: unitToByte(v.X),
		G: unitToByte(v.Y),
		B: unitToByte(v.Z),
		A: unitToByte(v.W),
	}
}

// Vec4FromColor converts c to a [0,1] RGBA vector.
func Vec4FromColor(c Color) math3d.Vec4 {
	const k = 1.0 / 255
	return math3d.V4(float64(c.R)*k, float64(c.G)*k, float64(c.B)*k, float64(c.A)*k)
}

// MultiplyColor scales the RGB channels of c by intensity. Alpha is kept.
func MultiplyColor(c Color, intensity float64) Color {
	v := Vec4FromColor(c)
	return ColorFromVec4(math3d.V4(v.X*intensity, v.Y*intensity, v.Z*intensity, v.W))
}

// ModulateColor multiplies two colors channel by channel.
func ModulateColor(a, b Color) Color {
	return ColorFromVec4(Vec4FromColor(a).Mul(Vec4FromColor(b)))
}

func unitToByte(f float64) uint8 {
	switch {
	case f <= 0 || f != f:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}
