// Package render implements the softy rasterization pipeline: homogeneous
// clipping, viewport mapping, culling and an edge-function triangle fill
// that writes into a Framebuffer.
package render

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
)

// RenderTarget is anything the rasterizer can write pixels to.
type RenderTarget interface {
	Size() (width, height int)
	SetPixel(x, y int, c Color)
}

// Framebuffer is a row-major grid of pixels. When drawn to a terminal every
// cell shows two vertically stacked pixels, so Height is usually twice the
// number of rows.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color
}

// NewFramebuffer allocates a width x height framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (int, int) {
	return fb.Width, fb.Height
}

// Resize reallocates the pixel storage when the dimensions change.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.Width && height == fb.Height {
		return
	}
	fb.Width, fb.Height = width, height
	fb.Pixels = make([]Color, width*height)
}

// Clear fills every pixel with c.
func (fb *Framebuffer) Clear(c Color) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel writes c at (x, y). Writes outside the buffer are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the pixel at (x, y), or transparent black when out of
// bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line between two pixel positions.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	DrawLine(fb, x0, y0, x1, y1, c)
}

// DrawLine draws a Bresenham line on t. The segment is clipped to the
// target first, so off-screen endpoints cost nothing and every write is in
// bounds.
func DrawLine(t RenderTarget, x0, y0, x1, y1 int, c Color) {
	w, h := t.Size()
	var ok bool
	x0, y0, x1, y1, ok = clipLine(x0, y0, x1, y1, 0, 0, w-1, h-1)
	if !ok {
		return
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		t.SetPixel(x0, y0, c)
		e2 := 2 * e
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			e += dx
			y0 += sy
		}
	}
}

// Cohen-Sutherland outcodes.
const (
	outLeft = 1 << iota
	outRight
	outTop
	outBottom
)

func outcode(x, y, minX, minY, maxX, maxY float64) int {
	code := 0
	if x < minX {
		code |= outLeft
	} else if x > maxX {
		code |= outRight
	}
	if y < minY {
		code |= outTop
	} else if y > maxY {
		code |= outBottom
	}
	return code
}

// clipLine clips a segment to the inclusive rectangle [minX,maxX]x[minY,maxY].
// It reports false when no part of the segment is inside.
func clipLine(ix0, iy0, ix1, iy1, iminX, iminY, imaxX, imaxY int) (int, int, int, int, bool) {
	if imaxX < iminX || imaxY < iminY {
		return 0, 0, 0, 0, false
	}
	x0, y0, x1, y1 := float64(ix0), float64(iy0), float64(ix1), float64(iy1)
	minX, minY, maxX, maxY := float64(iminX), float64(iminY), float64(imaxX), float64(imaxY)
	c0 := outcode(x0, y0, minX, minY, maxX, maxY)
	c1 := outcode(x1, y1, minX, minY, maxX, maxY)

	for {
		if c0|c1 == 0 {
			break
		}
		if c0&c1 != 0 {
			return 0, 0, 0, 0, false
		}

		out := c0
		if out == 0 {
			out = c1
		}

		var x, y float64
		switch {
		case out&outTop != 0:
			x, y = x0+(x1-x0)*(minY-y0)/(y1-y0), minY
		case out&outBottom != 0:
			x, y = x0+(x1-x0)*(maxY-y0)/(y1-y0), maxY
		case out&outLeft != 0:
			x, y = minX, y0+(y1-y0)*(minX-x0)/(x1-x0)
		default:
			x, y = maxX, y0+(y1-y0)*(maxX-x0)/(x1-x0)
		}

		if out == c0 {
			x0, y0 = x, y
			c0 = outcode(x0, y0, minX, minY, maxX, maxY)
		} else {
			x1, y1 = x, y
			c1 = outcode(x1, y1, minX, minY, maxX, maxY)
		}
	}

	clampRound := func(f float64, lo, hi int) int {
		return min(max(int(math.Round(f)), lo), hi)
	}
	return clampRound(x0, iminX, imaxX), clampRound(y0, iminY, imaxY),
		clampRound(x1, iminX, imaxX), clampRound(y1, iminY, imaxY), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage copies the framebuffer into an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		for x, c := range row {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// SavePNG encodes the framebuffer as a PNG file at path.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
