package render

import "math"

// DepthBuffer stores one depth value per pixel. The triangle fill does not
// test against it; shaders or callers that want z-testing can use it
// directly.
type DepthBuffer struct {
	Width  int
	Height int
	Depth  []float64
}

// NewDepthBuffer allocates a depth buffer cleared to +Inf.
func NewDepthBuffer(width, height int) *DepthBuffer {
	db := &DepthBuffer{
		Width:  width,
		Height: height,
		Depth:  make([]float64, width*height),
	}
	db.Clear()
	return db
}

// Clear resets every sample to +Inf.
func (db *DepthBuffer) Clear() {
	n := len(db.Depth)
	if n == 0 {
		return
	}
	db.Depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(db.Depth[i:], db.Depth[:i])
	}
}

// At returns the depth at (x, y), or +Inf when out of bounds.
func (db *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return math.Inf(1)
	}
	return db.Depth[y*db.Width+x]
}

// Set stores z at (x, y). Out of bounds writes are dropped.
func (db *DepthBuffer) Set(x, y int, z float64) {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return
	}
	db.Depth[y*db.Width+x] = z
}

// TestAndSet stores z at (x, y) if it is closer than the current value and
// reports whether it did.
func (db *DepthBuffer) TestAndSet(x, y int, z float64) bool {
	if x < 0 || x >= db.Width || y < 0 || y >= db.Height {
		return false
	}
	i := y*db.Width + x
	if z >= db.Depth[i] {
		return false
	}
	db.Depth[i] = z
	return true
}
