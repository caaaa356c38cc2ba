package render

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// MaxLanes is the widest horizontal step of the fill loop.
const MaxLanes = 4

// pixelCenter is half a pixel in 26.6 fixed point.
const pixelCenter = fixed.Int26_6(1 << 5)

// snap rounds a screen coordinate to the 1/64 pixel grid.
func snap(f float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(f * 64))
}

func snapPoint(v ScreenVertex) fixed.Point26_6 {
	return fixed.Point26_6{X: snap(v.X), Y: snap(v.Y)}
}

// lanes holds one edge value per horizontal sample of a step.
type lanes [MaxLanes]int64

func (l *lanes) add(d int64) {
	for i := range l {
		l[i] += d
	}
}

// edge is the half-plane equation of the directed edge p0->p1:
//
//	E(p) = a*(p.x - p0.x) + b*(p.y - p0.y)
//
// For a triangle with positive orientation E is non-negative inside. All
// values are in 26.6 * 26.6 units, so one unit is 1/4096 of a pixel area.
type edge struct {
	origin fixed.Point26_6
	a, b   int64
	bias   int64 // 0 on top-left edges, -1 elsewhere

	stepX int64 // change across one lane group
	stepY int64 // change down one row
}

func newEdge(p0, p1 fixed.Point26_6, width int) edge {
	a := int64(p0.Y - p1.Y)
	b := int64(p1.X - p0.X)
	e := edge{
		origin: p0,
		a:      a,
		b:      b,
		stepX:  a * 64 * int64(width),
		stepY:  b * 64,
	}
	if !isTopLeft(p0, p1) {
		e.bias = -1
	}
	return e
}

// isTopLeft reports whether p0->p1 is a top or left edge of a positively
// oriented triangle in y-down screen space. A top edge is horizontal with
// the interior below it. A left edge has the interior to its right.
func isTopLeft(p0, p1 fixed.Point26_6) bool {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	return (dy == 0 && dx > 0) || dy < 0
}

// eval returns the unbiased edge value at p.
func (e *edge) eval(p fixed.Point26_6) int64 {
	return e.a*int64(p.X-e.origin.X) + e.b*int64(p.Y-e.origin.Y)
}

// rowStart returns the biased lane values for samples at p, p+1px, ...
func (e *edge) rowStart(p fixed.Point26_6) lanes {
	var l lanes
	v := e.eval(p) + e.bias
	for i := range l {
		l[i] = v + int64(i)*e.a*64
	}
	return l
}

// orient2D returns twice the signed area of the snapped triangle.
func orient2D(p0, p1, p2 fixed.Point26_6) int64 {
	return int64(p1.X-p0.X)*int64(p2.Y-p0.Y) - int64(p1.Y-p0.Y)*int64(p2.X-p0.X)
}

// bounds returns the inclusive pixel range whose centers may be covered by
// the snapped triangle, clamped to a width x height target. ok is false
// when the range is empty.
func bounds(p0, p1, p2 fixed.Point26_6, width, height int) (xMin, yMin, xMax, yMax int, ok bool) {
	r := fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: min(p0.X, p1.X, p2.X), Y: min(p0.Y, p1.Y, p2.Y)},
		Max: fixed.Point26_6{X: max(p0.X, p1.X, p2.X), Y: max(p0.Y, p1.Y, p2.Y)},
	}

	xMin = max((r.Min.X - pixelCenter).Ceil(), 0)
	yMin = max((r.Min.Y - pixelCenter).Ceil(), 0)
	xMax = min((r.Max.X - pixelCenter).Floor(), width-1)
	yMax = min((r.Max.Y - pixelCenter).Floor(), height-1)
	return xMin, yMin, xMax, yMax, xMin <= xMax && yMin <= yMax
}

// sampleAt returns the center of pixel (x, y) in 26.6.
func sampleAt(x, y int) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.I(x) + pixelCenter, Y: fixed.I(y) + pixelCenter}
}
