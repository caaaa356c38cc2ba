package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/softy/pkg/math3d"
	"golang.org/x/image/math/fixed"
)

// Errors returned when a draw call is rejected before rasterization.
var (
	ErrNilTarget  = errors.New("render: nil render target")
	ErrNilShader  = errors.New("render: nil fragment shader")
	ErrIndexCount = errors.New("render: index count is not a multiple of 3")
	ErrIndexRange = errors.New("render: index out of range")
)

// Options configure a Rasterizer.
type Options struct {
	// Lanes is the number of horizontal samples tested per step, 1 to
	// MaxLanes. Every width covers the same pixels.
	Lanes int

	// CullMode selects which faces are discarded.
	CullMode CullMode

	// PerspectiveCorrect interpolates attributes with 1/w weighting instead
	// of linearly in screen space.
	PerspectiveCorrect bool

	// Wireframe draws triangle outlines instead of filling them. The line
	// color is the fragment shader evaluated at the triangle centroid.
	Wireframe bool
}

// DefaultOptions returns 4-lane filling with back faces culled.
func DefaultOptions() Options {
	return Options{Lanes: MaxLanes, CullMode: CullBack}
}

// Stats counts the work done by a Rasterizer since the last ResetStats.
type Stats struct {
	TrianglesIn       int // triangles submitted
	TrianglesRejected int // dropped by the frustum pre-test
	TrianglesClipped  int // walked through the plane clipper
	TrianglesCulled   int // dropped by face culling or zero area
	TrianglesDrawn    int // handed to the fill stage
	Fragments         int // fragment shader invocations

	MeshesTested int // meshes tested against the view frustum
	MeshesCulled int // meshes skipped by the frustum test
	MeshesDrawn  int // meshes that passed the frustum test
}

// Rasterizer turns clip-space triangles into pixels. It keeps scratch
// buffers between calls, so one Rasterizer must not be used from several
// goroutines at once.
type Rasterizer struct {
	Options Options
	Stats   Stats

	clipper Clipper
	clipped []VertexOutput
}

// NewRasterizer creates a rasterizer with the given options.
func NewRasterizer(opts Options) *Rasterizer {
	return &Rasterizer{Options: opts}
}

// ResetStats clears the counters (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// Rasterize draws an indexed triangle list with a default Rasterizer.
func Rasterize(cb *ConstantBuffer, target RenderTarget, verts []VertexOutput, indices []int, fs FragmentShader) error {
	return NewRasterizer(DefaultOptions()).Rasterize(cb, target, verts, indices, fs)
}

// Rasterize draws an indexed triangle list. verts hold clip-space vertex
// shader outputs and every three indices form one triangle. Triangles are
// rejected against the frustum, clipped, mapped to the target's viewport,
// culled and filled, and every covered pixel center is shaded with fs.
func (r *Rasterizer) Rasterize(cb *ConstantBuffer, target RenderTarget, verts []VertexOutput, indices []int, fs FragmentShader) error {
	if err := validateDraw(target, verts, indices, fs); err != nil {
		Logger().Warn("draw rejected", "err", err)
		return err
	}

	r.clipped = r.clipped[:0]
	r.clipper.Clipped = 0
	for i := 0; i < len(indices); i += 3 {
		v0, v1, v2 := verts[indices[i]], verts[indices[i+1]], verts[indices[i+2]]
		r.Stats.TrianglesIn++
		if FrustumReject(v0.Position, v1.Position, v2.Position) {
			r.Stats.TrianglesRejected++
			continue
		}
		r.clipped = r.clipper.ClipTriangle(r.clipped, v0, v1, v2)
	}
	r.Stats.TrianglesClipped += r.clipper.Clipped

	w, h := target.Size()
	vp := Viewport{Width: w, Height: h}
	for i := 0; i+2 < len(r.clipped); i += 3 {
		s0 := vp.Map(r.clipped[i])
		s1 := vp.Map(r.clipped[i+1])
		s2 := vp.Map(r.clipped[i+2])

		if r.Options.CullMode.Culls(SignedArea(s0.Pos(), s1.Pos(), s2.Pos())) {
			r.Stats.TrianglesCulled++
			continue
		}

		r.Stats.TrianglesDrawn++
		if r.Options.Wireframe {
			r.drawOutline(cb, target, s0, s1, s2, fs)
			continue
		}
		r.DrawTriangle(cb, target, s0, s1, s2, fs)
	}
	return nil
}

func validateDraw(target RenderTarget, verts []VertexOutput, indices []int, fs FragmentShader) error {
	if target == nil {
		return ErrNilTarget
	}
	if fs == nil {
		return ErrNilShader
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: got %d indices", ErrIndexCount, len(indices))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= len(verts) {
			return fmt.Errorf("%w: indices[%d] = %d with %d vertices", ErrIndexRange, i, idx, len(verts))
		}
	}
	return nil
}

// DrawTriangle fills one screen-space triangle. Pixels whose centers lie
// inside the triangle, or on a top or left edge, are shaded with fs and
// written to target. Winding is ignored here; culling happens before.
func (r *Rasterizer) DrawTriangle(cb *ConstantBuffer, target RenderTarget, v0, v1, v2 ScreenVertex, fs FragmentShader) {
	p0, p1, p2 := snapPoint(v0), snapPoint(v1), snapPoint(v2)

	area := orient2D(p0, p1, p2)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		p1, p2 = p2, p1
		area = -area
	}

	w, h := target.Size()
	xMin, yMin, xMax, yMax, ok := bounds(p0, p1, p2, w, h)
	if !ok {
		return
	}

	width := r.Options.Lanes
	if width < 1 || width > MaxLanes {
		width = MaxLanes
	}

	// e0 is the edge opposite v0, and so on, so each edge value is the
	// unnormalized barycentric weight of the opposite vertex.
	e0 := newEdge(p1, p2, width)
	e1 := newEdge(p2, p0, width)
	e2 := newEdge(p0, p1, width)

	origin := sampleAt(xMin, yMin)
	row0 := e0.rowStart(origin)
	row1 := e1.rowStart(origin)
	row2 := e2.rowStart(origin)

	f := fragmentSetup{
		v0: v0, v1: v1, v2: v2,
		invArea:     1 / float64(area),
		perspective: r.Options.PerspectiveCorrect,
	}

	for y := yMin; y <= yMax; y++ {
		w0, w1, w2 := row0, row1, row2
		for x := xMin; x <= xMax; x += width {
			n := min(width, xMax-x+1)
			for k := range n {
				if w0[k]|w1[k]|w2[k] < 0 {
					continue
				}
				in := f.interpolate(
					float64(w0[k]-e0.bias),
					float64(w1[k]-e1.bias),
					float64(w2[k]-e2.bias),
					x+k, y,
				)
				target.SetPixel(x+k, y, fs.Shade(cb, in))
				r.Stats.Fragments++
			}
			w0.add(e0.stepX)
			w1.add(e1.stepX)
			w2.add(e2.stepX)
		}
		row0.add(e0.stepY)
		row1.add(e1.stepY)
		row2.add(e2.stepY)
	}
}

// fragmentSetup holds the per-triangle state for attribute interpolation.
type fragmentSetup struct {
	v0, v1, v2  ScreenVertex
	invArea     float64
	perspective bool
}

// interpolate builds the fragment input for pixel (x, y) from the raw edge
// values opposite each vertex. Position is replaced with window
// coordinates: pixel center x and y, NDC depth and 1/w.
func (f *fragmentSetup) interpolate(e0, e1, e2 float64, x, y int) VertexOutput {
	b0, b1, b2 := e0*f.invArea, e1*f.invArea, e2*f.invArea
	z := b0*f.v0.Z + b1*f.v1.Z + b2*f.v2.Z
	invW := b0*f.v0.InvW + b1*f.v1.InvW + b2*f.v2.InvW

	if f.perspective && invW != 0 {
		k := 1 / invW
		b0, b1, b2 = b0*f.v0.InvW*k, b1*f.v1.InvW*k, b2*f.v2.InvW*k
	}

	out := BarycentricVertex(f.v0.Attr, f.v1.Attr, f.v2.Attr, b0, b1, b2)
	out.Position = math3d.V4(float64(x)+0.5, float64(y)+0.5, z, invW)
	return out
}

// drawOutline draws the three edges of a screen-space triangle.
func (r *Rasterizer) drawOutline(cb *ConstantBuffer, target RenderTarget, v0, v1, v2 ScreenVertex, fs FragmentShader) {
	f := fragmentSetup{v0: v0, v1: v1, v2: v2, invArea: 1, perspective: r.Options.PerspectiveCorrect}
	c := fs.Shade(cb, f.interpolate(1.0/3, 1.0/3, 1.0/3, int((v0.X+v1.X+v2.X)/3), int((v0.Y+v1.Y+v2.Y)/3)))
	r.Stats.Fragments++

	pts := [3]fixed.Point26_6{snapPoint(v0), snapPoint(v1), snapPoint(v2)}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%3]
		DrawLine(target, a.X.Floor(), a.Y.Floor(), b.X.Floor(), b.Y.Floor(), c)
	}
}
