package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/softy/pkg/math3d"
)

const clipTol = 1e-9

func vo(x, y, z, w float64) VertexOutput {
	return VertexOutput{Position: math3d.V4(x, y, z, w)}
}

// insideAll reports whether v is inside every plane within clipTol.
func insideAll(v math3d.Vec4) bool {
	for p := range ClipPlane(numClipPlanes) {
		if p.Distance(v) < -clipTol {
			return false
		}
	}
	return true
}

func TestClipPlaneInside(t *testing.T) {
	tests := []struct {
		plane ClipPlane
		in    math3d.Vec4
		out   math3d.Vec4
	}{
		{PlaneW, math3d.V4(0, 0, 0, 1), math3d.V4(0, 0, 0, -1)},
		{PlanePosX, math3d.V4(1, 0, 0, 1), math3d.V4(1.5, 0, 0, 1)},
		{PlaneNegX, math3d.V4(-1, 0, 0, 1), math3d.V4(-1.5, 0, 0, 1)},
		{PlanePosY, math3d.V4(0, 0.5, 0, 1), math3d.V4(0, 2, 0, 1)},
		{PlaneNegY, math3d.V4(0, -0.5, 0, 1), math3d.V4(0, -2, 0, 1)},
		{PlanePosZ, math3d.V4(0, 0, 1, 1), math3d.V4(0, 0, 3, 1)},
		{PlaneNegZ, math3d.V4(0, 0, -1, 1), math3d.V4(0, 0, -3, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.plane.String(), func(t *testing.T) {
			if !tt.plane.IsInside(tt.in) {
				t.Errorf("%v should be inside", tt.in)
			}
			if tt.plane.IsInside(tt.out) {
				t.Errorf("%v should be outside", tt.out)
			}
		})
	}
}

func TestClipPolygonInsideIsUnchanged(t *testing.T) {
	var in, out Polygon
	in.SetTriangle(vo(-0.5, -0.5, 0, 1), vo(0.5, -0.5, 0, 1), vo(0, 0.5, 0, 1))

	for p := range ClipPlane(numClipPlanes) {
		ClipPolygon(p, &in, &out)
		if out.Len() != 3 {
			t.Fatalf("plane %v: got %d vertices, want 3", p, out.Len())
		}
		for i := range 3 {
			if out.At(i) != in.At(i) {
				t.Errorf("plane %v: vertex %d changed from %v to %v", p, i, in.At(i), out.At(i))
			}
		}
	}
}

func TestClipTriangleInsideIsUnchanged(t *testing.T) {
	var c Clipper
	v0, v1, v2 := vo(-0.5, -0.5, 0, 1), vo(0.5, -0.5, 0.2, 1), vo(0, 0.5, -0.2, 1)
	got := c.ClipTriangle(nil, v0, v1, v2)
	if len(got) != 3 || got[0] != v0 || got[1] != v1 || got[2] != v2 {
		t.Errorf("got %v, want the input triangle", got)
	}
	if c.Clipped != 0 {
		t.Errorf("Clipped = %d, want 0 for the fast path", c.Clipped)
	}
}

func TestClipPolygonCompleteness(t *testing.T) {
	// A large triangle crossing every side of the volume.
	var in Polygon
	in.SetTriangle(vo(-3, -3, -3, 1), vo(3, -3, 3, 1), vo(0, 3, 0, 1))

	for p := range ClipPlane(numClipPlanes) {
		t.Run(p.String(), func(t *testing.T) {
			var out Polygon
			ClipPolygon(p, &in, &out)
			if out.Len() > in.Len()+1 {
				t.Errorf("got %d vertices from %d, a plane adds at most one", out.Len(), in.Len())
			}
			for i := range out.Len() {
				if d := p.Distance(out.At(i).Position); d < -clipTol {
					t.Errorf("vertex %v is %v outside plane %v", out.At(i).Position, -d, p)
				}
			}
		})
	}
}

func TestClipPolygonShortInput(t *testing.T) {
	var in, out Polygon
	in.Append(vo(0, 0, 0, 1))
	in.Append(vo(1, 0, 0, 1))
	out.Append(vo(9, 9, 9, 9))
	ClipPolygon(PlanePosX, &in, &out)
	if out.Len() != 0 {
		t.Errorf("got %d vertices, want 0 for a degenerate input", out.Len())
	}
}

func TestClipPolygonFullyOutside(t *testing.T) {
	var in, out Polygon
	in.SetTriangle(vo(2, 0, 0, 1), vo(3, 0, 0, 1), vo(2, 1, 0, 1))
	ClipPolygon(PlanePosX, &in, &out)
	if out.Len() != 0 {
		t.Errorf("got %d vertices, want 0", out.Len())
	}
}

func TestClipBehindCamera(t *testing.T) {
	// One vertex behind the eye: the near-w plane replaces it with two
	// vertices on w = NearEpsilon.
	v0 := vo(0, 0, 0, 1)
	v1 := vo(0.5, 0, 0, 1)
	v2 := vo(0, 0.5, 0, -1)

	var in, out Polygon
	in.SetTriangle(v0, v1, v2)
	ClipPolygon(PlaneW, &in, &out)

	if out.Len() != 4 {
		t.Fatalf("got %d vertices, want 4", out.Len())
	}
	onPlane := 0
	for i := range out.Len() {
		w := out.At(i).Position.W
		if w < NearEpsilon-clipTol {
			t.Errorf("vertex %d has w = %v", i, w)
		}
		if math.Abs(w-NearEpsilon) < clipTol {
			onPlane++
		}
	}
	if onPlane != 2 {
		t.Errorf("%d vertices on w = ε, want 2", onPlane)
	}

	var c Clipper
	tris := c.ClipTriangle(nil, v0, v1, v2)
	if n := len(tris) / 3; n < 1 {
		t.Fatalf("got %d triangles, want at least 1", n)
	}
	for _, v := range tris {
		if !insideAll(v.Position) {
			t.Errorf("emitted vertex %v is outside the volume", v.Position)
		}
	}
}

func TestClipTriangleFan(t *testing.T) {
	// Crossing +x turns the triangle into a quad, fanned into two triangles
	// sharing the first vertex.
	var c Clipper
	tris := c.ClipTriangle(nil, vo(0, -0.5, 0, 1), vo(2, 0, 0, 1), vo(0, 0.5, 0, 1))
	if len(tris) != 6 {
		t.Fatalf("got %d vertices, want 2 triangles", len(tris))
	}
	if tris[0] != tris[3] {
		t.Errorf("fan triangles do not share their first vertex: %v, %v", tris[0], tris[3])
	}
	if c.Clipped != 1 {
		t.Errorf("Clipped = %d, want 1", c.Clipped)
	}
}

func TestClipInterpolatesAttributes(t *testing.T) {
	a := VertexOutput{Position: math3d.V4(0, 0, 0, 1), Color: math3d.V4(0, 0, 0, 1), UV: math3d.V2(0, 0)}
	b := VertexOutput{Position: math3d.V4(2, 0, 0, 1), Color: math3d.V4(1, 1, 1, 1), UV: math3d.V2(1, 1)}

	var in, out Polygon
	in.SetTriangle(a, b, VertexOutput{Position: math3d.V4(0, 0.5, 0, 1), Color: math3d.V4(0, 0, 0, 1)})
	ClipPolygon(PlanePosX, &in, &out)

	found := false
	for i := range out.Len() {
		v := out.At(i)
		if math.Abs(v.Position.X-1) < clipTol && math.Abs(v.Position.Y) < clipTol {
			found = true
			if math.Abs(v.Color.X-0.5) > clipTol || math.Abs(v.UV.X-0.5) > clipTol {
				t.Errorf("attributes at the midpoint = %v / %v, want 0.5", v.Color, v.UV)
			}
		}
	}
	if !found {
		t.Error("no vertex at the x = w crossing")
	}
}

func TestClipConvexity(t *testing.T) {
	var c Clipper
	tris := c.ClipTriangle(nil, vo(-4, -1, 0, 1), vo(4, -2, 0.5, 1), vo(0.2, 5, -0.5, 1))

	// Collect the fan back into a polygon and check every turn has the same
	// sign in NDC.
	poly := []math3d.Vec2{}
	for i := 0; i < len(tris); i += 3 {
		if i == 0 {
			poly = append(poly, v2ndc(tris[0]), v2ndc(tris[1]))
		}
		poly = append(poly, v2ndc(tris[i+2]))
	}
	if len(poly) < 3 {
		t.Fatalf("polygon has %d vertices", len(poly))
	}
	sign := 0.0
	for i := range poly {
		p0, p1, p2 := poly[i], poly[(i+1)%len(poly)], poly[(i+2)%len(poly)]
		cross := p1.Sub(p0).Cross(p2.Sub(p1))
		if math.Abs(cross) < 1e-12 {
			continue
		}
		if sign == 0 {
			sign = math.Copysign(1, cross)
		} else if math.Copysign(1, cross) != sign {
			t.Fatalf("polygon %v is not convex at %d", poly, i)
		}
	}
}

func TestClipCornerTrianglesFitPolygon(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	corner := func() VertexOutput {
		w := rng.Float64()*4 - 1
		s := func() float64 {
			return math.Copysign(1, rng.Float64()-0.5)*w + rng.NormFloat64()*0.5
		}
		return vo(s(), s(), s(), w)
	}

	var c Clipper
	for range 20000 {
		v0, v1, v2 := corner(), corner(), corner()
		in, out := &c.front, &c.back
		in.SetTriangle(v0, v1, v2)
		for p := range ClipPlane(numClipPlanes) {
			ClipPolygon(p, in, out)
			if out.Len() > maxPolygonVertices {
				t.Fatalf("polygon grew to %d vertices", out.Len())
			}
			in, out = out, in
		}

		tris := c.ClipTriangle(nil, v0, v1, v2)
		if len(tris)%3 != 0 || len(tris)/3 > maxPolygonVertices-2 {
			t.Fatalf("fan has %d vertices", len(tris))
		}
		for _, v := range tris {
			if !insideAll(v.Position) {
				t.Fatalf("vertex %v outside the volume", v.Position)
			}
		}
	}
}

func v2ndc(v VertexOutput) math3d.Vec2 {
	p := v.Position.PerspectiveDivide()
	return math3d.V2(p.X, p.Y)
}

func TestFrustumReject(t *testing.T) {
	tests := []struct {
		name       string
		p0, p1, p2 math3d.Vec4
		want       bool
	}{
		{"inside", math3d.V4(0, 0, 0, 1), math3d.V4(0.5, 0, 0, 1), math3d.V4(0, 0.5, 0, 1), false},
		{"all right", math3d.V4(2, 0, 0, 1), math3d.V4(3, 0, 0, 1), math3d.V4(2, 1, 0, 1), true},
		{"all below", math3d.V4(0, -2, 0, 1), math3d.V4(1, -3, 0, 1), math3d.V4(-1, -2, 0, 1), true},
		{"all far", math3d.V4(0, 0, 2, 1), math3d.V4(0.5, 0, 2, 1), math3d.V4(0, 0.5, 2, 1), true},
		{"all behind", math3d.V4(0, 0, 0, -1), math3d.V4(1, 0, 0, -1), math3d.V4(0, 1, 0, -2), true},
		{"straddles left and right", math3d.V4(-2, 0, 0, 1), math3d.V4(2, 0, 0, 1), math3d.V4(0, 2, 0, 1), false},
		{"partially inside", math3d.V4(0, 0, 0, 1), math3d.V4(3, 0, 0, 1), math3d.V4(2, 1, 0, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrustumReject(tt.p0, tt.p1, tt.p2); got != tt.want {
				t.Errorf("FrustumReject = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClipTriangles(t *testing.T) {
	verts := []VertexOutput{
		vo(-0.5, -0.5, 0, 1), vo(0.5, -0.5, 0, 1), vo(0.5, 0.5, 0, 1), vo(-0.5, 0.5, 0, 1),
		vo(5, 5, 0, 1),
	}
	got := ClipTriangles(verts, []int{0, 1, 2, 0, 2, 3, 1, 4, 2})
	if len(got)%3 != 0 {
		t.Fatalf("got %d vertices, not whole triangles", len(got))
	}
	if len(got) < 9 {
		t.Errorf("got %d triangles, want at least 3", len(got)/3)
	}
	for _, v := range got {
		if !insideAll(v.Position) {
			t.Errorf("vertex %v is outside the volume", v.Position)
		}
	}
}

func BenchmarkClipTriangleInside(b *testing.B) {
	var c Clipper
	buf := make([]VertexOutput, 0, 3*maxPolygonVertices)
	v0, v1, v2 := vo(-0.5, -0.5, 0, 1), vo(0.5, -0.5, 0, 1), vo(0, 0.5, 0, 1)
	for b.Loop() {
		buf = c.ClipTriangle(buf[:0], v0, v1, v2)
	}
}

func BenchmarkClipTriangleCrossing(b *testing.B) {
	var c Clipper
	buf := make([]VertexOutput, 0, 3*maxPolygonVertices)
	v0, v1, v2 := vo(-3, -3, -3, 1), vo(3, -3, 3, 1), vo(0, 3, 0, -1)
	for b.Loop() {
		buf = c.ClipTriangle(buf[:0], v0, v1, v2)
	}
}
