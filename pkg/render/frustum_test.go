package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/softy/pkg/math3d"
)

func TestPlaneDistance(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if d := plane.Distance(tc.point); math.Abs(d-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", d, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if l := plane.Normal.Len(); math.Abs(l-1) > 1e-9 {
		t.Errorf("normal length = %v, want 1", l)
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 || math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal = %v, want (0, 0.6, 0.8)", plane.Normal)
	}
	if math.Abs(plane.D-2) > 1e-9 {
		t.Errorf("D = %v, want 2", plane.D)
	}

	zero := Plane{D: 3}
	zero.Normalize()
	if zero.D != 3 {
		t.Error("degenerate plane should be left alone")
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}

	t.Run("translation", func(t *testing.T) {
		got := box.Transform(math3d.Translate(math3d.V3(10, 20, 30)))
		if got.Min != math3d.V3(9, 19, 29) || got.Max != math3d.V3(11, 21, 31) {
			t.Errorf("translated box = %v", got)
		}
		if got.Center() != math3d.V3(10, 20, 30) {
			t.Errorf("center = %v", got.Center())
		}
	})

	t.Run("scale", func(t *testing.T) {
		got := box.Transform(math3d.ScaleUniform(2))
		if got.Min != math3d.V3(-2, -2, -2) || got.Max != math3d.V3(2, 2, 2) {
			t.Errorf("scaled box = %v", got)
		}
	})

	t.Run("rotation grows the box", func(t *testing.T) {
		got := box.Transform(math3d.RotateY(math.Pi / 4))
		want := math.Sqrt2
		if math.Abs(got.Max.X-want) > 1e-9 || math.Abs(got.Min.Z+want) > 1e-9 {
			t.Errorf("rotated box = %v, want half-width %v", got, want)
		}
		if math.Abs(got.Max.Y-1) > 1e-9 {
			t.Errorf("rotation about Y changed the height: %v", got)
		}
	})
}

func TestFrustumPlanesNormalized(t *testing.T) {
	viewProj := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100)
	f := NewFrustumFromMatrix(viewProj)

	for i, plane := range f.Planes {
		if l := plane.Normal.Len(); math.Abs(l-1) > 1e-6 {
			t.Errorf("plane %v normal length = %v, want 1", ClipPlane(i+1), l)
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := NewFrustumFromMatrix(math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, -1), true},
		{"center mid", math3d.V3(0, 0, -50), true},
		{"center far", math3d.V3(0, 0, -99), true},
		{"behind camera", math3d.V3(0, 0, 1), false},
		{"too far", math3d.V3(0, 0, -200), false},
		{"too close", math3d.V3(0, 0, -0.01), false},
		{"left of view", math3d.V3(-20, 0, -5), false},
		{"above view", math3d.V3(0, 20, -5), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumMatchesClipPlanes(t *testing.T) {
	viewProj := math3d.Perspective(math.Pi/3, 1.5, 0.5, 50).
		Mul(math3d.LookAt(math3d.V3(3, 2, 6), math3d.V3(0, 0, 0), math3d.Up()))
	f := NewFrustumFromMatrix(viewProj)
	rng := rand.New(rand.NewPCG(7, 11))

	for range 2000 {
		p := math3d.V3(rng.Float64()*40-20, rng.Float64()*40-20, rng.Float64()*40-20)
		clip := viewProj.MulVec4(math3d.V4FromV3(p, 1))

		for k, pl := range f.Planes {
			plane := ClipPlane(k + 1)
			d := plane.Distance(clip)
			if math.Abs(d) < 1e-6 {
				continue
			}
			if (pl.Distance(p) >= 0) != plane.IsInside(clip) {
				t.Fatalf("point %v: world plane %v disagrees with clip distance %v", p, plane, d)
			}
		}
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := NewFrustumFromMatrix(math3d.Perspective(math.Pi/3, 16.0/9.0, 1, 100))

	box := func(x0, y0, z0, x1, y1, z1 float64) AABB {
		return AABB{Min: math3d.V3(x0, y0, z0), Max: math3d.V3(x1, y1, z1)}
	}
	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", box(-1, -1, -10, 1, 1, -5), true},
		{"crossing near plane", box(-1, -1, -2, 1, 1, 2), true},
		{"behind camera", box(-1, -1, 5, 1, 1, 10), false},
		{"beyond far plane", box(-1, -1, -150, 1, 1, -120), false},
		{"far to the right", box(100, -1, -10, 110, 1, -5), false},
		{"containing frustum", box(-200, -200, -200, 200, 200, 200), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumWithRotatedCamera(t *testing.T) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 0))
	cam.LookAt(math3d.V3(10, 0, 0))
	f := cam.Frustum()

	if !f.ContainsPoint(math3d.V3(10, 0, 0)) {
		t.Error("point in front of rotated camera should be visible")
	}
	if f.ContainsPoint(math3d.V3(-10, 0, 0)) {
		t.Error("point behind rotated camera should not be visible")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := NewFrustumFromMatrix(math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000))
	box := AABB{Min: math3d.V3(-1, -1, -10), Max: math3d.V3(1, 1, -5)}

	for b.Loop() {
		_ = f.IntersectAABB(box)
	}
}

func BenchmarkFrustumExtraction(b *testing.B) {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000)
	view := math3d.LookAt(math3d.V3(0, 10, 20), math3d.V3(0, 0, 0), math3d.Up())
	viewProj := proj.Mul(view)

	for b.Loop() {
		_ = NewFrustumFromMatrix(viewProj)
	}
}

func BenchmarkAABBTransform(b *testing.B) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}
	m := math3d.Translate(math3d.V3(10, 0, 0)).Mul(math3d.RotateY(0.5))

	for b.Loop() {
		_ = box.Transform(m)
	}
}
