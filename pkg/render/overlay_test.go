package render

import (
	"math"
	"testing"

	"github.com/taigrr/softy/pkg/math3d"
)

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name    string
		a, b    math3d.Vec4
		wantOK  bool
		wantA   math3d.Vec4
		wantB   math3d.Vec4
		checkAB bool
	}{
		{"inside", math3d.V4(-0.5, 0, 0, 1), math3d.V4(0.5, 0.2, 0, 1), true,
			math3d.V4(-0.5, 0, 0, 1), math3d.V4(0.5, 0.2, 0, 1), true},
		{"crossing +x", math3d.V4(0, 0, 0, 1), math3d.V4(3, 0, 0, 1), true,
			math3d.V4(0, 0, 0, 1), math3d.V4(1, 0, 0, 1), true},
		{"crossing both sides", math3d.V4(-3, 0.5, 0, 1), math3d.V4(3, 0.5, 0, 1), true,
			math3d.V4(-1, 0.5, 0, 1), math3d.V4(1, 0.5, 0, 1), true},
		{"outside", math3d.V4(2, 0, 0, 1), math3d.V4(3, 1, 0, 1), false, math3d.Vec4{}, math3d.Vec4{}, false},
		{"behind camera", math3d.V4(0, 0, 0, -1), math3d.V4(0, 0, 0, -2), false, math3d.Vec4{}, math3d.Vec4{}, false},
		{"corner miss", math3d.V4(0.5, 1.8, 0, 1), math3d.V4(1.8, 0.5, 0, 1), false, math3d.Vec4{}, math3d.Vec4{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := ClipSegment(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.checkAB {
				return
			}
			if a.Sub(tt.wantA).Len() > 1e-9 || b.Sub(tt.wantB).Len() > 1e-9 {
				t.Errorf("got %v-%v, want %v-%v", a, b, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestClipSegmentThroughCameraPlane(t *testing.T) {
	a, b, ok := ClipSegment(math3d.V4(0, 0, 0, 1), math3d.V4(0, 0, 0, -1))
	if !ok {
		t.Fatal("segment leaving through the camera plane should survive")
	}
	if a.W != 1 || math.Abs(b.W-NearEpsilon) > 1e-12 {
		t.Errorf("clipped w range = [%v, %v]", a.W, b.W)
	}
}

func TestOverlayAxes(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	o := NewOverlay(NewCamera(), fb)
	o.DrawAxes(1)

	if got := fb.GetPixel(45, 32); got != ColorRed {
		t.Errorf("pixel on the X axis = %v, want red", got)
	}
	if got := fb.GetPixel(32, 20); got != ColorGreen {
		t.Errorf("pixel on the Y axis = %v, want green", got)
	}
}

func TestOverlayStaysInBounds(t *testing.T) {
	target := newCountingTarget(40, 30)
	cam := NewCamera()
	o := NewOverlay(cam, target)

	o.DrawGrid(20, 1, -1, ColorGray)
	o.DrawBox(AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}, math3d.Translate(math3d.V3(0, 0, 3)), ColorWhite)

	if target.total() == 0 {
		t.Error("nothing drawn")
	}
	if target.outOfBounds != 0 {
		t.Errorf("%d writes out of bounds", target.outOfBounds)
	}
}
