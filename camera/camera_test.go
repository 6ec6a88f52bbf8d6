package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

// 64x48 tiles of 8 world units in a 1024x768 window.
func newTestCamera() *Camera {
	return New(1024, 768, 512, 384)
}

func TestNew_FitsMap(t *testing.T) {
	cam := newTestCamera()

	if cam.X != 256 || cam.Y != 192 {
		t.Errorf("expected camera at (256, 192), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(minY, 0) || !near(maxX, 512) || !near(maxY, 384) {
		t.Errorf("visible bounds = (%f, %f, %f, %f), want the whole map", minX, minY, maxX, maxY)
	}
}

func TestNew_FitsLimitingDimension(t *testing.T) {
	cam := New(800, 600, 1600, 800)

	// min(800/1600, 600/800) = 0.5
	if !near(cam.Zoom, 0.5) {
		t.Errorf("expected zoom 0.5, got %f", cam.Zoom)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(3.3)
	cam.Pan(40, -25)

	testCases := []struct{ sx, sy float32 }{
		{512, 384}, // center
		{10, 10},   // top-left
		{1000, 700},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClampsToMap(t *testing.T) {
	cam := newTestCamera()

	cam.Pan(-10000, 0)
	if cam.X != 0 {
		t.Errorf("expected X clamped to 0, got %f", cam.X)
	}
	cam.Pan(0, 10000)
	if cam.Y != 384 {
		t.Errorf("expected Y clamped to 384, got %f", cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newTestCamera()

	cam.SetZoom(0.1)
	if cam.Zoom != 1 {
		t.Errorf("expected zoom clamped to 1, got %f", cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != 16 {
		t.Errorf("expected zoom clamped to 16, got %f", cam.Zoom)
	}
}

func TestZoomAt_KeepsPointUnderCursor(t *testing.T) {
	cam := newTestCamera()

	wx, wy := cam.ScreenToWorld(200, 150)
	cam.ZoomAt(200, 150, 2)

	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 200) || !near(sy, 150) {
		t.Errorf("cursor point moved to (%f, %f)", sx, sy)
	}
	if cam.Zoom != 4 {
		t.Errorf("expected zoom 4, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(4)

	// Visible range in world coords: (256-128, 192-96) to (256+128, 192+96)
	if !cam.IsVisible(256, 192, 1) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(500, 380, 8) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(100, 192, 80) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestResize(t *testing.T) {
	cam := newTestCamera()
	cam.Resize(512, 384)

	if cam.MinZoom != 0.5 || cam.MaxZoom != 8 {
		t.Errorf("zoom limits = [%f, %f], want [0.5, 8]", cam.MinZoom, cam.MaxZoom)
	}
	if cam.Zoom != 2 {
		t.Errorf("zoom inside new limits changed to %f", cam.Zoom)
	}

	cam.Reset()
	if cam.Zoom != 1 {
		t.Errorf("expected home zoom 1 after resize, got %f", cam.Zoom)
	}
}
