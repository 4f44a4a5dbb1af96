package render

import (
	"testing"

	"github.com/taigrr/archipelago/pkg/geom"
	"github.com/taigrr/archipelago/pkg/math3d"
)

func newTestOverlay(w, h int) (*Overlay, *Framebuffer) {
	fb := NewFramebuffer(w, h)
	cam := NewCamera()
	cam.SetAspectRatio(float64(w) / float64(h))
	cam.SetPosition(math3d.V3(0, 0, 10))
	cam.LookAt(math3d.Zero3())
	return NewOverlay(cam, fb), fb
}

func TestOverlaySightLineColor(t *testing.T) {
	tests := []struct {
		name    string
		blocked bool
		want    Color
	}{
		{"clear", false, ColorWhite},
		{"blocked", true, ColorRed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o, fb := newTestOverlay(100, 100)
			o.DrawSightLine(math3d.V3(-2, 0, 0), math3d.V3(2, 0, 0), tc.blocked)

			found := false
			for _, c := range fb.Pixels {
				if c == tc.want {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("no %v pixels drawn", tc.want)
			}
		})
	}
}

func TestOverlaySkipsOffscreen(t *testing.T) {
	o, fb := newTestOverlay(50, 50)
	o.DrawLine3D(math3d.V3(0, 0, 20), math3d.V3(1, 0, 30), ColorWhite)
	o.DrawAABB(geom.EmptyAABB(), ColorWhite)

	if n := countLit(fb); n > 0 {
		t.Errorf("drew %d pixels for geometry behind the camera", n)
	}
}

func TestOverlayDrawAABB(t *testing.T) {
	o, fb := newTestOverlay(100, 100)
	o.DrawAABB(geom.NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)), ColorWhite)
	if countLit(fb) == 0 {
		t.Error("box outline drew nothing")
	}
}

func TestOverlayDrawMap(t *testing.T) {
	o, fb := newTestOverlay(100, 60)
	markers := []MapMarker{
		{Bounds: geom.NewAABB(math3d.V3(-5, 0, -5), math3d.V3(5, 1, 5)), Color: ColorBoat},
		{Bounds: geom.EmptyAABB(), Color: ColorBody},
	}
	o.DrawMap(30, 20, markers, math3d.V3(0, 0, 0))

	// Map occupies x in [79, 98], y in [1, 20]; 60 units across 20 px.
	if got := fb.GetPixel(89, 11); got != ColorRed {
		t.Errorf("player dot = %v, want red", got)
	}
	if got := fb.GetPixel(88, 10); got != ColorBoat {
		t.Errorf("island footprint = %v, want %v", got, ColorBoat)
	}
	if got := fb.GetPixel(81, 3); got != ColorSea {
		t.Errorf("open water = %v, want %v", got, ColorSea)
	}
	if got := fb.GetPixel(79, 1); got != ColorWhite {
		t.Errorf("map border = %v, want white", got)
	}
	if got := fb.GetPixel(10, 30); got != (Color{}) {
		t.Errorf("pixel outside map touched: %v", got)
	}
}
