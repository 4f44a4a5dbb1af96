package render

import (
	"math"
	"testing"

	"github.com/taigrr/archipelago/pkg/math3d"
)

type stubOccluder struct {
	blocked bool
	calls   int
}

func (s *stubOccluder) LineOfSightBlocked(_, _ math3d.Vec3) bool {
	s.calls++
	return s.blocked
}

func TestFollowCameraRestingPosition(t *testing.T) {
	tests := []struct {
		name string
		yaw  float64
		want math3d.Vec3
	}{
		{"yaw zero", 0, math3d.V3(1, 2.5, -2)},
		{"quarter turn", math.Pi / 2, math3d.V3(6, 2.5, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFollowCamera(NewCamera(), 30)
			target := math3d.V3(1, 2, 3)
			f.Update(target, tc.yaw, nil)

			if !f.Camera.Position.ApproxEqual(tc.want, 1e-9) {
				t.Errorf("camera at %v, want %v", f.Camera.Position, tc.want)
			}
			dir := target.Sub(f.Camera.Position).Normalize()
			if f.Camera.Forward().Dot(dir) < 0.9999 {
				t.Errorf("camera forward %v does not face target dir %v", f.Camera.Forward(), dir)
			}
		})
	}
}

func TestFollowCameraZoomsWhenOccluded(t *testing.T) {
	f := NewFollowCamera(NewCamera(), 30)
	occ := &stubOccluder{blocked: true}
	target := math3d.Zero3()

	f.Update(target, 0, occ)
	if math.Abs(f.Zoom+f.ZoomSpeed) > 1e-12 {
		t.Fatalf("one blocked step: zoom = %v, want %v", f.Zoom, -f.ZoomSpeed)
	}

	for range 400 {
		f.Update(target, 0, occ)
	}
	if f.Zoom != f.MinZoom {
		t.Errorf("zoom = %v, want clamp at %v", f.Zoom, f.MinZoom)
	}
	if d := f.Camera.Position.Distance(target); d >= f.Distance {
		t.Errorf("occluded camera distance %v should be inside resting distance %v", d, f.Distance)
	}
	if occ.calls != 401 {
		t.Errorf("occluder consulted %d times, want 401", occ.calls)
	}

	occ.blocked = false
	for range 400 {
		f.Update(target, 0, occ)
	}
	if f.Zoom != 0 {
		t.Errorf("zoom after clearing = %v, want 0", f.Zoom)
	}
}

func TestFollowCameraRelaxesPositiveZoom(t *testing.T) {
	f := NewFollowCamera(NewCamera(), 30)
	f.Zoom = 0.05

	f.Update(math3d.Zero3(), 0, nil)
	if math.Abs(f.Zoom-0.025) > 1e-12 {
		t.Errorf("zoom = %v, want 0.025", f.Zoom)
	}
	f.Update(math3d.Zero3(), 0, nil)
	f.Update(math3d.Zero3(), 0, nil)
	if f.Zoom != 0 {
		t.Errorf("zoom = %v, want 0", f.Zoom)
	}
}

func TestFollowCameraSpringLags(t *testing.T) {
	f := NewFollowCamera(NewCamera(), 30)
	f.Zoom = -3

	f.Snap(math3d.Zero3(), 0)
	snapped := f.Camera.Position

	g := NewFollowCamera(NewCamera(), 30)
	g.Zoom = -3 - g.ZoomSpeed
	g.Update(math3d.Zero3(), 0, &stubOccluder{blocked: true})

	// After one step the spring has barely moved from rest.
	if g.Camera.Position.Distance(math3d.Zero3()) <= snapped.Distance(math3d.Zero3()) {
		t.Errorf("spring should lag: stepped %v vs snapped %v", g.Camera.Position, snapped)
	}
}

func TestFollowCameraSetFPS(t *testing.T) {
	fast := NewFollowCamera(NewCamera(), 60)
	slow := NewFollowCamera(NewCamera(), 60)
	slow.SetFPS(10)

	for _, f := range []*FollowCamera{fast, slow} {
		f.Zoom = -3
		f.Update(math3d.Zero3(), 0, nil)
	}
	// A longer frame carries the spring further in one step.
	if math.Abs(slow.shown) <= math.Abs(fast.shown) {
		t.Errorf("10 fps step %v should outrun 60 fps step %v", slow.shown, fast.shown)
	}
}
