package render

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/archipelago/pkg/math3d"
)

// Occluder answers whether terrain blocks the segment between two points.
// island.Manager satisfies it.
type Occluder interface {
	LineOfSightBlocked(from, to math3d.Vec3) bool
}

// FollowCamera keeps a Camera behind a moving target. While terrain blocks
// the view it pulls in toward the target; once clear it relaxes back to
// the resting distance.
type FollowCamera struct {
	Camera *Camera

	Distance     float64
	HeightOffset float64
	MinZoom      float64 // closest, negative
	MaxZoom      float64
	ZoomSpeed    float64 // per update

	// Zoom is the integrated zoom level; the camera is placed using the
	// spring-smoothed value.
	Zoom float64

	shown  float64
	vel    float64
	spring harmonica.Spring
}

// NewFollowCamera wraps cam with the default follow parameters for an
// update rate of fps.
func NewFollowCamera(cam *Camera, fps int) *FollowCamera {
	return &FollowCamera{
		Camera:       cam,
		Distance:     5,
		HeightOffset: 0.5,
		MinZoom:      -3.5,
		MaxZoom:      3,
		ZoomSpeed:    0.025,
		spring:       harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// SetFPS retunes the zoom spring for a new frame rate.
func (f *FollowCamera) SetFPS(fps int) {
	f.spring = harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)
}

// Update advances the zoom one step and re-aims the camera at target, seen
// from behind along yaw. occ may be nil.
func (f *FollowCamera) Update(target math3d.Vec3, yaw float64, occ Occluder) {
	if occ != nil && occ.LineOfSightBlocked(f.Camera.Position, target) {
		f.Zoom = math.Max(f.Zoom-f.ZoomSpeed, f.MinZoom)
	} else if f.Zoom < 0 {
		f.Zoom = math.Min(f.Zoom+f.ZoomSpeed, 0)
	} else if f.Zoom > 0 {
		f.Zoom = math.Max(f.Zoom-f.ZoomSpeed, 0)
	}
	f.Zoom = math3d.Clamp(f.Zoom, f.MinZoom, f.MaxZoom)

	f.shown, f.vel = f.spring.Update(f.shown, f.vel, f.Zoom)

	f.place(target, yaw)
}

// Snap places the camera at the current zoom with no smoothing.
func (f *FollowCamera) Snap(target math3d.Vec3, yaw float64) {
	f.shown, f.vel = f.Zoom, 0
	f.place(target, yaw)
}

func (f *FollowCamera) place(target math3d.Vec3, yaw float64) {
	d := f.Distance + f.shown
	f.Camera.SetPosition(math3d.V3(
		target.X+math.Sin(yaw)*d,
		target.Y+f.HeightOffset-f.shown*0.6,
		target.Z-math.Cos(yaw)*d,
	))
	f.Camera.LookAt(target)
}
