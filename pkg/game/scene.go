package game

import (
	"github.com/taigrr/archipelago/pkg/math3d"
	"github.com/taigrr/archipelago/pkg/render"
)

// BodySize is the box drawn for each body.
var BodySize = math3d.V3(0.4, 0.6, 0.4)

// Scene renders a World from behind the boat.
type Scene struct {
	Camera  *render.Camera
	Follow  *render.FollowCamera
	FB      *render.Framebuffer
	Raster  *render.Rasterizer
	Overlay *render.Overlay

	LightDir math3d.Vec3 // toward the light
	MapSize  int         // minimap side in pixels, 0 hides it
	Debug    bool        // island bounds, sight line and boat marker

	// Blocked is the sight-line result of the last Track.
	Blocked bool
}

// NewScene creates a scene rendering into a width×height framebuffer.
func NewScene(width, height, fps int) *Scene {
	cam := render.NewCamera()
	s := &Scene{
		Camera:   cam,
		Follow:   render.NewFollowCamera(cam, fps),
		LightDir: math3d.V3(0.4, 1, -0.3).Normalize(),
		MapSize:  16,
	}
	s.Resize(width, height)
	return s
}

// Resize changes the framebuffer dimensions.
func (s *Scene) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if s.FB == nil {
		s.FB = render.NewFramebuffer(width, height)
		s.Raster = render.NewRasterizer(s.Camera, s.FB)
		s.Overlay = render.NewOverlay(s.Camera, s.FB)
	} else {
		s.FB.Resize(width, height)
		s.Raster.Resize()
	}
	s.Camera.SetAspectRatio(float64(width) / float64(height))
	s.Raster.InvalidateFrustum()
}

// Track moves the camera one step toward its place behind the boat.
func (s *Scene) Track(w *World) {
	s.Blocked = w.SightBlocked(s.Camera.Position)
	s.Follow.Update(w.Boat.Position, w.Boat.Yaw, w.Islands)
	s.Raster.InvalidateFrustum()
}

// Snap puts the camera straight into its resting place.
func (s *Scene) Snap(w *World) {
	s.Follow.Snap(w.Boat.Position, w.Boat.Yaw)
	s.Raster.InvalidateFrustum()
}

// Draw renders one frame of w into FB.
func (s *Scene) Draw(w *World) {
	s.FB.Clear(render.ColorSky)
	s.Raster.ClearDepth()
	s.Raster.ResetCullingStats()

	identity := math3d.Identity()
	for _, m := range w.Meshes() {
		s.Raster.DrawMesh(m, identity, s.LightDir)
	}
	s.Raster.DrawMesh(w.Water.Mesh(), identity, s.LightDir)

	s.Raster.DrawBox(w.Boat.Transform(), w.Boat.Size, render.ColorBoat, s.LightDir)

	lift := math3d.Translate(math3d.V3(0, BodySize.Y/2, 0))
	for _, b := range w.Crowd.Bodies {
		s.Raster.DrawBox(b.Transform().Mul(lift), BodySize, render.ColorBody, s.LightDir)
	}

	if s.Debug {
		for _, is := range w.Islands.All() {
			s.Overlay.DrawAABB(is.Bounds(), render.ColorFoam)
		}
		s.Overlay.DrawSightLine(s.Camera.Position, w.Boat.Position, s.Blocked)
		s.Overlay.DrawPoint(w.Boat.Position.Add(math3d.V3(0, 1.5, 0)), 1, render.ColorRed)
	}

	if s.MapSize > 0 {
		markers := make([]render.MapMarker, 0, w.Islands.Count())
		for _, is := range w.Islands.All() {
			markers = append(markers, render.MapMarker{Bounds: is.Bounds(), Color: render.ColorFoam})
		}
		s.Overlay.DrawMap(w.Extent(), s.MapSize, markers, w.Boat.Position)
	}
}
