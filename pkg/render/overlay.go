package render

import (
	"github.com/taigrr/archipelago/pkg/geom"
	"github.com/taigrr/archipelago/pkg/math3d"
)

// Overlay draws debug lines over a rendered frame: island bounds,
// sight lines, contact markers and a top-down map.
type Overlay struct {
	camera *Camera
	fb     *Framebuffer
}

// NewOverlay creates an overlay drawing into fb through camera.
func NewOverlay(camera *Camera, fb *Framebuffer) *Overlay {
	return &Overlay{camera: camera, fb: fb}
}

// DrawLine3D draws a world-space line. Segments with neither endpoint
// on screen are skipped.
func (o *Overlay) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, _, vis1 := o.camera.WorldToScreen(p1, o.fb.Width, o.fb.Height)
	x2, y2, _, vis2 := o.camera.WorldToScreen(p2, o.fb.Width, o.fb.Height)
	if !vis1 || !vis2 {
		return
	}
	o.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// DrawAABB draws the twelve edges of a box.
func (o *Overlay) DrawAABB(box geom.AABB, color Color) {
	if box.Empty() {
		return
	}
	c := box.Center()
	local := boxCorners(box.Size().Scale(0.5))
	var v [8]math3d.Vec3
	for i := range local {
		v[i] = local[i].Add(c)
	}

	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		o.DrawLine3D(v[e[0]], v[e[1]], color)
	}
}

// DrawSightLine draws from-to in red when blocked, white otherwise.
func (o *Overlay) DrawSightLine(from, to math3d.Vec3, blocked bool) {
	color := ColorWhite
	if blocked {
		color = ColorRed
	}
	o.DrawLine3D(from, to, color)
}

// DrawPoint draws a small axis cross.
func (o *Overlay) DrawPoint(pos math3d.Vec3, size float64, color Color) {
	h := size / 2
	o.DrawLine3D(pos.Add(math3d.V3(-h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), color)
	o.DrawLine3D(pos.Add(math3d.V3(0, -h, 0)), pos.Add(math3d.V3(0, h, 0)), color)
	o.DrawLine3D(pos.Add(math3d.V3(0, 0, -h)), pos.Add(math3d.V3(0, 0, h)), color)
}

// DrawGrid draws a square XZ grid at height y.
func (o *Overlay) DrawGrid(y, size, step float64, color Color) {
	half := size / 2
	for x := -half; x <= half; x += step {
		o.DrawLine3D(math3d.V3(x, y, -half), math3d.V3(x, y, half), color)
	}
	for z := -half; z <= half; z += step {
		o.DrawLine3D(math3d.V3(-half, y, z), math3d.V3(half, y, z), color)
	}
}

// MapMarker is a footprint on the top-down map.
type MapMarker struct {
	Bounds geom.AABB
	Color  Color
}

// DrawMap draws a top-down map of the XZ square [-extent, extent] into the
// framebuffer corner, with markers filled and the player as a dot.
func (o *Overlay) DrawMap(extent float64, size int, markers []MapMarker, player math3d.Vec3) {
	if extent <= 0 || size < 4 {
		return
	}
	x0 := o.fb.Width - size - 1
	y0 := 1
	scale := float64(size) / (2 * extent)
	toMap := func(x, z float64) (int, int) {
		return x0 + int((x+extent)*scale), y0 + int((z+extent)*scale)
	}

	o.fb.DrawRect(x0, y0, size, size, ColorSea)
	for _, m := range markers {
		if m.Bounds.Empty() {
			continue
		}
		ax, az := toMap(m.Bounds.Min.X, m.Bounds.Min.Z)
		bx, bz := toMap(m.Bounds.Max.X, m.Bounds.Max.Z)
		ax, bx = max(ax, x0), min(bx, x0+size-1)
		az, bz = max(az, y0), min(bz, y0+size-1)
		if bx < ax || bz < az {
			continue
		}
		o.fb.DrawRect(ax, az, bx-ax+1, bz-az+1, m.Color)
	}
	o.fb.DrawRectOutline(x0, y0, size, size, ColorWhite)

	px, pz := toMap(player.X, player.Z)
	if px > x0 && px < x0+size-1 && pz > y0 && pz < y0+size-1 {
		o.fb.SetPixel(px, pz, ColorRed)
	}
}
