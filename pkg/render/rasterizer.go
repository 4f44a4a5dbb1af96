// Package render draws islands, water and actors into a framebuffer with
// a small software rasterizer.
package render

import (
	"math"

	"github.com/taigrr/archipelago/pkg/geom"
	"github.com/taigrr/archipelago/pkg/math3d"
)

// Vertex is a rasterizer input vertex.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    Color
}

// Triangle is three vertices, clockwise when seen from the front.
type Triangle struct {
	V [3]Vertex
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64
	frustum                Frustum
	frustumDirty           bool
	CullingStats           CullingStats
	DisableBackfaceCulling bool
}

// CullingStats counts frustum culling outcomes since the last reset.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
	}
	r.Resize()
	return r
}

// Resize reallocates the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth resets the depth buffer. Call once per frame.
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// InvalidateFrustum marks the frustum stale after a camera move.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// UpdateFrustum recalculates the frustum planes if stale.
func (r *Rasterizer) UpdateFrustum() {
	if r.frustumDirty {
		r.frustum = r.camera.Frustum()
		r.frustumDirty = false
	}
}

// Frustum returns the current frustum.
func (r *Rasterizer) Frustum() Frustum {
	r.UpdateFrustum()
	return r.frustum
}

// ResetCullingStats zeroes the culling counters.
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisible tests a world-space box against the frustum.
func (r *Rasterizer) IsVisible(worldBounds geom.AABB) bool {
	r.UpdateFrustum()
	return r.frustum.IntersectAABB(worldBounds)
}

func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

type screenVertex struct {
	X, Y  float64
	Z     float64
	W     float64
	Color Color
}

// project moves tri to screen space. ok is false when the triangle is
// entirely behind the camera or back-facing.
func (r *Rasterizer) project(tri Triangle) (sv [3]screenVertex, ok bool) {
	viewProj := r.camera.ViewProjectionMatrix()
	allBehind := true

	for i := range 3 {
		clip := viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))
		if clip.W > 0 {
			allBehind = false
		}
		if clip.W != 0 {
			sv[i].X = clip.X / clip.W
			sv[i].Y = clip.Y / clip.W
			sv[i].Z = clip.Z / clip.W
		}
		sv[i].W = clip.W
		sv[i].X = (sv[i].X + 1) * 0.5 * float64(r.Width())
		sv[i].Y = (1 - sv[i].Y) * 0.5 * float64(r.Height())
		sv[i].Color = tri.V[i].Color
	}
	if allBehind {
		return sv, false
	}

	// Screen Y points down, so clockwise front faces give a positive cross.
	ex1, ey1 := sv[1].X-sv[0].X, sv[1].Y-sv[0].Y
	ex2, ey2 := sv[2].X-sv[0].X, sv[2].Y-sv[0].Y
	if ex1*ey2-ey1*ex2 < 0 && !r.DisableBackfaceCulling {
		return sv, false
	}
	return sv, true
}

// fill scan-converts a projected triangle with depth testing and
// interpolated vertex colors.
func (r *Rasterizer) fill(sv [3]screenVertex) {
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc, ok := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				float64(x)+0.5, float64(y)+0.5,
			)
			if !ok || bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z >= r.getDepth(x, y) {
				continue
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc))
		}
	}
}

// DrawTriangle rasterizes a triangle with its vertex colors unlit.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	if sv, ok := r.project(tri); ok {
		r.fill(sv)
	}
}

// DrawTriangleFlat draws a single-color triangle.
func (r *Rasterizer) DrawTriangleFlat(v0, v1, v2 math3d.Vec3, color Color) {
	r.DrawTriangle(Triangle{V: [3]Vertex{
		{Position: v0, Color: color},
		{Position: v1, Color: color},
		{Position: v2, Color: color},
	}})
}

// DrawTriangleLit draws a flat-shaded triangle. lightDir points toward
// the light.
func (r *Rasterizer) DrawTriangleLit(v0, v1, v2 math3d.Vec3, baseColor Color, lightDir math3d.Vec3) {
	normal := v2.Sub(v0).Cross(v1.Sub(v0)).Normalize()
	r.DrawTriangleFlat(v0, v1, v2, Shade(baseColor, lambert(normal, lightDir.Normalize())))
}

// DrawTriangleGouraud lights each vertex and interpolates the result.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle, lightDir math3d.Vec3) {
	l := lightDir.Normalize()
	for i := range 3 {
		tri.V[i].Color = Shade(tri.V[i].Color, lambert(tri.V[i].Normal, l))
	}
	r.DrawTriangle(tri)
}

// DrawQuad draws a clockwise quad as two triangles.
func (r *Rasterizer) DrawQuad(v0, v1, v2, v3 math3d.Vec3, color Color) {
	r.DrawTriangleFlat(v0, v1, v2, color)
	r.DrawTriangleFlat(v0, v2, v3, color)
}

// boxFaces index the corners from boxCorners, clockwise from outside.
var boxFaces = [6][4]int{
	{0, 1, 2, 3}, // back
	{5, 4, 7, 6}, // front
	{4, 0, 3, 7}, // left
	{1, 5, 6, 2}, // right
	{3, 2, 6, 7}, // top
	{4, 5, 1, 0}, // bottom
}

func boxCorners(half math3d.Vec3) [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: -half.X, Y: -half.Y, Z: -half.Z},
		{X: half.X, Y: -half.Y, Z: -half.Z},
		{X: half.X, Y: half.Y, Z: -half.Z},
		{X: -half.X, Y: half.Y, Z: -half.Z},
		{X: -half.X, Y: -half.Y, Z: half.Z},
		{X: half.X, Y: -half.Y, Z: half.Z},
		{X: half.X, Y: half.Y, Z: half.Z},
		{X: -half.X, Y: half.Y, Z: half.Z},
	}
}

// DrawBox draws a lit box of the given size centred on the transform's
// origin. Actors are drawn this way.
func (r *Rasterizer) DrawBox(transform math3d.Mat4, size math3d.Vec3, color Color, lightDir math3d.Vec3) {
	local := boxCorners(size.Scale(0.5))
	var v [8]math3d.Vec3
	for i := range local {
		v[i] = transform.MulVec3(local[i])
	}
	for _, f := range boxFaces {
		r.DrawTriangleLit(v[f[0]], v[f[1]], v[f[2]], color, lightDir)
		r.DrawTriangleLit(v[f[0]], v[f[2]], v[f[3]], color, lightDir)
	}
}

// barycentric returns the weights of (px, py) in the screen triangle.
// ok is false for a zero-area triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) (math3d.Vec3, bool) {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return math3d.Vec3{}, false
	}
	invDenom := 1.0 / denom
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u), true
}

func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	mix := func(a, b, c uint8) uint8 {
		v := float64(a)*bc.X + float64(b)*bc.Y + float64(c)*bc.Z
		return uint8(math3d.Clamp(v+0.5, 0, 255))
	}
	return RGB(mix(c0.R, c1.R, c2.R), mix(c0.G, c1.G, c2.G), mix(c0.B, c1.B, c2.B))
}

// lambert is ambient plus diffuse.
func lambert(normal, light math3d.Vec3) float64 {
	return 0.3 + 0.7*math.Max(0, normal.Dot(light))
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// MeshRenderer is the view of a mesh the rasterizer needs; models.Mesh
// satisfies it.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, rgb [3]float64)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer adds local bounds for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// culled reports whether the mesh's transformed bounds miss the frustum.
// Meshes without bounds are never culled.
func (r *Rasterizer) culled(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++
	lo, hi := bounded.GetBounds()
	if !r.IsVisible(TransformAABB(geom.NewAABB(lo, hi), transform)) {
		r.CullingStats.MeshesCulled++
		return true
	}
	r.CullingStats.MeshesDrawn++
	return false
}

// DrawMesh renders a mesh with its vertex colors and Gouraud lighting.
// The transform must be rigid so normals stay unit length.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, lightDir math3d.Vec3) {
	if r.culled(mesh, transform) {
		return
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var tri Triangle
		for k := range 3 {
			p, n, rgb := mesh.GetVertex(face[k])
			tri.V[k] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   transform.MulVec3Dir(n).Normalize(),
				Color:    FromFloat(rgb),
			}
		}
		r.DrawTriangleGouraud(tri, lightDir)
	}
}

// DrawMeshFlat renders a mesh in a single flat-lit color.
func (r *Rasterizer) DrawMeshFlat(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	if r.culled(mesh, transform) {
		return
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])
		r.DrawTriangleLit(transform.MulVec3(p0), transform.MulVec3(p1), transform.MulVec3(p2), color, lightDir)
	}
}

// DrawMeshWireframe renders mesh edges. Lines ignore the depth buffer.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if r.culled(mesh, transform) {
		return
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		r.drawLine3D(v0, v1, color)
		r.drawLine3D(v1, v2, color)
		r.drawLine3D(v2, v0, color)
	}
}

func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, color Color) {
	viewProj := r.camera.ViewProjectionMatrix()
	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))

	// TODO: clip against the near plane instead of dropping the segment.
	if clipA.W <= 0 || clipB.W <= 0 {
		return
	}

	clipA.X /= clipA.W
	clipA.Y /= clipA.W
	clipB.X /= clipB.W
	clipB.Y /= clipB.W

	x0 := int((clipA.X + 1) * 0.5 * float64(r.Width()))
	y0 := int((1 - clipA.Y) * 0.5 * float64(r.Height()))
	x1 := int((clipB.X + 1) * 0.5 * float64(r.Width()))
	y1 := int((1 - clipB.Y) * 0.5 * float64(r.Height()))

	r.fb.DrawLine(x0, y0, x1, y1, color)
}
