package island

import (
	"math"

	"github.com/taigrr/archipelago/pkg/geom"
	"github.com/taigrr/archipelago/pkg/kdtree"
	"github.com/taigrr/archipelago/pkg/math3d"
)

// Contact describes the nearest touching point of a sphere query.
type Contact struct {
	Point    math3d.Vec3 // closest point on the surface
	Normal   math3d.Vec3 // unit vector from Point towards the sphere center
	Distance float64
	Triangle geom.Triangle
}

// searchRadius widens r so that every triangle with a surface point within
// r of the query center has its centroid inside the search.
func (is *Island) searchRadius(r float64) float64 {
	return r + is.tree.MaxExtent()
}

// CollidesWithSphere reports whether any point of the island surface lies
// within radius of center. Uninitialized islands never collide.
func (is *Island) CollidesWithSphere(center math3d.Vec3, radius float64) bool {
	if !is.initialized || radius < 0 {
		return false
	}
	r2 := radius * radius
	hit := false
	is.tree.Radius(center, is.searchRadius(radius), kdtree.VisitorFunc(func(tri geom.Triangle, _ float64) bool {
		if tri.DistanceSq(center) <= r2 {
			hit = true
			return false
		}
		return true
	}))
	return hit
}

// Contact returns the closest surface point within radius of center.
func (is *Island) Contact(center math3d.Vec3, radius float64) (Contact, bool) {
	if !is.initialized || radius < 0 {
		return Contact{}, false
	}
	bestSq := radius * radius
	var best Contact
	found := false
	is.tree.Radius(center, is.searchRadius(radius), kdtree.VisitorFunc(func(tri geom.Triangle, _ float64) bool {
		p := tri.ClosestPoint(center)
		if d := p.DistanceSq(center); d <= bestSq {
			bestSq = d
			best = Contact{Point: p, Triangle: tri}
			found = true
		}
		return true
	}))
	if !found {
		return Contact{}, false
	}

	best.Distance = math.Sqrt(bestSq)
	best.Normal = center.Sub(best.Point).Normalize()
	if best.Normal == math3d.Zero3() {
		// Center on the surface: use the face normal, pointing up.
		best.Normal = best.Triangle.Normal()
		if best.Normal.Y < 0 {
			best.Normal = best.Normal.Negate()
		}
	}
	return best, true
}

// GroundHeight returns the terrain height under position.
//
// It returns the top of the dome on the vertical line through (x, z), so
// an actor that has sunk into the island is lifted onto its surface. The
// dome is single-valued over any column, so a covering triangle among the
// GroundSamples nearest is the answer; otherwise the whole column is
// searched. The flat base disc closing the island from below only counts
// when no dome triangle covers (x, z). When nothing lies over (x, z) the
// highest vertex of the nearest triangle stands in. radius only widens the
// manager's footprint test.
func (is *Island) GroundHeight(position math3d.Vec3, _ float64) (float64, error) {
	if !is.initialized {
		return 0, ErrUninitialized
	}
	hits := is.tree.KNearest(position, is.params.GroundSamples)
	if len(hits) == 0 {
		return 0, ErrNoGround
	}

	dome, base := math.Inf(-1), math.Inf(-1)
	sample := func(tri geom.Triangle) {
		y, ok := tri.HeightAt(position.X, position.Z)
		switch {
		case !ok:
		case is.onBase(tri):
			base = max(base, y)
		default:
			dome = max(dome, y)
		}
	}
	for _, h := range hits {
		sample(h.Triangle)
	}
	if !math.IsInf(dome, -1) {
		return dome, nil
	}

	// Search the column from the bottom to the top of the mesh.
	bottom := math3d.V3(position.X, is.bounds.Min.Y, position.Z)
	top := math3d.V3(position.X, is.bounds.Max.Y, position.Z)
	is.tree.Radius(bottom.Lerp(top, 0.5), is.searchRadius((top.Y-bottom.Y)/2), kdtree.VisitorFunc(func(tri geom.Triangle, _ float64) bool {
		sample(tri)
		return true
	}))
	switch {
	case !math.IsInf(dome, -1):
		return dome, nil
	case !math.IsInf(base, -1):
		return base, nil
	}
	return hits[0].Triangle.TopVertex().Y, nil
}

// onBase reports whether tri belongs to the flat disc at the island's base.
func (is *Island) onBase(tri geom.Triangle) bool {
	const eps = 1e-9
	y := is.Position.Y + eps
	return tri.V1.Y <= y && tri.V2.Y <= y && tri.V3.Y <= y
}

// LineOfSightBlocked reports whether the open segment from→to passes
// through the island surface.
func (is *Island) LineOfSightBlocked(from, to math3d.Vec3) bool {
	if !is.initialized || from == to {
		return false
	}
	mid := from.Lerp(to, 0.5)
	half := from.Distance(to) / 2

	blocked := false
	is.tree.Radius(mid, is.searchRadius(half), kdtree.VisitorFunc(func(tri geom.Triangle, _ float64) bool {
		if geom.SegmentIntersectsTriangle(from, to, tri) {
			blocked = true
			return false
		}
		return true
	}))
	return blocked
}

// NearestTriangles returns the k triangles whose centroids are nearest to
// point, closest first.
func (is *Island) NearestTriangles(point math3d.Vec3, k int) []geom.Triangle {
	if !is.initialized {
		return nil
	}
	hits := is.tree.KNearest(point, k)
	tris := make([]geom.Triangle, len(hits))
	for i, h := range hits {
		tris[i] = h.Triangle
	}
	return tris
}
