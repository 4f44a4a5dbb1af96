package geom

import (
	"math"

	"github.com/taigrr/archipelago/pkg/math3d"
)

// rayEpsilon rejects near-parallel rays and self hits at the origin.
const rayEpsilon = 1e-9

// Ray is a half-line Origin + t·Dir, t ≥ 0. Dir need not be unit length;
// t is measured in multiples of Dir.
type Ray struct {
	Origin math3d.Vec3
	Dir    math3d.Vec3
}

// RayBetween returns the ray from a towards b with Dir = b - a, so that
// t = 1 lands exactly on b.
func RayBetween(a, b math3d.Vec3) Ray {
	return Ray{Origin: a, Dir: b.Sub(a)}
}

// At returns the point Origin + t·Dir.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// IntersectTriangle runs the Möller–Trumbore test and returns the ray
// parameter of the hit. Both faces count as hits.
func (r Ray) IntersectTriangle(tri Triangle) (t float64, hit bool) {
	e1 := tri.V2.Sub(tri.V1)
	e2 := tri.V3.Sub(tri.V1)

	h := r.Dir.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < rayEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(tri.V1)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := inv * r.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = inv * e2.Dot(q)
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}

// SegmentIntersectsTriangle reports whether the open segment (a, b)
// crosses the triangle.
func SegmentIntersectsTriangle(a, b math3d.Vec3, tri Triangle) bool {
	t, hit := RayBetween(a, b).IntersectTriangle(tri)
	return hit && t < 1
}
