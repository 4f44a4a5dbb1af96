package geom

import (
	"math"

	"github.com/taigrr/archipelago/pkg/math3d"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that any Extend call replaces.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: math3d.V3(inf, inf, inf),
		Max: math3d.V3(-inf, -inf, -inf),
	}
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to include p.
func (b AABB) Extend(p math3d.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the box containing both boxes.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Expand grows the box by margin on every side.
func (b AABB) Expand(margin float64) AABB {
	m := math3d.V3(margin, margin, margin)
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// DistanceSq returns the squared distance from p to the box (0 inside).
func (b AABB) DistanceSq(p math3d.Vec3) float64 {
	q := math3d.V3(
		math3d.Clamp(p.X, b.Min.X, b.Max.X),
		math3d.Clamp(p.Y, b.Min.Y, b.Max.Y),
		math3d.Clamp(p.Z, b.Min.Z, b.Max.Z),
	)
	return q.DistanceSq(p)
}

// IntersectsSphere reports whether a sphere touches the box.
func (b AABB) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	return b.DistanceSq(center) <= radius*radius
}

// IntersectsSegment runs a slab test for the closed segment from a to b.
func (b AABB) IntersectsSegment(a, c math3d.Vec3) bool {
	d := c.Sub(a)
	tMin, tMax := 0.0, 1.0
	for axis := range 3 {
		o := a.Component(axis)
		dir := d.Component(axis)
		lo := b.Min.Component(axis)
		hi := b.Max.Component(axis)
		if math.Abs(dir) < 1e-12 {
			if o < lo || o > hi {
				return false
			}
			continue
		}
		t1 := (lo - o) / dir
		t2 := (hi - o) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}
