// Package geom holds the triangle, ray and bounding-box primitives used by
// the island collision queries.
package geom

import (
	"math"

	"github.com/taigrr/archipelago/pkg/math3d"
)

// Triangle is a triangle in world space. It is stored by value in the
// spatial index and carries no reference back to its mesh.
type Triangle struct {
	V1, V2, V3 math3d.Vec3
}

// Tri creates a Triangle from three vertices.
func Tri(v1, v2, v3 math3d.Vec3) Triangle {
	return Triangle{V1: v1, V2: v2, V3: v3}
}

// Centroid returns the average of the three vertices.
func (t Triangle) Centroid() math3d.Vec3 {
	return math3d.V3(
		(t.V1.X+t.V2.X+t.V3.X)/3,
		(t.V1.Y+t.V2.Y+t.V3.Y)/3,
		(t.V1.Z+t.V2.Z+t.V3.Z)/3,
	)
}

// Normal returns the unit face normal using V1→V2→V3 winding.
// Degenerate triangles return the zero vector.
func (t Triangle) Normal() math3d.Vec3 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Normalize()
}

// Extent returns the largest distance from the centroid to a vertex.
func (t Triangle) Extent() float64 {
	c := t.Centroid()
	return math.Sqrt(max(c.DistanceSq(t.V1), c.DistanceSq(t.V2), c.DistanceSq(t.V3)))
}

// Degenerate reports whether the triangle has (numerically) zero area.
func (t Triangle) Degenerate() bool {
	ab := t.V2.Sub(t.V1)
	ac := t.V3.Sub(t.V1)
	return ab.Cross(ac).LenSq() <= 1e-12*ab.LenSq()*ac.LenSq()
}

// Bounds returns the axis-aligned box around the triangle.
func (t Triangle) Bounds() AABB {
	return AABB{
		Min: t.V1.Min(t.V2).Min(t.V3),
		Max: t.V1.Max(t.V2).Max(t.V3),
	}
}

// ClosestPoint returns the point on the triangle nearest to p.
//
// It classifies p against the Voronoi regions of the vertices, edges and
// face (Ericson, Real-Time Collision Detection 5.1.5). Zero-area triangles
// collapse to their edges.
func (t Triangle) ClosestPoint(p math3d.Vec3) math3d.Vec3 {
	a, b, c := t.V1, t.V2, t.V3
	if t.Degenerate() {
		return closestOnEdges(p, a, b, c)
	}

	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Scale(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Scale(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Scale(w))
	}

	// Inside the face
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Scale(v)).Add(ac.Scale(w))
}

// DistanceSq returns the squared distance from p to the triangle surface.
func (t Triangle) DistanceSq(p math3d.Vec3) float64 {
	return t.ClosestPoint(p).DistanceSq(p)
}

// HeightAt intersects the vertical line through (x, z) with the triangle
// and returns the surface height there. ok is false when the line misses
// or the triangle is vertical.
func (t Triangle) HeightAt(x, z float64) (y float64, ok bool) {
	a, b, c := t.V1, t.V2, t.V3
	denom := (b.Z-c.Z)*(a.X-c.X) + (c.X-b.X)*(a.Z-c.Z)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	l1 := ((b.Z-c.Z)*(x-c.X) + (c.X-b.X)*(z-c.Z)) / denom
	l2 := ((c.Z-a.Z)*(x-c.X) + (a.X-c.X)*(z-c.Z)) / denom
	l3 := 1 - l1 - l2

	const slack = -1e-9
	if l1 < slack || l2 < slack || l3 < slack {
		return 0, false
	}
	return l1*a.Y + l2*b.Y + l3*c.Y, true
}

// TopVertex returns the vertex with the greatest Y.
func (t Triangle) TopVertex() math3d.Vec3 {
	top := t.V1
	if t.V2.Y > top.Y {
		top = t.V2
	}
	if t.V3.Y > top.Y {
		top = t.V3
	}
	return top
}

func closestOnEdges(p, a, b, c math3d.Vec3) math3d.Vec3 {
	best := ClosestOnSegment(p, a, b)
	bestD := best.DistanceSq(p)
	for _, e := range [2][2]math3d.Vec3{{b, c}, {c, a}} {
		q := ClosestOnSegment(p, e[0], e[1])
		if d := q.DistanceSq(p); d < bestD {
			best, bestD = q, d
		}
	}
	return best
}

// ClosestOnSegment returns the point on segment ab nearest to p.
func ClosestOnSegment(p, a, b math3d.Vec3) math3d.Vec3 {
	ab := b.Sub(a)
	l := ab.LenSq()
	if l == 0 {
		return a
	}
	t := math3d.Clamp(p.Sub(a).Dot(ab)/l, 0, 1)
	return a.Add(ab.Scale(t))
}
