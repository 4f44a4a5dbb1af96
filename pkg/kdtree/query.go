package kdtree

import (
	"math"

	"github.com/taigrr/archipelago/pkg/geom"
	"github.com/taigrr/archipelago/pkg/math3d"
)

// Visitor receives query results. distSq is the squared distance from the
// query point to the triangle's centroid. Returning false stops the query.
type Visitor interface {
	Visit(tri geom.Triangle, distSq float64) bool
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(tri geom.Triangle, distSq float64) bool

// Visit calls f.
func (f VisitorFunc) Visit(tri geom.Triangle, distSq float64) bool {
	return f(tri, distSq)
}

// Hit is one query result.
type Hit struct {
	Triangle geom.Triangle
	DistSq   float64
}

// Radius visits every triangle whose centroid lies within radius of point,
// boundary included. The near child of each node is always searched; the
// far child only when the query sphere reaches the split plane. Visit order
// is unspecified.
func (t *Tree) Radius(point math3d.Vec3, radius float64, v Visitor) {
	if t.root == nil || radius < 0 || v == nil {
		return
	}
	r2 := radius * radius

	stack := make([]*node, 0, t.height)
	stack = append(stack, t.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := range n.count {
			if d := n.centers[i].DistanceSq(point); d <= r2 {
				if !v.Visit(n.tris[i], d) {
					return
				}
			}
		}

		a := point.Component(n.axis)
		near, far := n.left, n.right
		if a >= n.split {
			near, far = n.right, n.left
		}
		if far != nil && math.Abs(a-n.split) <= radius {
			stack = append(stack, far)
		}
		if near != nil {
			stack = append(stack, near)
		}
	}
}

// Nearest finds the k triangles whose centroids are closest to point and
// visits them in ascending distance order. Ties keep discovery order.
func (t *Tree) Nearest(point math3d.Vec3, k int, v Visitor) {
	if v == nil {
		return
	}
	for _, h := range t.nearest(point, k) {
		if !v.Visit(h.Triangle, h.DistSq) {
			return
		}
	}
}

// Within returns every triangle whose centroid is within radius of point.
func (t *Tree) Within(point math3d.Vec3, radius float64) []Hit {
	var hits []Hit
	t.Radius(point, radius, VisitorFunc(func(tri geom.Triangle, d float64) bool {
		hits = append(hits, Hit{Triangle: tri, DistSq: d})
		return true
	}))
	return hits
}

// KNearest returns up to k triangles nearest to point, closest first.
func (t *Tree) KNearest(point math3d.Vec3, k int) []Hit {
	return t.nearest(point, k)
}

type pending struct {
	n *node
	// bound is a lower bound on the squared distance from the query point
	// to any centroid under n.
	bound float64
}

func (t *Tree) nearest(point math3d.Vec3, k int) []Hit {
	if t.root == nil || k <= 0 {
		return nil
	}
	best := make([]Hit, 0, min(k, t.size))

	stack := make([]pending, 0, 2*t.height)
	stack = append(stack, pending{n: t.root})
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(best) == k && p.bound >= best[k-1].DistSq {
			continue
		}

		n := p.n
		for i := range n.count {
			best = insertBest(best, k, Hit{Triangle: n.tris[i], DistSq: n.centers[i].DistanceSq(point)})
		}

		diff := point.Component(n.axis) - n.split
		near, far := n.left, n.right
		if diff >= 0 {
			near, far = n.right, n.left
		}
		if far != nil {
			stack = append(stack, pending{n: far, bound: math.Max(p.bound, diff*diff)})
		}
		if near != nil {
			stack = append(stack, pending{n: near, bound: p.bound})
		}
	}
	return best
}

// insertBest keeps best sorted by distance and at most k long.
func insertBest(best []Hit, k int, h Hit) []Hit {
	if len(best) == k {
		if h.DistSq >= best[k-1].DistSq {
			return best
		}
		best = best[:k-1]
	}
	i := len(best)
	best = append(best, h)
	for i > 0 && best[i-1].DistSq > h.DistSq {
		best[i] = best[i-1]
		i--
	}
	best[i] = h
	return best
}
