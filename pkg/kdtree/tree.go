// Package kdtree indexes triangles by their centroids in an
// insertion-order k-d tree.
//
// The tree is not self-balancing: the first triangle routed to a node fixes
// that node's split value for good, so the shape depends on insertion order.
// Queries and inserts walk the tree iteratively.
package kdtree

import (
	"iter"
	"math"

	"github.com/taigrr/archipelago/pkg/geom"
	"github.com/taigrr/archipelago/pkg/math3d"
)

// MaxTrianglesPerNode is the bucket size of a node.
const MaxTrianglesPerNode = 3

type node struct {
	tris    [MaxTrianglesPerNode]geom.Triangle
	centers [MaxTrianglesPerNode]math3d.Vec3
	count   int

	axis  int
	split float64

	left  *node
	right *node
}

// Tree is a k-d tree of triangles. The zero value is an empty tree ready
// for use.
type Tree struct {
	root      *node
	size      int
	height    int
	nodes     int
	maxExtent float64
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// Insert adds a triangle. The axis at depth d is d mod 3 and the routing
// value is the centroid component on that axis: a full node sends values
// below its split left and everything else right.
func (t *Tree) Insert(tri geom.Triangle) {
	c := tri.Centroid()
	link := &t.root
	depth := 0
	for {
		axis := depth % 3
		value := c.Component(axis)
		n := *link
		if n == nil {
			n = &node{axis: axis, split: value}
			n.tris[0] = tri
			n.centers[0] = c
			n.count = 1
			*link = n
			t.nodes++
			break
		}
		if n.count < MaxTrianglesPerNode {
			n.tris[n.count] = tri
			n.centers[n.count] = c
			n.count++
			break
		}
		if value < n.split {
			link = &n.left
		} else {
			link = &n.right
		}
		depth++
	}

	t.size++
	t.height = max(t.height, depth+1)
	t.maxExtent = math.Max(t.maxExtent, tri.Extent())
}

// Len returns the number of triangles in the tree.
func (t *Tree) Len() int {
	return t.size
}

// Nodes returns the number of allocated nodes.
func (t *Tree) Nodes() int {
	return t.nodes
}

// Height returns the depth of the deepest node (0 for an empty tree).
func (t *Tree) Height() int {
	return t.height
}

// MaxExtent returns the largest centroid-to-vertex distance of any inserted
// triangle. Adding it to a query radius turns a centroid search into a
// complete candidate set for surface-distance tests.
func (t *Tree) MaxExtent() float64 {
	return t.maxExtent
}

// Reset drops every node and returns the tree to its empty state.
func (t *Tree) Reset() {
	*t = Tree{}
}

// All yields every triangle in pre-order.
func (t *Tree) All() iter.Seq[geom.Triangle] {
	return func(yield func(geom.Triangle) bool) {
		if t.root == nil {
			return
		}
		stack := make([]*node, 0, t.height)
		stack = append(stack, t.root)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for i := range n.count {
				if !yield(n.tris[i]) {
					return
				}
			}
			if n.right != nil {
				stack = append(stack, n.right)
			}
			if n.left != nil {
				stack = append(stack, n.left)
			}
		}
	}
}
