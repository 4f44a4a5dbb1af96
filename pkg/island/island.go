// Package island owns generated islands and answers collision, ground and
// line-of-sight queries against their meshes.
package island

import (
	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/taigrr/archipelago/pkg/geom"
	"github.com/taigrr/archipelago/pkg/kdtree"
	"github.com/taigrr/archipelago/pkg/logging"
	"github.com/taigrr/archipelago/pkg/math3d"
	"github.com/taigrr/archipelago/pkg/terrain"
)

// Params configures a single island.
type Params struct {
	Terrain terrain.Params
	// GroundSamples is the number of nearest triangles GroundHeight
	// inspects.
	GroundSamples int
}

// DefaultParams returns the stock island parameters.
func DefaultParams() Params {
	return Params{
		Terrain:       terrain.DefaultParams(),
		GroundSamples: 8,
	}
}

// Island is one generated island. It is created empty, populated by
// Initialize and emptied again by Release.
type Island struct {
	ID         uuid.UUID
	Position   math3d.Vec3 // center of the base disc
	BaseRadius float64
	Style      terrain.ColorStyle
	Archetype  terrain.Archetype
	Curve      terrain.ControlCurve
	Vertices   []terrain.Vertex // quads of four

	params      Params
	seed        uint64
	tree        kdtree.Tree
	bounds      geom.AABB
	initialized bool
}

// New creates an uninitialized island. All randomness in Initialize is
// drawn from seed.
func New(position math3d.Vec3, seed uint64, params Params) *Island {
	if params.GroundSamples <= 0 {
		params.GroundSamples = DefaultParams().GroundSamples
	}
	return &Island{
		ID:       uuid.New(),
		Position: position,
		params:   params,
		seed:     seed,
		bounds:   geom.EmptyAABB(),
	}
}

// Seed returns the island's generation seed.
func (is *Island) Seed() uint64 {
	return is.seed
}

// Initialized reports whether the island holds a mesh.
func (is *Island) Initialized() bool {
	return is.initialized
}

// Initialize generates the island's shape, mesh and triangle index. It is
// a no-op returning false when the island is already initialized.
func (is *Island) Initialize(baseRadius float64) bool {
	if is.initialized {
		return false
	}

	rng := rand.New(rand.NewSource(is.seed))
	is.BaseRadius = baseRadius
	is.Style = terrain.ColorStyle(rng.Intn(terrain.StyleCount))
	is.Archetype, is.Curve = terrain.Generate(rng, baseRadius, is.params.Terrain)

	is.tree.Reset()
	is.bounds = geom.EmptyAABB()
	is.Vertices = terrain.Tessellate(is.Curve, is.Position, is.Style, is.params.Terrain, func(tri geom.Triangle) {
		is.tree.Insert(tri)
		is.bounds = is.bounds.Extend(tri.V1).Extend(tri.V2).Extend(tri.V3)
	})
	is.initialized = true

	logging.Debug("island initialized",
		"id", is.ID,
		"seed", is.seed,
		"archetype", is.Archetype,
		"style", is.Style,
		"radius", baseRadius,
		"triangles", is.tree.Len(),
		"treeHeight", is.tree.Height(),
	)
	return true
}

// Release drops the mesh and index. Safe to call repeatedly.
func (is *Island) Release() {
	if !is.initialized {
		return
	}
	is.tree.Reset()
	is.Vertices = nil
	is.Curve = terrain.ControlCurve{}
	is.bounds = geom.EmptyAABB()
	is.initialized = false
}

// Bounds returns the mesh's bounding box (empty when uninitialized).
func (is *Island) Bounds() geom.AABB {
	return is.bounds
}

// TriangleCount returns the number of indexed triangles.
func (is *Island) TriangleCount() int {
	return is.tree.Len()
}

// TreeHeight returns the depth of the triangle index.
func (is *Island) TreeHeight() int {
	return is.tree.Height()
}

// Triangles returns every indexed triangle.
func (is *Island) Triangles() []geom.Triangle {
	tris := make([]geom.Triangle, 0, is.tree.Len())
	for tri := range is.tree.All() {
		tris = append(tris, tri)
	}
	return tris
}
