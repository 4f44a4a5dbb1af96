// Package game ties the islands, the ocean and the actors into one world
// that the front-ends step and draw.
package game

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/taigrr/archipelago/pkg/actor"
	"github.com/taigrr/archipelago/pkg/config"
	"github.com/taigrr/archipelago/pkg/island"
	"github.com/taigrr/archipelago/pkg/logging"
	"github.com/taigrr/archipelago/pkg/math3d"
	"github.com/taigrr/archipelago/pkg/models"
)

// World is everything that exists in one session. It is driven from a
// single goroutine.
type World struct {
	Config  config.Config
	Islands *island.Manager
	Water   *actor.Water
	Boat    *actor.Boat
	Crowd   *actor.Crowd

	// Generation counts regenerations, starting at 1 after NewWorld.
	Generation int

	rng    *rand.Rand
	meshes []*models.Mesh
}

// NewWorld builds and populates a world from cfg.
func NewWorld(cfg config.Config) *World {
	w := &World{}
	w.Apply(cfg)
	return w
}

// Apply replaces the settings and regenerates from scratch. The island
// sequence restarts from cfg's seed.
func (w *World) Apply(cfg config.Config) {
	w.Config = cfg
	w.Islands = island.NewManager(cfg.IslandOptions())
	w.rng = rand.New(rand.NewSource(w.Islands.Seed() + 1))
	w.Water = actor.NewWater(cfg.Play.WaterSize, cfg.Play.WaterLevel)
	w.Boat = actor.NewBoat(math3d.Zero3(), cfg.Play.FPS)
	w.Crowd = actor.NewCrowd(cfg.World.BaseY)
	w.Crowd.Limit = cfg.Play.Bodies
	w.Crowd.PerIsland = cfg.Play.BodiesPerIsland
	w.Generation = 0
	w.Regenerate()
}

// Regenerate places a new set of islands, rebuilds their meshes, drops a
// fresh crowd and moves the boat to open water.
func (w *World) Regenerate() []island.Placement {
	placements := w.Islands.Regenerate()
	w.Generation++

	w.meshes = w.meshes[:0]
	for _, is := range w.Islands.All() {
		w.meshes = append(w.meshes, is.Mesh())
	}
	w.Crowd.Spawn(w.rng, w.Islands)

	w.Boat.Position = w.spawnPoint()
	w.Boat.Yaw = 0
	w.Boat.Update(actor.Input{}, w.Islands, w.Water)

	logging.Info("world generated",
		"generation", w.Generation,
		"seed", w.Islands.Seed(),
		"islands", w.Islands.Count(),
		"bodies", len(w.Crowd.Bodies),
	)
	return placements
}

// spawnPoint walks out from the origin along -Z until the boat is clear
// of every island.
func (w *World) spawnPoint() math3d.Vec3 {
	level := w.Water.Level
	limit := w.Extent() * 2
	for d := 0.0; d < limit; d += 0.5 {
		p := math3d.V3(0, level, -d)
		if !w.Islands.CollidesAny(p, w.Boat.Radius) {
			return p
		}
	}
	return math3d.V3(0, level, -limit)
}

// Extent is the half-width of the square that holds every island.
func (w *World) Extent() float64 {
	c := w.Config
	return c.World.PlayArea + c.World.MaxRadius*c.Terrain.MaxRadiusScale
}

// Meshes returns the island meshes in slot order.
func (w *World) Meshes() []*models.Mesh {
	return w.meshes
}

// Step advances one frame: waves, boat, then bodies chasing the boat. It
// reports whether the boat ran aground.
func (w *World) Step(in actor.Input) bool {
	w.Water.Step()
	blocked := w.Boat.Update(in, w.Islands, w.Water)
	w.Crowd.Update(w.Islands, w.Boat.Position)
	return blocked
}

// SightBlocked reports whether terrain hides the boat from eye.
func (w *World) SightBlocked(eye math3d.Vec3) bool {
	return w.Islands.LineOfSightBlocked(eye, w.Boat.Position)
}

// Grounded counts the bodies currently standing on an island.
func (w *World) Grounded() int {
	n := 0
	for _, b := range w.Crowd.Bodies {
		if b.Grounded {
			n++
		}
	}
	return n
}

// Heading returns the boat's compass heading in degrees, [0, 360).
func (w *World) Heading() float64 {
	deg := math.Mod(w.Boat.Yaw*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
