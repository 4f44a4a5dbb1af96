package actor

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/taigrr/archipelago/pkg/island"
	"github.com/taigrr/archipelago/pkg/logging"
	"github.com/taigrr/archipelago/pkg/math3d"
)

// Body is a wandering creature that turns toward a target, walks to it
// when it is in range, falls under gravity and stands on the ground.
type Body struct {
	Position  math3d.Vec3
	Yaw       float64
	YVelocity float64
	Grounded  bool

	Speed         float64
	Radius        float64
	RotationSpeed float64
	Gravity       float64
	MinRange      float64 // stop closer than this
	MaxRange      float64 // ignore targets beyond this
}

// NewBody creates a body at pos with the stock tuning.
func NewBody(pos math3d.Vec3) *Body {
	return &Body{
		Position:      pos,
		Speed:         0.2,
		Radius:        0.3,
		RotationSpeed: 0.05,
		Gravity:       0.01,
		MinRange:      2.5,
		MaxRange:      15,
	}
}

// Forward returns the unit heading on the XZ plane.
func (b *Body) Forward() math3d.Vec3 {
	return math3d.V3(math.Sin(b.Yaw), 0, math.Cos(b.Yaw))
}

// Update runs one frame: turn toward target, step when in range, then
// snap to the ground or fall. The body never sinks below floor.
func (b *Body) Update(world World, target math3d.Vec3, floor float64) {
	dx := target.X - b.Position.X
	dz := target.Z - b.Position.Z

	want := math.Atan2(dx, dz)
	delta := math3d.WrapAngle(want - b.Yaw)
	if math.Abs(delta) < b.RotationSpeed {
		b.Yaw = want
	} else {
		b.Yaw = math3d.WrapAngle(b.Yaw + math.Copysign(b.RotationSpeed, delta))
	}

	if dist := math.Hypot(dx, dz); dist > b.MinRange && dist < b.MaxRange {
		wobble := math.Sin(b.Position.X+b.Position.Z+b.Yaw*4) * 0.1
		b.Position = b.Position.Add(b.Forward().Scale(b.Speed + wobble))
	}

	b.Grounded = world != nil && world.CollidesAny(b.Position, b.Radius)
	if b.Grounded {
		b.YVelocity = 0
		b.Position.Y = world.GroundHeightAt(b.Position, b.Radius)
		return
	}

	b.YVelocity -= b.Gravity
	b.Position.Y += b.YVelocity
	if b.Position.Y <= floor {
		b.Position.Y = floor
		b.YVelocity = 0
	}
}

// Transform places the body model.
func (b *Body) Transform() math3d.Mat4 {
	return math3d.Translate(b.Position).Mul(math3d.RotateY(b.Yaw))
}

// Crowd is the set of bodies living on the current islands.
type Crowd struct {
	Bodies []*Body

	Limit       int     // total bodies
	PerIsland   int     // at most this many per island, at least one
	SpawnSpread float64 // spawn within this fraction of the island radius
	SpawnHeight float64 // bodies drop in from here
	Floor       float64
}

// NewCrowd creates an empty crowd with the stock spawn settings.
func NewCrowd(floor float64) *Crowd {
	return &Crowd{
		Limit:       64,
		PerIsland:   10,
		SpawnSpread: 0.45,
		SpawnHeight: 20,
		Floor:       floor,
	}
}

// Spawn replaces the crowd with a fresh set dropped over every island in
// m, drawing counts and spots from rng.
func (c *Crowd) Spawn(rng *rand.Rand, m *island.Manager) {
	c.Bodies = c.Bodies[:0]
	per := max(c.PerIsland, 1)
	for _, is := range m.All() {
		if !is.Initialized() {
			continue
		}
		n := rng.Intn(per) + 1
		for range n {
			if len(c.Bodies) >= c.Limit {
				break
			}
			angle := rng.Float64() * 2 * math.Pi
			dist := rng.Float64() * is.BaseRadius * c.SpawnSpread
			c.Bodies = append(c.Bodies, NewBody(math3d.V3(
				is.Position.X+math.Cos(angle)*dist,
				c.SpawnHeight,
				is.Position.Z+math.Sin(angle)*dist,
			)))
		}
	}
	logging.Debug("bodies spawned", "count", len(c.Bodies), "islands", m.Count())
}

// Update steps every body toward target.
func (c *Crowd) Update(world World, target math3d.Vec3) {
	for _, b := range c.Bodies {
		b.Update(world, target, c.Floor)
	}
}
