package actor

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/archipelago/pkg/math3d"
)

// World is the terrain an actor moves over. island.Manager satisfies it.
type World interface {
	CollidesAny(position math3d.Vec3, radius float64) bool
	GroundHeightAt(position math3d.Vec3, radius float64) float64
}

// Input is one frame of steering.
type Input struct {
	Forward, Back, Left, Right bool
}

// Boat is the player's vessel. It rides the water surface and refuses
// moves that would put it into an island.
type Boat struct {
	Position math3d.Vec3
	Yaw      float64

	Speed    float64 // distance per step
	TurnRate float64 // radians per step at full turn
	Radius   float64 // collision sphere
	Size     math3d.Vec3

	turn    float64
	turnVel float64
	spring  harmonica.Spring
}

// NewBoat creates a boat at pos for an update rate of fps.
func NewBoat(pos math3d.Vec3, fps int) *Boat {
	return &Boat{
		Position: pos,
		Speed:    0.2,
		TurnRate: 0.05,
		Radius:   0.6,
		Size:     math3d.V3(0.5, 0.3, 1.5),
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
	}
}

// Forward returns the unit heading on the XZ plane.
func (b *Boat) Forward() math3d.Vec3 {
	return math3d.V3(-math.Sin(b.Yaw), 0, math.Cos(b.Yaw))
}

// Update applies one frame of input. It reports whether the boat was
// blocked by terrain. world may be nil.
func (b *Boat) Update(in Input, world World, water *Water) (blocked bool) {
	var target float64
	if in.Left {
		target -= b.TurnRate
	}
	if in.Right {
		target += b.TurnRate
	}
	b.turn, b.turnVel = b.spring.Update(b.turn, b.turnVel, target)
	b.Yaw = math3d.WrapAngle(b.Yaw + b.turn)

	var step float64
	if in.Forward {
		step += b.Speed
	}
	if in.Back {
		step -= b.Speed
	}
	if step != 0 {
		next := b.Position.Add(b.Forward().Scale(step))
		if water != nil {
			next.Y = b.rideHeight(water, next)
		}
		if world != nil && world.CollidesAny(next, b.Radius) {
			blocked = true
		} else {
			b.Position.X, b.Position.Z = next.X, next.Z
		}
	}

	if water != nil {
		b.Position.Y = b.rideHeight(water, b.Position)
	}
	return blocked
}

func (b *Boat) rideHeight(water *Water, p math3d.Vec3) float64 {
	return water.HeightAt(p.X, p.Z) + b.Size.Y/2
}

// Transform places the hull model, whose length runs along +Z.
func (b *Boat) Transform() math3d.Mat4 {
	return math3d.Translate(b.Position).Mul(math3d.RotateY(-b.Yaw))
}
