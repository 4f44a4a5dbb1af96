// Package actor holds the things that move over the archipelago: the
// ocean surface, the player's boat and the wandering bodies.
package actor

import (
	"math"

	"github.com/taigrr/archipelago/pkg/math3d"
	"github.com/taigrr/archipelago/pkg/models"
)

const (
	WaveFrequency = 0.3
	WaveAmplitude = 0.5
	WaveSpeed     = 0.2 // time added per step

	// Time wraps after this many wave periods.
	wavePeriods = 5
)

// WaveHeight is the ocean's displacement at (x, z) and time t.
func WaveHeight(x, z, t float64) float64 {
	return math.Sin((x+t)*WaveFrequency)*WaveAmplitude +
		math.Cos((z+t)*WaveFrequency)*WaveAmplitude
}

// Water is a square animated ocean grid centred on the origin.
type Water struct {
	Size  int     // cells per side
	Level float64 // rest height of the surface
	Time  float64

	mesh *models.Mesh
}

// NewWater creates a size×size cell ocean at level.
func NewWater(size int, level float64) *Water {
	if size < 1 {
		size = 1
	}
	w := &Water{Size: size, Level: level}
	w.build()
	return w
}

// HeightAt returns the surface height at (x, z).
func (w *Water) HeightAt(x, z float64) float64 {
	return w.Level + WaveHeight(x, z, w.Time)
}

// Step advances the waves by one frame and refreshes the mesh.
func (w *Water) Step() {
	w.Time += WaveSpeed
	if wrap := wavePeriods * 2 * math.Pi / WaveFrequency; w.Time >= wrap {
		w.Time -= wrap
	}
	w.update()
}

// Mesh returns the current surface. It is rewritten in place by Step.
func (w *Water) Mesh() *models.Mesh {
	return w.mesh
}

func (w *Water) build() {
	m := models.NewMesh("water")
	half := float64(w.Size) / 2
	for i := range w.Size {
		for j := range w.Size {
			x0, z0 := float64(i)-half, float64(j)-half
			var idx [4]int
			for k, c := range [4][2]float64{{x0, z0}, {x0 + 1, z0}, {x0 + 1, z0 + 1}, {x0, z0 + 1}} {
				idx[k] = m.AddVertex(math3d.V3(c[0], 0, c[1]), [3]float64{})
			}
			m.AddQuad(idx[0], idx[1], idx[2], idx[3])
		}
	}
	w.mesh = m
	w.update()
}

// update moves every vertex onto the wave and colours each cell by its
// mean height, with a slow tint drift over time.
func (w *Water) update() {
	shift := math.Sin(w.Time * 0.1)
	vs := w.mesh.Vertices
	for q := 0; q+3 < len(vs); q += 4 {
		var mean float64
		for k := range 4 {
			p := &vs[q+k].Position
			h := WaveHeight(p.X, p.Z, w.Time)
			p.Y = w.Level + h
			mean += h / 4
		}
		rgb := waterColor(mean, shift)
		for k := range 4 {
			vs[q+k].Color = rgb
		}
	}
	w.mesh.CalculateNormals()
	w.mesh.CalculateBounds()
}

func waterColor(h, shift float64) [3]float64 {
	rgb := [3]float64{0, 0, 0.7}
	if h > -1 {
		rgb = [3]float64{0.05 + 0.2*h, 0.1 + 0.2*h, 0.8 + 0.2*h}
	}
	rgb[0] += 0.1 * shift
	rgb[1] += 0.05 * shift
	rgb[2] += 0.1 * shift
	for i := range rgb {
		rgb[i] = math3d.Clamp(rgb[i], 0, 1)
	}
	return rgb
}
