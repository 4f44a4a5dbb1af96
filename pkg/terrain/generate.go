package terrain

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/taigrr/archipelago/pkg/math3d"
)

// Archetype selects the height profile of an island.
type Archetype int

const (
	// Normal slopes evenly from the peak angle down to the far side.
	Normal Archetype = iota
	// Peaked concentrates height in a narrow band around the peak angle.
	Peaked
	// Flat is a plateau that drops off away from the peak.
	Flat
	// Crater rises halfway round and is low at both the peak and its opposite.
	Crater

	archetypeCount
)

var archetypeNames = [...]string{"normal", "peaked", "flat", "crater"}

func (a Archetype) String() string {
	if a < 0 || a >= archetypeCount {
		return fmt.Sprintf("Archetype(%d)", int(a))
	}
	return archetypeNames[a]
}

// Profile returns the archetype's height at normalised angular distance t
// in [0, 1] from the peak, for a maximum height h.
func (a Archetype) Profile(t, h float64) float64 {
	switch a {
	case Peaked:
		return h * (0.25 + 0.75*math.Exp(-(t/0.3)*(t/0.3)))
	case Flat:
		return h * (0.35 + 0.3*(1-math3d.Smoothstep(0.55, 0.9, t)))
	case Crater:
		return h * (0.3 + 0.7*math.Sin(math.Pi*t))
	default:
		return h * (0.5 + 0.5*(1-t))
	}
}

// Params controls curve generation and tessellation.
type Params struct {
	ControlPoints int     // control points around the rim
	Segments      int     // θ steps; the mesh has Segments/2 φ bands
	MaxHeight     float64 // archetype height scale

	MinRadiusScale float64 // ridge 0 maps to baseRadius·MinRadiusScale
	MaxRadiusScale float64 // ridge 1 maps to baseRadius·MaxRadiusScale
	RidgeOctaves   int
	RidgeFrequency float64 // whole number of ridges per turn for the first octave

	Jitter float64 // relative height jitter per control point
}

// DefaultParams returns the stock generation parameters.
func DefaultParams() Params {
	return Params{
		ControlPoints:  12,
		Segments:       32,
		MaxHeight:      3,
		MinRadiusScale: 0.7,
		MaxRadiusScale: 1.3,
		RidgeOctaves:   3,
		RidgeFrequency: 2,
		Jitter:         0.1,
	}
}

// Validate reports the first out-of-range parameter.
func (p Params) Validate() error {
	switch {
	case p.ControlPoints < 4 || p.ControlPoints > 64:
		return fmt.Errorf("control points %d outside [4, 64]", p.ControlPoints)
	case p.Segments < 4 || p.Segments%2 != 0:
		return fmt.Errorf("segments %d must be even and at least 4", p.Segments)
	case p.MaxHeight <= 0:
		return fmt.Errorf("max height %g must be positive", p.MaxHeight)
	case p.MinRadiusScale <= 0 || p.MaxRadiusScale < p.MinRadiusScale:
		return fmt.Errorf("radius scale range [%g, %g] is invalid", p.MinRadiusScale, p.MaxRadiusScale)
	case p.RidgeOctaves < 1:
		return errors.New("ridge octaves must be at least 1")
	case p.RidgeFrequency < 1 || p.RidgeFrequency != math.Trunc(p.RidgeFrequency):
		return fmt.Errorf("ridge frequency %g must be a whole number ≥ 1", p.RidgeFrequency)
	case p.Jitter < 0 || p.Jitter >= 1:
		return fmt.Errorf("jitter %g outside [0, 1)", p.Jitter)
	}
	return nil
}

// VertexCount returns the number of mesh vertices Tessellate produces.
func (p Params) VertexCount() int {
	return p.Segments * (p.Segments / 2) * 4
}

// Generate builds a control curve for an island of the given base radius.
// All randomness comes from rng, so equal seeds give equal curves.
func Generate(rng *rand.Rand, baseRadius float64, p Params) (Archetype, ControlCurve) {
	archetype := Archetype(rng.Intn(int(archetypeCount)))
	peak := rng.Float64() * 2 * math.Pi
	ridge := newRidge(rng, p.RidgeOctaves, p.RidgeFrequency)

	n := p.ControlPoints
	curve := ControlCurve{
		Radius: make([]float64, n),
		Height: make([]float64, n),
	}
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		t := math.Abs(math3d.WrapAngle(angle-peak)) / math.Pi

		curve.Radius[i] = baseRadius * math3d.Lerp(p.MinRadiusScale, p.MaxRadiusScale, ridge.at(angle))

		jitter := 1 + (rng.Float64()*2-1)*p.Jitter
		curve.Height[i] = archetype.Profile(t, p.MaxHeight) * jitter
	}

	smoothCircular(curve.Radius)
	smoothCircular(curve.Height)
	return archetype, curve
}

// ridge is a sum of 1-|sin| octaves with random phases, normalised to
// [0, 1]. Whole-number frequencies keep it periodic in 2π.
type ridge struct {
	freq   []float64
	amp    []float64
	phase  []float64
	ampSum float64
}

func newRidge(rng *rand.Rand, octaves int, baseFreq float64) ridge {
	r := ridge{
		freq:  make([]float64, octaves),
		amp:   make([]float64, octaves),
		phase: make([]float64, octaves),
	}
	f, a := baseFreq, 1.0
	for o := range octaves {
		r.freq[o] = f
		r.amp[o] = a
		r.phase[o] = rng.Float64() * 2 * math.Pi
		r.ampSum += a
		f *= 2
		a *= 0.5
	}
	return r
}

func (r ridge) at(angle float64) float64 {
	var sum float64
	for o := range r.freq {
		sum += r.amp[o] * (1 - math.Abs(math.Sin(r.freq[o]*angle+r.phase[o])))
	}
	return math3d.Clamp(sum/r.ampSum, 0, 1)
}

// smoothCircular applies (prev + 2·self + next)/4 with wrapped neighbours.
func smoothCircular(values []float64) {
	n := len(values)
	if n < 3 {
		return
	}
	src := make([]float64, n)
	copy(src, values)
	for i := range n {
		values[i] = (src[wrap(i-1, n)] + 2*src[i] + src[wrap(i+1, n)]) / 4
	}
}
