package terrain

import (
	"math"

	"github.com/taigrr/archipelago/pkg/geom"
	"github.com/taigrr/archipelago/pkg/math3d"
)

// Vertex is a drawable mesh vertex.
type Vertex struct {
	Position math3d.Vec3
	Color    [3]float64
}

// Tessellate turns a control curve into a closed mesh around origin.
//
// The surface is swept over Segments steps of θ and Segments/2 bands of
// φ ∈ [-π/2, π/2]. A corner at (θ, φ) sits at radius R(θ)·cos φ and height
// shape(φ)·H(θ), where shape(φ) = 1 - cos²φ above the equator and 0 below
// it: the lower half collapses into a flat base disc through origin and the
// upper half forms the dome.
//
// Vertices come back as quads of four in corner order (θ1,φ1) (θ2,φ1)
// (θ2,φ2) (θ1,φ2). Each quad is also passed to emit as the two triangles
// [0,1,2] and [0,2,3]; emit may be nil.
func Tessellate(c ControlCurve, origin math3d.Vec3, style ColorStyle, p Params, emit func(geom.Triangle)) []Vertex {
	segs := p.Segments
	bands := segs / 2

	// Per-θ samples; index segs wraps to 0 so the seam is exact.
	radius := make([]float64, segs)
	height := make([]float64, segs)
	cosT := make([]float64, segs)
	sinT := make([]float64, segs)
	for i := range segs {
		theta := 2 * math.Pi * float64(i) / float64(segs)
		radius[i] = c.SampleRadius(theta)
		height[i] = c.SampleHeight(theta)
		cosT[i] = math.Cos(theta)
		sinT[i] = math.Sin(theta)
	}

	corner := func(i, j int) Vertex {
		i %= segs
		phi := float64(j)*math.Pi/float64(bands) - math.Pi/2
		cosP := math.Cos(phi)
		r := radius[i] * cosP
		h := shape(phi, cosP) * height[i]
		return Vertex{
			Position: math3d.V3(origin.X+r*cosT[i], origin.Y+h, origin.Z+r*sinT[i]),
			Color:    ColorForHeight(style, h, p.MaxHeight),
		}
	}

	verts := make([]Vertex, 0, p.VertexCount())
	for i := range segs {
		for j := range bands {
			q := [4]Vertex{
				corner(i, j),
				corner(i+1, j),
				corner(i+1, j+1),
				corner(i, j+1),
			}
			verts = append(verts, q[:]...)
			if emit != nil {
				emit(geom.Tri(q[0].Position, q[1].Position, q[2].Position))
				emit(geom.Tri(q[0].Position, q[2].Position, q[3].Position))
			}
		}
	}
	return verts
}

func shape(phi, cosPhi float64) float64 {
	if phi <= 0 {
		return 0
	}
	return 1 - cosPhi*cosPhi
}
