package terrain

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/taigrr/archipelago/pkg/geom"
	"github.com/taigrr/archipelago/pkg/math3d"
)

const epsilon = 1e-9

func testCurve(seed uint64) (Archetype, ControlCurve) {
	return Generate(rand.New(rand.NewSource(seed)), 8, DefaultParams())
}

func TestSampleWraparound(t *testing.T) {
	_, c := testCurve(1)
	for _, theta := range []float64{0, 0.1, 1, math.Pi, 4.5, 2*math.Pi - 1e-6, -0.3, -7} {
		for _, k := range []float64{1, 2, -1} {
			shifted := theta + k*2*math.Pi
			if d := math.Abs(c.SampleRadius(theta) - c.SampleRadius(shifted)); d > 1e-6 {
				t.Errorf("SampleRadius(%g) vs +%gτ differ by %g", theta, k, d)
			}
			if d := math.Abs(c.SampleHeight(theta) - c.SampleHeight(shifted)); d > 1e-6 {
				t.Errorf("SampleHeight(%g) vs +%gτ differ by %g", theta, k, d)
			}
		}
	}
}

func TestSampleExactAtControlPoints(t *testing.T) {
	_, c := testCurve(2)
	for i := range c.Len() {
		theta := c.Angle(i)
		if d := math.Abs(c.SampleRadius(theta) - c.Radius[i]); d > 1e-9 {
			t.Errorf("radius at control %d off by %g", i, d)
		}
		if d := math.Abs(c.SampleHeight(theta) - c.Height[i]); d > 1e-9 {
			t.Errorf("height at control %d off by %g", i, d)
		}
	}
}

func TestCatmullRomEndpoints(t *testing.T) {
	tests := []struct {
		name           string
		p0, p1, p2, p3 float64
		t, want        float64
	}{
		{"start", 1, 2, 3, 4, 0, 2},
		{"end", 1, 2, 3, 4, 1, 3},
		{"linear midpoint", 1, 2, 3, 4, 0.5, 2.5},
		{"constant", 5, 5, 5, 5, 0.37, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := catmullRom(tt.p0, tt.p1, tt.p2, tt.p3, tt.t); math.Abs(got-tt.want) > epsilon {
				t.Errorf("catmullRom = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a1, c1 := testCurve(42)
	a2, c2 := testCurve(42)
	if a1 != a2 {
		t.Fatalf("archetypes differ: %v vs %v", a1, a2)
	}
	for i := range c1.Len() {
		if c1.Radius[i] != c2.Radius[i] || c1.Height[i] != c2.Height[i] {
			t.Fatalf("control %d differs between equal seeds", i)
		}
	}
}

func TestGenerateRanges(t *testing.T) {
	p := DefaultParams()
	const base = 8.0
	for seed := range uint64(50) {
		_, c := Generate(rand.New(rand.NewSource(seed)), base, p)
		if c.Len() != p.ControlPoints || len(c.Height) != p.ControlPoints {
			t.Fatalf("seed %d: curve length %d/%d", seed, len(c.Radius), len(c.Height))
		}
		for i := range c.Len() {
			r := c.Radius[i]
			if r < base*p.MinRadiusScale-epsilon || r > base*p.MaxRadiusScale+epsilon {
				t.Errorf("seed %d: radius[%d] = %f out of range", seed, i, r)
			}
			h := c.Height[i]
			if h <= 0 || h > p.MaxHeight*(1+p.Jitter)+epsilon {
				t.Errorf("seed %d: height[%d] = %f out of range", seed, i, h)
			}
		}
	}
}

func TestSmoothCircular(t *testing.T) {
	v := []float64{4, 0, 0, 0}
	smoothCircular(v)
	want := []float64{2, 1, 0, 1}
	for i := range want {
		if math.Abs(v[i]-want[i]) > epsilon {
			t.Errorf("v[%d] = %f, want %f", i, v[i], want[i])
		}
	}
}

func TestArchetypeProfiles(t *testing.T) {
	const h = 2.0
	tests := []struct {
		a       Archetype
		t, want float64
	}{
		{Normal, 0, 2},
		{Normal, 1, 1},
		{Peaked, 0, 2},
		{Peaked, 1, h * (0.25 + 0.75*math.Exp(-(1/0.3)*(1/0.3)))},
		{Flat, 0, 1.3},
		{Flat, 1, 0.7},
		{Crater, 0, 0.6},
		{Crater, 0.5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.a.String(), func(t *testing.T) {
			if got := tt.a.Profile(tt.t, h); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Profile(%g) = %f, want %f", tt.t, got, tt.want)
			}
		})
	}
}

func TestTessellate(t *testing.T) {
	p := DefaultParams()
	_, c := testCurve(7)
	origin := math3d.V3(3, -2, 5)

	var tris []geom.Triangle
	verts := Tessellate(c, origin, Volcano, p, func(tri geom.Triangle) {
		tris = append(tris, tri)
	})

	if len(verts) != p.VertexCount() || len(verts) != 2048 {
		t.Fatalf("got %d vertices, want %d", len(verts), p.VertexCount())
	}
	if len(tris) != len(verts)/2 {
		t.Fatalf("got %d triangles, want %d", len(tris), len(verts)/2)
	}

	bands := p.Segments / 2
	for q := 0; q < len(verts); q += 4 {
		j := (q / 4) % bands
		first, second := tris[q/2], tris[q/2+1]
		if first.V1 != verts[q].Position || first.V2 != verts[q+1].Position || first.V3 != verts[q+2].Position {
			t.Fatalf("quad %d: first triangle is not corners 0,1,2", q/4)
		}
		if second.V1 != verts[q].Position || second.V2 != verts[q+2].Position || second.V3 != verts[q+3].Position {
			t.Fatalf("quad %d: second triangle is not corners 0,2,3", q/4)
		}
		for k := range 4 {
			v := verts[q+k].Position
			if v.Y < origin.Y-epsilon {
				t.Fatalf("vertex below base: %v", v)
			}
			// Lower half is the flat base disc.
			if j < bands/2 && v.Y != origin.Y {
				t.Fatalf("base vertex off the base plane: %v", v)
			}
		}
	}
}

func TestTessellateClosedSeam(t *testing.T) {
	p := DefaultParams()
	_, c := testCurve(9)
	verts := Tessellate(c, math3d.Zero3(), Tropical, p, nil)
	bands := p.Segments / 2

	// The θ2 edge of the last column is the θ1 edge of the first.
	last := len(verts) - 4*bands
	for j := range bands {
		a := verts[last+4*j+1].Position
		b := verts[4*j].Position
		if !a.ApproxEqual(b, 1e-9) {
			t.Fatalf("seam mismatch at band %d: %v vs %v", j, a, b)
		}
	}
}

func TestColorForHeight(t *testing.T) {
	tests := []struct {
		name  string
		style ColorStyle
		h     float64
		want  [3]float64
	}{
		{"tropical base", Tropical, 0, palettes[Tropical][0]},
		{"tropical mid", Tropical, 1, palettes[Tropical][1]},
		{"volcano high", Volcano, 2, palettes[Volcano][2]},
		{"arctic peak", Arctic, 3, palettes[Arctic][3]},
		{"unknown style", ColorStyle(99), 0, palettes[Tropical][0]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorForHeight(tt.style, tt.h, 3); got != tt.want {
				t.Errorf("ColorForHeight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"few control points", func(p *Params) { p.ControlPoints = 3 }},
		{"odd segments", func(p *Params) { p.Segments = 31 }},
		{"zero height", func(p *Params) { p.MaxHeight = 0 }},
		{"inverted radius", func(p *Params) { p.MinRadiusScale, p.MaxRadiusScale = 1.3, 0.7 }},
		{"fractional ridge", func(p *Params) { p.RidgeFrequency = 1.5 }},
		{"large jitter", func(p *Params) { p.Jitter = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func BenchmarkGenerateAndTessellate(b *testing.B) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(1))
	for b.Loop() {
		_, c := Generate(rng, 8, p)
		_ = Tessellate(c, math3d.Zero3(), Tropical, p, nil)
	}
}
