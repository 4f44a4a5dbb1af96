package island

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/archipelago/pkg/math3d"
)

func testOptions(seed uint64) Options {
	opts := DefaultOptions()
	opts.Seed = seed
	return opts
}

func TestRegenerateScenario(t *testing.T) {
	m := NewManager(testOptions(1))
	placements := m.Regenerate()
	if m.Count() != 3 || len(placements) != 3 {
		t.Fatalf("Count = %d, placements = %d, want 3", m.Count(), len(placements))
	}

	want := DefaultParams().Terrain.VertexCount()
	for i, is := range m.All() {
		if !is.Initialized() {
			t.Fatalf("island %d not initialized", i)
		}
		if len(is.Vertices) != want {
			t.Errorf("island %d: %d vertices, want %d", i, len(is.Vertices), want)
		}
		if is.Position.Y != -2 {
			t.Errorf("island %d base at y=%f, want -2", i, is.Position.Y)
		}
	}

	p := m.Island(0).Position
	if !m.CollidesAny(p, 1) {
		t.Error("island center should collide with its own terrain")
	}
	if m.CollidesAny(p.Add(math3d.V3(1000, 1000, 1000)), 1) {
		t.Error("distant sphere collides")
	}
}

func TestPlacementSeparation(t *testing.T) {
	for seed := range uint64(20) {
		m := NewManager(testOptions(seed + 1))
		placements := m.Regenerate()
		for i := range placements {
			for j := range i {
				pi, pj := placements[i], placements[j]
				if pi.Exhausted {
					continue
				}
				d := math.Hypot(pi.Position.X-pj.Position.X, pi.Position.Z-pj.Position.Z)
				if d < m.Options().Separation*pi.Radius {
					t.Errorf("seed %d: islands %d and %d only %.2f apart (radius %.2f)",
						seed+1, j, i, d, pi.Radius)
				}
			}
		}
	}
}

func TestPlacementExhausted(t *testing.T) {
	opts := testOptions(4)
	opts.PlayArea = 0.5
	opts.PlacementAttempts = 7
	m := NewManager(opts)

	placements := m.Regenerate()
	if len(placements) != 3 {
		t.Fatalf("placements = %d, want 3", len(placements))
	}
	if placements[0].Exhausted {
		t.Error("first island cannot collide with anything")
	}
	for _, p := range placements[1:] {
		if !p.Exhausted || !errors.Is(p.Err, ErrPlacementExhausted) {
			t.Errorf("placement %+v should be exhausted", p)
		}
		if p.Attempts != 7 {
			t.Errorf("attempts = %d, want 7", p.Attempts)
		}
		if p.Position.X != 0 || p.Position.Z != 0 {
			t.Errorf("exhausted placement at %v, want origin", p.Position)
		}
	}
	// The fallback keeps the island.
	if m.Count() != 3 {
		t.Errorf("Count = %d, want 3", m.Count())
	}
}

func TestRegenerateDeterministic(t *testing.T) {
	a := NewManager(testOptions(77))
	b := NewManager(testOptions(77))
	pa, pb := a.Regenerate(), b.Regenerate()
	for i := range pa {
		if pa[i].Position != pb[i].Position || pa[i].Radius != pb[i].Radius {
			t.Fatalf("placement %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
		if !slices.Equal(a.Island(i).Vertices, b.Island(i).Vertices) {
			t.Fatalf("island %d mesh differs", i)
		}
	}
}

func TestRegenerateReleasesOldIslands(t *testing.T) {
	m := NewManager(testOptions(5))
	m.Regenerate()
	old := m.Island(0)
	m.Regenerate()
	if old.Initialized() {
		t.Error("old island still initialized after Regenerate")
	}
	if m.Count() != 3 {
		t.Errorf("Count = %d, want 3", m.Count())
	}
}

func TestCreateCapacity(t *testing.T) {
	opts := testOptions(6)
	opts.MaxIslands = 2
	m := NewManager(opts)
	for i := range 2 {
		if _, err := m.Create(float64(i)*50, 0, 3); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if _, err := m.Create(100, 0, 3); !errors.Is(err, ErrManagerFull) {
		t.Errorf("err = %v, want ErrManagerFull", err)
	}
	if m.Count() != 2 {
		t.Errorf("Count = %d, want 2", m.Count())
	}
}

func TestManagerSkipsUninitialized(t *testing.T) {
	m := NewManager(testOptions(8))
	is, err := m.Create(0, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	is.Release()

	p := math3d.V3(0, -2, 0)
	if m.CollidesAny(p, 1) {
		t.Error("released island collides")
	}
	if got := m.GroundHeightAt(math3d.V3(0, 3, 0), 0.5); got != 3 {
		t.Errorf("GroundHeightAt = %f, want caller's y", got)
	}
	if m.LineOfSightBlocked(math3d.V3(0, 10, 0), math3d.V3(0, -10, 0)) {
		t.Error("released island blocks line of sight")
	}
	if m.Island(5) != nil || m.Island(-1) != nil {
		t.Error("out of range slot should be nil")
	}
}

func TestGroundHeightAt(t *testing.T) {
	m := NewManager(testOptions(9))
	is, err := m.Create(0, 0, 6)
	if err != nil {
		t.Fatal(err)
	}

	tri := domeTriangle(is, 6, 11)
	c := tri.Centroid()
	got := m.GroundHeightAt(c.Add(math3d.V3(0, 0.05, 0)), 0.3)
	if math.Abs(got-c.Y) > 1e-6 {
		t.Errorf("GroundHeightAt = %f, want %f", got, c.Y)
	}

	outside := math3d.V3(200, 4, 200)
	if got := m.GroundHeightAt(outside, 0.3); got != outside.Y {
		t.Errorf("GroundHeightAt outside = %f, want %f", got, outside.Y)
	}
}

func TestGroundHeightAtFromSeaFloor(t *testing.T) {
	opts := testOptions(12)
	m := NewManager(opts)
	is, err := m.Create(0, 0, 5)
	if err != nil {
		t.Fatal(err)
	}

	for _, x := range []float64{3.5, 2, 1, 0.5} {
		p := math3d.V3(x, opts.BaseY, 0)
		want, ok := domeTop(is, p.X, p.Z)
		if !ok {
			continue
		}
		if got := m.GroundHeightAt(p, 0.3); math.Abs(got-want) > 1e-6 {
			t.Errorf("x=%.1f: GroundHeightAt = %f, want dome top %f", x, got, want)
		}
	}
}

func TestManagerLineOfSight(t *testing.T) {
	m := NewManager(testOptions(10))
	if _, err := m.Create(0, 0, 6); err != nil {
		t.Fatal(err)
	}
	if !m.LineOfSightBlocked(math3d.V3(-30, -1.7, 0.3), math3d.V3(30, -1.7, 0.3)) {
		t.Error("segment through the island should be blocked")
	}
	if m.LineOfSightBlocked(math3d.V3(-30, 20, 0), math3d.V3(30, 20, 0)) {
		t.Error("segment above the island should be clear")
	}
}

func TestClear(t *testing.T) {
	m := NewManager(testOptions(11))
	m.Regenerate()
	first := m.Island(0)
	m.Clear()
	if m.Count() != 0 || len(m.Placements()) != 0 {
		t.Error("Clear left islands behind")
	}
	if first.Initialized() {
		t.Error("Clear did not release islands")
	}
}
