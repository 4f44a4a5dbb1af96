package island

import (
	"fmt"
	"iter"
	"time"

	"golang.org/x/exp/rand"

	"github.com/taigrr/archipelago/pkg/logging"
	"github.com/taigrr/archipelago/pkg/math3d"
)

// Options configures a Manager.
type Options struct {
	MaxIslands        int     // slot capacity
	IslandCount       int     // islands placed by Regenerate
	PlayArea          float64 // positions are drawn from [-PlayArea, PlayArea)
	MinRadius         float64
	MaxRadius         float64
	Separation        float64 // minimum center distance in multiples of the new island's radius
	PlacementAttempts int
	BaseY             float64 // height of every island's base disc

	// Seed drives placement and every island seed. Zero picks a
	// wall-clock seed, which is logged.
	Seed uint64

	Island Params
}

// DefaultOptions returns the stock manager options.
func DefaultOptions() Options {
	return Options{
		MaxIslands:        10,
		IslandCount:       3,
		PlayArea:          30,
		MinRadius:         6,
		MaxRadius:         10,
		Separation:        4,
		PlacementAttempts: 100,
		BaseY:             -2,
		Island:            DefaultParams(),
	}
}

// Placement records where Regenerate put an island.
type Placement struct {
	Position  math3d.Vec3
	Radius    float64
	Attempts  int
	Exhausted bool  // no free spot was found and the island went to the origin
	Err       error // ErrPlacementExhausted or a Create error
}

// Manager owns a fixed number of island slots and fans queries out to
// every initialized island. It is not safe for concurrent use.
type Manager struct {
	opts       Options
	seed       uint64
	rng        *rand.Rand
	islands    []*Island
	placements []Placement
}

// NewManager creates an empty manager.
func NewManager(opts Options) *Manager {
	if opts.MaxIslands <= 0 {
		opts.MaxIslands = DefaultOptions().MaxIslands
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		logging.Info("using wall-clock seed", "seed", seed)
	}
	return &Manager{
		opts:    opts,
		seed:    seed,
		rng:     rand.New(rand.NewSource(seed)),
		islands: make([]*Island, 0, opts.MaxIslands),
	}
}

// Seed returns the seed the manager was started with.
func (m *Manager) Seed() uint64 {
	return m.seed
}

// Options returns the manager's options.
func (m *Manager) Options() Options {
	return m.opts
}

// Create adds and initializes an island whose base is centered on (x, z).
func (m *Manager) Create(x, z, radius float64) (*Island, error) {
	if len(m.islands) >= m.opts.MaxIslands {
		return nil, ErrManagerFull
	}
	is := New(math3d.V3(x, m.opts.BaseY, z), m.rng.Uint64(), m.opts.Island)
	is.Initialize(radius)
	m.islands = append(m.islands, is)
	return is, nil
}

// Regenerate releases every island and places a fresh set. Candidate
// positions closer than Separation × radius to an already placed island
// are rejected; after PlacementAttempts rejections the island goes to the
// origin and may overlap its neighbours.
func (m *Manager) Regenerate() []Placement {
	m.Clear()

	placements := make([]Placement, 0, m.opts.IslandCount)
	for range m.opts.IslandCount {
		p := m.place()
		is, err := m.Create(p.Position.X, p.Position.Z, p.Radius)
		if err != nil {
			p.Err = err
			placements = append(placements, p)
			logging.Warn("island placement failed", "err", err)
			break
		}
		p.Position = is.Position
		placements = append(placements, p)

		if p.Exhausted {
			logging.Warn("island placement exhausted, using origin",
				"id", is.ID, "attempts", p.Attempts)
		}
		logging.Debug("island placed",
			"id", is.ID,
			"x", fmt.Sprintf("%.2f", p.Position.X),
			"z", fmt.Sprintf("%.2f", p.Position.Z),
			"radius", fmt.Sprintf("%.2f", p.Radius),
			"attempts", p.Attempts,
		)
	}

	m.placements = placements
	return placements
}

func (m *Manager) place() Placement {
	radius := math3d.Lerp(m.opts.MinRadius, m.opts.MaxRadius, m.rng.Float64())
	minDist := m.opts.Separation * radius
	minSq := minDist * minDist

	p := Placement{Radius: radius}
	for p.Attempts < m.opts.PlacementAttempts {
		p.Attempts++
		x := m.rng.Float64()*2*m.opts.PlayArea - m.opts.PlayArea
		z := m.rng.Float64()*2*m.opts.PlayArea - m.opts.PlayArea
		if m.clearOf(x, z, minSq) {
			p.Position = math3d.V3(x, m.opts.BaseY, z)
			return p
		}
	}

	p.Position = math3d.V3(0, m.opts.BaseY, 0)
	p.Exhausted = true
	p.Err = ErrPlacementExhausted
	return p
}

func (m *Manager) clearOf(x, z, minSq float64) bool {
	for _, is := range m.islands {
		dx := x - is.Position.X
		dz := z - is.Position.Z
		if dx*dx+dz*dz < minSq {
			return false
		}
	}
	return true
}

// Placements returns the result of the last Regenerate.
func (m *Manager) Placements() []Placement {
	return m.placements
}

// Clear releases and removes every island.
func (m *Manager) Clear() {
	for i, is := range m.islands {
		is.Release()
		m.islands[i] = nil
	}
	m.islands = m.islands[:0]
	m.placements = nil
}

// Count returns the number of occupied slots.
func (m *Manager) Count() int {
	return len(m.islands)
}

// Island returns the island in slot i, or nil.
func (m *Manager) Island(i int) *Island {
	if i < 0 || i >= len(m.islands) {
		return nil
	}
	return m.islands[i]
}

// All yields every occupied slot in order.
func (m *Manager) All() iter.Seq2[int, *Island] {
	return func(yield func(int, *Island) bool) {
		for i, is := range m.islands {
			if !yield(i, is) {
				return
			}
		}
	}
}

// CollidesAny reports whether a sphere touches any island.
func (m *Manager) CollidesAny(position math3d.Vec3, radius float64) bool {
	for _, is := range m.islands {
		if is == nil || !is.Initialized() || !is.bounds.IntersectsSphere(position, radius) {
			continue
		}
		if is.CollidesWithSphere(position, radius) {
			return true
		}
	}
	return false
}

// GroundHeightAt returns the ground height from the first island whose
// footprint covers position, or position.Y when none does.
func (m *Manager) GroundHeightAt(position math3d.Vec3, radius float64) float64 {
	for _, is := range m.islands {
		if is == nil || !is.Initialized() {
			continue
		}
		b := is.bounds.Expand(radius)
		if position.X < b.Min.X || position.X > b.Max.X || position.Z < b.Min.Z || position.Z > b.Max.Z {
			continue
		}
		if h, err := is.GroundHeight(position, radius); err == nil {
			return h
		}
	}
	return position.Y
}

// LineOfSightBlocked reports whether any island blocks the segment.
func (m *Manager) LineOfSightBlocked(from, to math3d.Vec3) bool {
	for _, is := range m.islands {
		if is == nil || !is.Initialized() || !is.bounds.IntersectsSegment(from, to) {
			continue
		}
		if is.LineOfSightBlocked(from, to) {
			return true
		}
	}
	return false
}
