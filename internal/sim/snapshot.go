package sim

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/particles/internal/config"
	"github.com/tomz197/particles/internal/physics"
	"github.com/tomz197/particles/internal/quadtree"
)

// maxSnapshotPairs bounds the collision lines copied into a snapshot.
const maxSnapshotPairs = 2000

// ParticleView is the renderer's copy of one particle.
type ParticleView struct {
	ID       uint64
	Position physics.Vec2
	Velocity physics.Vec2
	Radius   float64
	Color    colorful.Color
}

// PairView is one tested pair, for the collision-line overlay.
type PairView struct {
	A, B      physics.Vec2
	Colliding bool
}

// Stats summarises one tick.
type Stats struct {
	Tick        uint64
	Particles   int
	Nodes       int
	Leaves      int
	Depth       int
	Discoveries int
	PairsTested int
	Colliding   int
}

// Snapshot is an immutable copy of engine state, safe to hand to readers on
// other goroutines.
type Snapshot struct {
	Arena     config.Arena
	Particles []ParticleView
	Nodes     []quadtree.NodeInfo
	Pairs     []PairView
	Stats     Stats
	Metrics   []string
}

// Snapshot copies the current state. Call it between ticks.
func (e *Engine) Snapshot() *Snapshot {
	views := make([]ParticleView, len(e.particles))
	for i, p := range e.particles {
		views[i] = ParticleView{
			ID:       p.ID,
			Position: p.Position,
			Velocity: p.Velocity,
			Radius:   p.Radius,
			Color:    p.Color,
		}
	}

	tested := e.pairs.Tested()
	pairs := make([]PairView, 0, min(len(tested), maxSnapshotPairs))
	// colliding pairs first so they survive the cap
	for _, pr := range e.pairs.Colliding() {
		if len(pairs) == maxSnapshotPairs {
			break
		}
		pairs = append(pairs, PairView{A: pr.A.Position, B: pr.B.Position, Colliding: true})
	}
	for _, pr := range tested {
		if len(pairs) == maxSnapshotPairs {
			break
		}
		if hit, _ := e.pairs.Lookup(pr.A, pr.B); !hit {
			pairs = append(pairs, PairView{A: pr.A.Position, B: pr.B.Position})
		}
	}

	nodes := e.tree.Snapshot()
	ts := e.tree.Stats()
	return &Snapshot{
		Arena:     e.cfg.Arena,
		Particles: views,
		Nodes:     nodes,
		Pairs:     pairs,
		Stats: Stats{
			Tick:        e.ticks,
			Particles:   len(e.particles),
			Nodes:       ts.Nodes,
			Leaves:      ts.Leaves,
			Depth:       ts.MaxDepth,
			Discoveries: e.pairs.Discoveries(),
			PairsTested: len(tested),
			Colliding:   len(e.pairs.Colliding()),
		},
		Metrics: e.counters.Lines(),
	}
}
