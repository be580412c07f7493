// Package sim is the fixed-timestep particle simulation: motion integration,
// quadtree residency, spawning, and collision detection and resolution.
//
// An Engine is owned by a single goroutine. Readers on other goroutines use
// the immutable Snapshot it produces between ticks.
package sim

import (
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/tomz197/particles/internal/config"
	"github.com/tomz197/particles/internal/perf"
	"github.com/tomz197/particles/internal/physics"
	"github.com/tomz197/particles/internal/quadtree"
)

// Counter names recorded by Tick.
const (
	CounterMove     = "Simulate.Move"
	CounterResize   = "Simulate.Resize"
	CounterSpawn    = "Simulate.Spawn"
	CounterDetect   = "Simulate.DetectCollide"
	CounterResolve  = "Simulate.ResolveCollisions"
	CounterSimulate = "Simulate"
)

// Engine owns the particle population and the quadtree over it.
type Engine struct {
	cfg config.Config
	rng *rand.Rand

	// list for exactly-once iteration, tree for spatial at-least-once traversal
	particles []*Particle
	tree      *quadtree.Tree[*Particle]
	pairs     *PairTable
	field     ForceField

	spawnAcc float64
	nextID   uint64
	ticks    uint64

	counters *perf.Set
	simulate *perf.Counter
	move     *perf.Counter
	resize   *perf.Counter
	spawn    *perf.Counter
	detect   *perf.Counter
	resolve  *perf.Counter
}

// New creates an empty engine. The config is validated first.
func New(cfg config.Config, rng *rand.Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	bounds := quadtree.Rect{W: cfg.Arena.Width, H: cfg.Arena.Height}
	counters := perf.NewSet()
	e := &Engine{
		cfg:      cfg,
		rng:      rng,
		tree:     quadtree.New[*Particle](bounds, cfg.Tree.LeafCapacity, cfg.Tree.MaxDepth),
		pairs:    NewPairTable(),
		nextID:   1,
		counters: counters,
		simulate: counters.Add(CounterSimulate, perf.Time, true),
		move:     counters.Add(CounterMove, perf.Time, true),
		resize:   counters.Add(CounterResize, perf.Time, true),
		spawn:    counters.Add(CounterSpawn, perf.Time, false),
		detect:   counters.Add(CounterDetect, perf.Time, true),
		resolve:  counters.Add(CounterResolve, perf.Time, true),
	}
	return e, nil
}

// Tick advances the simulation by dt seconds: motion and residency repair,
// one tree resize, spawning, then collision detection and resolution.
func (e *Engine) Tick(dt float64) {
	e.simulate.Time(func() {
		e.move.Time(func() { e.moveAll(dt) })
		e.resize.Time(e.tree.Resize)
		e.spawn.Time(func() { e.spawnNew(dt) })
		e.detect.Time(e.detectCollisions)
		e.resolve.Time(e.resolveCollisions)
	})
	e.ticks++
}

// AddParticle creates a particle with a fresh ID and inserts it.
func (e *Engine) AddParticle(radius, ttl float64, pos, vel physics.Vec2) *Particle {
	p := NewParticle(e.takeID(), radius, ttl, pos, vel, defaultColor)
	e.add(p)
	return p
}

func (e *Engine) add(p *Particle) {
	e.particles = append(e.particles, p)
	p.SetNode(quadtree.Root)
	e.tree.Insert(quadtree.Root, p)
}

func (e *Engine) takeID() uint64 {
	id := e.nextID
	e.nextID++
	return id
}

// SetForceField installs the external force applied during integration.
// nil removes it.
func (e *Engine) SetForceField(f ForceField) {
	e.field = f
}

// Particles returns the live population. Callers must not modify it.
func (e *Engine) Particles() []*Particle {
	return e.particles
}

// Tree returns the spatial index. Callers must not modify it.
func (e *Engine) Tree() *quadtree.Tree[*Particle] {
	return e.tree
}

// Leaves yields every tree leaf with its residents.
func (e *Engine) Leaves() iter.Seq2[quadtree.NodeID, []*Particle] {
	return e.tree.Leaves()
}

// Pairs returns the collision pair table built by the last tick.
func (e *Engine) Pairs() *PairTable {
	return e.pairs
}

// Config returns the configuration the engine was created with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Counters returns the per-phase timing counters.
func (e *Engine) Counters() *perf.Set {
	return e.counters
}

// Ticks returns the number of completed ticks.
func (e *Engine) Ticks() uint64 {
	return e.ticks
}
