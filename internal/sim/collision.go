package sim

import "github.com/tomz197/particles/internal/physics"

// Pair is an unordered particle pair stored with the lower ID first.
type Pair struct {
	A, B *Particle
}

type pairKey struct {
	lo, hi uint64
}

// PairTable caches the narrow-phase result for every pair discovered during
// one tick. A pair found again through another leaf reuses the cached result.
type PairTable struct {
	results     map[pairKey]bool
	tested      []Pair
	colliding   []Pair
	discoveries int
}

// NewPairTable creates an empty table.
func NewPairTable() *PairTable {
	return &PairTable{results: make(map[pairKey]bool)}
}

// Reset clears the table for a new tick, keeping allocated storage.
func (t *PairTable) Reset() {
	clear(t.results)
	clear(t.tested)
	clear(t.colliding)
	t.tested = t.tested[:0]
	t.colliding = t.colliding[:0]
	t.discoveries = 0
}

// Check returns whether a and b overlap, computing the answer only the first
// time the pair is seen.
func (t *PairTable) Check(a, b *Particle) bool {
	if b.ID < a.ID {
		a, b = b, a
	}
	t.discoveries++
	key := pairKey{lo: a.ID, hi: b.ID}
	if hit, ok := t.results[key]; ok {
		return hit
	}
	hit := AreColliding(a, b)
	t.results[key] = hit
	t.tested = append(t.tested, Pair{A: a, B: b})
	if hit {
		t.colliding = append(t.colliding, Pair{A: a, B: b})
	}
	return hit
}

// Lookup returns the cached result for a pair and whether it was tested.
func (t *PairTable) Lookup(a, b *Particle) (colliding, ok bool) {
	if b.ID < a.ID {
		a, b = b, a
	}
	colliding, ok = t.results[pairKey{lo: a.ID, hi: b.ID}]
	return colliding, ok
}

// Tested returns every distinct pair tested this tick, in discovery order.
func (t *PairTable) Tested() []Pair {
	return t.tested
}

// Colliding returns the overlapping pairs, in discovery order.
func (t *PairTable) Colliding() []Pair {
	return t.colliding
}

// Discoveries counts Check calls, including repeats of the same pair.
func (t *PairTable) Discoveries() int {
	return t.discoveries
}

// AreColliding reports whether two particles overlap. Touching particles do not.
func AreColliding(a, b *Particle) bool {
	return physics.CirclesOverlap(a.Position.X, a.Position.Y, a.Radius, b.Position.X, b.Position.Y, b.Radius)
}

// Resolve exchanges momentum between two colliding particles. Each axis is
// treated as an independent 1D elastic collision; there is no resolution
// along the contact normal.
func Resolve(a, b *Particle) {
	a.Velocity.X, b.Velocity.X = physics.ElasticVelocities(a.Velocity.X, b.Velocity.X, a.Mass, b.Mass)
	a.Velocity.Y, b.Velocity.Y = physics.ElasticVelocities(a.Velocity.Y, b.Velocity.Y, a.Mass, b.Mass)
}

// detectCollisions runs the broad phase over tree leaves. A particle sitting
// on a leaf boundary is resident in several leaves, so the same pair can be
// discovered more than once; the pair table makes that cheap.
func (e *Engine) detectCollisions() {
	e.pairs.Reset()
	for _, items := range e.tree.Leaves() {
		if len(items) < 2 {
			continue
		}
		for i := 0; i < len(items)-1; i++ {
			for j := i + 1; j < len(items); j++ {
				e.pairs.Check(items[i], items[j])
			}
		}
	}
}

func (e *Engine) resolveCollisions() {
	for _, pr := range e.pairs.Colliding() {
		Resolve(pr.A, pr.B)
	}
}
