package sim

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/particles/internal/physics"
	"github.com/tomz197/particles/internal/quadtree"
)

// Particle is a simulated disc. Particles are tracked by pointer identity:
// two particles with identical fields are still distinct.
type Particle struct {
	ID       uint64 // unique, only used to order collision pairs
	Radius   float64
	Mass     float64 // Radius cubed
	TTL      float64 // seconds left to live
	Position physics.Vec2
	Velocity physics.Vec2
	Color    colorful.Color

	node quadtree.NodeID // cached enclosing tree node, may be stale after motion
}

// NewParticle creates a particle with mass derived from its radius.
func NewParticle(id uint64, radius, ttl float64, pos, vel physics.Vec2, color colorful.Color) *Particle {
	return &Particle{
		ID:       id,
		Radius:   radius,
		Mass:     radius * radius * radius,
		TTL:      ttl,
		Position: pos,
		Velocity: vel,
		Color:    color,
		node:     quadtree.Root,
	}
}

// Circle implements quadtree.Item.
func (p *Particle) Circle() (x, y, r float64) {
	return p.Position.X, p.Position.Y, p.Radius
}

// Node implements quadtree.Item.
func (p *Particle) Node() quadtree.NodeID {
	return p.node
}

// SetNode implements quadtree.Item.
func (p *Particle) SetNode(id quadtree.NodeID) {
	p.node = id
}
