package sim

import (
	"math"

	"github.com/tomz197/particles/internal/physics"
)

// ttlEpsilon absorbs rounding left over from subtracting dt repeatedly, so a
// lifetime that is a whole number of ticks expires on that tick.
const ttlEpsilon = 1e-9

// moveAll ages every particle, drops the expired ones and integrates the rest.
func (e *Engine) moveAll(dt float64) {
	kept := e.particles[:0]
	for _, p := range e.particles {
		p.TTL -= dt
		if p.TTL <= ttlEpsilon {
			// every leaf holding p lies under its cached enclosing node
			e.tree.Remove(p.Node(), p)
			continue
		}
		e.integrate(p, dt)
		e.reflect(p)
		e.tree.Relocate(p)
		kept = append(kept, p)
	}
	clear(e.particles[len(kept):])
	e.particles = kept
}

// integrate applies gravity and the external field, then moves the particle
// with explicit Euler.
func (e *Engine) integrate(p *Particle, dt float64) {
	accel := physics.Vec2{X: e.cfg.Physics.GravityX, Y: e.cfg.Physics.GravityY}
	if e.field != nil {
		accel.Add(e.field.Accel(p.Position))
	}
	p.Velocity.AddScaled(accel, dt)
	p.Position.AddScaled(p.Velocity, dt)
}

// reflect points the velocity back into the arena on each axis where the
// particle is within one radius of a wall. Position is not clamped.
func (e *Engine) reflect(p *Particle) {
	w, h := e.cfg.Arena.Width, e.cfg.Arena.Height
	if p.Position.X < p.Radius {
		p.Velocity.X = math.Abs(p.Velocity.X)
	}
	if p.Position.X > w-p.Radius {
		p.Velocity.X = -math.Abs(p.Velocity.X)
	}
	if p.Position.Y < p.Radius {
		p.Velocity.Y = math.Abs(p.Velocity.Y)
	}
	if p.Position.Y > h-p.Radius {
		p.Velocity.Y = -math.Abs(p.Velocity.Y)
	}
}
