package sim

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/particles/internal/physics"
)

var defaultColor = colorful.Color{R: 1, G: 1, B: 1}

// spawnNew converts the continuous spawn rate into whole particles. The
// fractional remainder carries over to the next tick.
func (e *Engine) spawnNew(dt float64) {
	e.spawnAcc += e.cfg.Spawn.Rate.Sample(e.rng) * dt
	for e.spawnAcc >= 1.0 {
		e.add(e.randomParticle())
		e.spawnAcc--
	}
}

// randomParticle draws radius, colour, lifetime, position and velocity from
// the configured ranges.
func (e *Engine) randomParticle() *Particle {
	s := e.cfg.Spawn
	radius := s.Radius.Sample(e.rng)
	color := colorful.Hsv(s.Hue.Sample(e.rng)*360, 1, 1)
	ttl := s.Lifetime.Sample(e.rng)

	pos := physics.Vec2{
		X: e.squareWeighted(e.cfg.Arena.Width),
		Y: e.squareWeighted(e.cfg.Arena.Height),
	}

	speed := s.Speed.Sample(e.rng)
	dir := e.rng.Float64() * 2 * math.Pi
	vel := physics.Vec2{X: speed * math.Cos(dir), Y: speed * math.Sin(dir)}

	return NewParticle(e.takeID(), radius, ttl, pos, vel, color)
}

// squareWeighted biases spawn positions towards the top-left corner.
func (e *Engine) squareWeighted(bound float64) float64 {
	r := e.rng.Float64()
	return r * r * bound
}
