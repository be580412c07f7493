package sim

import (
	"math"

	"github.com/tomz197/particles/internal/physics"
)

// ForceField adds an external acceleration to every particle before it is
// integrated. Implementations must not mutate engine state.
type ForceField interface {
	Accel(pos physics.Vec2) physics.Vec2
}

// minWellDistance keeps the well from producing unbounded acceleration at its centre.
const minWellDistance = 1.0

// GravityWell pulls particles towards (or, with Repel, pushes them away from)
// a point with magnitude Constant / distance^Exponent.
type GravityWell struct {
	Position physics.Vec2
	Constant float64
	Exponent float64
	Repel    bool
}

// Accel implements ForceField.
func (w GravityWell) Accel(pos physics.Vec2) physics.Vec2 {
	d := w.Position.Sub(pos)
	dist := d.Len()
	if dist < minWellDistance {
		return physics.Vec2{}
	}
	mag := w.Constant / math.Pow(dist, w.Exponent)
	if w.Repel {
		mag = -mag
	}
	return d.Scale(mag / dist)
}

// Fields sums several force fields.
type Fields []ForceField

// Accel implements ForceField.
func (fs Fields) Accel(pos physics.Vec2) physics.Vec2 {
	var sum physics.Vec2
	for _, f := range fs {
		sum.Add(f.Accel(pos))
	}
	return sum
}
