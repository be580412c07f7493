// Package physics provides vector arithmetic, the circle overlap test and the
// per-axis elastic velocity exchange used by the collision resolver.
package physics

import "math"

func distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// CirclesOverlap reports whether two circles overlap. Touching circles do not.
// A cheap axis-aligned box check rejects distant pairs before the sqrt.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	r := r1 + r2
	if math.Abs(x1-x2) > r || math.Abs(y1-y2) > r {
		return false
	}
	return distance(x1, y1, x2, y2) < r
}

// ElasticVelocities exchanges one velocity component between two bodies of
// mass m0 and m1 using 1D elastic collision. Callers apply it per axis.
func ElasticVelocities(v0, v1, m0, m1 float64) (float64, float64) {
	total := m0 + m1
	n0 := (v0*(m0-m1) + 2*m1*v1) / total
	n1 := (v1*(m1-m0) + 2*m0*v0) / total
	return n0, n1
}
