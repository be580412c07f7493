package physics

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector of doubles. Methods with pointer receivers mutate in place.
type Vec2 struct {
	X, Y float64
}

// Add adds v to the vector in place and returns the receiver for chaining.
func (p *Vec2) Add(v Vec2) *Vec2 {
	p.X += v.X
	p.Y += v.Y
	return p
}

// AddScaled adds v*m to the vector in place and returns the receiver.
func (p *Vec2) AddScaled(v Vec2, m float64) *Vec2 {
	p.X += v.X * m
	p.Y += v.Y * m
	return p
}

// Scale returns a copy of v multiplied by m.
func (v Vec2) Scale(m float64) Vec2 {
	return Vec2{X: v.X * m, Y: v.Y * m}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(x=%4.3f,y=%4.3f)", v.X, v.Y)
}
