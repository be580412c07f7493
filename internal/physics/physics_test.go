package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCirclesOverlap(t *testing.T) {
	assert.True(t, CirclesOverlap(0, 0, 1, 1.5, 0, 1), "overlapping")
	assert.False(t, CirclesOverlap(0, 0, 1, 2, 0, 1), "touching is not overlapping")
	assert.False(t, CirclesOverlap(0, 0, 1, 1.9, 1.9, 1), "inside box, outside circle")
	assert.False(t, CirclesOverlap(0, 0, 1, 10, 0, 1), "far apart")
}

func TestElasticVelocitiesHeadOn(t *testing.T) {
	a, b := ElasticVelocities(10, -5, 1, 8)
	assert.InDelta(t, -16.667, a, 1e-3)
	assert.InDelta(t, -1.667, b, 1e-3)

	// Momentum is conserved.
	assert.InDelta(t, 10*1+(-5)*8, a*1+b*8, 1e-9)
}

func TestElasticVelocitiesEqualMassSwap(t *testing.T) {
	a, b := ElasticVelocities(3, -7, 2, 2)
	assert.Equal(t, -7.0, a)
	assert.Equal(t, 3.0, b)
}

func TestVec2InPlace(t *testing.T) {
	v := Vec2{X: 1, Y: 2}
	v.AddScaled(Vec2{X: 10, Y: -4}, 0.5).Add(Vec2{X: 1, Y: 1})
	assert.Equal(t, Vec2{X: 7, Y: 1}, v)
	assert.Equal(t, Vec2{X: 14, Y: 2}, v.Scale(2))
	assert.InDelta(t, 5.0, Vec2{X: 3, Y: 4}.Len(), 1e-12)
}
