package perf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestCounterRollingAverage(t *testing.T) {
	c := NewCounter("Tick", Time, 4)
	for _, ms := range []int{2, 4, 6, 8, 10} {
		c.Add(time.Duration(ms) * time.Millisecond)
	}
	// first sample dropped out of the window
	assert.InDelta(t, 7.0, c.AverageTime(), 1e-9)
	assert.InDelta(t, 3.0, c.TimeSpread(), 1e-9)
	assert.Equal(t, "Tick.TIME: 7.000 +- 3.00", c.String())
}

func TestCounterZeroDurationRate(t *testing.T) {
	c := NewCounter("Zero", Rate, 2)
	c.Add(0)
	c.Add(0)
	assert.Equal(t, 1.0, c.AverageRate())
}

func TestCounterTickAndTime(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	c := NewCounter("Cycle", Rate, 2)
	c.now = clock.now
	c.last = clock.t

	clock.t = clock.t.Add(10 * time.Millisecond)
	c.Tick()
	clock.t = clock.t.Add(10 * time.Millisecond)
	c.Tick()
	assert.InDelta(t, 100.0, c.AverageRate(), 1e-9)

	c.Time(func() { clock.t = clock.t.Add(5 * time.Millisecond) })
	assert.InDelta(t, 7.5, c.AverageTime(), 1e-9)
}

func TestSetLines(t *testing.T) {
	s := NewSet()
	a := s.Add("A", Time, true)
	s.Add("B", Time, false)
	s.Add("C", Rate, true)

	require.Same(t, a, s.Add("A", Rate, false))
	assert.Len(t, s.All(), 3)
	assert.Len(t, s.Lines(), 2)
	assert.Equal(t, "C", s.All()[2].Name())
}
