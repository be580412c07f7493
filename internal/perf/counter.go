// Package perf keeps rolling timing statistics for the phases of a tick.
package perf

import (
	"fmt"
	"slices"
	"time"
)

// Metric selects how a counter is reported.
type Metric int

const (
	Time Metric = iota // milliseconds per sample
	Rate               // samples per second
)

func (m Metric) String() string {
	if m == Rate {
		return "RATE"
	}
	return "TIME"
}

// DefaultSamples is the rolling window length.
const DefaultSamples = 60

// Counter keeps the last N durations and the rates derived from them.
// Counters are not safe for concurrent use.
type Counter struct {
	name   string
	metric Metric
	times  []float64 // milliseconds
	rates  []float64 // per second
	next   int
	last   time.Time
	now    func() time.Time
}

// NewCounter creates a counter with a window of samples entries.
func NewCounter(name string, metric Metric, samples int) *Counter {
	if samples < 1 {
		samples = DefaultSamples
	}
	return &Counter{
		name:   name,
		metric: metric,
		times:  make([]float64, samples),
		rates:  make([]float64, samples),
		now:    time.Now,
		last:   time.Now(),
	}
}

// Name returns the counter name.
func (c *Counter) Name() string {
	return c.name
}

// Time runs fn and records how long it took.
func (c *Counter) Time(fn func()) {
	start := c.now()
	fn()
	c.Add(c.now().Sub(start))
}

// Tick records the time elapsed since the previous Tick.
func (c *Counter) Tick() {
	now := c.now()
	c.Add(now.Sub(c.last))
	c.last = now
}

// Add records one sample.
func (c *Counter) Add(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	rate := 1.0
	if ms != 0 {
		rate = 1000 / ms
	}
	c.times[c.next] = ms
	c.rates[c.next] = rate
	c.next = (c.next + 1) % len(c.times)
}

// AverageTime returns the mean sample in milliseconds.
func (c *Counter) AverageTime() float64 { return mean(c.times) }

// AverageRate returns the mean rate in samples per second.
func (c *Counter) AverageRate() float64 { return mean(c.rates) }

// TimeSpread returns half the range of the time window.
func (c *Counter) TimeSpread() float64 { return halfRange(c.times) }

// RateSpread returns half the range of the rate window.
func (c *Counter) RateSpread() float64 { return halfRange(c.rates) }

// String formats the preferred metric as "name.METRIC: avg +- spread".
func (c *Counter) String() string {
	value, spread := c.AverageTime(), c.TimeSpread()
	if c.metric == Rate {
		value, spread = c.AverageRate(), c.RateSpread()
	}
	return fmt.Sprintf("%s.%s: %3.3f +- %2.2f", c.name, c.metric, value, spread)
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func halfRange(xs []float64) float64 {
	return (slices.Max(xs) - slices.Min(xs)) / 2
}

// Set is an ordered collection of counters, some of which are shown on the HUD.
type Set struct {
	counters []*Counter
	shown    []bool
	byName   map[string]*Counter
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{byName: make(map[string]*Counter)}
}

// Add registers a new counter and returns it. Registering an existing name
// returns the existing counter.
func (s *Set) Add(name string, metric Metric, hud bool) *Counter {
	if c, ok := s.byName[name]; ok {
		return c
	}
	c := NewCounter(name, metric, DefaultSamples)
	s.counters = append(s.counters, c)
	s.shown = append(s.shown, hud)
	s.byName[name] = c
	return c
}

// Lines formats every HUD counter, in registration order.
func (s *Set) Lines() []string {
	lines := make([]string, 0, len(s.counters))
	for i, c := range s.counters {
		if s.shown[i] {
			lines = append(lines, c.String())
		}
	}
	return lines
}

// All returns every counter in registration order.
func (s *Set) All() []*Counter {
	return s.counters
}
