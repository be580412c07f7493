// Package config holds the simulation configuration: defaults, file loading,
// environment overrides and validation.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Arena is the simulated region. Particles live in [0,Width]x[0,Height].
type Arena struct {
	Width  float64
	Height float64
}

// Physics controls integration.
type Physics struct {
	TickRate int     // fixed ticks per second
	GravityX float64 // constant acceleration applied to every particle
	GravityY float64
}

// Tree controls quadtree subdivision.
type Tree struct {
	MaxDepth     int // root has depth 0
	LeafCapacity int // leaves holding more than this split on resize
}

// Spawn controls the randomised particle source.
type Spawn struct {
	Rate     Range // particles per second, sampled every tick
	Radius   Range
	Lifetime Range // seconds
	Speed    Range // start velocity magnitude
	Hue      Range // 0..1, mapped onto the colour wheel
}

// Well controls the pointer-driven gravity well.
type Well struct {
	Constant float64 // force scale
	Exponent float64 // distance falloff exponent
}

// Config is the full simulation configuration. The section layout matches
// the config file format read by Load.
type Config struct {
	Arena   Arena
	Physics Physics
	Tree    Tree
	Spawn   Spawn
	Well    Well
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Arena: Arena{
			Width:  1920,
			Height: 1080,
		},
		Physics: Physics{
			TickRate: 120,
		},
		Tree: Tree{
			MaxDepth:     5,
			LeafCapacity: 16,
		},
		Spawn: Spawn{
			Rate:     Range{Min: 150, Max: 160},
			Radius:   Range{Min: 2, Max: 4.5},
			Lifetime: Range{Min: 15, Max: 20},
			Speed:    Range{Min: 20, Max: 90},
			Hue:      Range{Min: 0, Max: 1},
		},
		Well: Well{
			Constant: 5000,
			// Real gravity uses 2, which makes particles hypersensitive near the well.
			Exponent: 0.5,
		},
	}
}

// TickDelta returns the fixed timestep in seconds.
func (c Config) TickDelta() float64 {
	return 1.0 / float64(c.Physics.TickRate)
}

// TickInterval returns the wall-clock duration of one tick.
func (c Config) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / float64(c.Physics.TickRate))
}

// Validate reports the first configuration problem found. Every returned
// error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case !finite(c.Arena.Width) || !finite(c.Arena.Height):
		return invalid("arena size must be finite, got %gx%g", c.Arena.Width, c.Arena.Height)
	case c.Arena.Width <= 0 || c.Arena.Height <= 0:
		return invalid("arena must have positive size, got %gx%g", c.Arena.Width, c.Arena.Height)
	case c.Physics.TickRate <= 0:
		return invalid("tick rate must be positive, got %d", c.Physics.TickRate)
	case c.Tree.MaxDepth < 0:
		return invalid("tree max depth must not be negative, got %d", c.Tree.MaxDepth)
	case c.Tree.LeafCapacity < 1:
		return invalid("leaf capacity must be at least 1, got %d", c.Tree.LeafCapacity)
	case !finite(c.Physics.GravityX) || !finite(c.Physics.GravityY):
		return invalid("gravity must be finite, got (%g, %g)", c.Physics.GravityX, c.Physics.GravityY)
	case !finite(c.Well.Constant) || !finite(c.Well.Exponent):
		return invalid("well constant and exponent must be finite, got %g, %g", c.Well.Constant, c.Well.Exponent)
	}

	ranges := []struct {
		name string
		r    Range
	}{
		{"spawn rate", c.Spawn.Rate},
		{"radius", c.Spawn.Radius},
		{"lifetime", c.Spawn.Lifetime},
		{"speed", c.Spawn.Speed},
		{"hue", c.Spawn.Hue},
	}
	for _, nr := range ranges {
		if !nr.r.Valid() {
			return invalid("%s range %s must be finite with min <= max", nr.name, nr.r)
		}
	}

	switch {
	case c.Spawn.Radius.Min <= 0:
		return invalid("radius range must be positive, got %s", c.Spawn.Radius)
	case c.Spawn.Rate.Min < 0:
		return invalid("spawn rate must not be negative, got %s", c.Spawn.Rate)
	case c.Spawn.Lifetime.Min <= 0:
		return invalid("lifetime range must be positive, got %s", c.Spawn.Lifetime)
	case c.Spawn.Speed.Min < 0:
		return invalid("speed range must not be negative, got %s", c.Spawn.Speed)
	case c.Spawn.Hue.Min < 0 || c.Spawn.Hue.Max > 1:
		return invalid("hue range must lie within 0..1, got %s", c.Spawn.Hue)
	case 2*c.Spawn.Radius.Max >= min(c.Arena.Width, c.Arena.Height):
		return invalid("radius %g does not fit the arena", c.Spawn.Radius.Max)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
