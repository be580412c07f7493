package config

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Range is a closed numeric interval that can be sampled uniformly.
// In config files it is written as "min..max" or as a single number.
type Range struct {
	Min, Max float64
}

// Fixed returns a range that always samples v.
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// Sample returns a uniformly distributed value in [Min, Max).
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Max == r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Valid reports whether both bounds are finite and Min <= Max.
func (r Range) Valid() bool {
	return finite(r.Min) && finite(r.Max) && r.Min <= r.Max
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.FormatFloat(r.Min, 'g', -1, 64)
	}
	return strconv.FormatFloat(r.Min, 'g', -1, 64) + ".." + strconv.FormatFloat(r.Max, 'g', -1, 64)
}

// MarshalText implements encoding.TextMarshaler.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Range) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	lo, hi, isRange := strings.Cut(s, "..")
	minV, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return fmt.Errorf("range %q: %w", s, err)
	}
	maxV := minV
	if isRange {
		maxV, err = strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return fmt.Errorf("range %q: %w", s, err)
		}
	}
	r.Min, r.Max = minV, maxV
	return nil
}
