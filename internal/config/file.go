package config

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

// Example is a complete config file with the default values.
const Example = `# Particle simulation configuration.
# Ranges are written as min..max; a single number means a fixed value.

[Arena]
Width = 1920
Height = 1080

[Physics]
TickRate = 120
GravityX = 0
GravityY = 0

[Tree]
MaxDepth = 5
LeafCapacity = 16

[Spawn]
Rate = 150..160
Radius = 2..4.5
Lifetime = 15..20
Speed = 20..90
Hue = 0..1

[Well]
Constant = 5000
Exponent = 0.5
`

// Load reads the config file at path on top of the defaults and validates
// the result. An empty path yields the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := gcfg.ReadFileInto(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads config text on top of the defaults and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	if err := gcfg.ReadStringInto(&cfg, text); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
