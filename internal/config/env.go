package config

import (
	"os"
	"strconv"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvInt is GetEnv for integers. Unparseable values yield fallback.
func GetEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// FromEnv loads the file named by PARTICLES_CONFIG (defaults if unset) and
// applies PARTICLES_TICK_RATE on top.
func FromEnv() (Config, error) {
	cfg, err := Load(GetEnv("PARTICLES_CONFIG", ""))
	if err != nil {
		return Config{}, err
	}
	if rate := GetEnvInt("PARTICLES_TICK_RATE", 0); rate != 0 {
		cfg.Physics.TickRate = rate
		if err := cfg.Validate(); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
