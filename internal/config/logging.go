package config

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates a timestamped logger writing to w. The level comes from
// PARTICLES_LOG_LEVEL and defaults to info; unknown levels also yield info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(GetEnv("PARTICLES_LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}
