// Package config centralizes viewer-side tunables shared by the terminal
// and web front ends. Simulation parameters live in internal/config.
package config

import "time"

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownTimeout        = 10 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 240 // Seconds
	InactivityDisconnectUser = 300 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 400
	MaxTermHeight         = 120
	MaxUsernameLength     = 16
)

// Web streaming
const (
	WebTargetFPS       = 20
	WebTargetFrameTime = time.Second / WebTargetFPS
	WebWriteTimeout    = 2 * time.Second
	WebMaxMessageSize  = 1024
)

// Server input queue sizes
const (
	InputQueueSize    = 256
	RegisterQueueSize = 16
	EventQueueSize    = 16
)
