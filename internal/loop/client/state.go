package client

import (
	"time"

	"github.com/tomz197/particles/internal/draw"
	"github.com/tomz197/particles/internal/input"
	"github.com/tomz197/particles/internal/loop/server"
	"github.com/tomz197/particles/internal/scene"
)

// Phase represents the current session phase for a client.
type Phase int

const (
	PhaseViewing  Phase = iota // Watching and steering the simulation
	PhaseShutdown              // Server is shutting down
)

// ClientState holds per-viewer state (input, view, timers).
// Each client has their own instance, managed by the Client.
type ClientState struct {
	Input         input.Input
	View          scene.View
	Phase         Phase
	Running       bool              // Client loop running
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	delta         time.Duration     // Frame delta time (client-side)
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state
	lastSent      server.WellInput
	sentOnce      bool
}

// NewClientState creates a new initialized client state.
func NewClientState(view scene.View) *ClientState {
	return &ClientState{
		View:    view,
		Phase:   PhaseViewing,
		Running: true,
	}
}

// WellInput is the well the view currently drives.
func (s *ClientState) WellInput() server.WellInput {
	return server.WellInput{Mode: s.View.Mode, Position: s.View.Cursor}
}
