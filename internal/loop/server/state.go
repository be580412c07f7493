package server

import (
	"github.com/tomz197/particles/internal/physics"
	"github.com/tomz197/particles/internal/scene"
	"github.com/tomz197/particles/internal/sim"
)

// WellInput is a viewer's gravity well as last reported by its client.
type WellInput struct {
	Mode     scene.WellMode
	Position physics.Vec2
}

// Active reports whether the well exerts any force.
func (w WellInput) Active() bool {
	return w.Mode != scene.WellOff
}

// ViewerWell is one viewer's active well, as published to every client.
type ViewerWell struct {
	ClientID int
	Username string
	WellInput
}

// WorldSnapshot is an immutable snapshot of the shared simulation for
// rendering. Clients must not modify it.
type WorldSnapshot struct {
	*sim.Snapshot
	Wells   []ViewerWell
	Viewers int
}

// Markers returns every published well except the one owned by clientID.
func (s *WorldSnapshot) Markers(clientID int) []scene.Marker {
	markers := make([]scene.Marker, 0, len(s.Wells))
	for _, w := range s.Wells {
		if w.ClientID != clientID {
			markers = append(markers, scene.Marker{Position: w.Position, Mode: w.Mode})
		}
	}
	return markers
}
