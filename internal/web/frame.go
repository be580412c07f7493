package web

import (
	"github.com/tomz197/particles/internal/loop/server"
	"github.com/tomz197/particles/internal/physics"
	"github.com/tomz197/particles/internal/quadtree"
	"github.com/tomz197/particles/internal/scene"
)

// Frame is the JSON document streamed to browsers.
type Frame struct {
	Tick      uint64         `json:"tick"`
	Arena     [2]float64     `json:"arena"`
	Particles []WireParticle `json:"particles"`
	Splits    [][4]float64   `json:"splits,omitempty"` // branch bounds x, y, w, h
	Pairs     [][5]float64   `json:"pairs,omitempty"`  // ax, ay, bx, by, colliding
	Wells     []WireWell     `json:"wells"`
	Stats     WireStats      `json:"stats"`
	Metrics   []string       `json:"metrics"`
	You       int            `json:"you"`
}

// WireParticle is one particle: position, velocity, radius and colour.
type WireParticle struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
	R  float64 `json:"r"`
	C  string  `json:"c"`
}

// WireWell is one viewer's active gravity well.
type WireWell struct {
	ID   int     `json:"id"`
	User string  `json:"user"`
	Mode string  `json:"mode"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// WireStats mirrors sim.Stats.
type WireStats struct {
	Particles   int `json:"particles"`
	Nodes       int `json:"nodes"`
	Leaves      int `json:"leaves"`
	Depth       int `json:"depth"`
	Discoveries int `json:"discoveries"`
	PairsTested int `json:"pairsTested"`
	Colliding   int `json:"colliding"`
	Viewers     int `json:"viewers"`
}

// Opts selects the optional overlay data included in a frame.
type Opts struct {
	Tree  bool `json:"tree"`
	Pairs bool `json:"pairs"`
}

// Pointer is a message from the browser steering the viewer's well.
type Pointer struct {
	Mode string  `json:"mode"` // off, attract or repel
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Opts *Opts   `json:"opts,omitempty"`
}

// WellInput converts the pointer into server input. Unknown modes are off.
func (p Pointer) WellInput() server.WellInput {
	mode := scene.WellOff
	switch p.Mode {
	case "attract":
		mode = scene.WellAttract
	case "repel":
		mode = scene.WellRepel
	}
	return server.WellInput{Mode: mode, Position: physics.Vec2{X: p.X, Y: p.Y}}
}

// NewFrame converts a world snapshot for the given client.
func NewFrame(snap *server.WorldSnapshot, clientID int, opts Opts) Frame {
	s := snap.Snapshot
	f := Frame{
		Tick:      s.Stats.Tick,
		Arena:     [2]float64{s.Arena.Width, s.Arena.Height},
		Particles: make([]WireParticle, len(s.Particles)),
		Wells:     make([]WireWell, 0, len(snap.Wells)),
		Stats: WireStats{
			Particles:   s.Stats.Particles,
			Nodes:       s.Stats.Nodes,
			Leaves:      s.Stats.Leaves,
			Depth:       s.Stats.Depth,
			Discoveries: s.Stats.Discoveries,
			PairsTested: s.Stats.PairsTested,
			Colliding:   s.Stats.Colliding,
			Viewers:     snap.Viewers,
		},
		Metrics: s.Metrics,
		You:     clientID,
	}
	for i, p := range s.Particles {
		f.Particles[i] = WireParticle{
			X: p.Position.X, Y: p.Position.Y,
			VX: p.Velocity.X, VY: p.Velocity.Y,
			R: p.Radius,
			C: p.Color.Clamped().Hex(),
		}
	}
	for _, w := range snap.Wells {
		f.Wells = append(f.Wells, WireWell{ID: w.ClientID, User: w.Username, Mode: w.Mode.String(), X: w.Position.X, Y: w.Position.Y})
	}
	if opts.Tree {
		for _, n := range s.Nodes {
			if n.Kind == quadtree.Branch {
				f.Splits = append(f.Splits, [4]float64{n.Bounds.X, n.Bounds.Y, n.Bounds.W, n.Bounds.H})
			}
		}
	}
	if opts.Pairs {
		for _, p := range s.Pairs {
			hit := 0.0
			if p.Colliding {
				hit = 1
			}
			f.Pairs = append(f.Pairs, [5]float64{p.A.X, p.A.Y, p.B.X, p.B.Y, hit})
		}
	}
	return f
}
