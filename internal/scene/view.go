// Package scene holds a viewer's local state and draws simulation snapshots
// onto a terminal canvas.
package scene

import (
	"github.com/tomz197/particles/internal/config"
	"github.com/tomz197/particles/internal/input"
	"github.com/tomz197/particles/internal/physics"
	"github.com/tomz197/particles/internal/sim"
)

// cursorSpeed is the well cursor speed in arena widths per second.
const cursorSpeed = 0.5

// WellMode is what the viewer's gravity well is doing.
type WellMode uint8

const (
	WellOff WellMode = iota
	WellAttract
	WellRepel
)

func (m WellMode) String() string {
	switch m {
	case WellAttract:
		return "attract"
	case WellRepel:
		return "repel"
	default:
		return "off"
	}
}

// Overlays are the debug layers a viewer can toggle.
type Overlays struct {
	Tree       bool
	Vectors    bool
	Collisions bool
	HUD        bool
}

// View is one viewer's state: overlay toggles and the well cursor.
type View struct {
	Overlays
	Cursor physics.Vec2
	Mode   WellMode
}

// NewView centers the cursor in the arena with only the HUD shown.
func NewView(arena config.Arena) View {
	return View{
		Overlays: Overlays{HUD: true},
		Cursor:   physics.Vec2{X: arena.Width / 2, Y: arena.Height / 2},
	}
}

// Apply folds one frame of input into the view. dt is the frame time in
// seconds and scales cursor movement.
func (v *View) Apply(in input.Input, arena config.Arena, dt float64) {
	step := cursorSpeed * max(arena.Width, arena.Height) * dt
	if in.Left {
		v.Cursor.X -= step
	}
	if in.Right {
		v.Cursor.X += step
	}
	if in.Up {
		v.Cursor.Y -= step
	}
	if in.Down {
		v.Cursor.Y += step
	}
	v.Cursor.X = min(max(v.Cursor.X, 0), arena.Width)
	v.Cursor.Y = min(max(v.Cursor.Y, 0), arena.Height)

	switch {
	case in.Release:
		v.Mode = WellOff
	case in.Repel:
		v.Mode = WellRepel
	case in.Attract:
		v.Mode = WellAttract
	}

	v.Tree = v.Tree != in.ToggleTree
	v.Vectors = v.Vectors != in.ToggleVectors
	v.Collisions = v.Collisions != in.ToggleCollisions
	v.HUD = v.HUD != in.ToggleHUD
}

// Well returns the gravity well the view is driving, if any.
func (v View) Well(cfg config.Well) (sim.GravityWell, bool) {
	if v.Mode == WellOff {
		return sim.GravityWell{}, false
	}
	return sim.GravityWell{
		Position: v.Cursor,
		Constant: cfg.Constant,
		Exponent: cfg.Exponent,
		Repel:    v.Mode == WellRepel,
	}, true
}
