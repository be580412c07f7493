// Package hud renders the heads-up text panel shown over the particles.
package hud

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/particles/internal/scene"
	"github.com/tomz197/particles/internal/sim"
)

const helpLine = "←↑↓→/wasd move  space attract  r repel  x release  t tree  v vectors  c pairs  h hud  q quit"

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	dim     lipgloss.Style
	dimmer  lipgloss.Style
	attract lipgloss.Style
	repel   lipgloss.Style
}

// HUD formats snapshot statistics for one output.
type HUD struct {
	s styles
}

// Status is viewer-side information shown alongside the snapshot.
type Status struct {
	View    scene.View
	FPS     float64
	Viewers int // 0 hides the line
	Extra   []string
}

// New creates a HUD styled for w. SSH sessions are not detected as colour
// terminals, so the profile is pinned to 256 colours.
func New(w io.Writer) *HUD {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)
	return &HUD{s: styles{
		title:   r.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.Color("242")),
		value:   r.NewStyle().Foreground(lipgloss.Color("255")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("242")),
		dimmer:  r.NewStyle().Foreground(lipgloss.Color("238")),
		attract: r.NewStyle().Foreground(lipgloss.Color("82")),
		repel:   r.NewStyle().Foreground(lipgloss.Color("214")),
	}}
}

// Lines renders the panel one terminal row per entry.
func (h *HUD) Lines(snap *sim.Snapshot, st Status) []string {
	s := snap.Stats
	lines := []string{
		h.s.title.Render("particles") + "  " + h.pair("tick", fmt.Sprint(s.Tick)) + "  " + h.pair("fps", fmt.Sprintf("%.1f", st.FPS)),
		h.pair("particles", fmt.Sprint(s.Particles)),
		h.pair("nodes", fmt.Sprint(s.Nodes)) + "  " + h.pair("leaves", fmt.Sprint(s.Leaves)) + "  " + h.pair("depth", fmt.Sprint(s.Depth)),
		h.pair("tested", fmt.Sprint(s.PairsTested)) + "  " + h.pair("colliding", fmt.Sprint(s.Colliding)) + "  " + h.pair("discoveries", fmt.Sprint(s.Discoveries)),
		h.well(st.View),
	}
	if st.Viewers > 0 {
		lines = append(lines, h.pair("viewers", fmt.Sprint(st.Viewers)))
	}
	for _, m := range snap.Metrics {
		lines = append(lines, h.s.dim.Render(m))
	}
	for _, e := range st.Extra {
		lines = append(lines, h.s.dim.Render(e))
	}
	lines = append(lines, h.s.dimmer.Render(overlays(st.View.Overlays)), h.s.dimmer.Render(helpLine))
	return lines
}

func (h *HUD) pair(label, value string) string {
	return h.s.label.Render(label+" ") + h.s.value.Render(value)
}

func (h *HUD) well(v scene.View) string {
	mode := h.s.dim.Render(v.Mode.String())
	switch v.Mode {
	case scene.WellAttract:
		mode = h.s.attract.Render(v.Mode.String())
	case scene.WellRepel:
		mode = h.s.repel.Render(v.Mode.String())
	}
	return h.s.label.Render("well ") + mode + h.s.dim.Render(fmt.Sprintf(" (%.0f, %.0f)", v.Cursor.X, v.Cursor.Y))
}

func overlays(o scene.Overlays) string {
	var on []string
	if o.Tree {
		on = append(on, "tree")
	}
	if o.Vectors {
		on = append(on, "vectors")
	}
	if o.Collisions {
		on = append(on, "pairs")
	}
	if len(on) == 0 {
		return "overlays: none"
	}
	return "overlays: " + strings.Join(on, " ")
}
