package scene

import (
	"bytes"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/particles/internal/config"
	"github.com/tomz197/particles/internal/draw"
	"github.com/tomz197/particles/internal/input"
	"github.com/tomz197/particles/internal/physics"
	"github.com/tomz197/particles/internal/quadtree"
	"github.com/tomz197/particles/internal/sim"
)

var arena = config.Arena{Width: 200, Height: 100}

func TestNewViewCentered(t *testing.T) {
	v := NewView(arena)
	assert.Equal(t, physics.Vec2{X: 100, Y: 50}, v.Cursor)
	assert.True(t, v.HUD)
	assert.Equal(t, WellOff, v.Mode)
}

func TestApplyMovesAndClampsCursor(t *testing.T) {
	v := NewView(arena)
	v.Apply(input.Input{Right: true, Up: true}, arena, 0.1)
	// 0.5 * 200 * 0.1
	assert.InDelta(t, 110, v.Cursor.X, 1e-9)
	assert.InDelta(t, 40, v.Cursor.Y, 1e-9)

	v.Apply(input.Input{Left: true}, arena, 10)
	assert.Equal(t, 0.0, v.Cursor.X)
}

func TestApplyWellModes(t *testing.T) {
	v := NewView(arena)
	v.Apply(input.Input{Attract: true}, arena, 0)
	assert.Equal(t, WellAttract, v.Mode)
	v.Apply(input.Input{Repel: true}, arena, 0)
	assert.Equal(t, WellRepel, v.Mode)
	v.Apply(input.Input{}, arena, 0)
	assert.Equal(t, WellRepel, v.Mode)
	v.Apply(input.Input{Release: true, Attract: true}, arena, 0)
	assert.Equal(t, WellOff, v.Mode)
	assert.Equal(t, "off", v.Mode.String())
}

func TestApplyToggles(t *testing.T) {
	v := NewView(arena)
	v.Apply(input.Input{ToggleTree: true, ToggleHUD: true}, arena, 0)
	assert.True(t, v.Tree)
	assert.False(t, v.HUD)
	v.Apply(input.Input{ToggleTree: true}, arena, 0)
	assert.False(t, v.Tree)
}

func TestWell(t *testing.T) {
	cfg := config.Default().Well
	v := NewView(arena)
	_, ok := v.Well(cfg)
	assert.False(t, ok)

	v.Mode = WellRepel
	w, ok := v.Well(cfg)
	require.True(t, ok)
	assert.True(t, w.Repel)
	assert.Equal(t, v.Cursor, w.Position)
	assert.Equal(t, cfg.Constant, w.Constant)
}

func TestRenderOverlays(t *testing.T) {
	snap := &sim.Snapshot{
		Arena: arena,
		Particles: []sim.ParticleView{{
			ID:       1,
			Position: physics.Vec2{X: 20, Y: 20},
			Velocity: physics.Vec2{X: 40},
			Radius:   3,
			Color:    colorful.Color{R: 1},
		}},
		Nodes: []quadtree.NodeInfo{
			{ID: 0, Kind: quadtree.Branch, Bounds: quadtree.Rect{W: 200, H: 100}},
			{ID: 1, Kind: quadtree.Leaf, Depth: 1, Bounds: quadtree.Rect{X: 100, W: 100, H: 50}, Count: 7},
		},
		Pairs: []sim.PairView{{A: physics.Vec2{X: 1, Y: 1}, B: physics.Vec2{X: 30, Y: 30}, Colliding: true}},
	}

	var out bytes.Buffer
	fw := draw.NewFrameWriter(&out)
	c := draw.NewScaledCanvas(100, 25, arena.Width, arena.Height)

	v := NewView(arena)
	require.NoError(t, Render(fw, c, snap, v, nil))
	require.NoError(t, fw.Flush())
	plain := out.String()
	assert.Contains(t, plain, "38;2;255;0;0")
	assert.NotContains(t, plain, "7\033[0m")

	out.Reset()
	v.Tree, v.Collisions, v.Vectors = true, true, true
	require.NoError(t, Render(fw, c, snap, v, []Marker{{Position: physics.Vec2{X: 50, Y: 50}, Mode: WellAttract}}))
	require.NoError(t, fw.Flush())
	assert.Contains(t, out.String(), "\033[2m7\033[0m")
	assert.Greater(t, out.Len(), len(plain))
}
