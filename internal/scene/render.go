package scene

import (
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/particles/internal/draw"
	"github.com/tomz197/particles/internal/physics"
	"github.com/tomz197/particles/internal/quadtree"
	"github.com/tomz197/particles/internal/sim"
)

// vectorSeconds is how far ahead velocity vectors reach.
const vectorSeconds = 0.25

// markerSize is the half-length of a well marker in arena units.
const markerSize = 12.0

var (
	treeColor      = colorful.Color{R: 0.25, G: 0.25, B: 0.3}
	testedColor    = colorful.Color{R: 0.2, G: 0.35, B: 0.2}
	collidingColor = colorful.Color{R: 1, G: 0.2, B: 0.2}
	vectorColor    = colorful.Color{R: 0.9, G: 0.9, B: 0.5}
	cursorColor    = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	attractColor   = colorful.Color{R: 0.3, G: 1, B: 0.4}
	repelColor     = colorful.Color{R: 1, G: 0.6, B: 0.1}
)

// Marker is a gravity well drawn on top of the particles.
type Marker struct {
	Position physics.Vec2
	Mode     WellMode
}

// Render draws a snapshot with the view's overlays into fw. The canvas is
// cleared first; screen clearing is left to the caller. Other viewers' wells
// are passed as markers; the view's own cursor is always drawn.
func Render(fw *draw.FrameWriter, c *draw.Canvas, snap *sim.Snapshot, v View, markers []Marker) error {
	c.Clear()

	if v.Tree {
		drawTree(c, snap.Nodes)
	}
	if v.Collisions {
		for _, p := range snap.Pairs {
			col := testedColor
			if p.Colliding {
				col = collidingColor
			}
			c.DrawLine(point(p.A), point(p.B), col)
		}
	}
	for _, p := range snap.Particles {
		c.FillCircle(p.Position.X, p.Position.Y, p.Radius, p.Color)
	}
	if v.Vectors {
		for _, p := range snap.Particles {
			end := p.Position
			end.AddScaled(p.Velocity, vectorSeconds)
			c.DrawLine(point(p.Position), point(end), vectorColor)
		}
	}
	for _, m := range markers {
		drawMarker(c, m.Position, m.Mode)
	}
	drawMarker(c, v.Cursor, v.Mode)

	if err := c.Render(fw); err != nil {
		return err
	}
	if v.Tree {
		writeLeafCounts(fw, c, snap.Nodes)
	}
	return nil
}

// drawTree draws the split lines of every branch.
func drawTree(c *draw.Canvas, nodes []quadtree.NodeInfo) {
	for _, n := range nodes {
		if n.Kind != quadtree.Branch {
			continue
		}
		b := n.Bounds
		mx, my := b.X+b.W/2, b.Y+b.H/2
		c.DrawLine(draw.Point{X: mx, Y: b.Y}, draw.Point{X: mx, Y: b.Y + b.H}, treeColor)
		c.DrawLine(draw.Point{X: b.X, Y: my}, draw.Point{X: b.X + b.W, Y: my}, treeColor)
	}
}

// writeLeafCounts labels each occupied leaf with its resident count.
func writeLeafCounts(fw *draw.FrameWriter, c *draw.Canvas, nodes []quadtree.NodeInfo) {
	for _, n := range nodes {
		if n.Kind != quadtree.Leaf || n.Count == 0 {
			continue
		}
		col, row := c.LogicalToTerminal(n.Bounds.X+n.Bounds.W/2, n.Bounds.Y+n.Bounds.H/2)
		fw.WriteAt(col, row, "\033[2m"+strconv.Itoa(n.Count)+"\033[0m")
	}
}

func drawMarker(c *draw.Canvas, pos physics.Vec2, mode WellMode) {
	col := cursorColor
	size := markerSize / 2
	switch mode {
	case WellAttract:
		col, size = attractColor, markerSize
	case WellRepel:
		col, size = repelColor, markerSize
	}
	c.DrawLine(draw.Point{X: pos.X - size, Y: pos.Y}, draw.Point{X: pos.X + size, Y: pos.Y}, col)
	c.DrawLine(draw.Point{X: pos.X, Y: pos.Y - size}, draw.Point{X: pos.X, Y: pos.Y + size}, col)
}

func point(v physics.Vec2) draw.Point {
	return draw.Point{X: v.X, Y: v.Y}
}
