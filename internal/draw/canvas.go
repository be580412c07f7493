package draw

import (
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Canvas is a colour drawing buffer with 2x vertical resolution. Drawing
// calls take logical coordinates, which are scaled to terminal pixels.
type Canvas struct {
	termWidth      int // Actual terminal columns
	termHeight     int // Actual terminal rows
	subPixelHeight int // termHeight * 2
	pixels         []colorful.Color
	set            []bool

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets for centering the render area
	offsetCol int
	offsetRow int

	renderBuf []byte
}

// NewScaledCanvas creates a canvas that maps a logical area onto a terminal
// region of termWidth x termHeight cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 1), max(termHeight, 1)
	subPixelHeight := termHeight * 2
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]colorful.Color, subPixelHeight*termWidth)
		c.set = make([]bool, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the terminal column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the terminal row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.set)
}

func (c *Canvas) setPixel(x, y int, col colorful.Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		i := y*c.termWidth + x
		c.pixels[i] = col
		c.set[i] = true
	}
}

// pixelAt reports the colour of a terminal pixel and whether it is set.
func (c *Canvas) pixelAt(x, y int) (colorful.Color, bool) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return colorful.Color{}, false
	}
	i := y*c.termWidth + x
	return c.pixels[i], c.set[i]
}

// Set colours the pixel at logical coordinates.
func (c *Canvas) Set(x, y float64, col colorful.Color) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), col)
}

// FillCircle fills a disc given in logical coordinates. Discs smaller than a
// pixel still light their centre pixel.
func (c *Canvas) FillCircle(cx, cy, r float64, col colorful.Color) {
	px, py := cx*c.scaleX, cy*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY
	if rx < 1 && ry < 1 {
		c.setPixel(int(math.Round(px)), int(math.Round(py)), col)
		return
	}
	for y := int(math.Floor(py - ry)); y <= int(math.Ceil(py+ry)); y++ {
		dy := (float64(y) - py) / ry
		if dy*dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		for x := int(math.Ceil(px - half)); x <= int(math.Floor(px+half)); x++ {
			c.setPixel(x, y, col)
		}
	}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, col colorful.Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// LogicalToTerminal converts logical coordinates to a 1-based terminal
// position (col, row), including the centering offset.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1 + c.offsetCol, py/2 + 1 + c.offsetRow
}

// Render writes every non-empty cell using half blocks with 24-bit colour.
// Empty cells are skipped, so the caller clears the screen between frames.
func (c *Canvas) Render(w io.Writer) error {
	buf := c.renderBuf[:0]
	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			top, hasTop := c.pixelAt(col, row*2)
			bottom, hasBottom := c.pixelAt(col, row*2+1)
			if !hasTop && !hasBottom {
				continue
			}

			buf = appendMove(buf, col+1+c.offsetCol, row+1+c.offsetRow)
			switch {
			case hasTop && hasBottom && top == bottom:
				buf = appendFg(buf, top)
				buf = append(buf, string(BlockFull)...)
			case hasTop && hasBottom:
				buf = appendBg(appendFg(buf, top), bottom)
				buf = append(buf, string(BlockUpperHalf)...)
			case hasTop:
				buf = appendFg(buf, top)
				buf = append(buf, string(BlockUpperHalf)...)
			default:
				buf = appendFg(buf, bottom)
				buf = append(buf, string(BlockLowerHalf)...)
			}
			buf = append(buf, seqReset...)
		}
	}
	c.renderBuf = buf
	_, err := w.Write(buf)
	return err
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
