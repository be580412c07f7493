package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = colorful.Color{R: 1}

func TestCanvasScaling(t *testing.T) {
	c := NewScaledCanvas(100, 50, 200, 200)
	c.Set(100, 100, red)

	col, ok := c.pixelAt(50, 50)
	require.True(t, ok)
	assert.Equal(t, red, col)

	c.Clear()
	_, ok = c.pixelAt(50, 50)
	assert.False(t, ok)
}

func TestCanvasOutOfBoundsIgnored(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	assert.NotPanics(t, func() {
		c.Set(-5, -5, red)
		c.Set(100, 100, red)
		c.DrawLine(Point{-10, -10}, Point{30, 30}, red)
		c.FillCircle(9, 9, 4, red)
	})
}

func TestFillCircleTinyStillVisible(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillCircle(50, 50, 0.5, red)
	_, ok := c.pixelAt(5, 5)
	assert.True(t, ok)
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.setPixel(0, 0, red)
	c.setPixel(1, 1, red)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "\033[1;1H\033[38;2;255;0;0m"+string(BlockUpperHalf))
	assert.Contains(t, out, "\033[1;2H\033[38;2;255;0;0m"+string(BlockLowerHalf))
}

func TestRenderSkipsEmpty(t *testing.T) {
	c := NewScaledCanvas(4, 4, 4, 8)
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Empty(t, buf.String())
}

func TestLogicalToTerminal(t *testing.T) {
	c := NewScaledCanvas(100, 50, 100, 100)
	c.SetOffset(3, 2)
	col, row := c.LogicalToTerminal(10, 10)
	assert.Equal(t, 14, col)
	assert.Equal(t, 8, row)
}

func TestFrameWriterChunks(t *testing.T) {
	var out bytes.Buffer
	fw := NewFrameWriter(&out)
	fw.SetOffset(1, 1)
	fw.WriteAt(1, 1, "x")
	fw.WriteString(strings.Repeat("a", 3*maxChunkSize))
	require.NoError(t, fw.Flush())

	assert.True(t, strings.HasPrefix(out.String(), "\033[2;2Hx"))
	assert.Equal(t, 0, fw.Len())
}

func TestFitArena(t *testing.T) {
	w, h, offCol, offRow := FitArena(200, 50, 1920, 1080)
	assert.LessOrEqual(t, w, 200)
	assert.LessOrEqual(t, h, 50)
	assert.GreaterOrEqual(t, offCol, 0)
	assert.GreaterOrEqual(t, offRow, 0)
	// aspect preserved within a cell
	assert.InDelta(t, 1920.0/1080.0, float64(w)/float64(h*2), 0.1)
}
