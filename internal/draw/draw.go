// Package draw renders to ANSI terminals using half-block characters, giving
// each terminal cell two vertically stacked colour pixels.
package draw

import (
	"io"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI sequences.
const (
	seqReset = "\033[0m"
	seqClear = "\033[H\033[2J"
)

// appendFg appends a 24-bit foreground colour sequence.
func appendFg(buf []byte, c colorful.Color) []byte {
	return appendRGB(append(buf, "\033[38;2;"...), c)
}

// appendBg appends a 24-bit background colour sequence.
func appendBg(buf []byte, c colorful.Color) []byte {
	return appendRGB(append(buf, "\033[48;2;"...), c)
}

func appendRGB(buf []byte, c colorful.Color) []byte {
	r, g, b := c.Clamped().RGB255()
	buf = strconv.AppendUint(buf, uint64(r), 10)
	buf = append(buf, ';')
	buf = strconv.AppendUint(buf, uint64(g), 10)
	buf = append(buf, ';')
	buf = strconv.AppendUint(buf, uint64(b), 10)
	return append(buf, 'm')
}

// appendMove appends a 1-based cursor position sequence.
func appendMove(buf []byte, col, row int) []byte {
	buf = append(buf, "\033["...)
	buf = strconv.AppendInt(buf, int64(row), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col), 10)
	return append(buf, 'H')
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, seqClear)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	io.WriteString(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor and resets colours.
func ShowCursor(w io.Writer) {
	io.WriteString(w, seqReset+"\033[?25h")
}
