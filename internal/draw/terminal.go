package draw

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// maxChunkSize keeps single writes under a typical SSH packet payload.
const maxChunkSize = 1400

// FrameWriter accumulates a whole frame and writes it to the underlying
// writer in chunks on Flush. Positions passed to MoveCursor and WriteAt are
// 1-based and shifted by the configured offset.
type FrameWriter struct {
	buf    []byte
	bufw   *bufio.Writer
	offCol int
	offRow int
}

// NewFrameWriter creates a FrameWriter that writes to w.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{bufw: bufio.NewWriterSize(w, 8192)}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (fw *FrameWriter) SetOffset(offsetCol, offsetRow int) {
	fw.offCol = offsetCol
	fw.offRow = offsetRow
}

// MoveCursor appends an ANSI cursor position sequence.
func (fw *FrameWriter) MoveCursor(col, row int) {
	fw.buf = appendMove(fw.buf, col+fw.offCol, row+fw.offRow)
}

// Write implements io.Writer for use with Canvas.Render.
func (fw *FrameWriter) Write(p []byte) (int, error) {
	fw.buf = append(fw.buf, p...)
	return len(p), nil
}

// WriteString appends a string to the buffer.
func (fw *FrameWriter) WriteString(s string) (int, error) {
	fw.buf = append(fw.buf, s...)
	return len(s), nil
}

// WriteAt writes a string at a specific position.
func (fw *FrameWriter) WriteAt(col, row int, s string) {
	fw.MoveCursor(col, row)
	fw.buf = append(fw.buf, s...)
}

// WriteLines writes a multi-line block with its top-left corner at col, row.
// Each line is placed explicitly so blocks survive raw-mode terminals that do
// not translate newlines.
func (fw *FrameWriter) WriteLines(col, row int, lines []string) {
	for i, line := range lines {
		fw.WriteAt(col, row+i, line)
	}
}

// Len returns the number of buffered bytes.
func (fw *FrameWriter) Len() int { return len(fw.buf) }

// Flush writes the accumulated buffer in chunks, then resets it.
func (fw *FrameWriter) Flush() error {
	data := fw.buf
	for len(data) > 0 {
		chunk := data[:min(len(data), maxChunkSize)]
		if _, err := fw.bufw.Write(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	fw.buf = fw.buf[:0]
	return fw.bufw.Flush()
}

var _ io.StringWriter = (*FrameWriter)(nil)

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FitArena computes the largest terminal region, in cells, that shows a
// logical arena without distortion, and the offsets that center it. Cells are
// assumed to be twice as tall as they are wide.
func FitArena(termW, termH int, arenaW, arenaH float64) (w, h, offCol, offRow int) {
	termW, termH = max(termW, 1), max(termH, 1)
	// one cell covers one pixel horizontally and two vertically
	scale := min(float64(termW)/arenaW, float64(termH*2)/arenaH)
	w = max(int(arenaW*scale), 1)
	h = max(int(arenaH*scale/2), 1)
	return w, h, (termW - w) / 2, (termH - h) / 2
}

