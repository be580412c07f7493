// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state. Directions are held
// keys; the remaining fields are true only on the frame the key arrived.
type Input struct {
	Quit  bool
	Left  bool
	Right bool
	Up    bool
	Down  bool

	Attract bool
	Repel   bool
	Release bool

	ToggleTree       bool
	ToggleVectors    bool
	ToggleCollisions bool
	ToggleHUD        bool

	Active bool // any byte arrived this frame
}

// Moving reports whether any direction key is held.
func (in Input) Moving() bool {
	return in.Left || in.Right || in.Up || in.Down
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks held keys.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
	now    func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:  make(chan byte, 128),
		now: time.Now,
	}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool { return s.closed }

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := parse(&s.state, buf, s.now())
	if s.closed {
		in.Quit = true
	}
	return in
}

// parse applies buf to state and builds the frame's input.
func parse(state *keyState, buf []byte, now time.Time) Input {
	in := Input{Active: len(buf) > 0}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				state.up = now
			case 'B':
				state.down = now
			case 'C':
				state.right = now
			case 'D':
				state.left = now
			}
			i += 2
			continue
		}

		applyByte(state, &in, b, now)
	}

	in.Left = now.Sub(state.left) < keyHoldDuration
	in.Right = now.Sub(state.right) < keyHoldDuration
	in.Up = now.Sub(state.up) < keyHoldDuration
	in.Down = now.Sub(state.down) < keyHoldDuration
	return in
}

func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A':
		state.left = now
	case 'd', 'D':
		state.right = now
	case 'w', 'W':
		state.up = now
	case 's', 'S':
		state.down = now
	case ' ':
		in.Attract = true
	case 'r', 'R':
		in.Repel = true
	case 'x', 'X':
		in.Release = true
	case 't', 'T':
		in.ToggleTree = !in.ToggleTree
	case 'v', 'V':
		in.ToggleVectors = !in.ToggleVectors
	case 'c', 'C':
		in.ToggleCollisions = !in.ToggleCollisions
	case 'h', 'H':
		in.ToggleHUD = !in.ToggleHUD
	}
}
