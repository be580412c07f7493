// Package client renders the shared simulation for one terminal session and
// forwards the viewer's gravity well to the server.
package client

import (
	"bufio"
	"io"
	"time"

	"github.com/tomz197/particles/internal/draw"
	"github.com/tomz197/particles/internal/hud"
	"github.com/tomz197/particles/internal/input"
	"github.com/tomz197/particles/internal/loop/config"
	"github.com/tomz197/particles/internal/loop/server"
	"github.com/tomz197/particles/internal/perf"
	"github.com/tomz197/particles/internal/scene"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.SimServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	frameWriter  *draw.FrameWriter // Accumulates the frame for chunked output
	panel        *hud.HUD
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc

	frames   *perf.Counter
	drawTime *perf.Counter
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
}

// NewClient creates a new client connected to the given server.
func NewClient(ss server.SimServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	arena := ss.Config().Arena
	handle := ss.RegisterClient(opts.Username)
	state := NewClientState(scene.NewView(arena))
	state.termSizeFunc = termSizeFunc

	return &Client{
		server:       ss,
		handle:       handle,
		state:        state,
		canvas:       draw.NewScaledCanvas(1, 1, arena.Width, arena.Height),
		frameWriter:  draw.NewFrameWriter(w),
		panel:        hud.New(w),
		reader:       r,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		frames:       perf.NewCounter("Frame", perf.Rate, perf.DefaultSamples),
		drawTime:     perf.NewCounter("Draw", perf.Time, perf.DefaultSamples),
	}
}

// ID returns the server-assigned client ID.
func (c *Client) ID() int {
	return c.handle.ID
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	// Unregister from server
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check for server events
		c.processServerEvents()

		if c.state.Phase == PhaseShutdown {
			c.updateShutdownState()
		}

		// Handle screen resize
		if err := c.updateScreen(); err != nil {
			return err
		}

		// Draw frame
		var err error
		c.drawTime.Time(func() { err = c.drawFrame() })
		if err != nil {
			return err
		}
		c.frames.Tick()

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input, updates the local view and sends the well to
// the server when it changes.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.state.Input.Active {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}

	if c.state.Phase != PhaseViewing {
		return
	}

	c.state.View.Apply(c.state.Input, c.server.Config().Arena, c.state.delta.Seconds())
	if well := c.state.WellInput(); !c.state.sentOnce || well != c.state.lastSent {
		c.server.SendInput(c.handle.ID, well)
		c.state.lastSent = well
		c.state.sentOnce = true
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.Phase = PhaseShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen fits the canvas to the terminal, clamped to the max render
// resolution and keeping the arena's aspect ratio.
func (c *Client) updateScreen() error {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return err
	}
	termWidth, termHeight, baseCol, baseRow := clampTermSize(termWidth, termHeight)
	arena := c.server.Config().Arena
	w, h, offCol, offRow := draw.FitArena(termWidth, termHeight, arena.Width, arena.Height)

	c.canvas.Resize(w, h)
	c.canvas.SetOffset(baseCol+offCol, baseRow+offRow)
	return nil
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
