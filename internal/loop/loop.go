// Package loop drives the simulation for a local terminal: input, tick,
// and draw on a single goroutine.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/particles/internal/draw"
	"github.com/tomz197/particles/internal/hud"
	"github.com/tomz197/particles/internal/input"
	"github.com/tomz197/particles/internal/loop/config"
	"github.com/tomz197/particles/internal/perf"
	"github.com/tomz197/particles/internal/scene"
	"github.com/tomz197/particles/internal/sim"
)

// Counter names recorded by the local loop.
const (
	CounterCycle = "UpdateCycle"
	CounterDraw  = "Draw"
)

// Options configures Run.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
}

// Run ticks the engine at its configured rate and redraws at the client
// frame rate until the context is cancelled or the user quits.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, engine *sim.Engine, opts Options) error {
	termSize := opts.TermSizeFunc
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	cfg := engine.Config()
	dt := cfg.TickDelta()
	ticksPerFrame := max(1, cfg.Physics.TickRate/config.ClientTargetFPS)

	stream := input.StartStream(r)
	view := scene.NewView(cfg.Arena)
	fw := draw.NewFrameWriter(w)
	panel := hud.New(w)
	canvas := draw.NewScaledCanvas(1, 1, cfg.Arena.Width, cfg.Arena.Height)

	cycle := engine.Counters().Add(CounterCycle, perf.Rate, true)
	drawTime := engine.Counters().Add(CounterDraw, perf.Time, true)
	frames := perf.NewCounter("Frame", perf.Rate, perf.DefaultSamples)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	pacer := NewPacer(cfg.TickInterval())
	logger.Info("local loop started", "tickRate", cfg.Physics.TickRate, "interval", pacer.Interval(), "arena", cfg.Arena)
	for tick := 0; ; tick++ {
		select {
		case <-ctx.Done():
			draw.ClearScreen(w)
			return ctx.Err()
		default:
		}

		// ===== INPUT PHASE =====
		in := input.ReadInput(stream)
		if in.Quit {
			break
		}
		view.Apply(in, cfg.Arena, dt)
		if well, ok := view.Well(cfg.Well); ok {
			engine.SetForceField(well)
		} else {
			engine.SetForceField(nil)
		}

		// ===== UPDATE PHASE =====
		engine.Tick(dt)
		cycle.Tick()

		// ===== DRAW PHASE =====
		if tick%ticksPerFrame == 0 {
			var err error
			drawTime.Time(func() {
				err = drawFrame(fw, canvas, panel, engine.Snapshot(), view, frames, termSize)
			})
			if err != nil {
				return err
			}
			frames.Tick()
		}

		// ===== FRAME TIMING =====
		pacer.Wait()
	}

	draw.ClearScreen(w)
	logger.Info("local loop stopped", "ticks", engine.Ticks(), "late", pacer.Late())
	return nil
}

// drawFrame fits the canvas to the terminal and writes one frame.
func drawFrame(fw *draw.FrameWriter, canvas *draw.Canvas, panel *hud.HUD, snap *sim.Snapshot, view scene.View, frames *perf.Counter, termSize draw.TermSizeFunc) error {
	termW, termH, err := termSize()
	if err != nil {
		return err
	}
	w, h, offCol, offRow := draw.FitArena(termW, termH, snap.Arena.Width, snap.Arena.Height)
	canvas.Resize(w, h)
	canvas.SetOffset(offCol, offRow)

	draw.ClearScreen(fw)
	if err := scene.Render(fw, canvas, snap, view, nil); err != nil {
		return err
	}
	if view.HUD {
		fw.WriteLines(1, 1, panel.Lines(snap, hud.Status{View: view, FPS: frames.AverageRate()}))
	}
	return fw.Flush()
}
