package client

import (
	"fmt"
	"time"

	"github.com/tomz197/particles/internal/draw"
	"github.com/tomz197/particles/internal/hud"
	"github.com/tomz197/particles/internal/loop/config"
	"github.com/tomz197/particles/internal/loop/server"
	"github.com/tomz197/particles/internal/scene"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	fw := c.frameWriter
	draw.ClearScreen(fw)

	// Get world snapshot
	snapshot := c.server.GetSnapshot()

	if err := scene.Render(fw, c.canvas, snapshot.Snapshot, c.state.View, snapshot.Markers(c.handle.ID)); err != nil {
		return err
	}

	// Draw usernames next to other viewers' wells
	c.drawViewerNames(snapshot)

	// Draw UI overlay
	c.drawUI(snapshot)

	return fw.Flush()
}

// drawViewerNames labels other viewers' wells.
func (c *Client) drawViewerNames(snapshot *server.WorldSnapshot) {
	for _, w := range snapshot.Wells {
		if w.ClientID == c.handle.ID || w.Username == "" {
			continue
		}
		col, row := c.canvas.LogicalToTerminal(w.Position.X, w.Position.Y)
		c.frameWriter.WriteAt(col+2, row-1, w.Username)
	}
}

// drawUI draws the HUD or the active full-screen message.
func (c *Client) drawUI(snapshot *server.WorldSnapshot) {
	centerX := c.canvas.OffsetCol() + c.canvas.TerminalWidth()/2
	centerY := c.canvas.OffsetRow() + c.canvas.TerminalHeight()/2

	if c.state.Phase == PhaseShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	if c.state.View.HUD {
		c.frameWriter.WriteLines(1, 1, c.panel.Lines(snapshot.Snapshot, hud.Status{
			View:    c.state.View,
			FPS:     c.frames.AverageRate(),
			Viewers: snapshot.Viewers,
			Extra:   []string{c.drawTime.String()},
		}))
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	fw := c.frameWriter
	title := "INACTIVITY WARNING"
	fw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	fw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	fw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawShutdownScreen draws the server shutdown notice with a countdown.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	fw := c.frameWriter
	title := "SERVER SHUTTING DOWN"
	fw.WriteAt(centerX-len(title)/2, centerY-1, title)

	msg := fmt.Sprintf("Disconnecting in %d seconds. Thanks for watching!", int(c.state.shutdownTimer+0.999))
	fw.WriteAt(centerX-len(msg)/2, centerY+1, msg)
}
