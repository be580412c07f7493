package client

import (
	"bufio"
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pconfig "github.com/tomz197/particles/internal/config"
	"github.com/tomz197/particles/internal/loop/config"
	"github.com/tomz197/particles/internal/loop/server"
	"github.com/tomz197/particles/internal/physics"
	"github.com/tomz197/particles/internal/scene"
	"github.com/tomz197/particles/internal/sim"
)

// fakeServer records client calls and serves a fixed snapshot.
type fakeServer struct {
	mu           sync.Mutex
	cfg          pconfig.Config
	handle       *server.ClientHandle
	inputs       []server.WellInput
	unregistered []int
	snap         *server.WorldSnapshot
}

func newFakeServer() *fakeServer {
	cfg := pconfig.Default()
	cfg.Arena = pconfig.Arena{Width: 200, Height: 100}
	return &fakeServer{
		cfg: cfg,
		snap: &server.WorldSnapshot{
			Snapshot: &sim.Snapshot{
				Arena: cfg.Arena,
				Particles: []sim.ParticleView{
					{ID: 1, Position: physics.Vec2{X: 50, Y: 50}, Radius: 3},
				},
			},
			Wells: []server.ViewerWell{
				{ClientID: 99, Username: "zed", WellInput: server.WellInput{Mode: scene.WellAttract, Position: physics.Vec2{X: 150, Y: 20}}},
			},
			Viewers: 2,
		},
	}
}

func (f *fakeServer) RegisterClient(username string) *server.ClientHandle {
	f.handle = &server.ClientHandle{ID: 7, Username: username, EventsCh: make(chan server.ClientEvent, 4)}
	return f.handle
}

func (f *fakeServer) UnregisterClient(clientID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered = append(f.unregistered, clientID)
}

func (f *fakeServer) SendInput(clientID int, well server.WellInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, well)
}

func (f *fakeServer) GetSnapshot() *server.WorldSnapshot { return f.snap }
func (f *fakeServer) Config() pconfig.Config            { return f.cfg }

func fixedSize() (int, int, error) { return 100, 30, nil }

func TestClientSendsWellAndQuits(t *testing.T) {
	fs := newFakeServer()
	pr, pw := io.Pipe()
	var out bytes.Buffer

	c := NewClient(fs, bufio.NewReader(pr), &out, ClientOptions{TermSizeFunc: fixedSize, Username: "amy"})
	assert.Equal(t, 7, c.ID())

	go func() {
		pw.Write([]byte(" "))
		time.Sleep(100 * time.Millisecond)
		pw.Write([]byte("q"))
		pw.Close()
	}()
	require.NoError(t, c.Run())

	fs.mu.Lock()
	defer fs.mu.Unlock()
	assert.Equal(t, []int{7}, fs.unregistered)
	require.NotEmpty(t, fs.inputs)
	assert.Equal(t, scene.WellAttract, fs.inputs[len(fs.inputs)-1].Mode)
	assert.Equal(t, physics.Vec2{X: 100, Y: 50}, fs.inputs[len(fs.inputs)-1].Position)

	text := out.String()
	assert.Contains(t, text, "zed")
	assert.Contains(t, text, "viewers")
}

func TestClientStopsWhenEventsClosed(t *testing.T) {
	fs := newFakeServer()
	pr, pw := io.Pipe()
	defer pw.Close()

	c := NewClient(fs, bufio.NewReader(pr), io.Discard, ClientOptions{TermSizeFunc: fixedSize})
	close(fs.handle.EventsCh)

	done := make(chan error, 1)
	go func() { done <- c.Run() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not stop")
	}
}

func TestShutdownEventStartsCountdown(t *testing.T) {
	fs := newFakeServer()
	pr, pw := io.Pipe()
	defer pw.Close()

	c := NewClient(fs, bufio.NewReader(pr), io.Discard, ClientOptions{TermSizeFunc: fixedSize})
	fs.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}
	c.processServerEvents()
	assert.Equal(t, PhaseShutdown, c.state.Phase)
	assert.Equal(t, config.ShutdownDisplaySeconds, c.state.shutdownTimer)

	c.state.delta = time.Duration(config.ShutdownDisplaySeconds * float64(time.Second))
	c.updateShutdownState()
	assert.False(t, c.state.Running)
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(config.MaxTermWidth+20, 40)
	assert.Equal(t, config.MaxTermWidth, w)
	assert.Equal(t, 40, h)
	assert.Equal(t, 10, col)
	assert.Equal(t, 0, row)
}
