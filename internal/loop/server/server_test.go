package server

import (
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pconfig "github.com/tomz197/particles/internal/config"
	"github.com/tomz197/particles/internal/physics"
	"github.com/tomz197/particles/internal/scene"
	"github.com/tomz197/particles/internal/sim"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := pconfig.Default()
	cfg.Arena = pconfig.Arena{Width: 320, Height: 180}
	cfg.Spawn.Rate = pconfig.Fixed(300)
	e, err := sim.New(cfg, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	return NewServer(e, log.New(io.Discard))
}

func runServer(t *testing.T, s *Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestInitialSnapshot(t *testing.T) {
	s := newTestServer(t)
	snap := s.GetSnapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 0, snap.Stats.Particles)
	assert.Equal(t, 320.0, s.Config().Arena.Width)
}

func TestServerTicksAndPublishes(t *testing.T) {
	s := newTestServer(t)
	runServer(t, s)

	require.Eventually(t, func() bool {
		return s.GetSnapshot().Stats.Particles > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.NotEmpty(t, s.GetSnapshot().Metrics)
}

func TestClientWellsPublished(t *testing.T) {
	s := newTestServer(t)
	runServer(t, s)

	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	s.SendInput(a.ID, WellInput{Mode: scene.WellAttract, Position: physics.Vec2{X: 10, Y: 20}})
	s.SendInput(b.ID, WellInput{Mode: scene.WellRepel, Position: physics.Vec2{X: 30, Y: 40}})

	require.Eventually(t, func() bool {
		snap := s.GetSnapshot()
		return snap.Viewers == 2 && len(snap.Wells) == 2
	}, 2*time.Second, 10*time.Millisecond)

	snap := s.GetSnapshot()
	assert.Equal(t, "alice", snap.Wells[0].Username)
	assert.Equal(t, scene.WellRepel, snap.Wells[1].Mode)

	markers := snap.Markers(a.ID)
	require.Len(t, markers, 1)
	assert.Equal(t, physics.Vec2{X: 30, Y: 40}, markers[0].Position)

	// releasing drops the well but keeps the viewer
	s.SendInput(a.ID, WellInput{Mode: scene.WellOff})
	require.Eventually(t, func() bool {
		return len(s.GetSnapshot().Wells) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, s.GetSnapshot().Viewers)
}

func TestUnregisterClosesEvents(t *testing.T) {
	s := newTestServer(t)
	runServer(t, s)

	h := s.RegisterClient("carol")
	s.UnregisterClient(h.ID)

	select {
	case _, ok := <-h.EventsCh:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
	require.Eventually(t, func() bool {
		return s.GetSnapshot().Viewers == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUsernameTruncated(t *testing.T) {
	s := newTestServer(t)
	h := s.RegisterClient(strings.Repeat("é", 40))
	assert.Len(t, []rune(h.Username), 16)
}

func TestShutdownNotifiesClients(t *testing.T) {
	s := newTestServer(t)
	runServer(t, s)

	h := s.RegisterClient("dave")
	require.Eventually(t, func() bool {
		return s.GetSnapshot().Viewers == 1
	}, 2*time.Second, 10*time.Millisecond)

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestWellFieldEmpty(t *testing.T) {
	s := newTestServer(t)
	assert.Nil(t, s.wellField())

	s.clients[1] = &ClientHandle{ID: 1, Well: WellInput{Mode: scene.WellAttract}}
	s.clients[2] = &ClientHandle{ID: 2}
	f := s.wellField()
	require.NotNil(t, f)
	assert.Len(t, f.(sim.Fields), 1)
}
