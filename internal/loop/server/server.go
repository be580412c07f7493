package server

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	pconfig "github.com/tomz197/particles/internal/config"
	"github.com/tomz197/particles/internal/loop"
	"github.com/tomz197/particles/internal/loop/config"
	"github.com/tomz197/particles/internal/perf"
	"github.com/tomz197/particles/internal/scene"
	"github.com/tomz197/particles/internal/sim"
)

// CounterCycle is the server loop rate counter.
const CounterCycle = "UpdateCycle"

// SimServer is the interface clients use to communicate with the simulation
// server. Decouples the Client from the concrete Server implementation.
type SimServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SendInput(clientID int, well WellInput)
	GetSnapshot() *WorldSnapshot
	Config() pconfig.Config
}

// Server owns the engine, ticks it at the configured rate, and publishes
// snapshots for every connected client.
type Server struct {
	engine       *sim.Engine
	cfg          pconfig.Config
	logger       *log.Logger
	snapshot     atomic.Pointer[WorldSnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	inputChan    chan ClientInput
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex

	cycle  *perf.Counter
	fields sim.Fields // reused every tick
}

// Compile-time check that Server implements SimServer.
var _ SimServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string // Display name for this client
	Well     WellInput
	EventsCh chan ClientEvent // Events sent to client (shutdown, etc.)
}

// ClientInput represents input from a specific client.
type ClientInput struct {
	ClientID int
	Well     WellInput
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// NewServer creates a server around an engine. The engine must not be used
// by anything else once Run starts.
func NewServer(engine *sim.Engine, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		engine:       engine,
		cfg:          engine.Config(),
		logger:       logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		inputChan:    make(chan ClientInput, config.InputQueueSize),
		registerCh:   make(chan *ClientHandle, config.RegisterQueueSize),
		unregisterCh: make(chan int, config.RegisterQueueSize),
		cycle:        engine.Counters().Add(CounterCycle, perf.Rate, true),
	}

	// Create initial snapshot
	s.snapshot.Store(&WorldSnapshot{Snapshot: engine.Snapshot()})

	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	dt := s.cfg.TickDelta()
	ticksPerSnapshot := max(1, s.cfg.Physics.TickRate/config.ClientTargetFPS)
	pacer := loop.NewPacer(s.cfg.TickInterval())

	s.logger.Info("simulation started", "tickRate", s.cfg.Physics.TickRate, "interval", pacer.Interval(), "arena", s.cfg.Arena)
	defer func() {
		s.logger.Info("simulation stopped", "ticks", s.engine.Ticks(), "late", pacer.Late())
	}()

	for tick := 0; ; tick++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Process registrations/unregistrations
		s.processRegistrations()

		// Collect all pending inputs
		s.collectInputs()

		// Advance the simulation
		s.engine.SetForceField(s.wellField())
		s.engine.Tick(dt)
		s.cycle.Tick()

		// Create new snapshot for clients
		if tick%ticksPerSnapshot == 0 {
			s.createSnapshot()
		}

		pacer.Wait()
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "clients", s.clientCount())
			return
		case <-ticker.C:
			if s.clientCount() == 0 {
				return
			}
		}
	}
}

func (s *Server) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	if r := []rune(username); len(r) > config.MaxUsernameLength {
		username = string(r[:config.MaxUsernameLength])
	}

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, config.EventQueueSize),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// SendInput sends a client's well state to the server.
func (s *Server) SendInput(clientID int, well WellInput) {
	select {
	case s.inputChan <- ClientInput{ClientID: clientID, Well: well}:
	default:
		// Input channel full, drop input
	}
}

// GetSnapshot returns the current world snapshot.
func (s *Server) GetSnapshot() *WorldSnapshot {
	return s.snapshot.Load()
}

// Config returns the simulation config.
func (s *Server) Config() pconfig.Config {
	return s.cfg
}

// processRegistrations handles pending client registrations, then
// unregistrations, so a client that joins and leaves between ticks is gone.
func (s *Server) processRegistrations() {
	s.mu.Lock()
	defer s.mu.Unlock()

registrations:
	for {
		select {
		case handle := <-s.registerCh:
			s.clients[handle.ID] = handle
			s.logger.Info("viewer joined", "id", handle.ID, "user", handle.Username, "viewers", len(s.clients))
		default:
			break registrations
		}
	}

	for {
		select {
		case clientID := <-s.unregisterCh:
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.logger.Info("viewer left", "id", clientID, "user", handle.Username, "viewers", len(s.clients))
			}
		default:
			return
		}
	}
}

// collectInputs gathers all pending inputs from clients. Only the latest
// well state per client is kept.
func (s *Server) collectInputs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case ci := <-s.inputChan:
			if handle, ok := s.clients[ci.ClientID]; ok {
				handle.Well = ci.Well
			}
		default:
			return
		}
	}
}

// wellField combines every active well into one force field, or nil when
// no viewer is holding a well.
func (s *Server) wellField() sim.ForceField {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.fields = s.fields[:0]
	for _, handle := range s.sortedClients() {
		if !handle.Well.Active() {
			continue
		}
		s.fields = append(s.fields, sim.GravityWell{
			Position: handle.Well.Position,
			Constant: s.cfg.Well.Constant,
			Exponent: s.cfg.Well.Exponent,
			Repel:    handle.Well.Mode == scene.WellRepel,
		})
	}
	if len(s.fields) == 0 {
		return nil
	}
	return s.fields
}

// sortedClients returns the clients in join order. Must be called with lock held.
func (s *Server) sortedClients() []*ClientHandle {
	handles := make([]*ClientHandle, 0, len(s.clients))
	for _, id := range slices.Sorted(maps.Keys(s.clients)) {
		handles = append(handles, s.clients[id])
	}
	return handles
}

// createSnapshot publishes an immutable snapshot of the world state.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var wells []ViewerWell
	for _, handle := range s.sortedClients() {
		if handle.Well.Active() {
			wells = append(wells, ViewerWell{ClientID: handle.ID, Username: handle.Username, WellInput: handle.Well})
		}
	}

	s.snapshot.Store(&WorldSnapshot{
		Snapshot: s.engine.Snapshot(),
		Wells:    wells,
		Viewers:  len(s.clients),
	})
}
