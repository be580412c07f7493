package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/particles/internal/config"
	"github.com/tomz197/particles/internal/draw"
	"github.com/tomz197/particles/internal/loop/client"
	lconfig "github.com/tomz197/particles/internal/loop/config"
	"github.com/tomz197/particles/internal/loop/server"
	"github.com/tomz197/particles/internal/sim"
	"github.com/tomz197/particles/internal/web"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	webPort := config.GetEnv("WEB_PORT", "") // empty disables the browser viewer
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "webPort", webPort)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}
	engine, err := sim.New(cfg, nil)
	if err != nil {
		logger.Fatal("creating simulation", "err", err)
	}

	// Shared simulation server - one engine for every session
	simServer := server.NewServer(engine, logger.WithPrefix("sim"))

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			viewerMiddleware(simServer, logger),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce input latency
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	var httpServer *http.Server
	if webPort != "" {
		httpServer = &http.Server{
			Addr: net.JoinHostPort(config.GetEnv("WEB_HOST", "0.0.0.0"), webPort),
			Handler: web.NewHandler(simServer, logger.WithPrefix("web"), web.Options{
				SSHHost: config.GetEnv("SSH_DISPLAY_HOST", "localhost"),
				SSHPort: port,
			}),
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	simCtx, cancelSim := context.WithCancel(context.Background())
	defer cancelSim()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		simServer.Run(simCtx)
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting SSH server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})
	if httpServer != nil {
		g.Go(func() error {
			logger.Info("Starting web server", "addr", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("web server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		// Notify viewers and wait for them to disconnect
		simServer.Shutdown(lconfig.ShutdownTimeout)
		cancelSim()
		logger.Info("Simulation stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if httpServer != nil {
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("web shutdown", "err", err)
			}
		}
		return s.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// viewerMiddleware handles SSH sessions and runs a viewer client.
func viewerMiddleware(simServer *server.Server, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			logger.Info("New session", "user", sess.User(), "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

			// Listen for window size changes in a goroutine
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			reader := bufio.NewReader(sess)
			clientOpts := client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Username:     sess.User(),
			}

			// Create a new client connected to the shared simulation
			c := client.NewClient(simServer, reader, sess, clientOpts)
			if err := c.Run(); err != nil {
				logger.Error("Viewer error", "user", sess.User(), "err", err)
			}

			logger.Info("Session ended", "user", sess.User())
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
