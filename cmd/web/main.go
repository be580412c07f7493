package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomz197/particles/internal/config"
	lconfig "github.com/tomz197/particles/internal/loop/config"
	"github.com/tomz197/particles/internal/loop/server"
	"github.com/tomz197/particles/internal/sim"
	"github.com/tomz197/particles/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

func main() {
	logger := config.NewLogger(os.Stderr, "web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}
	engine, err := sim.New(cfg, nil)
	if err != nil {
		logger.Fatal("creating simulation", "err", err)
	}
	simServer := server.NewServer(engine, logger.WithPrefix("sim"))

	httpServer := &http.Server{
		Addr: net.JoinHostPort(host, port),
		Handler: web.NewHandler(simServer, logger, web.Options{
			SSHHost: config.GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
			SSHPort: config.GetEnv("SSH_PORT", "2222"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
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
		logger.Info("Starting web server", "url", "http://"+httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		simServer.Shutdown(lconfig.ShutdownTimeout)
		cancelSim()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
