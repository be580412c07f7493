package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/particles/internal/config"
	"github.com/tomz197/particles/internal/loop"
	"github.com/tomz197/particles/internal/sim"
)

func main() {
	configPath := flag.String("config", config.GetEnv("PARTICLES_CONFIG", ""), "INI config file (defaults when empty)")
	example := flag.Bool("example", false, "print an example config file and exit")
	headless := flag.Bool("headless", false, "run without a terminal and report performance counters")
	ticks := flag.Int("ticks", 1200, "ticks to run in headless mode")
	seed := flag.Uint64("seed", 0, "random seed (0 picks one)")
	logPath := flag.String("log", "", "log file for interactive mode")
	flag.Parse()

	if *example {
		fmt.Print(config.Example)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}
	engine, err := sim.New(cfg, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *headless {
		runHeadless(engine, *ticks, config.NewLogger(os.Stderr, "headless"))
		return
	}

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "game")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, engine, loop.Options{Logger: logger})
	if err != nil && !errors.Is(err, context.Canceled) {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "simulation error: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless ticks the engine as fast as possible and logs the counters.
func runHeadless(engine *sim.Engine, ticks int, logger *log.Logger) {
	dt := engine.Config().TickDelta()
	start := time.Now()
	for i := 0; i < ticks; i++ {
		engine.Tick(dt)
		if i > 0 && i%600 == 0 {
			s := engine.Snapshot().Stats
			logger.Debug("progress", "tick", s.Tick, "particles", s.Particles, "depth", s.Depth)
		}
	}
	elapsed := time.Since(start)

	s := engine.Snapshot().Stats
	logger.Info("done",
		"ticks", ticks,
		"elapsed", elapsed.Round(time.Millisecond),
		"tps", fmt.Sprintf("%.1f", float64(ticks)/elapsed.Seconds()),
		"particles", s.Particles,
		"nodes", s.Nodes,
		"leaves", s.Leaves,
		"depth", s.Depth,
		"pairs", s.PairsTested,
		"colliding", s.Colliding,
	)
	for _, c := range engine.Counters().All() {
		logger.Info("counter",
			"name", c.Name(),
			"avgMs", fmt.Sprintf("%.3f", c.AverageTime()),
			"spreadMs", fmt.Sprintf("%.3f", c.TimeSpread()),
		)
	}
}
