package loop

import (
	"bufio"
	"bytes"
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
	"github.com/tomz197/particles/internal/sim"
)

func testEngine(t *testing.T) *sim.Engine {
	t.Helper()
	cfg := pconfig.Default()
	cfg.Arena = pconfig.Arena{Width: 320, Height: 180}
	cfg.Spawn.Rate = pconfig.Fixed(600)
	e, err := sim.New(cfg, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return e
}

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func TestRunQuitsOnKey(t *testing.T) {
	e := testEngine(t)
	var out bytes.Buffer
	pr, pw := io.Pipe()
	go func() {
		pw.Write([]byte(" t"))
		time.Sleep(50 * time.Millisecond)
		pw.Write([]byte("q"))
		pw.Close()
	}()

	err := Run(context.Background(), bufio.NewReader(pr), &out, e, Options{
		TermSizeFunc: fixedSize(80, 24),
		Logger:       log.New(io.Discard),
	})
	require.NoError(t, err)
	assert.Positive(t, e.Ticks())
	assert.Contains(t, out.String(), "\033[?25l")
	assert.True(t, strings.HasSuffix(out.String(), "\033[?25h"))
	var names []string
	for _, c := range e.Counters().All() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, CounterCycle)
	assert.Contains(t, names, CounterDraw)
}

func TestRunStopsOnCancel(t *testing.T) {
	e := testEngine(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := Run(ctx, bufio.NewReader(pr), io.Discard, e, Options{
		TermSizeFunc: fixedSize(80, 24),
		Logger:       log.New(io.Discard),
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, e.Ticks())
}
