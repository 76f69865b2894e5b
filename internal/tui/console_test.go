package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"forestfire/internal/core"
	"forestfire/internal/forest"
	"forestfire/internal/logging"

	"github.com/gdamore/tcell/v2"
)

func newTestConsole(t *testing.T, cfg forest.Config) (*Console, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(60, 20)
	t.Cleanup(screen.Fini)

	engine, err := forest.NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return New(screen, engine, 5, logging.Discard()), screen
}

func centreFire(p float64) forest.Config {
	return forest.Config{Height: 3, Width: 3, Probability: p, Ignitions: []core.Coord{{Row: 1, Col: 1}}, Seed: 7}
}

func runeKey(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func cellAt(screen tcell.Screen, row, col int) rune {
	r, _, _, _ := screen.GetContent(col*2, row)
	return r
}

func line(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestDrawShowsGridAndStatus(t *testing.T) {
	c, screen := newTestConsole(t, centreFire(0))
	c.draw()

	if got := cellAt(screen, 1, 1); got != 'F' {
		t.Fatalf("centre = %q, want F", got)
	}
	if got := cellAt(screen, 0, 0); got != 'T' {
		t.Fatalf("corner = %q, want T", got)
	}
	status := line(screen, 4)
	if !strings.Contains(status, "step 0") || !strings.Contains(status, "running") || !strings.Contains(status, "fire 1") {
		t.Fatalf("unexpected status %q", status)
	}
	if got := line(screen, 6); got != helpLine {
		t.Fatalf("help line = %q", got)
	}
}

func TestStepAndReset(t *testing.T) {
	c, screen := newTestConsole(t, centreFire(0))

	if !c.handleKey(runeKey('n')) {
		t.Fatal("step key should not quit")
	}
	c.draw()
	if got := cellAt(screen, 1, 1); got != 'A' {
		t.Fatalf("centre after step = %q, want A", got)
	}
	if status := line(screen, 4); !strings.Contains(status, "complete") {
		t.Fatalf("expected complete status, got %q", status)
	}

	c.handleKey(runeKey('s'))
	if c.engine.Steps() != 1 {
		t.Fatalf("step after completion advanced to %d", c.engine.Steps())
	}

	c.handleKey(runeKey('x'))
	c.draw()
	if got := cellAt(screen, 1, 1); got != 'F' {
		t.Fatalf("centre after reset = %q, want F", got)
	}
	if c.engine.Steps() != 0 {
		t.Fatalf("reset left step count %d", c.engine.Steps())
	}
}

func TestRunToCompletion(t *testing.T) {
	c, _ := newTestConsole(t, centreFire(1))
	c.handleKey(runeKey('r'))
	if c.engine.Running() || c.engine.Steps() != 3 {
		t.Fatalf("expected completion after 3 steps, got running=%v steps=%d", c.engine.Running(), c.engine.Steps())
	}
	if !strings.Contains(c.message, "3 steps") {
		t.Fatalf("unexpected message %q", c.message)
	}
}

func TestAutoplayAndSpeed(t *testing.T) {
	c, _ := newTestConsole(t, centreFire(0.5))

	c.handleKey(runeKey(' '))
	if !c.autoplay {
		t.Fatal("space should enable autoplay")
	}
	c.handleKey(runeKey(' '))
	if c.autoplay {
		t.Fatal("second space should disable autoplay")
	}

	c.handleKey(runeKey('+'))
	if got := c.clock.TPS(); got != 6 {
		t.Fatalf("TPS after + = %d, want 6", got)
	}
	for i := 0; i < 10; i++ {
		c.handleKey(runeKey('-'))
	}
	if got := c.clock.TPS(); got != core.MinTPS {
		t.Fatalf("TPS should clamp at %d, got %d", core.MinTPS, got)
	}

	c.engine.RunToCompletion()
	c.handleKey(runeKey(' '))
	if c.autoplay {
		t.Fatal("autoplay should stay off once the fire is out")
	}
}

func TestQuitKeys(t *testing.T) {
	c, _ := newTestConsole(t, centreFire(0.5))
	if c.handleKey(runeKey('q')) {
		t.Fatal("q should quit")
	}
	if c.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatal("Esc should quit")
	}
}

func TestRunStopsOnQuitKey(t *testing.T) {
	c, screen := newTestConsole(t, centreFire(0.5))
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	c, _ := newTestConsole(t, centreFire(0.5))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPollEventsStopsWhenRunReturns(t *testing.T) {
	_, screen := newTestConsole(t, centreFire(0.5))
	screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)

	events := make(chan tcell.Event)
	done := make(chan struct{})
	close(done)

	stopped := make(chan struct{})
	go func() {
		pollEvents(screen, events, done)
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("pollEvents blocked on an unread event after done was closed")
	}
}
