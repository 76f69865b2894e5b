// Package tui drives a forest engine from a terminal using tcell.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"forestfire/internal/core"
	"forestfire/internal/forest"
	"forestfire/internal/render"

	"github.com/gdamore/tcell/v2"
)

const frameInterval = 16 * time.Millisecond

var stateStyles = [...]tcell.Style{
	forest.Alive:   tcell.StyleDefault.Foreground(tcell.ColorGreen),
	forest.Burning: tcell.StyleDefault.Foreground(tcell.ColorOrangeRed).Bold(true),
	forest.Burned:  tcell.StyleDefault.Foreground(tcell.ColorGray),
}

const helpLine = "n step  r run  x reset  space autoplay  +/- speed  q quit"

// Console renders the forest and maps keys onto engine operations.
type Console struct {
	screen tcell.Screen
	engine *forest.Engine
	logger *slog.Logger
	clock  *core.FixedStep

	autoplay bool
	cells    []uint8
	message  string
}

// New builds a console on an initialized screen. The caller owns the
// screen's Init and Fini.
func New(screen tcell.Screen, engine *forest.Engine, tps int, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		screen: screen,
		engine: engine,
		logger: logger,
		clock:  core.NewFixedStep(tps),
	}
}

// Run processes input and autoplay until the user quits or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(c.screen, events, done)

	c.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !c.handleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				c.screen.Sync()
			}
			c.draw()
		case <-ticker.C:
			if c.autoplay && c.clock.ShouldStep() {
				c.step()
				c.draw()
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handleKey applies one key press and reports whether to keep running.
func (c *Console) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		c.run()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case 'n', 's':
		c.step()
	case 'r':
		c.run()
	case 'x':
		c.reset()
	case ' ':
		c.autoplay = !c.autoplay && c.engine.Running()
		if c.autoplay {
			c.clock.Restart()
			c.message = fmt.Sprintf("autoplay on at %d steps/s", c.clock.TPS())
		} else {
			c.message = "autoplay off"
		}
	case '+', '=':
		c.clock.SetTPS(c.clock.TPS() + 1)
		c.message = fmt.Sprintf("speed %d steps/s", c.clock.TPS())
	case '-', '_':
		c.clock.SetTPS(c.clock.TPS() - 1)
		c.message = fmt.Sprintf("speed %d steps/s", c.clock.TPS())
	}
	return true
}

func (c *Console) step() {
	if !c.engine.Running() {
		c.autoplay = false
		c.message = "simulation complete, press x to reset"
		return
	}
	c.engine.Step()
	c.message = ""
	c.checkComplete()
}

func (c *Console) run() {
	if !c.engine.Running() {
		c.message = "simulation complete, press x to reset"
		return
	}
	c.engine.RunToCompletion()
	c.checkComplete()
}

func (c *Console) reset() {
	if err := c.engine.Reset(); err != nil {
		c.message = err.Error()
		c.logger.Error("reset failed", "error", err)
		return
	}
	c.autoplay = false
	c.message = "reset"
	c.logger.Info("simulation reset", "seed", c.engine.Seed())
}

func (c *Console) checkComplete() {
	if c.engine.Running() {
		return
	}
	c.autoplay = false
	counts := c.engine.Counts()
	c.message = fmt.Sprintf("complete after %d steps", c.engine.Steps())
	c.logger.Info("simulation complete", "steps", c.engine.Steps(), "burned", counts.Burned, "alive", counts.Alive)
}

// draw paints the grid with one space between columns, then the status,
// message and help lines below it.
func (c *Console) draw() {
	c.screen.Clear()
	size := c.engine.Size()
	c.cells = c.engine.CopyCells(c.cells)
	for row := 0; row < size.H; row++ {
		for col := 0; col < size.W; col++ {
			s := forest.State(c.cells[row*size.W+col])
			c.screen.SetContent(col*2, row, rune(render.Glyph(s)), nil, styleFor(s))
		}
	}

	counts := c.engine.Counts()
	status := "running"
	if !c.engine.Running() {
		status = "complete"
	}
	y := size.H + 1
	c.putString(0, y, tcell.StyleDefault.Bold(true),
		fmt.Sprintf("step %d  %s  trees %d  fire %d  ash %d", c.engine.Steps(), status, counts.Alive, counts.Burning, counts.Burned))
	c.putString(0, y+1, tcell.StyleDefault.Foreground(tcell.ColorYellow), c.message)
	c.putString(0, y+2, tcell.StyleDefault.Foreground(tcell.ColorSilver), helpLine)
	c.screen.Show()
}

func (c *Console) putString(x, y int, style tcell.Style, s string) {
	for i, r := range []rune(s) {
		c.screen.SetContent(x+i, y, r, nil, style)
	}
}

func styleFor(s forest.State) tcell.Style {
	if int(s) < len(stateStyles) {
		return stateStyles[s]
	}
	return tcell.StyleDefault
}
