package forest

import (
	"errors"
	"fmt"

	"forestfire/internal/core"
)

var errNotInitialized = errors.New("simulation not initialized")

// Snapshot is a deep copy of the engine state for presentation adapters.
type Snapshot struct {
	Size    core.Size
	Step    int
	Running bool
	Counts  Counts
	Cells   []State
}

// At returns the state at (row, col). The coordinate must be in range.
func (s Snapshot) At(row, col int) State { return s.Cells[row*s.Size.W+col] }

// Engine drives one forest through its lifecycle. It owns the forest
// exclusively and is not safe for concurrent use; adapters serialize access.
type Engine struct {
	cfg     Config
	forest  *Forest
	seed    int64
	steps   int
	running bool

	newSource func(seed int64) core.Source
}

// NewEngine builds an engine and initializes it with cfg. Propagation draws
// come from a PCG generator seeded from the config.
func NewEngine(cfg Config) (*Engine, error) {
	return NewEngineWithSource(cfg, nil)
}

// NewEngineWithSource is NewEngine with a caller-supplied random source
// factory, invoked with the effective seed on every initialization.
func NewEngineWithSource(cfg Config, newSource func(seed int64) core.Source) (*Engine, error) {
	e := &Engine{newSource: newSource}
	if err := e.Initialize(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

func defaultSource(seed int64) core.Source { return core.NewRNG(seed) }

// Name identifies the simulation.
func (e *Engine) Name() string { return "forestfire" }

// Initialize validates cfg, builds a fresh forest and ignites the configured
// positions. On error the engine keeps its previous state.
func (e *Engine) Initialize(cfg Config) error {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return err
	}
	seed := cfg.Seed
	if seed == 0 {
		var err error
		if seed, err = core.NewSeed(); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
	}
	newSource := e.newSource
	if newSource == nil {
		newSource = defaultSource
	}
	f, err := New(cfg.Height, cfg.Width, cfg.Probability, newSource(seed))
	if err != nil {
		return err
	}
	if err := f.Ignite(cfg.Ignitions); err != nil {
		return err
	}

	e.cfg = cfg
	e.forest = f
	e.seed = seed
	e.steps = 0
	e.running = f.HasBurningCells()
	return nil
}

// Reconfigure replaces the configuration and rebuilds the forest from it.
func (e *Engine) Reconfigure(cfg Config) error { return e.Initialize(cfg) }

// Reset re-applies the last accepted configuration.
func (e *Engine) Reset() error {
	if e.forest == nil {
		return errNotInitialized
	}
	return e.Initialize(e.cfg)
}

// Step advances the forest one time unit and reports whether fire remains.
// A completed simulation is left untouched.
func (e *Engine) Step() bool {
	if !e.running {
		return false
	}
	e.running = e.forest.Step()
	e.steps++
	return e.running
}

// RunToCompletion steps until no cell is burning and returns the step count.
func (e *Engine) RunToCompletion() int {
	for e.running {
		e.Step()
	}
	return e.steps
}

// Running reports whether any cell is still burning.
func (e *Engine) Running() bool { return e.running }

// Steps returns the number of steps taken since the last initialization.
func (e *Engine) Steps() int { return e.steps }

// Seed returns the seed the current forest was built with.
func (e *Engine) Seed() int64 { return e.seed }

// Config returns a copy of the active configuration.
func (e *Engine) Config() Config { return e.cfg.Clone() }

// Size reports the grid dimensions.
func (e *Engine) Size() core.Size { return e.cfg.Size() }

// CellAt returns the cell at (row, col).
func (e *Engine) CellAt(row, col int) (Cell, error) {
	if e.forest == nil {
		return Cell{}, errNotInitialized
	}
	return e.forest.CellAt(row, col)
}

// HasBurningCells reports whether any cell is Burning.
func (e *Engine) HasBurningCells() bool {
	return e.forest != nil && e.forest.HasBurningCells()
}

// Counts tallies the current cell states.
func (e *Engine) Counts() Counts {
	if e.forest == nil {
		return Counts{}
	}
	return e.forest.Counts()
}

// CopyCells copies the row-major state bytes into dst, reusing its capacity.
func (e *Engine) CopyCells(dst []uint8) []uint8 {
	if e.forest == nil {
		return dst[:0]
	}
	return e.forest.CopyCells(dst)
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{Size: e.Size(), Step: e.steps, Running: e.running}
	if e.forest == nil {
		return snap
	}
	raw := e.forest.CopyCells(nil)
	snap.Cells = make([]State, len(raw))
	for i, v := range raw {
		snap.Cells[i] = State(v)
	}
	snap.Counts = e.forest.Counts()
	return snap
}
