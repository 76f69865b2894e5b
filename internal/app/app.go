//go:build ebiten

package app

import (
	"log/slog"

	"forestfire/internal/forest"
	"forestfire/internal/render"
	"forestfire/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HUDWidth is the width in pixels of the parameter panel.
const HUDWidth = 240

// Game adapts a forest engine to the ebiten.Game interface.
type Game struct {
	engine  *forest.Engine
	logger  *slog.Logger
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	cells   []uint8

	scale    int
	paused   bool
	tickOnce bool
}

// New constructs a Game for engine drawn at scale pixels per cell.
func New(engine *forest.Engine, scale int, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	scale = max(scale, 1)
	size := engine.Size()
	return &Game{
		engine:  engine,
		logger:  logger,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(engine, HUDWidth),
		overlay: ui.NewOverlay(engine, scale),
		scale:   scale,
	}
}

// Reset rebuilds the forest from the active configuration.
func (g *Game) Reset() {
	if err := g.engine.Reset(); err != nil {
		g.logger.Error("reset failed", "error", err)
		return
	}
	g.tickOnce = false
	g.logger.Info("simulation reset", "seed", g.engine.Seed())
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && g.engine.Running() {
		g.engine.RunToCompletion()
		g.logCompletion()
	}

	g.overlay.Update()
	size := g.engine.Size()
	if g.hud.Update(size.W * g.scale) {
		cfg := g.engine.Config()
		g.logger.Info("simulation reconfigured", "height", cfg.Height, "width", cfg.Width, "probability", cfg.Probability)
	}

	if (!g.paused || g.tickOnce) && g.engine.Running() {
		g.engine.Step()
		if !g.engine.Running() {
			g.logCompletion()
		}
	}
	g.tickOnce = false
	return nil
}

// Draw renders the grid, overlay and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	size := g.engine.Size()
	if w, h := g.painter.Size(); w != size.W || h != size.H {
		g.painter = render.NewGridPainter(size.W, size.H)
	}
	g.cells = g.engine.CopyCells(g.cells)
	g.painter.Blit(screen, g.cells, render.Palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, size.W*g.scale, size.H*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowSize(g.engine, g.scale)
}

// WindowSize is the pixel size needed to show engine's grid and the HUD.
func WindowSize(engine *forest.Engine, scale int) (int, int) {
	size := engine.Size()
	controls := len(engine.ParameterControls())
	return size.W*scale + HUDWidth, max(size.H*scale, ui.PanelHeight(controls))
}

func (g *Game) logCompletion() {
	counts := g.engine.Counts()
	g.logger.Info("simulation complete", "steps", g.engine.Steps(), "burned", counts.Burned, "alive", counts.Alive)
}
