//go:build ebiten

package main

import (
	"errors"
	"fmt"
	"os"

	"forestfire/internal/app"
	"forestfire/internal/forest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
)

func main() {
	opts := app.NewOptions()
	opts.Bind(pflag.CommandLine)
	opts.BindDisplay(pflag.CommandLine)
	pflag.Parse()

	s, err := opts.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := app.Logger(s, os.Stderr)

	engine, err := forest.NewEngine(s.Simulation)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Info("simulation initialized", "height", s.Simulation.Height, "width", s.Simulation.Width,
		"probability", s.Simulation.Probability, "seed", engine.Seed())

	game := app.New(engine, s.Display.Scale, logger)
	ebiten.SetWindowTitle("forestfire")
	ebiten.SetTPS(s.Display.TPS)
	ebiten.SetWindowSize(app.WindowSize(engine, s.Display.Scale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("window closed with error", "error", err)
		os.Exit(1)
	}
}
