package main

import (
	"encoding/json"
	"fmt"
	"io"

	"forestfire/internal/app"
	"forestfire/internal/forest"
	"forestfire/internal/render"

	"github.com/spf13/cobra"
)

type runSummary struct {
	Steps  int           `json:"steps"`
	Seed   int64         `json:"seed"`
	Counts forest.Counts `json:"counts"`
}

func newRunCmd(opts *app.Options) *cobra.Command {
	var show, jsonOut bool
	var maxSteps int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation to completion without a display",
		Long: `Run one simulation until no cell is burning and print a summary.

Examples:
  forestfire run                               # default 10x10 forest
  forestfire run --set h=30 --set w=40 --show  # print every frame
  forestfire run --set seed=7 --json           # reproducible, machine readable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.Load()
			if err != nil {
				return err
			}
			logger := app.Logger(s, cmd.ErrOrStderr())
			engine, err := forest.NewEngine(s.Simulation)
			if err != nil {
				return err
			}
			logger.Debug("simulation initialized", "height", s.Simulation.Height, "width", s.Simulation.Width,
				"probability", s.Simulation.Probability, "seed", engine.Seed())

			out := cmd.OutOrStdout()
			var cells []uint8
			frame := func() {
				cells = engine.CopyCells(cells)
				fmt.Fprintf(out, "step %d\n%s\n", engine.Steps(), render.Text(engine.Size(), cells))
			}
			if show {
				frame()
			}
			for engine.Running() && (maxSteps == 0 || engine.Steps() < maxSteps) {
				engine.Step()
				if show {
					frame()
				}
			}
			if engine.Running() {
				logger.Warn("step limit reached before the fire burned out", "max", maxSteps)
			} else {
				logger.Info("simulation complete", "steps", engine.Steps(), "burned", engine.Counts().Burned)
			}

			summary := runSummary{Steps: engine.Steps(), Seed: engine.Seed(), Counts: engine.Counts()}
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printSummary(out, summary, engine.Running())
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "print the grid after every step")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the summary as JSON")
	cmd.Flags().IntVar(&maxSteps, "max", 0, "stop after this many steps (0 = until burned out)")
	return cmd
}

func printSummary(w io.Writer, s runSummary, running bool) {
	state := "burned out"
	if running {
		state = "still burning"
	}
	fmt.Fprintf(w, "%s after %d steps (seed %d)\n", state, s.Steps, s.Seed)
	fmt.Fprintf(w, "  trees: %d\n  fire:  %d\n  ash:   %d\n", s.Counts.Alive, s.Counts.Burning, s.Counts.Burned)
}
