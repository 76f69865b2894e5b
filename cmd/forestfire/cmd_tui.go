package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"forestfire/internal/app"
	"forestfire/internal/forest"
	"forestfire/internal/tui"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

func newTUICmd(opts *app.Options) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Step through the simulation in the terminal",
		Long: `Show the forest in the terminal and drive it from the keyboard.

Keys:
  n, s   advance one step
  r      run until burned out
  x      reset from the active config
  space  toggle autoplay
  + / -  autoplay speed
  q, Esc quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.Load()
			if err != nil {
				return err
			}
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			logger := app.Logger(s, logOut)

			engine, err := forest.NewEngine(s.Simulation)
			if err != nil {
				return err
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("opening terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing terminal: %w", err)
			}
			defer screen.Fini()

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			err = tui.New(screen, engine, s.Display.TPS, logger).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&opts.TPS, "tps", opts.TPS, "autoplay steps per second")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file (the terminal is in use)")
	return cmd
}
