package main

import (
	"fmt"

	"forestfire/internal/api"
	"forestfire/internal/app"
	"forestfire/internal/forest"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *app.Options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation over HTTP and websocket",
		Long: `Serve one simulation under /api/simulation.

Routes:
  POST /api/simulation/init     initialize from a JSON config
  POST /api/simulation/step     advance one step
  POST /api/simulation/run      advance until burned out (?max=N bounds it)
  POST /api/simulation/reset    rebuild from the active config
  GET  /api/simulation/state    current grid and counters
  GET  /api/simulation/config   active config
  PUT  /api/simulation/config   replace the config and rebuild
  GET  /api/simulation/stream   websocket of state updates`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				s.Server.Addr = addr
			}
			logger := app.Logger(s, cmd.ErrOrStderr())
			engine, err := forest.NewEngine(s.Simulation)
			if err != nil {
				return err
			}
			logger.Info("simulation initialized", "height", s.Simulation.Height, "width", s.Simulation.Width,
				"probability", s.Simulation.Probability, "seed", engine.Seed())

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			if err := api.NewServer(engine, logger).ListenAndServe(ctx, s.Server.Addr); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
