package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"text/tabwriter"
	"time"

	"forestfire/internal/app"
	"forestfire/internal/sweep"

	"github.com/spf13/cobra"
)

func newSweepCmd(opts *app.Options) *cobra.Command {
	var (
		probabilities []float64
		trials        int
		workers       int
		seed          int64
		jsonOut       bool
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Estimate burn-out time and burned area across probabilities",
		Long: `Run many independent simulations per propagation probability on a
worker pool. Forest size and ignitions come from the configuration.

Examples:
  forestfire sweep --set h=50 --set w=50 --set fire=25,25
  forestfire sweep --probabilities 0.3,0.4,0.5,0.6 --trials 200 --seed 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.Load()
			if err != nil {
				return err
			}
			logger := app.Logger(s, cmd.ErrOrStderr())
			plan := sweep.Plan{
				Base:          s.Simulation,
				Probabilities: probabilities,
				Trials:        trials,
				Workers:       workers,
				Seed:          seed,
			}
			logger.Info("sweep starting", "probabilities", len(probabilities), "trials", trials, "workers", workers)

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			start := time.Now()
			results, err := sweep.Run(ctx, plan)
			if err != nil {
				return err
			}
			logger.Info("sweep finished", "elapsed", time.Since(start).Round(time.Millisecond))

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "probability\ttrials\tmean steps\tmax steps\tburned\t")
			for _, r := range results {
				fmt.Fprintf(tw, "%.3f\t%d\t%.2f\t%d\t%.1f%%\t\n", r.Probability, r.Trials, r.MeanSteps, r.MaxSteps, 100*r.MeanBurned)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64SliceVar(&probabilities, "probabilities", []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}, "probabilities to sweep")
	cmd.Flags().IntVar(&trials, "trials", 50, "simulations per probability")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base seed for reproducible sweeps (0 = random)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	return cmd
}
