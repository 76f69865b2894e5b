// Command forestfire runs the forest-fire simulation headless, in a terminal,
// or behind an HTTP API, and sweeps propagation probabilities.
package main

import (
	"fmt"
	"os"

	"forestfire/internal/app"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := app.NewOptions()
	rootCmd := &cobra.Command{
		Use:   "forestfire",
		Short: "Probabilistic forest-fire cellular automaton",
		Long: `forestfire simulates fire spreading through a rectangular forest.

Each step every burning cell turns to ash and ignites each orthogonal
neighbour tree with the configured probability. The run completes when
no cell is burning.

Configuration comes from defaults, an optional --config file (.yaml or
.properties), FORESTFIRE_* environment variables and --set overrides,
in that order.`,
		SilenceUsage: true,
	}
	opts.Bind(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newRunCmd(opts),
		newServeCmd(opts),
		newTUICmd(opts),
		newSweepCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "forestfire version %s\n", version)
		},
	}
}
