package main

import (
	"fmt"

	"forestfire/internal/app"
	"forestfire/internal/config"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and print the resolved settings",
		Long: `Resolve defaults, the config file, environment and --set overrides,
validate the result and print it as YAML. Exits non-zero on the first
invalid value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.Load()
			if err != nil {
				return err
			}
			out, err := config.MarshalYAML(s)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
