// Package config manages the configuration file.
package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/astral-forecast/internal/app"
	"github.com/tphakala/astral-forecast/internal/conf"
)

// Command returns the config command with its init and show subcommands.
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
	}
	cmd.AddCommand(initCommand(), showCommand(ctx))
	return cmd
}

func initCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "init [path]",
		Short:       "Write the default configuration file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{app.SkipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				var err error
				if path, err = conf.DefaultConfigFile(); err != nil {
					return err
				}
			}
			if err := conf.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}
}

func showCommand(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := conf.RedactedYAML(ctx.Settings)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
