package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/astral-forecast/cmd/apod"
	"github.com/tphakala/astral-forecast/cmd/config"
	"github.com/tphakala/astral-forecast/cmd/locations"
	"github.com/tphakala/astral-forecast/cmd/neo"
	"github.com/tphakala/astral-forecast/cmd/notify"
	"github.com/tphakala/astral-forecast/cmd/serve"
	"github.com/tphakala/astral-forecast/cmd/tonight"
	"github.com/tphakala/astral-forecast/cmd/version"
	"github.com/tphakala/astral-forecast/cmd/watch"
	"github.com/tphakala/astral-forecast/internal/app"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *app.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "astral-forecast",
		Short:         "Stargazing forecast for Swedish locations",
		Long:          "Scores tonight's sky from hourly cloud cover, visibility, humidity and moonlight, alongside NASA's near-Earth objects and picture of the day.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, ctx)

	subcommands := []*cobra.Command{
		tonight.Command(ctx),
		locations.Command(),
		neo.Command(ctx),
		apod.Command(ctx),
		serve.Command(ctx),
		watch.Command(ctx),
		notify.Command(ctx),
		config.Command(ctx),
		version.Command(ctx),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if skipsConfig(cmd) {
			return nil
		}
		return ctx.LoadSettings()
	}

	return rootCmd
}

// skipsConfig reports whether cmd or one of its parents is marked to skip the configuration.
func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[app.SkipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, ctx *app.Context) {
	rootCmd.PersistentFlags().StringVarP(&ctx.ConfigFile, "config", "c", "", "Path to config.yaml (default: search ., ~/.config/astral-forecast, /etc/astral-forecast)")
	rootCmd.PersistentFlags().BoolVarP(&ctx.Debug, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&ctx.Location, "location", "l", "", "Override the default location")
}
