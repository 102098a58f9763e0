// Package watch runs the polling loop that publishes reports and sends alerts.
package watch

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/astral-forecast/internal/app"
	"github.com/tphakala/astral-forecast/internal/logger"
)

// Command returns the watch command.
func Command(ctx *app.Context) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh reports on an interval, publish them and notify on clear nights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			watcher, err := a.Watcher()
			if err != nil {
				return err
			}

			if once {
				watcher.Poll(cmd.Context())
				return nil
			}

			logger.Global().Module("watch").Info("watch loop started",
				logger.Duration("interval", a.Settings.Watch.Interval),
				logger.Any("locations", a.Settings.WatchedLocations()),
				logger.Bool("mqtt", a.Settings.MQTT.Enabled),
				logger.Bool("notify", a.Settings.Notify.Enabled))
			return watcher.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Poll every location once and exit")
	return cmd
}
