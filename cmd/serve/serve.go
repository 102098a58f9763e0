// Package serve runs the dashboard server.
package serve

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tphakala/astral-forecast/internal/api"
	"github.com/tphakala/astral-forecast/internal/app"
	"github.com/tphakala/astral-forecast/internal/dashboard"
)

// Command returns the serve command.
func Command(ctx *app.Context) *cobra.Command {
	var (
		listen    string
		withWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and JSON API",
		Long:  "Serve the HTML dashboard, the JSON API under /api/v1 and Prometheus metrics on /metrics until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				ctx.Settings.WebServer.Listen = listen
			}

			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			server, err := api.New(a.Settings, a.Service, api.WithMetrics(a.Metrics))
			if err != nil {
				return err
			}

			var watcher *dashboard.Watcher
			if withWatch {
				if watcher, err = a.Watcher(); err != nil {
					return err
				}
			}

			g, gctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return server.Run(gctx) })
			if watcher != nil {
				g.Go(func() error { return watcher.Run(gctx) })
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from webserver.listen)")
	cmd.Flags().BoolVar(&withWatch, "watch", false, "Also run the watch loop in the same process")
	return cmd
}
