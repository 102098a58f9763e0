// Package notify sends a test push notification through the configured services.
package notify

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/astral-forecast/internal/app"
	"github.com/tphakala/astral-forecast/internal/notification"
)

// Command returns a cobra command that sends a test notification via the notification service
func Command(ctx *app.Context) *cobra.Command {
	var (
		title   string
		message string
		urls    []string
	)

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a test notification",
		Long: `Send a test notification through the configured shoutrrr services.

Examples:
  # Use notify.urls from the configuration
  astral-forecast notify

  # Try a service URL without editing the configuration
  astral-forecast notify --url "ntfy://ntfy.sh/my-stars" --title "Clear skies"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := ctx.Settings.Notify
			if len(urls) > 0 {
				settings.URLs = urls
			}
			if len(settings.URLs) == 0 {
				return fmt.Errorf("no notification URLs configured, set notify.urls or pass --url")
			}
			settings.Enabled = true

			service, err := notification.NewServiceFromSettings(settings, ctx.Settings.APIs.Timeout)
			if err != nil {
				return err
			}
			if err := service.Notify(cmd.Context(), title, message); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notification sent to %d service(s)\n", len(settings.URLs))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "Astral Forecast", "Notification title")
	cmd.Flags().StringVar(&message, "message", "Test notification, clear skies!", "Notification message")
	cmd.Flags().StringArrayVar(&urls, "url", nil, "shoutrrr service URL, repeatable (overrides notify.urls)")
	return cmd
}
