// Package apod prints NASA's astronomy picture of the day.
package apod

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/astral-forecast/internal/app"
	"github.com/tphakala/astral-forecast/internal/nasa"
)

// Command returns the apod command.
func Command(ctx *app.Context) *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "apod",
		Short: "Show the astronomy picture of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var date time.Time
			if dateStr != "" {
				var err error
				if date, err = time.Parse("2006-01-02", dateStr); err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", dateStr, err)
				}
			}

			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			pic, _, err := a.Service.APOD(cmd.Context(), date)
			if err != nil {
				return err
			}
			return Print(cmd.OutOrStdout(), pic)
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Picture date as YYYY-MM-DD (default: today)")
	return cmd
}

// Print writes the title, link and explanation.
func Print(w io.Writer, a *nasa.APOD) error {
	_, err := fmt.Fprintf(w, "%s (%s)\n", a.Title, a.Date)
	if err != nil {
		return err
	}
	if a.Copyright != "" {
		fmt.Fprintf(w, "© %s\n", a.Copyright)
	}
	if !a.IsImage() {
		fmt.Fprintf(w, "Media type: %s\n", a.MediaType)
	}
	fmt.Fprintf(w, "%s\n\n%s\n", a.ImageURL(), a.Explanation)
	return nil
}
