// Package tonight prints the stargazing report for one location.
package tonight

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tphakala/astral-forecast/internal/app"
	"github.com/tphakala/astral-forecast/internal/dashboard"
	"github.com/tphakala/astral-forecast/internal/locations"
)

// Command returns the tonight command.
func Command(ctx *app.Context) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tonight [location]",
		Short: "Score tonight's sky for a location",
		Example: `  astral-forecast tonight
  astral-forecast tonight Kiruna
  astral-forecast tonight goteborg --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ctx.Settings.Location
			if len(args) == 1 {
				name = args[0]
			}
			loc, err := locations.Lookup(name)
			if err != nil {
				return err
			}

			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Service.Tonight(cmd.Context(), loc)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return PrintReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

// PrintReport writes a human readable report.
func PrintReport(w io.Writer, r *dashboard.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s), %s\n\n", r.Location.Name, r.Location.Region, r.Date)

	o := r.Overview
	fmt.Fprintf(&b, "Sunset %s, sunrise %s\n", o.Sunset, o.Sunrise)
	fmt.Fprintf(&b, "Moon: %s, %.0f%% illuminated\n", o.MoonPhase, o.MoonIllumination)
	if o.Darkness != nil {
		fmt.Fprintf(&b, "Astronomical darkness: %s to %s\n", o.Darkness.Start.Format("15:04"), o.Darkness.End.Format("15:04"))
	} else {
		b.WriteString("Astronomical darkness: none tonight\n")
	}
	b.WriteString("\n")

	if len(r.Scores) > 0 {
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "HOUR\tSCORE\t")
		for _, s := range r.Scores {
			fmt.Fprintf(tw, "%s\t%4.1f\t%s\n", s.Time.Format("15:04"), s.Score/10, bar(s.Score))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		b.WriteString("\n")
	}

	if len(r.NightHours) > 0 {
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "HOUR\tCLOUD\tVISIBILITY\tTEMP\tHUMIDITY\t")
		for _, h := range r.NightHours {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", h.Time.Format("15:04"),
				reading(h.CloudCover, "%.0f%%"), reading(h.Visibility, "%.0f km"),
				reading(h.Temperature, "%.1f°C"), reading(h.Humidity, "%.0f%%"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		b.WriteString("\n")
	}

	if r.HasScore {
		fmt.Fprintf(&b, "Tonight: %.1f/10, %s\n", r.Score10(), r.VerdictName())
	}
	b.WriteString(r.Headline + "\n")

	if r.NEO != nil {
		s := r.NEO.Summary
		fmt.Fprintf(&b, "\nNear-Earth objects: %d approaches, %d potentially hazardous\n", s.Total, s.HazardousCount)
		if s.Closest != nil && s.Closest.MissDistanceLunar != nil {
			fmt.Fprintf(&b, "Closest: %s at %.1f lunar distances\n", s.Closest.Name, *s.Closest.MissDistanceLunar)
		}
	}
	if r.APOD != nil {
		fmt.Fprintf(&b, "\nPicture of the day: %s\n%s\n", r.APOD.Title, r.APOD.ImageURL())
	}
	for _, section := range slices.Sorted(maps.Keys(r.Errors)) {
		fmt.Fprintf(&b, "\n%s unavailable: %s\n", section, r.Errors[section])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// reading formats an optional weather value, "-" when the feed left it out.
func reading(p *float64, format string) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf(format, *p)
}

// bar draws a 0..100 score as up to 20 blocks.
func bar(score float64) string {
	n := int(score/5 + 0.5)
	return strings.Repeat("█", max(0, min(20, n)))
}
