// Package neo prints the day's near-Earth object close approaches.
package neo

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/astral-forecast/internal/app"
	neofeed "github.com/tphakala/astral-forecast/internal/neo"
)

const dateLayout = "2006-01-02"

// Command returns the neo command.
func Command(ctx *app.Context) *cobra.Command {
	var (
		dateStr string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "neo",
		Short: "List near-Earth object close approaches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var date time.Time
			if dateStr != "" {
				var err error
				if date, err = time.Parse(dateLayout, dateStr); err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", dateStr, err)
				}
			}

			a, err := ctx.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			approaches, _, err := a.Service.NEO(cmd.Context(), date)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"summary":    neofeed.Summarize(approaches),
					"approaches": approaches,
				})
			}
			return PrintApproaches(cmd.OutOrStdout(), approaches)
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Feed date as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print summary and approaches as JSON")
	return cmd
}

// PrintApproaches writes a summary line and one row per approach.
func PrintApproaches(w io.Writer, approaches []neofeed.Approach) error {
	s := neofeed.Summarize(approaches)
	fmt.Fprintf(w, "%d close approaches, %d potentially hazardous\n", s.Total, s.HazardousCount)
	if s.Total == 0 {
		return nil
	}
	if s.Closest != nil {
		fmt.Fprintf(w, "Closest: %s (%s LD)\n", s.Closest.Name, num(s.Closest.MissDistanceLunar, "%.1f"))
	}
	if s.Largest != nil {
		fmt.Fprintf(w, "Largest: %s (%s km)\n", s.Largest.Name, num(s.Largest.DiameterAvgKM, "%.2f"))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIAMETER KM\tKM/S\tMISS LD\tHAZARDOUS")
	for i := range approaches {
		ap := &approaches[i]
		hazard := ""
		if ap.Hazardous {
			hazard = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ap.Name,
			num(ap.DiameterAvgKM, "%.2f"), num(ap.VelocityKMS, "%.1f"), num(ap.MissDistanceLunar, "%.1f"), hazard)
	}
	return tw.Flush()
}

func num(p *float64, format string) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf(format, *p)
}
