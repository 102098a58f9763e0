// Package locations lists the location catalog.
package locations

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tphakala/astral-forecast/internal/app"
	"github.com/tphakala/astral-forecast/internal/locations"
)

// Command returns the locations command. It needs no configuration.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:         "locations",
		Short:       "List the supported locations",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{app.SkipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSLUG\tREGION\tLAT\tLON")
			for _, l := range locations.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%.4f\n", l.Name, l.Slug, l.Region, l.Latitude, l.Longitude)
			}
			return tw.Flush()
		},
	}
}
