// Package version prints build metadata.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tphakala/astral-forecast/internal/app"
)

// Command returns the version command.
func Command(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{app.SkipConfigAnnotation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			b := ctx.Build
			fmt.Fprintf(cmd.OutOrStdout(), "astral-forecast %s (commit %s, built %s, %s %s/%s)\n",
				b.GetVersion(), b.GetCommit(), b.GetBuildDate(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
