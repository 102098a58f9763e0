package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// Zone data for Europe/Stockholm on hosts without a zoneinfo database
	_ "time/tzdata"

	"github.com/tphakala/astral-forecast/cmd"
	"github.com/tphakala/astral-forecast/internal/app"
	"github.com/tphakala/astral-forecast/internal/buildinfo"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
	commit    string
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &app.Context{Build: buildinfo.NewContext(version, buildDate, commit)}

	rootCmd := cmd.RootCommand(appCtx)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Command execution error: %v\n", err)
		return 1
	}
	return 0
}
