package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/darwinbeing/fabrics/internal/build"
	"github.com/darwinbeing/fabrics/internal/observability"
	"github.com/darwinbeing/fabrics/internal/sweep"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code. runner
// replaces the make runner when non-nil.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, runner build.Runner) int {
	a := &app{stdout: stdout, runner: runner}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	if a.logger != nil {
		metricsFile := ""
		if a.cfg != nil {
			metricsFile = a.cfg.MetricsFile
		}
		if ferr := observability.FlushTelemetry(context.Background(), a.logger, metricsFile); ferr != nil {
			fmt.Fprintf(stderr, "telemetry flush: %v\n", ferr)
		}
	}

	if err == nil {
		return 0
	}
	var buildErr *sweep.BuildError
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "interrupted")
		return 130
	case errors.As(err, &buildErr):
		fmt.Fprintf(stdout, "ERROR: Did not compile %s\n", buildErr.Design)
		return 1
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
}
