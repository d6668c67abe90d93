package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/darwinbeing/fabrics/internal/generator"
	httpserver "github.com/darwinbeing/fabrics/internal/http"
	"github.com/darwinbeing/fabrics/internal/models"
	"github.com/darwinbeing/fabrics/internal/sweep"
)

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <design> <count>",
		Short: "Run count random parameter sets through the design's instance build",
		Long: `For each of count iterations: draw a random parameter set, write it to
<root>/<design dir>/test/<design>_*_config.yaml, run "make clean" and then
"make TOP_FILE=... TOP_MODULE=... generate_instances". A failed build prints
"ERROR: Did not compile <design>" and exits 1.

Designs: ` + fmt.Sprint(models.Names()),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd.Context(), args[0], args[1])
		},
	}
}

func (a *app) runGenerate(ctx context.Context, designName, countArg string) error {
	d, err := models.Lookup(designName)
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(countArg)
	if err != nil {
		return fmt.Errorf("invalid test count %q: %w", countArg, err)
	}

	sw := sweep.New(
		generator.New(a.seed, a.cfg.Ranges),
		a.makeRunner(),
		sweep.Options{
			Root:       a.cfg.Root,
			DryRun:     a.dryRun,
			SkipClean:  a.cfg.SkipClean,
			ArchiveDir: a.cfg.ArchiveDir,
		},
		a.logger,
	)

	if a.cfg.MetricsAddr != "" {
		srv, err := httpserver.Listen(a.cfg.MetricsAddr, httpserver.NewHandler(sw.Progress()), a.logger)
		if err != nil {
			return fmt.Errorf("status server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("status server shutdown", zap.Error(err))
			}
		}()
	}

	return sw.Run(ctx, d, count)
}
