package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/darwinbeing/fabrics/internal/build"
	"github.com/darwinbeing/fabrics/internal/config"
	"github.com/darwinbeing/fabrics/internal/observability"
)

// app carries state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	runner build.Runner // nil: real make

	// global flags
	configPath  string
	verbose     bool
	seed        uint64
	root        string
	makeBin     string
	timeout     time.Duration
	dryRun      bool
	skipClean   bool
	archiveDir  string
	metricsFile string
	metricsAddr string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fabricgen [design count]",
		Short: "Randomized test-configuration sweeps for AXI4, AXI4-Lite and APB interconnects",
		Long: `fabricgen draws random interconnect parameter sets (master/slave counts,
bus widths, fixed priorities and a memory map with one error slave), writes
each one to the design's YAML parameter file and runs the make flow that
generates the test instances. The sweep stops at the first failed build.

  fabricgen generate axi4 25
  fabricgen axi4l 10 --seed 1234
  fabricgen sample apb`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return cmd.Help()
			}
			return a.runGenerate(cmd.Context(), args[0], args[1])
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default $FABRICGEN_CONFIG or ./"+config.DefaultFile+")")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.Uint64Var(&a.seed, "seed", 0, "random seed (default: random, logged for replay)")
	pf.StringVar(&a.root, "root", "", "repository root holding the design directories")
	pf.StringVar(&a.makeBin, "make", "", "make binary")
	pf.DurationVar(&a.timeout, "timeout", 0, "per make invocation timeout (0 = none)")
	pf.BoolVar(&a.dryRun, "dry-run", false, "write parameter files without running make")
	pf.BoolVar(&a.skipClean, "skip-clean", false, "do not run make clean before each build")
	pf.StringVar(&a.archiveDir, "archive-dir", "", "copy parameter files of failed builds here")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus textfile metrics here on exit")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "serve /metrics and /status on this address during the sweep")

	root.AddCommand(
		newGenerateCmd(a),
		newSampleCmd(a),
		newValidateCmd(a),
		newDesignsCmd(a),
		newVersionCmd(a),
		newDocsCmd(a),
	)
	return root
}

// setup builds the logger, loads config and applies flags that were set explicitly.
func (a *app) setup(cmd *cobra.Command) error {
	logger, err := observability.NewLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.logger = logger

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = a.root
	}
	if flags.Changed("make") {
		cfg.MakeBin = a.makeBin
	}
	if flags.Changed("timeout") {
		cfg.BuildTimeout = a.timeout
	}
	if flags.Changed("skip-clean") {
		cfg.SkipClean = a.skipClean
	}
	if flags.Changed("archive-dir") {
		cfg.ArchiveDir = a.archiveDir
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = a.metricsFile
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = a.metricsAddr
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !flags.Changed("seed") {
		a.seed = rand.Uint64()
	}
	a.cfg = cfg
	return nil
}

// makeRunner returns the injected runner or a make runner built from config.
func (a *app) makeRunner() build.Runner {
	if a.runner != nil {
		return a.runner
	}
	return build.NewMakeRunner(a.cfg.MakeBin, a.stdout, a.cfg.BuildTimeout, a.logger)
}

// underRoot resolves p against the configured repository root unless it is absolute.
func (a *app) underRoot(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.cfg.Root, p)
}
