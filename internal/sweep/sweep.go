// Package sweep runs randomized parameter sets through an interconnect build.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/darwinbeing/fabrics/internal/build"
	"github.com/darwinbeing/fabrics/internal/fsutil"
	"github.com/darwinbeing/fabrics/internal/generator"
	"github.com/darwinbeing/fabrics/internal/models"
	"github.com/darwinbeing/fabrics/internal/observability"
	"github.com/darwinbeing/fabrics/internal/validation"
)

// ErrNegativeCount is returned by Run for a negative iteration count.
var ErrNegativeCount = errors.New("test count must not be negative")

// BuildError reports the iteration whose build failed. The sweep stops there.
type BuildError struct {
	Design    string
	Iteration int
	Err       error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("did not compile %s (iteration %d): %v", e.Design, e.Iteration, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Options controls how a Sweeper drives the build.
type Options struct {
	Root       string // repository root holding the design directories
	DryRun     bool   // write parameter files but skip make
	SkipClean  bool   // do not run "make clean" before each build
	ArchiveDir string // copy failing parameter files here; disabled when empty
}

// Sweeper generates, writes and builds parameter sets one at a time.
type Sweeper struct {
	gen      *generator.Generator
	runner   build.Runner
	opts     Options
	logger   *zap.Logger
	runID    string
	progress *Progress
}

// New returns a Sweeper. Each Sweeper carries a fresh run id used in logs and archive names.
func New(gen *generator.Generator, runner build.Runner, opts Options, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.New().String()
	return &Sweeper{
		gen:      gen,
		runner:   runner,
		opts:     opts,
		logger:   logger.With(zap.String("run_id", runID)),
		runID:    runID,
		progress: newProgress(runID, gen.Seed()),
	}
}

// RunID returns the sweep's run id.
func (s *Sweeper) RunID() string {
	return s.runID
}

// Progress returns the live progress tracker.
func (s *Sweeper) Progress() *Progress {
	return s.progress
}

// Run performs count iterations for d. Each iteration draws a config,
// validates it, replaces the design's parameter file and runs clean followed
// by generate_instances. The first failed build ends the sweep with a *BuildError.
func (s *Sweeper) Run(ctx context.Context, d models.Design, count int) (err error) {
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}
	s.progress.start(d.Name, count)
	defer func() { s.progress.finish(err) }()

	observability.SweepIterationsRequested.WithLabelValues(d.Name).Set(float64(count))
	observability.SweepIterationsCompleted.WithLabelValues(d.Name).Set(0)

	logger := s.logger.With(zap.String("design", d.Name))
	logger.Info("sweep starting",
		zap.Int("count", count),
		zap.Uint64("seed", s.gen.Seed()),
		zap.Bool("dry_run", s.opts.DryRun),
	)

	path := d.ConfigPath(s.opts.Root)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.progress.begin(i)

		cfg := s.gen.Next()
		if err := validation.ValidateConfig(cfg); err != nil {
			return fmt.Errorf("iteration %d: generated config rejected: %w", i, err)
		}
		observability.RecordGenerated(d.Name, cfg.NumMasters, cfg.NumSlaves)

		if err := fsutil.WriteAtomic(path, cfg.Encode); err != nil {
			return fmt.Errorf("iteration %d: write parameter file: %w", i, err)
		}
		logger.Debug("parameter file written",
			zap.Int("iteration", i),
			zap.String("path", path),
			zap.Int("masters", cfg.NumMasters),
			zap.Int("slaves", cfg.NumSlaves),
			zap.Int("error_slave", cfg.ErrorSlave()),
		)

		if !s.opts.DryRun {
			if err := s.build(ctx, logger, d, i); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.archive(logger, d, i, path)
				return err
			}
		}

		s.progress.complete()
		observability.SweepIterationsCompleted.WithLabelValues(d.Name).Inc()
	}

	logger.Info("sweep complete", zap.Int("count", count))
	return nil
}

func (s *Sweeper) build(ctx context.Context, logger *zap.Logger, d models.Design, i int) error {
	if !s.opts.SkipClean {
		if err := s.runner.Run(ctx, build.CleanInvocation(d, s.opts.Root)); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			// same as "make clean; make ...": the build result decides
			observability.CleanFailuresTotal.WithLabelValues(d.Name).Inc()
			logger.Warn("clean failed; continuing", zap.Int("iteration", i), zap.Error(err))
		}
	}

	start := time.Now()
	err := s.runner.Run(ctx, build.GenerateInvocation(d, s.opts.Root))
	category := build.CategorizeError(err)
	observability.RecordBuild(d.Name, time.Since(start).Seconds(), string(category))
	if err != nil {
		logger.Error("build failed",
			zap.Int("iteration", i),
			zap.String("category", string(category)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return &BuildError{Design: d.Name, Iteration: i, Err: err}
	}
	logger.Info("build succeeded", zap.Int("iteration", i), zap.Duration("duration", time.Since(start)))
	return nil
}

// archive keeps a copy of the parameter file that broke the build.
func (s *Sweeper) archive(logger *zap.Logger, d models.Design, i int, path string) {
	if s.opts.ArchiveDir == "" {
		return
	}
	dst := filepath.Join(s.opts.ArchiveDir, fmt.Sprintf("%s-%s-%03d.yaml", d.Name, s.runID, i))
	if err := fsutil.CopyAtomic(path, dst); err != nil {
		logger.Warn("archive failing parameter file", zap.String("dst", dst), zap.Error(err))
		return
	}
	logger.Info("failing parameter file archived", zap.String("path", dst))
}
