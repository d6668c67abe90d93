package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/darwinbeing/fabrics/internal/models"
	"github.com/darwinbeing/fabrics/internal/validation"
)

// DefaultFile is read from the working directory when no config path is given.
const DefaultFile = "fabricgen.yaml"

// Config holds generator configuration loaded from YAML and env.
type Config struct {
	Root         string // repository root with the axi4/, axi4_lite/, apb/ trees
	MakeBin      string
	BuildTimeout time.Duration // per make invocation; 0 = no limit
	SkipClean    bool
	ArchiveDir   string

	MetricsFile string
	MetricsAddr string

	DocsDir   string
	Changelog string

	Ranges models.Ranges
}

type fileConfig struct {
	Build struct {
		Root       string `yaml:"root"`
		Make       string `yaml:"make"`
		Timeout    string `yaml:"timeout"`
		SkipClean  *bool  `yaml:"skip_clean"`
		ArchiveDir string `yaml:"archive_dir"`
	} `yaml:"build"`

	Generator struct {
		IDWidth      *models.IntRange `yaml:"wd_id"`
		AddrWidth    *models.IntRange `yaml:"wd_addr"`
		DataWidths   []int            `yaml:"wd_data"`
		UserWidth    *models.IntRange `yaml:"wd_user"`
		Masters      *models.IntRange `yaml:"tn_num_masters"`
		Slaves       *models.IntRange `yaml:"tn_num_slaves"`
		MapStart     *uint64          `yaml:"map_start"`
		RegionSize   *uint64          `yaml:"region_size"`
		RegionStride *uint64          `yaml:"region_stride"`
	} `yaml:"generator"`

	Metrics struct {
		File string `yaml:"file"`
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	Docs struct {
		Dir       string `yaml:"dir"`
		Changelog string `yaml:"changelog"`
	} `yaml:"docs"`
}

// Load resolves the config file (path, else FABRICGEN_CONFIG, else
// ./fabricgen.yaml when present), applies env overrides and defaults, and
// validates the result. With no file at all the defaults are returned.
func Load(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv("FABRICGEN_CONFIG")
	}
	if path == "" {
		path = DefaultFile
		explicit = false
	}

	var fc fileConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config file not found: %s", path)
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	cfg.Root = strings.TrimSpace(os.Getenv("FABRICGEN_ROOT"))
	if cfg.Root == "" {
		cfg.Root = strings.TrimSpace(fc.Build.Root)
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	cfg.MakeBin = strings.TrimSpace(os.Getenv("FABRICGEN_MAKE"))
	if cfg.MakeBin == "" {
		cfg.MakeBin = strings.TrimSpace(fc.Build.Make)
	}
	if cfg.MakeBin == "" {
		cfg.MakeBin = "make"
	}
	cfg.BuildTimeout = parseDurationOrZero(fc.Build.Timeout, 0)
	if fc.Build.SkipClean != nil {
		cfg.SkipClean = *fc.Build.SkipClean
	}
	cfg.ArchiveDir = strings.TrimSpace(fc.Build.ArchiveDir)

	cfg.MetricsFile = strings.TrimSpace(os.Getenv("FABRICGEN_METRICS_FILE"))
	if cfg.MetricsFile == "" {
		cfg.MetricsFile = strings.TrimSpace(fc.Metrics.File)
	}
	cfg.MetricsAddr = strings.TrimSpace(fc.Metrics.Addr)

	cfg.DocsDir = strings.TrimSpace(fc.Docs.Dir)
	if cfg.DocsDir == "" {
		cfg.DocsDir = "docs"
	}
	cfg.Changelog = strings.TrimSpace(fc.Docs.Changelog)
	if cfg.Changelog == "" {
		cfg.Changelog = "CHANGELOG.rst"
	}

	cfg.Ranges = models.DefaultRanges()
	g := fc.Generator
	if g.IDWidth != nil {
		cfg.Ranges.IDWidth = *g.IDWidth
	}
	if g.AddrWidth != nil {
		cfg.Ranges.AddrWidth = *g.AddrWidth
	}
	if len(g.DataWidths) > 0 {
		cfg.Ranges.DataWidths = g.DataWidths
	}
	if g.UserWidth != nil {
		cfg.Ranges.UserWidth = *g.UserWidth
	}
	if g.Masters != nil {
		cfg.Ranges.Masters = *g.Masters
	}
	if g.Slaves != nil {
		cfg.Ranges.Slaves = *g.Slaves
	}
	if g.MapStart != nil {
		cfg.Ranges.MapStart = *g.MapStart
	}
	if g.RegionSize != nil {
		cfg.Ranges.RegionSize = *g.RegionSize
	}
	if g.RegionStride != nil {
		cfg.Ranges.RegionStride = *g.RegionStride
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDurationOrZero parses a duration string, returning defaultVal on empty string or parse error.
// Returns zero or negative durations as-is (caller should handle fallback).
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// Validate checks a loaded (or flag-adjusted) configuration.
func Validate(cfg *Config) error {
	if cfg.BuildTimeout < 0 {
		return fmt.Errorf("build.timeout must not be negative, got %s", cfg.BuildTimeout)
	}
	if cfg.MakeBin == "" {
		return fmt.Errorf("build.make must not be empty")
	}
	if err := validation.ValidateRanges(cfg.Ranges); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	return nil
}
