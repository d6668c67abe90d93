package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/darwinbeing/fabrics/internal/generator"
	"github.com/darwinbeing/fabrics/internal/models"
	"github.com/darwinbeing/fabrics/internal/release"
	"github.com/darwinbeing/fabrics/internal/validation"
)

func newSampleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sample <design>",
		Short: "Print one random parameter set for design to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := models.Lookup(args[0]); err != nil {
				return err
			}
			cfg := generator.New(a.seed, a.cfg.Ranges).Next()
			if err := validation.ValidateConfig(cfg); err != nil {
				return fmt.Errorf("generated config rejected: %w", err)
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check parameter files against the interconnect constraints",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := validateFile(path); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", path)
			}
			return nil
		},
	}
}

func validateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	cfg, err := models.DecodeCrossbarConfig(f)
	if err != nil {
		return err
	}
	return validation.ValidateConfig(cfg)
}

func newDesignsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "designs",
		Short: "List the interconnect designs and the files each build uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DESIGN\tPARAMETER FILE\tTOP FILE\tTOP MODULE")
			for _, name := range models.Names() {
				d, _ := models.Lookup(name)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, d.ConfigPath(a.cfg.Root), d.TopFile, d.TopModule)
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the release version from the changelog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := release.VersionFromFile(a.underRoot(a.cfg.Changelog))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}
