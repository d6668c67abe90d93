package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"go.uber.org/zap"

	"github.com/darwinbeing/fabrics/internal/release"
)

func newDocsCmd(a *app) *cobra.Command {
	docs := &cobra.Command{
		Use:   "docs",
		Short: "Datasheet and CLI reference generation",
	}

	docs.AddCommand(&cobra.Command{
		Use:   "build [target]",
		Short: "Build the datasheet with the Sphinx makefile (default target latexpdf)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "latexpdf"
			if len(args) == 1 {
				target = args[0]
			}
			version, err := release.VersionFromFile(a.underRoot(a.cfg.Changelog))
			if err != nil {
				return err
			}
			inv := release.DocsInvocation(a.underRoot(a.cfg.DocsDir), target, version)
			a.logger.Info("datasheet build", zap.String("version", version), zap.String("target", target))
			return a.makeRunner().Run(cmd.Context(), inv)
		},
	})

	docs.AddCommand(&cobra.Command{
		Use:   "cli <dir>",
		Short: "Write markdown reference pages for every fabricgen command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			root := cmd.Root()
			root.DisableAutoGenTag = true
			if err := doc.GenMarkdownTree(root, dir); err != nil {
				return fmt.Errorf("generate CLI reference: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote CLI reference to %s\n", dir)
			return nil
		},
	})
	return docs
}
