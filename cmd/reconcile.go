package cmd

import (
	"fmt"
	"os"

	"area-reconciler/core/reconcile"
	"area-reconciler/core/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile report commands
	reportFormat string
	freshReport  bool
)

// reconcileCmd is the parent command for all report kinds.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile an area against the reference registry",
	Long: `Reconcile OSM streets and house numbers of an area with the reference
registry and print one report.

Examples:
  # Missing house numbers as plain text
  reconcile missing-housenumbers budapest_11

  # Missing streets as Markdown, ignoring the cached artifact
  reconcile missing-streets budapest_11 --format md --fresh`,
}

func newReportCmd(kind report.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind) + " <area>",
		Short: "Print the " + kind.Title() + " report of an area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, kind, args[0])
		},
	}
}

func init() {
	for _, kind := range report.Kinds {
		reconcileCmd.AddCommand(newReportCmd(kind))
	}

	reconcileCmd.PersistentFlags().StringVar(&reportFormat, "format", string(report.FormatText), "Output format: txt, md or json")
	reconcileCmd.PersistentFlags().BoolVar(&freshReport, "fresh", false, "Drop the cached artifact before computing")

	RootCmd.AddCommand(reconcileCmd)
}

func runReport(cmd *cobra.Command, kind report.Kind, name string) error {
	ctx := cmd.Context()

	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	if freshReport {
		key := reconcile.CacheKey{Area: name, Report: string(kind), Format: string(format)}
		if err := a.cache.Invalidate(ctx, key); err != nil {
			return fmt.Errorf("failed to drop cached report: %w", err)
		}
	}

	a.logger.Debug("Computing report", zap.String("area", name), zap.String("report", string(kind)))
	body, err := a.service().Report(ctx, name, kind, format)
	if err != nil {
		return fmt.Errorf("failed to build %s report for %s: %w", kind, name, err)
	}

	_, err = os.Stdout.Write(body)
	return err
}
