package cmd

import (
	"context"
	"fmt"

	"area-reconciler/core/database"
	"area-reconciler/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the workspace",
	Long:  `Checks that area documents resolve, extracts are present and the row store schema matches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check area documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// extractsCmd represents the integrity extracts command
var extractsCmd = &cobra.Command{
	Use:   "extracts",
	Short: "Check extract files of every area",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// databaseCmd represents the integrity database command
var databaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Check the row store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, extractsCmd, databaseCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create a missing relations.yaml")
	databaseCmd.Flags().BoolVar(&fixFlag, "fix", false, "Migrate the schema")
}

func (a *app) integrityService() *integrity.Service {
	return integrity.NewService(a.fs, a.areas, a.files, a.db, a.optionalRowStore(), a.logger)
}

func runIntegrityChecks(ctx context.Context, runStructure, runExtracts, runDatabase bool) error {
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	logg := a.logger
	defer logg.Sync()

	if runDatabase && a.db == nil {
		if conn, err := database.Connect(a.cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			a.db = conn
		}
	}
	svc := a.integrityService()
	onlyOne := !(runStructure && runExtracts && runDatabase)

	if runStructure {
		logg.Info("Checking area documents...")
		report, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}

		switch {
		case report.OK():
			logg.Info("Area documents are intact.", zap.Int("areas", len(report.Areas)))
		case len(report.Missing) > 0:
			logg.Warn("Missing documents detected", zap.Strings("missing", report.Missing))
			if onlyOne && fixFlag {
				if err := svc.FixStructure(ctx, report.Missing); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				logg.Info("Structure fixed successfully.")
			} else if onlyOne {
				logg.Info("Run with --fix to create missing documents.")
			}
		}
		for name, msg := range report.Invalid {
			logg.Warn("Invalid area configuration", zap.String("area", name), zap.String("error", msg))
		}
	}

	if runExtracts {
		logg.Info("Checking extract files...")
		reports, err := svc.CheckExtracts(ctx)
		if err != nil {
			return fmt.Errorf("extracts check failed: %w", err)
		}
		if len(reports) == 0 {
			logg.Info("Extract files are present.")
		}
		for _, r := range reports {
			logg.Warn("Extract problems detected",
				zap.String("area", r.Area),
				zap.Any("missing", r.Missing),
				zap.Any("stale", r.Stale),
			)
		}
	}

	if runDatabase {
		if onlyOne && fixFlag {
			logg.Info("Migrating row store schema...")
			if err := svc.FixDatabase(); err != nil {
				return fmt.Errorf("failed to migrate schema: %w", err)
			}
		}

		logg.Info("Checking row store schema...")
		report, err := svc.CheckDatabase()
		if err != nil {
			logg.Error("Database schema check failed", zap.Error(err))
			return nil
		}
		if report.Matched {
			logg.Info("Row store schema matches expected definition.")
			return nil
		}
		logg.Warn("Row store schema mismatches found")
		for table, tblReport := range report.Tables {
			if tblReport.Status == "ok" {
				continue
			}
			if len(tblReport.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
			}
			if len(tblReport.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
			}
		}
	}

	return nil
}
