package cmd

import (
	"fmt"

	"area-reconciler/core/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importAll bool

// importCmd loads extract files into the row store.
var importCmd = &cobra.Command{
	Use:   "import [area...]",
	Short: "Import area extracts into the database",
	Long: `Migrates the row store schema and replaces the rows of each given area
with the content of its extract files. Datasets without an extract are
skipped and keep their previous rows.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importAll, "all", false, "Import every active area")
	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	if err := database.Migrate(a.db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	names, err := a.resolveAreas(ctx, args, importAll)
	if err != nil {
		return err
	}

	importer := database.NewImporter(a.db, a.files, a.rowStore(), a.logger)
	for _, name := range names {
		result, err := importer.Import(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", name, err)
		}

		fields := []zap.Field{zap.String("area", name)}
		for kind, n := range result.Rows {
			fields = append(fields, zap.Int(string(kind), n))
		}
		if len(result.Skipped) > 0 {
			fields = append(fields, zap.Any("skipped", result.Skipped))
		}
		a.logger.Info("Imported area", fields...)
	}
	return nil
}
