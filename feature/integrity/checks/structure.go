package checks

import (
	"context"
	"fmt"

	"area-reconciler/core/area"
	"area-reconciler/core/fsys"

	"go.uber.org/zap"
)

// StructureReport is the result of validating the area documents.
type StructureReport struct {
	// Missing lists required documents that do not exist.
	Missing []string `json:"missing"`
	// Areas lists every area declared in relations.yaml.
	Areas []string `json:"areas"`
	// Invalid maps an area to the error its configuration failed with.
	Invalid map[string]string `json:"invalid"`
}

// OK reports whether nothing is missing or invalid.
func (r *StructureReport) OK() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

// CheckStructure verifies that relations.yaml exists and that every area it
// declares resolves to a valid configuration.
func CheckStructure(ctx context.Context, fs fsys.FileSystem, areas *area.Loader) (*StructureReport, error) {
	report := &StructureReport{Missing: []string{}, Areas: []string{}, Invalid: map[string]string{}}

	exists, err := fs.PathExists(ctx, areas.SharedPath())
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", areas.SharedPath(), err)
	}
	if !exists {
		report.Missing = append(report.Missing, areas.SharedPath())
		return report, nil
	}

	names, err := areas.Names(ctx)
	if err != nil {
		if area.IsConfigError(err) {
			report.Invalid["*"] = err.Error()
			return report, nil
		}
		return nil, err
	}
	report.Areas = names

	for _, name := range names {
		if _, err := areas.Load(ctx, name); err != nil {
			if !area.IsConfigError(err) {
				return nil, err
			}
			report.Invalid[name] = err.Error()
		}
	}
	return report, nil
}

// FixStructure creates the missing documents empty.
func FixStructure(ctx context.Context, fs fsys.FileSystem, logger *zap.Logger, missing []string) error {
	for _, p := range missing {
		if err := fsys.WriteAll(ctx, fs, p, []byte("{}\n")); err != nil {
			logger.Error("Failed to create document", zap.String("path", p), zap.Error(err))
			return err
		}
		logger.Info("Created missing document", zap.String("path", p))
	}
	return nil
}
