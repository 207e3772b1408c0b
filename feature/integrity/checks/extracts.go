package checks

import (
	"context"
	"fmt"

	"area-reconciler/core/database"
	"area-reconciler/core/fsys"
	"area-reconciler/core/inventory"
)

// ExtractReport lists the dataset problems of one area.
type ExtractReport struct {
	Area string `json:"area"`
	// Missing datasets have no extract file.
	Missing []inventory.Kind `json:"missing"`
	// Stale datasets have an extract newer than their last import.
	Stale []inventory.Kind `json:"stale"`
}

// CheckExtracts reports the missing extracts of each area. When store is set,
// extracts modified after their import are reported as stale. Only areas with
// a problem are returned.
func CheckExtracts(ctx context.Context, fs fsys.FileSystem, names []string, files *inventory.Files, store *database.RowStore) ([]ExtractReport, error) {
	reports := []ExtractReport{}
	for _, name := range names {
		r := ExtractReport{Area: name, Missing: []inventory.Kind{}, Stale: []inventory.Kind{}}
		for _, kind := range inventory.Kinds {
			p := files.Path(name, kind)
			exists, err := fs.PathExists(ctx, p)
			if err != nil {
				return nil, fmt.Errorf("failed to check %s: %w", p, err)
			}
			if !exists {
				r.Missing = append(r.Missing, kind)
				continue
			}
			if store == nil {
				continue
			}
			stale, err := isStale(ctx, fs, p, store.StampPath(name, kind))
			if err != nil {
				return nil, err
			}
			if stale {
				r.Stale = append(r.Stale, kind)
			}
		}
		if len(r.Missing) > 0 || len(r.Stale) > 0 {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

// isStale reports whether the extract is not older than its stamp. A missing
// stamp means the dataset was never imported.
func isStale(ctx context.Context, fs fsys.FileSystem, extract, stamp string) (bool, error) {
	stamped, err := fs.ModTime(ctx, stamp)
	if err != nil {
		if fsys.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", stamp, err)
	}
	modified, err := fs.ModTime(ctx, extract)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", extract, err)
	}
	return !modified.Before(stamped), nil
}
