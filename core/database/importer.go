package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"area-reconciler/core/fsys"
	"area-reconciler/core/inventory"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const importBatchSize = 500

// ImportResult counts the rows imported per dataset. Datasets whose extract
// does not exist are listed in Skipped and keep their previous rows.
type ImportResult struct {
	Area    string                 `json:"area"`
	Rows    map[inventory.Kind]int `json:"rows"`
	Skipped []inventory.Kind       `json:"skipped"`
}

// Importer copies extracts from a source inventory into the row store.
type Importer struct {
	db     *gorm.DB
	source inventory.Inventory
	store  *RowStore
	logger *zap.Logger
}

// NewImporter creates an Importer reading from source.
func NewImporter(db *gorm.DB, source inventory.Inventory, store *RowStore, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{db: db, source: source, store: store, logger: logger}
}

// extracts holds the datasets read from the source. A nil slice marks a
// dataset that was not available.
type extracts struct {
	osmStreets      []OSMStreetRow
	osmHouseNumbers []OSMHouseNumberRow
	refStreets      []RefStreetRow
	refHouseNumbers []RefHouseNumberRow
}

// Import replaces the rows of every available dataset of area in one
// transaction, then touches the stamps of the imported datasets.
func (i *Importer) Import(ctx context.Context, area string) (*ImportResult, error) {
	result := &ImportResult{Area: area, Rows: map[inventory.Kind]int{}}

	ex, err := i.read(ctx, area, result)
	if err != nil {
		return nil, err
	}

	err = i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replace(tx, area, &OSMStreetRow{}, ex.osmStreets); err != nil {
			return err
		}
		if err := replace(tx, area, &OSMHouseNumberRow{}, ex.osmHouseNumbers); err != nil {
			return err
		}
		if err := replace(tx, area, &RefStreetRow{}, ex.refStreets); err != nil {
			return err
		}
		return replace(tx, area, &RefHouseNumberRow{}, ex.refHouseNumbers)
	})
	if err != nil {
		return nil, fmt.Errorf("import area %s: %w", area, err)
	}

	stamp := []byte(time.Now().UTC().Format(time.RFC3339) + "\n")
	for kind := range result.Rows {
		if err := fsys.WriteAll(ctx, i.store.fs, i.store.StampPath(area, kind), stamp); err != nil {
			return nil, fmt.Errorf("write import stamp: %w", err)
		}
	}

	i.logger.Info("Area imported",
		zap.String("area", area),
		zap.Any("rows", result.Rows),
		zap.Any("skipped", result.Skipped))
	return result, nil
}

func (i *Importer) read(ctx context.Context, area string, result *ImportResult) (*extracts, error) {
	ex := &extracts{}

	// skip reports whether the dataset is missing from the source.
	skip := func(kind inventory.Kind, err error) (bool, error) {
		if err == nil {
			return false, nil
		}
		if errors.Is(err, inventory.ErrNotAvailable) {
			result.Skipped = append(result.Skipped, kind)
			return true, nil
		}
		return false, fmt.Errorf("read %s of area %s: %w", kind, area, err)
	}

	streets, err := i.source.OSMStreets(ctx, area)
	if skipped, err := skip(inventory.KindOSMStreets, err); err != nil {
		return nil, err
	} else if !skipped {
		ex.osmStreets = make([]OSMStreetRow, 0, len(streets))
		for _, s := range streets {
			ex.osmStreets = append(ex.osmStreets, newOSMStreetRow(area, s))
		}
		result.Rows[inventory.KindOSMStreets] = len(streets)
	}

	numbers, err := i.source.OSMHouseNumbers(ctx, area)
	if skipped, err := skip(inventory.KindOSMHouseNumbers, err); err != nil {
		return nil, err
	} else if !skipped {
		ex.osmHouseNumbers = make([]OSMHouseNumberRow, 0, len(numbers))
		for _, h := range numbers {
			ex.osmHouseNumbers = append(ex.osmHouseNumbers, newOSMHouseNumberRow(area, h))
		}
		result.Rows[inventory.KindOSMHouseNumbers] = len(numbers)
	}

	refStreets, err := i.source.RefStreets(ctx, area)
	if skipped, err := skip(inventory.KindRefStreets, err); err != nil {
		return nil, err
	} else if !skipped {
		ex.refStreets = make([]RefStreetRow, 0, len(refStreets))
		for _, s := range refStreets {
			ex.refStreets = append(ex.refStreets, newRefStreetRow(area, s))
		}
		result.Rows[inventory.KindRefStreets] = len(refStreets)
	}

	refNumbers, err := i.source.RefHouseNumbers(ctx, area)
	if skipped, err := skip(inventory.KindRefHouseNumbers, err); err != nil {
		return nil, err
	} else if !skipped {
		ex.refHouseNumbers = make([]RefHouseNumberRow, 0, len(refNumbers))
		for _, h := range refNumbers {
			ex.refHouseNumbers = append(ex.refHouseNumbers, newRefHouseNumberRow(area, h))
		}
		result.Rows[inventory.KindRefHouseNumbers] = len(refNumbers)
	}

	return ex, nil
}

// replace swaps the rows of area in model's table for rows. A nil rows slice
// leaves the table untouched.
func replace[R any](tx *gorm.DB, area string, model *R, rows []R) error {
	if rows == nil {
		return nil
	}
	if err := tx.Where("area = ?", area).Delete(model).Error; err != nil {
		return fmt.Errorf("delete previous rows: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, importBatchSize).Error; err != nil {
		return fmt.Errorf("insert rows: %w", err)
	}
	return nil
}
