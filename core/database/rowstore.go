package database

import (
	"context"
	"fmt"
	"path"

	"area-reconciler/core/fsys"
	"area-reconciler/core/inventory"

	"gorm.io/gorm"
)

// RowStore serves imported extracts from the database. A dataset is only
// available once its import stamp exists, so a half-initialized store reports
// inventory.ErrNotAvailable instead of empty results.
type RowStore struct {
	db       *gorm.DB
	fs       fsys.FileSystem
	stampDir string
}

// NewRowStore creates a RowStore. Import stamps live below stampDir on fs.
func NewRowStore(db *gorm.DB, fs fsys.FileSystem, stampDir string) *RowStore {
	return &RowStore{db: db, fs: fs, stampDir: stampDir}
}

// StampPath returns the stamp file touched when a dataset of area is imported.
func (s *RowStore) StampPath(area string, kind inventory.Kind) string {
	return path.Join(s.stampDir, fmt.Sprintf("%s-%s.stamp", kind, area))
}

// Dependencies returns the stamp paths of area.
func (s *RowStore) Dependencies(area string) []string {
	deps := make([]string, 0, len(inventory.Kinds))
	for _, kind := range inventory.Kinds {
		deps = append(deps, s.StampPath(area, kind))
	}
	return deps
}

func (s *RowStore) available(ctx context.Context, area string, kind inventory.Kind) error {
	ok, err := s.fs.PathExists(ctx, s.StampPath(area, kind))
	if err != nil {
		return fmt.Errorf("check import stamp: %w", err)
	}
	if !ok {
		return inventory.NotAvailable(area, kind)
	}
	return nil
}

// query loads the rows of one dataset of area in import order.
func query[R any](ctx context.Context, s *RowStore, area string, kind inventory.Kind) ([]R, error) {
	if err := s.available(ctx, area, kind); err != nil {
		return nil, err
	}
	var rows []R
	if err := s.db.WithContext(ctx).Where("area = ?", area).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query %s for area %s: %w", kind, area, err)
	}
	return rows, nil
}

func (s *RowStore) OSMStreets(ctx context.Context, area string) ([]inventory.OSMStreet, error) {
	rows, err := query[OSMStreetRow](ctx, s, area, inventory.KindOSMStreets)
	if err != nil {
		return nil, err
	}
	ret := make([]inventory.OSMStreet, 0, len(rows))
	for _, r := range rows {
		ret = append(ret, r.toInventory())
	}
	return ret, nil
}

func (s *RowStore) OSMHouseNumbers(ctx context.Context, area string) ([]inventory.OSMHouseNumber, error) {
	rows, err := query[OSMHouseNumberRow](ctx, s, area, inventory.KindOSMHouseNumbers)
	if err != nil {
		return nil, err
	}
	ret := make([]inventory.OSMHouseNumber, 0, len(rows))
	for _, r := range rows {
		ret = append(ret, r.toInventory())
	}
	return ret, nil
}

func (s *RowStore) RefStreets(ctx context.Context, area string) ([]inventory.RefStreet, error) {
	rows, err := query[RefStreetRow](ctx, s, area, inventory.KindRefStreets)
	if err != nil {
		return nil, err
	}
	ret := make([]inventory.RefStreet, 0, len(rows))
	for _, r := range rows {
		ret = append(ret, r.toInventory())
	}
	return ret, nil
}

func (s *RowStore) RefHouseNumbers(ctx context.Context, area string) ([]inventory.RefHouseNumber, error) {
	rows, err := query[RefHouseNumberRow](ctx, s, area, inventory.KindRefHouseNumbers)
	if err != nil {
		return nil, err
	}
	ret := make([]inventory.RefHouseNumber, 0, len(rows))
	for _, r := range rows {
		ret = append(ret, r.toInventory())
	}
	return ret, nil
}

var _ inventory.Inventory = (*RowStore)(nil)
