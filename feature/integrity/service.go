package integrity

import (
	"context"

	"area-reconciler/core/area"
	"area-reconciler/core/database"
	"area-reconciler/core/fsys"
	"area-reconciler/core/inventory"
	"area-reconciler/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	fs     fsys.FileSystem
	areas  *area.Loader
	files  *inventory.Files
	db     *gorm.DB
	store  *database.RowStore
	logger *zap.Logger
}

// NewService creates a new integrity service. db and store are optional;
// without them the database check fails and extracts are never stale.
func NewService(fs fsys.FileSystem, areas *area.Loader, files *inventory.Files, db *gorm.DB, store *database.RowStore, logger *zap.Logger) *Service {
	return &Service{
		fs:     fs,
		areas:  areas,
		files:  files,
		db:     db,
		store:  store,
		logger: logger,
	}
}

// CheckStructure validates the area documents.
func (s *Service) CheckStructure(ctx context.Context) (*checks.StructureReport, error) {
	return checks.CheckStructure(ctx, s.fs, s.areas)
}

// FixStructure creates the missing documents.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.fs, s.logger, missing)
}

// CheckExtracts reports missing and stale extracts of every configured area.
func (s *Service) CheckExtracts(ctx context.Context) ([]checks.ExtractReport, error) {
	names, err := s.areas.Names(ctx)
	if err != nil {
		return nil, err
	}
	return checks.CheckExtracts(ctx, s.fs, names, s.files, s.store)
}

// CheckDatabase compares the row store schema with the row models.
func (s *Service) CheckDatabase() (*database.SchemaReport, error) {
	return checks.CheckDatabase(s.db)
}

// FixDatabase migrates the row store schema.
func (s *Service) FixDatabase() error {
	return checks.FixDatabase(s.db, s.logger)
}
