package integrity

import (
	"area-reconciler/core/area"
	"area-reconciler/core/database"
	"area-reconciler/core/fsys"
	"area-reconciler/core/inventory"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new integrity feature.
func NewFeature(fs fsys.FileSystem, areas *area.Loader, files *inventory.Files, db *gorm.DB, store *database.RowStore, logger *zap.Logger) *Feature {
	svc := NewService(fs, areas, files, db, store, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
