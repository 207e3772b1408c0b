package relations

import (
	"time"

	"area-reconciler/core/area"
	"area-reconciler/core/inventory"
	"area-reconciler/core/metrics"
	"area-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new relations feature.
func NewFeature(areas *area.Loader, inv inventory.Inventory, cache *reconcile.ResultCache, cfg reconcile.Config, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Feature {
	svc := NewService(areas, inv, cache, cfg, logger, m)
	return &Feature{service: svc, handler: NewHandler(svc, timeout)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "relations"
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
