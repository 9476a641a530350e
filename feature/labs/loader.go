package labs

import (
	"time"

	"inventory-sync/core/source"
	"inventory-sync/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Labs feature over the shared inventory store and
// the asset source endpoint.
func NewFeature(store *inventory.Store, api source.API, system string, cacheTTL time.Duration, logger *zap.Logger) *Feature {
	svc := NewService(store, api, system, cacheTTL, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "labs"
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

// Service exposes the labs service for the CLI commands.
func (f *Feature) Service() *Service {
	return f.service
}
