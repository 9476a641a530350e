package inventory

import (
	"inventory-sync/core/ingest"
	"inventory-sync/core/source"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Inventory feature.
func NewFeature(db *gorm.DB, client *source.Client, system string, defaults ingest.Options, logger *zap.Logger) *Feature {
	svc := NewService(NewStore(db), client, system, logger)
	h := NewHandler(svc, defaults)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "inventory"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.service.Store().Migrate(); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the inventory service to sibling features.
func (f *Feature) Service() *Service {
	return f.service
}
