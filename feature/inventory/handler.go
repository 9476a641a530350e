package inventory

import (
	"inventory-sync/core/ingest"
	"inventory-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for inventory synchronization.
type Handler struct {
	service  *Service
	defaults ingest.Options
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, defaults ingest.Options) *Handler {
	return &Handler{service: service, defaults: defaults}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/sync/:entityType", h.HandleSync)
	app.Get("/entities/:entityType/:externalId", h.HandleGetEntity)
}

// HandleSync runs one synchronization pass for an entity type.
// @Summary Run Synchronization
// @Description Run a synchronization pass for one entity type and return its run summary.
// @Tags inventory
// @Accept json
// @Produce json
// @Param entityType path string true "Entity type ('user' or 'asset')"
// @Param full query bool false "Ignore incremental state and consider every record"
// @Param dry_run query bool false "Report what would change without persisting anything"
// @Success 200 {object} ingest.Summary "Run Summary"
// @Failure 400 {object} map[string]string "Unknown entity type"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/{entityType} [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	entityType := c.Params("entityType")
	l := logger.WithRayID(h.service.logger, c)

	opts := h.defaults
	opts.FullSync = c.QueryBool("full", false)
	opts.DryRun = c.QueryBool("dry_run", false)

	if _, err := AdapterFor(entityType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	summary, err := h.service.Sync(c.Context(), entityType, opts)
	if err != nil {
		l.Error("Synchronization run failed", zap.String("entity_type", entityType), zap.Error(err))
		status := fiber.StatusInternalServerError
		if summary != nil {
			// The run row is finalized; report the terminal state alongside
			// the error.
			return c.Status(status).JSON(fiber.Map{
				"error":   err.Error(),
				"summary": summary,
			})
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(summary)
}

// HandleGetEntity returns the latest stored snapshot for one entity.
// @Summary Get Latest Snapshot
// @Description Get the most recent stored snapshot for a single entity.
// @Tags inventory
// @Accept json
// @Produce json
// @Param entityType path string true "Entity type ('user' or 'asset')"
// @Param externalId path string true "External id of the entity in the source system"
// @Success 200 {object} ingest.Snapshot "Latest Snapshot"
// @Failure 400 {object} map[string]string "Unknown entity type"
// @Failure 404 {object} map[string]string "Entity never ingested"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /entities/{entityType}/{externalId} [get]
func (h *Handler) HandleGetEntity(c *fiber.Ctx) error {
	entityType := c.Params("entityType")
	externalID := c.Params("externalId")
	l := logger.WithRayID(h.service.logger, c)

	if _, err := AdapterFor(entityType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	snap, err := h.service.LatestSnapshot(c.Context(), entityType, externalID)
	if err != nil {
		l.Error("Snapshot lookup failed", zap.String("external_id", externalID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if snap == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "entity not found",
		})
	}

	return c.JSON(snap)
}
