package runs

import (
	"strconv"
	"time"

	"inventory-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for run history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the runs routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Get("/", h.HandleListRuns)
	group.Post("/prune", h.HandlePruneReports)
	group.Get("/:runId", h.HandleGetRun)
	group.Get("/:runId/export", h.HandleExportRun)
	group.Post("/:runId/archive", h.HandleArchiveRun)
}

// HandleListRuns returns the newest synchronization runs.
// @Summary List Runs
// @Description List the most recent synchronization runs across all entity types.
// @Tags runs
// @Accept json
// @Produce json
// @Param limit query int false "Maximum number of runs to return (default 20)"
// @Success 200 {array} models.IngestionRun "Recent Runs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	list, err := h.service.Recent(c.Context(), limit)
	if err != nil {
		l.Error("Listing runs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(list)
}

// HandleGetRun returns one run by id.
// @Summary Get Run
// @Description Get one synchronization run by its run id.
// @Tags runs
// @Accept json
// @Produce json
// @Param runId path string true "Run ID"
// @Success 200 {object} models.IngestionRun "Run"
// @Failure 404 {object} map[string]string "Unknown run id"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs/{runId} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	runID := c.Params("runId")
	l := logger.WithRayID(h.service.logger, c)

	run, err := h.service.Get(c.Context(), runID)
	if err != nil {
		l.Error("Run lookup failed", zap.String("run_id", runID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if run == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "run not found",
		})
	}
	return c.JSON(run)
}

// HandleExportRun streams one run as a spreadsheet report.
// @Summary Export Run Report
// @Description Export one synchronization run as an XLSX report.
// @Tags runs
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param runId path string true "Run ID"
// @Success 200 {file} binary "XLSX report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs/{runId}/export [get]
func (h *Handler) HandleExportRun(c *fiber.Ctx) error {
	runID := c.Params("runId")
	l := logger.WithRayID(h.service.logger, c)

	buf, err := h.service.ExportXLSX(c.Context(), runID)
	if err != nil {
		l.Error("Run export failed", zap.String("run_id", runID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="run-`+runID+`.xlsx"`)
	return c.Send(buf.Bytes())
}

// HandleArchiveRun uploads a run report to the report bucket.
// @Summary Archive Run Report
// @Description Render a run report and upload it to object storage.
// @Tags runs
// @Accept json
// @Produce json
// @Param runId path string true "Run ID"
// @Success 200 {object} map[string]string "Archived object name"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs/{runId}/archive [post]
func (h *Handler) HandleArchiveRun(c *fiber.Ctx) error {
	runID := c.Params("runId")
	l := logger.WithRayID(h.service.logger, c)

	object, err := h.service.Archive(c.Context(), runID)
	if err != nil {
		l.Error("Run archive failed", zap.String("run_id", runID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"object": object})
}

// HandlePruneReports removes archived reports older than the given age.
// @Summary Prune Archived Reports
// @Description Remove archived run reports older than the given number of days.
// @Tags runs
// @Accept json
// @Produce json
// @Param older_than_days query int false "Minimum report age in days (default 30)"
// @Success 200 {object} map[string]int "Number of pruned reports"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs/prune [post]
func (h *Handler) HandlePruneReports(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	days, _ := strconv.Atoi(c.Query("older_than_days", "30"))
	cutoff := time.Now().AddDate(0, 0, -days)

	pruned, err := h.service.PruneReports(c.Context(), cutoff)
	if err != nil {
		l.Error("Report pruning failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"pruned": pruned})
}
