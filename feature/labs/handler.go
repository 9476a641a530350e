package labs

import (
	"inventory-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// xlsxContentType is the MIME type for OOXML spreadsheets.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler handles HTTP requests for the lab registry and reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the labs routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/labs")
	group.Get("/", h.HandleListLabs)
	group.Post("/import", h.HandleImport)
	group.Post("/reconcile", h.HandleReconcile)
	group.Get("/reconcile/export", h.HandleReconcileExport)
}

// HandleListLabs returns the canonical identity registry.
// @Summary List Labs
// @Description List the canonical lab registry entries.
// @Tags labs
// @Accept json
// @Produce json
// @Success 200 {array} models.Lab "Registry"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /labs [get]
func (h *Handler) HandleListLabs(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	labs, err := h.service.Labs(c.Context())
	if err != nil {
		l.Error("Listing labs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(labs)
}

// HandleImport loads registry entries from an uploaded spreadsheet.
// @Summary Import Lab Registry
// @Description Upload an XLSX file (lab key, owner email, display name, notes) to populate the registry.
// @Tags labs
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Registry spreadsheet"
// @Success 200 {object} ImportSummary "Import Summary"
// @Failure 400 {object} map[string]string "Missing or unreadable file"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /labs/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing 'file' form field",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer file.Close()

	summary, err := h.service.ImportXLSX(c.Context(), file)
	if err != nil {
		l.Error("Lab registry import failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summary)
}

// HandleReconcile runs a reconciliation pass and returns the report.
// @Summary Reconcile Labs
// @Description Match current asset records against the lab registry and return the report.
// @Tags labs
// @Accept json
// @Produce json
// @Success 200 {object} Outcome "Reconciliation Outcome"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /labs/reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	outcome, err := h.service.Reconcile(c.Context())
	if err != nil {
		l.Error("Reconciliation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(outcome)
}

// HandleReconcileExport runs a reconciliation pass and streams the report as
// a spreadsheet.
// @Summary Export Reconciliation Report
// @Description Run a reconciliation pass and download the report as XLSX.
// @Tags labs
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "XLSX report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /labs/reconcile/export [get]
func (h *Handler) HandleReconcileExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	outcome, err := h.service.Reconcile(c.Context())
	if err != nil {
		l.Error("Reconciliation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	buf, err := ExportReportXLSX(outcome.Report)
	if err != nil {
		l.Error("Report export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reconciliation-`+outcome.RunID+`.xlsx"`)
	return c.Send(buf.Bytes())
}
