package handlers

import (
	"voxpense/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ExportHandler struct {
	exportService *service.ExportService
	logger        *zap.Logger
}

func NewExportHandler(exportService *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// ExportCSV godoc
// @Summary Export expenses as CSV
// @Description Header row plus one row per record; the client hands the file to the share sheet
// @Tags export
// @Produce text/csv
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param category query string false "Category filter"
// @Security Bearer
// @Success 200 {string} string "CSV document"
// @Failure 401 {object} map[string]string
// @Router /api/v1/expenses/export/csv [get]
func (h *ExportHandler) ExportCSV(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date filter, expected YYYY-MM-DD",
		})
	}

	data, err := h.exportService.ExportCSV(c.Context(), userID, filter)
	if err != nil {
		h.logger.Error("CSV export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Export failed",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="expenses.csv"`)
	return c.Send(data)
}

// ExportXLSX godoc
// @Summary Export expenses as XLSX
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param category query string false "Category filter"
// @Security Bearer
// @Success 200 {string} string "XLSX document"
// @Failure 401 {object} map[string]string
// @Router /api/v1/expenses/export/xlsx [get]
func (h *ExportHandler) ExportXLSX(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date filter, expected YYYY-MM-DD",
		})
	}

	data, err := h.exportService.ExportXLSX(c.Context(), userID, filter)
	if err != nil {
		h.logger.Error("XLSX export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Export failed",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="expenses.xlsx"`)
	return c.Send(data)
}
