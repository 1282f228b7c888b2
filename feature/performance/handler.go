package performance

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"content-planner/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for performance imports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the performance routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/performance")
	group.Post("/import", h.HandleImport)
	group.Get("/export", h.HandleExport)
	group.Get("/imports", h.HandleHistory)
}

// HandleImport merges an uploaded performance CSV into the calendar.
// @Summary Import Performance CSV
// @Description Matches every CSV row to a calendar entry by entry_id or by date and platform, and merges its metrics. Send the file as multipart field "file" or as the raw request body. Row-level problems are reported in the summary, not as errors.
// @Tags performance
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Accept text/csv
// @Produce json
// @Param file formData file false "CSV file"
// @Param dry_run query boolean false "Resolve rows without saving"
// @Success 200 {object} performance.ImportReport "Import Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /performance/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	source, data, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	opts := ImportOptions{DryRun: c.QueryBool("dry_run")}
	report, err := h.service.Import(c.Context(), source, data, opts)
	if errors.Is(err, ErrEmptyUpload) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Import failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Import request completed",
		zap.String("run_id", report.RunID),
		zap.Int("matched", report.Summary.Matched),
		zap.Int("issues", report.Summary.IssueCount()))
	return c.JSON(report)
}

func readUpload(c *fiber.Ctx) (string, []byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return "upload.csv", bytes.Clone(c.Body()), nil
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, errors.New("multipart field \"file\" is required")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}

// HandleExport downloads the stored metrics as an importable CSV.
// @Summary Export Performance CSV
// @Description One row per entry and scheduled platform with every imported metric. The file can be edited and imported again.
// @Tags performance
// @Security ApiKeyAuth
// @Produce text/csv
// @Success 200 {string} string "CSV"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /performance/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.Export(c.Context(), &buf); err != nil {
		logger.WithRayID(h.service.logger, c).Error("Export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment("performance.csv")
	return c.Send(buf.Bytes())
}

// HandleHistory lists recent imports.
// @Summary List Imports
// @Tags performance
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Maximum runs to return (default 20)"
// @Success 200 {array} performance.ImportRun "Import Runs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /performance/imports [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	runs, err := h.service.History(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list imports", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}
