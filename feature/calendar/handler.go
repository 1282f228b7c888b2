package calendar

import (
	"errors"

	"content-planner/core/logger"
	"content-planner/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for calendar entries.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the calendar routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/entries")
	group.Get("/", h.HandleList)
	group.Put("/", h.HandleReplace)
	group.Get("/:id", h.HandleGet)
}

// HandleList returns every calendar entry.
// @Summary List Calendar Entries
// @Description Returns all calendar entries with their imported analytics, ordered by date.
// @Tags calendar
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} reconcile.Entry "Entries"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /entries [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	entries, err := h.service.List(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list entries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entries)
}

// HandleGet returns a single calendar entry.
// @Summary Get Calendar Entry
// @Tags calendar
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} reconcile.Entry "Entry"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /entries/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	entry, err := h.service.Get(c.Context(), c.Params("id"))
	if errors.Is(err, ErrEntryNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to get entry", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entry)
}

// HandleReplace creates or overwrites calendar entries.
// @Summary Upsert Calendar Entries
// @Description Validates and upserts a JSON array of entries. Entries not in the body are left untouched.
// @Tags calendar
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param entries body []reconcile.Entry true "Entries"
// @Success 200 {object} map[string]interface{} "Saved"
// @Failure 400 {object} map[string]string "Invalid Entries"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /entries [put]
func (h *Handler) HandleReplace(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var entries []*reconcile.Entry
	if err := c.BodyParser(&entries); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON body", "details": err.Error()})
	}

	if err := h.service.Replace(c.Context(), entries); err != nil {
		if errors.Is(err, ErrInvalidEntry) {
			l.Warn("Rejected calendar entries", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to save entries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "saved", "count": len(entries)})
}
