package relations

import (
	"context"
	"errors"
	"time"

	"area-reconciler/core/area"
	"area-reconciler/core/inventory"
	"area-reconciler/core/logger"
	"area-reconciler/core/report"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for area reports.
type Handler struct {
	service *Service
	timeout time.Duration
}

// NewHandler creates a new HTTP handler. A zero timeout disables the
// per-request deadline.
func NewHandler(service *Service, timeout time.Duration) *Handler {
	return &Handler{service: service, timeout: timeout}
}

// RegisterRoutes registers the relations routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/relations")
	group.Get("/", h.HandleListAreas)
	group.Get("/:name/cache", h.HandleCacheStatus)
	group.Get("/:name/:report", h.HandleGetReport)
}

func (h *Handler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

func statusOf(err error) int {
	var cfgErr *area.ConfigError
	switch {
	case errors.Is(err, inventory.ErrNotAvailable), errors.Is(err, area.ErrUnknownArea):
		return fiber.StatusNotFound
	case errors.As(err, &cfgErr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrReportDisabled):
		return fiber.StatusConflict
	case errors.Is(err, report.ErrUnknownKind), errors.Is(err, report.ErrUnknownFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleListAreas lists the configured areas.
// @Summary List Areas
// @Description List the configured areas with their reference codes and enabled reports.
// @Tags relations
// @Produce json
// @Param all query bool false "Include inactive areas"
// @Success 200 {array} Summary "Areas"
// @Failure 422 {object} map[string]string "Invalid Area Configuration"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /relations [get]
func (h *Handler) HandleListAreas(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx, cancel := h.context(c)
	defer cancel()

	areas, err := h.service.Areas(ctx, c.QueryBool("all", false))
	if err != nil {
		l.Error("Listing areas failed", zap.Error(err))
		return c.Status(statusOf(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(areas)
}

// HandleGetReport returns one report of an area.
// @Summary Get Area Report
// @Description Reconcile an area against the reference registry and return one report.
// @Tags relations
// @Produce plain
// @Produce json
// @Param name path string true "Area name (e.g. 'budapest_11')"
// @Param report path string true "Report kind" Enums(missing-housenumbers, additional-housenumbers, missing-streets, additional-streets, lints)
// @Param format query string false "Output format" Enums(txt, md, json)
// @Success 200 {string} string "Report"
// @Failure 400 {object} map[string]string "Unknown Report or Format"
// @Failure 404 {object} map[string]string "Unknown Area or Missing Inventory"
// @Failure 409 {object} map[string]string "Report Disabled"
// @Failure 422 {object} map[string]string "Invalid Area Configuration"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /relations/{name}/{report} [get]
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	name := c.Params("name")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("area", name))

	kind, err := report.ParseKind(c.Params("report"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := h.context(c)
	defer cancel()

	body, err := h.service.Report(ctx, name, kind, format)
	if err != nil {
		status := statusOf(err)
		if status >= fiber.StatusInternalServerError {
			l.Error("Report failed", zap.String("report", string(kind)), zap.Error(err))
		} else {
			l.Warn("Report unavailable", zap.String("report", string(kind)), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(body)
}

// HandleCacheStatus returns the freshness of every cached report of an area.
// @Summary Get Cache Status
// @Description Report which cached artifacts of an area are current.
// @Tags relations
// @Produce json
// @Param name path string true "Area name"
// @Success 200 {array} CacheEntry "Cache Entries"
// @Failure 404 {object} map[string]string "Unknown Area"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /relations/{name}/cache [get]
func (h *Handler) HandleCacheStatus(c *fiber.Ctx) error {
	name := c.Params("name")
	l := logger.WithRayID(h.service.logger, c)
	ctx, cancel := h.context(c)
	defer cancel()

	entries, err := h.service.CacheStatus(ctx, name)
	if err != nil {
		l.Error("Cache status failed", zap.String("area", name), zap.Error(err))
		return c.Status(statusOf(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(entries)
}
