package integrity

import (
	"errors"

	"vonatinfo/core/logger"
	"vonatinfo/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
	apiKey  string
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, apiKey string) *Handler {
	return &Handler{service: service, apiKey: apiKey}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity", auth.New(auth.Config{ApiKey: h.apiKey}))
	group.Get("/", h.HandleGetReport)
	group.Get("/mirror", h.HandleGetMirror)
	group.Get("/storage", h.HandleGetStorage)
	group.Get("/archive", h.HandleGetArchive)
}

// HandleGetReport runs every check.
// @Summary Integrity report
// @Description Runs the mirror, storage and archive checks.
// @Tags integrity
// @Produce json
// @Param X-API-Key header string false "API key"
// @Success 200 {object} Report
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /integrity [get]
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	return c.JSON(h.service.Run(c.Context()))
}

// HandleGetMirror checks the mirror files.
// @Summary Mirror check
// @Tags integrity
// @Produce json
// @Param X-API-Key header string false "API key"
// @Success 200 {object} checks.MirrorReport
// @Failure 404 {object} map[string]string "Mirror disabled"
// @Router /integrity/mirror [get]
func (h *Handler) HandleGetMirror(c *fiber.Ctx) error {
	report, err := h.service.CheckMirror()
	if err != nil {
		return h.fail(c, "mirror", err)
	}
	return c.JSON(report)
}

// HandleGetStorage checks the mirror bucket.
// @Summary Storage check
// @Tags integrity
// @Produce json
// @Param X-API-Key header string false "API key"
// @Param fix query bool false "Create the bucket if missing"
// @Success 200 {object} checks.StorageReport
// @Failure 404 {object} map[string]string "Storage disabled"
// @Failure 500 {object} map[string]string "Check failed"
// @Router /integrity/storage [get]
func (h *Handler) HandleGetStorage(c *fiber.Ctx) error {
	if c.QueryBool("fix") {
		if err := h.service.FixStorage(c.Context()); err != nil {
			return h.fail(c, "storage", err)
		}
	}
	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		return h.fail(c, "storage", err)
	}
	return c.JSON(report)
}

// HandleGetArchive checks the trip archive schema.
// @Summary Archive check
// @Tags integrity
// @Produce json
// @Param X-API-Key header string false "API key"
// @Param fix query bool false "Migrate the table"
// @Success 200 {object} checks.SchemaReport
// @Failure 404 {object} map[string]string "Archive disabled"
// @Failure 500 {object} map[string]string "Check failed"
// @Router /integrity/archive [get]
func (h *Handler) HandleGetArchive(c *fiber.Ctx) error {
	if c.QueryBool("fix") {
		if err := h.service.FixArchive(); err != nil {
			return h.fail(c, "archive", err)
		}
	}
	report, err := h.service.CheckArchive()
	if err != nil {
		return h.fail(c, "archive", err)
	}
	return c.JSON(report)
}

func (h *Handler) fail(c *fiber.Ctx, check string, err error) error {
	if errors.Is(err, ErrDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": check + " check is disabled"})
	}
	logger.WithRayID(h.service.logger, c).Error("Integrity check failed", zap.String("check", check), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
