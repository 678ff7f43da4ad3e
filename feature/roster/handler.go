package roster

import (
	"errors"
	"net/url"

	"vonatinfo/core/logger"
	"vonatinfo/core/middleware/auth"
	"vonatinfo/feature/oebb"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Greeting is served on the root path.
const Greeting = "Udv itt a Vonatinfo backendjen :)"

// Handler handles HTTP requests for the roster.
type Handler struct {
	service *Service
	apiKey  string
}

// NewHandler creates a new HTTP handler. apiKey protects the status route
// when set.
func NewHandler(service *Service, apiKey string) *Handler {
	return &Handler{service: service, apiKey: apiKey}
}

// RegisterRoutes registers the roster routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.HandleGreeting)

	api := app.Group("/api")
	api.Get("/timetables", h.HandleGetTimetables)
	api.Post("/timetables", h.HandleFindTimetable)
	api.Get("/timetables/:tripShortName", h.HandleGetTimetable)
	api.Get("/trains", h.HandleGetTrains)
	api.Get("/railjets", h.HandleGetRailjets)
	api.Get("/status", auth.New(auth.Config{ApiKey: h.apiKey}), h.HandleGetStatus)
}

// HandleGreeting answers the root path.
func (h *Handler) HandleGreeting(c *fiber.Ctx) error {
	return c.SendString(Greeting)
}

// HandleGetTimetables returns the full roster.
// @Summary Full roster
// @Description Every tracked train with schedule, in the vehicle-position document shape.
// @Tags roster
// @Produce json
// @Success 200 {object} reconcile.FullDocument
// @Router /api/timetables [get]
func (h *Handler) HandleGetTimetables(c *fiber.Ctx) error {
	return c.JSON(h.service.Full())
}

// FindRequest is the body of POST /api/timetables.
type FindRequest struct {
	TripShortName string `json:"tripShortName"`
}

// HandleFindTimetable returns one train selected by the request body.
// @Summary Find train
// @Description Full record of one train by trip short name.
// @Tags roster
// @Accept json
// @Produce json
// @Param request body FindRequest true "Train selector"
// @Success 200 {object} reconcile.TripRecord
// @Failure 400 {object} map[string]string "Missing tripShortName"
// @Failure 404 {object} map[string]string "Train not found"
// @Router /api/timetables [post]
func (h *Handler) HandleFindTimetable(c *fiber.Ctx) error {
	var req FindRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			logger.WithRayID(h.service.logger, c).Debug("Invalid request body", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}
	return h.respondTrip(c, req.TripShortName)
}

// HandleGetTimetable returns one train by path parameter.
// @Summary Get train
// @Description Full record of one train by trip short name.
// @Tags roster
// @Produce json
// @Param tripShortName path string true "Trip short name (e.g. '63 railjet xpress')"
// @Success 200 {object} reconcile.TripRecord
// @Failure 404 {object} map[string]string "Train not found"
// @Router /api/timetables/{tripShortName} [get]
func (h *Handler) HandleGetTimetable(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("tripShortName"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid tripShortName"})
	}
	return h.respondTrip(c, key)
}

func (h *Handler) respondTrip(c *fiber.Ctx, key string) error {
	rec, err := h.service.Trip(key)
	switch {
	case errors.Is(err, ErrEmptyKey):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrTripNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		logger.WithRayID(h.service.logger, c).Error("Trip lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

// HandleGetTrains returns the light roster.
// @Summary Light roster
// @Description Flattened positions for the live map.
// @Tags roster
// @Produce json
// @Success 200 {object} reconcile.LightDocument
// @Router /api/trains [get]
func (h *Handler) HandleGetTrains(c *fiber.Ctx) error {
	return c.JSON(h.service.Light())
}

// HandleGetRailjets returns the trains reported by the ÖBB feed.
// @Summary Railjet roster
// @Description Full records of the trains positioned by the ÖBB feed only.
// @Tags roster
// @Produce json
// @Success 200 {object} reconcile.FullDocument
// @Router /api/railjets [get]
func (h *Handler) HandleGetRailjets(c *fiber.Ctx) error {
	return c.JSON(h.service.BySource(oebb.Name))
}

// HandleGetStatus returns feed and snapshot health.
// @Summary Service status
// @Description Per-feed poll status, snapshot size and publish time.
// @Tags roster
// @Produce json
// @Param X-API-Key header string false "API key"
// @Success 200 {object} Status
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/status [get]
func (h *Handler) HandleGetStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}
