package roster

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the roster feature.
func NewFeature(snapshots SnapshotSource, statuses StatusSource, apiKey string, logger *zap.Logger) *Feature {
	svc := NewService(snapshots, statuses, logger.With(zap.String("component", "roster")))
	return &Feature{service: svc, handler: NewHandler(svc, apiKey)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string { return "roster" }

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool { return true }

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
