package integrity

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the integrity feature.
func NewFeature(opts Options, apiKey string, logger *zap.Logger) *Feature {
	svc := NewService(opts, logger.With(zap.String("component", "integrity")))
	return &Feature{service: svc, handler: NewHandler(svc, apiKey)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string { return "integrity" }

// IsEnabled reports whether any check is configured.
func (f *Feature) IsEnabled() bool {
	o := f.service.opts
	return o.MirrorDir != "" || o.Storage != nil || o.DB != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
