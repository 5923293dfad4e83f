package compare

import (
	"sheet-diff/core/diff"
	"sheet-diff/core/snapshot"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the compare feature.
func NewFeature(store *snapshot.Store, defaults diff.Options, showMoved bool, logger *zap.Logger) *Feature {
	svc := NewService(diff.NewEngine(logger), store, showMoved, logger)
	return &Feature{service: svc, handler: NewHandler(svc, defaults)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "compare"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
