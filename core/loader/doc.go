// Package loader mounts the HTTP features of the service.
//
// Each feature implements Feature and registers its own routes when it is
// enabled:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps the registration order, skips disabled features and
// stops at the first feature that fails to load.
package loader
