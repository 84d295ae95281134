package endpoints

import (
	"github.com/copyforge/copyforge/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// CatalogPath is the on-disk catalog file, empty when serving the
	// embedded seed. Reload needs it.
	CatalogPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Composition endpoints
		&ComposeEndpoint{},
		&ClassifyEndpoint{},

		// Catalog endpoints
		&ListFragmentsEndpoint{},
		&GetFragmentEndpoint{},
		&ReloadEndpoint{CatalogPath: cfg.CatalogPath},

		// Template endpoints
		&ListTemplatesEndpoint{},
		&ListStagesEndpoint{},
	}
}
