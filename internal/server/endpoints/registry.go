package endpoints

import (
	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/docstore"
	"github.com/lecternhq/lectern/internal/generate"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	StoreManager    *docstore.DockerManager
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	eps := []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{StoreManager: cfg.StoreManager},

		// Resource endpoints
		&UploadResourceEndpoint{},
		&ListResourcesEndpoint{},
		&GetResourceEndpoint{},
		&UpdateResourceEndpoint{},
		&DeleteResourceEndpoint{},
		&FileEndpoint{},

		// Filter cascade
		&FiltersEndpoint{},
	}

	// One generation route per content type
	for _, t := range generate.ContentTypes {
		eps = append(eps, &GenerateEndpoint{Type: t})
	}

	eps = append(eps,
		// Artifact endpoints
		&ListArtifactsEndpoint{},
		&GetArtifactEndpoint{},
		&DeleteArtifactEndpoint{},
		&UpdateUnitsEndpoint{},
		&ExportArtifactEndpoint{},

		// Stats
		&StatsEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	)
	return eps
}

// ResourceCommands returns endpoints for resource operations.
// This groups resource-related commands under the "resources" subcommand.
func ResourceCommands() []api.Endpoint {
	return []api.Endpoint{
		&UploadResourceEndpoint{},
		&ListResourcesEndpoint{},
		&GetResourceEndpoint{},
		&UpdateResourceEndpoint{},
		&DeleteResourceEndpoint{},
		&FileEndpoint{},
	}
}

// GenerateCommands returns endpoints for generation operations.
func GenerateCommands() []api.Endpoint {
	eps := make([]api.Endpoint, 0, len(generate.ContentTypes))
	for _, t := range generate.ContentTypes {
		eps = append(eps, &GenerateEndpoint{Type: t})
	}
	return eps
}

// ArtifactCommands returns endpoints for artifact operations.
func ArtifactCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListArtifactsEndpoint{},
		&GetArtifactEndpoint{},
		&DeleteArtifactEndpoint{},
		&UpdateUnitsEndpoint{},
		&ExportArtifactEndpoint{},
	}
}
