// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/lecternhq/lectern/internal/artifacts"
	"github.com/lecternhq/lectern/internal/catalog"
	"github.com/lecternhq/lectern/internal/config"
	"github.com/lecternhq/lectern/internal/docstore"
	"github.com/lecternhq/lectern/internal/filestore"
	"github.com/lecternhq/lectern/internal/generate"
	"github.com/lecternhq/lectern/internal/home"
	"github.com/lecternhq/lectern/internal/providers"
	"github.com/lecternhq/lectern/internal/stats"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Store     *docstore.Client
	Catalog   *catalog.Store
	Resolver  *catalog.Resolver
	Collector *catalog.Collector
	Files     *filestore.Store
	Registry  *providers.Registry
	Artifacts *artifacts.Store
	Stats     *stats.Outbox
	Pipeline  *generate.Pipeline
	ConfigMgr *config.Manager
	Home      *home.Dir
	Logger    *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// StoreFrom extracts the document store client from context.
func StoreFrom(ctx context.Context) *docstore.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Store
	}
	return nil
}

// CatalogFrom extracts the resource catalog from context.
func CatalogFrom(ctx context.Context) *catalog.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Catalog
	}
	return nil
}

// ResolverFrom extracts the filter resolver from context.
func ResolverFrom(ctx context.Context) *catalog.Resolver {
	if s := ServicesFrom(ctx); s != nil {
		return s.Resolver
	}
	return nil
}

// FilesFrom extracts the file store from context.
func FilesFrom(ctx context.Context) *filestore.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Files
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// ArtifactsFrom extracts the artifact store from context.
func ArtifactsFrom(ctx context.Context) *artifacts.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Artifacts
	}
	return nil
}

// StatsFrom extracts the stats outbox from context.
func StatsFrom(ctx context.Context) *stats.Outbox {
	if s := ServicesFrom(ctx); s != nil {
		return s.Stats
	}
	return nil
}

// PipelineFrom extracts the generation pipeline from context.
func PipelineFrom(ctx context.Context) *generate.Pipeline {
	if s := ServicesFrom(ctx); s != nil {
		return s.Pipeline
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigMgr
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// LoggerFrom extracts the logger from context. Falls back to the
// default logger so callers never receive nil.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
