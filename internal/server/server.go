// Package server runs the Lectern HTTP server and manages the document
// store container lifecycle alongside it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/artifacts"
	"github.com/lecternhq/lectern/internal/catalog"
	"github.com/lecternhq/lectern/internal/config"
	"github.com/lecternhq/lectern/internal/docstore"
	"github.com/lecternhq/lectern/internal/filestore"
	"github.com/lecternhq/lectern/internal/generate"
	"github.com/lecternhq/lectern/internal/home"
	"github.com/lecternhq/lectern/internal/providers"
	"github.com/lecternhq/lectern/internal/schema"
	"github.com/lecternhq/lectern/internal/server/endpoints"
	"github.com/lecternhq/lectern/internal/stats"
	"github.com/lecternhq/lectern/internal/svcctx"
)

// Server is the main Lectern HTTP server.
// It manages the document store container - starting it on server
// start and stopping it on server shutdown.
type Server struct {
	httpServer   *http.Server
	storeManager *docstore.DockerManager
	storeClient  *docstore.Client
	registry     *providers.Registry
	configMgr    *config.Manager
	home         *home.Dir
	outbox       *stats.Outbox
	outboxCancel context.CancelFunc
	logger       *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Home is the lectern home directory
	Home *home.Dir
	// StoreDataPath is the path to persist document store data
	StoreDataPath string
	// StoreConfig holds document store container settings
	StoreConfig docstore.DockerConfig
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		return nil, errors.New("home directory is required")
	}

	if cfg.StoreDataPath != "" {
		cfg.StoreConfig.DataPath = cfg.StoreDataPath
	}

	storeManager, err := docstore.NewDockerManager(cfg.StoreConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create store manager: %w", err)
	}

	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)

	// If config manager provided, set up providers and hot reload
	if cfg.ConfigManager != nil {
		registry.Reload(cfg.ConfigManager.Get().ToProviderRegistryConfig())

		cfg.ConfigManager.OnChange(func(c *config.Config) {
			registry.Reload(c.ToProviderRegistryConfig())
			cfg.Logger.Info("provider registry reloaded from config")
		})
	}

	s := &Server{
		storeManager: storeManager,
		registry:     registry,
		configMgr:    cfg.ConfigManager,
		home:         cfg.Home,
		logger:       cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{
		StoreManager:    storeManager,
		SwaggerSpecPath: endpoints.GetSwaggerSpecPath(),
	}) {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // generation requests can be slow
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server and the document store.
// It blocks until the context is cancelled or an error occurs.
// If an existing store container exists, it validates the configuration matches.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Validate any existing container matches our config
	if err := s.storeManager.ValidateExisting(ctx); err != nil {
		s.setNotRunning()
		return fmt.Errorf("existing store container incompatible: %w", err)
	}

	s.logger.Info("starting document store")
	if err := s.storeManager.Start(ctx); err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to start document store: %w", err)
	}

	s.storeClient = docstore.NewClient(s.storeManager.URL())

	if err := s.storeManager.WaitReady(ctx, 60*time.Second); err != nil {
		_ = s.shutdown()
		return fmt.Errorf("document store did not become ready: %w", err)
	}
	s.logger.Info("document store is ready", "url", s.storeManager.URL())

	s.logger.Info("initializing schemas")
	if err := schema.Initialize(ctx, s.storeClient, s.logger); err != nil {
		_ = s.shutdown()
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	if err := s.buildServices(ctx); err != nil {
		_ = s.shutdown()
		return err
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// buildServices wires the domain services once the store is reachable.
func (s *Server) buildServices(ctx context.Context) error {
	maxUpload := config.DefaultConfig().Policy.MaxUploadBytes
	if s.configMgr != nil {
		if v := s.configMgr.Get().Policy.MaxUploadBytes; v > 0 {
			maxUpload = v
		}
	}

	catalogStore := catalog.NewStore(s.storeClient)
	collector := catalog.NewCollector(catalogStore)
	artifactStore := artifacts.NewStore(s.storeClient, s.home, s.logger)

	outboxCtx, cancel := context.WithCancel(context.Background())
	s.outbox = stats.NewOutbox(s.storeClient, s.logger)
	s.outbox.Start(outboxCtx)
	s.outboxCancel = cancel

	pipeline := generate.NewPipeline(generate.PipelineConfig{
		Collector: collector,
		Registry:  s.registry,
		Artifacts: artifactStore,
		Stats:     s.outbox,
		ConfigMgr: s.configMgr,
		Logger:    s.logger,
	})

	s.services = &svcctx.Services{
		Store:     s.storeClient,
		Catalog:   catalogStore,
		Resolver:  catalog.NewResolver(catalogStore),
		Collector: collector,
		Files:     filestore.New(s.home.ResourcesDir(), maxUpload),
		Registry:  s.registry,
		Artifacts: artifactStore,
		Stats:     s.outbox,
		Pipeline:  pipeline,
		ConfigMgr: s.configMgr,
		Home:      s.home,
		Logger:    s.logger,
	}

	// Startup maintenance: collapse legacy unit shapes and push back
	// anything retained locally during a previous store outage.
	if n, err := artifactStore.MigrateLegacy(ctx); err != nil {
		s.logger.Warn("legacy artifact migration incomplete", "migrated", n, "error", err)
	}
	if _, err := artifactStore.ResyncUnsynced(ctx); err != nil {
		s.logger.Warn("unsynced artifact resync failed", "error", err)
	}

	return nil
}

// shutdown performs graceful shutdown of the HTTP server, the stats
// outbox, and the document store.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if s.outbox != nil {
		s.outboxCancel()
		s.outbox.Close()
	}

	s.logger.Info("stopping document store")
	if err := s.storeManager.Stop(shutdownCtx); err != nil {
		s.logger.Error("document store stop error", "error", err)
	}
	if err := s.storeManager.Close(); err != nil {
		s.logger.Error("store manager close error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// StoreClient returns the document store client.
// Returns nil if the server hasn't started yet.
func (s *Server) StoreClient() *docstore.Client {
	return s.storeClient
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the store or services aren't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.storeClient == nil || s.services == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
