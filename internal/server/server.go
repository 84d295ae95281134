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

	"github.com/copyforge/copyforge/internal/api"
	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/config"
	"github.com/copyforge/copyforge/internal/engine"
	"github.com/copyforge/copyforge/internal/server/endpoints"
	"github.com/copyforge/copyforge/internal/svcctx"
)

// Server is the copyforge HTTP server. It owns the catalog snapshot,
// watching the catalog file for changes and swapping in validated
// replacements while requests keep running.
type Server struct {
	httpServer *http.Server
	engine     *engine.Engine
	snapshot   *catalog.Snapshot
	configMgr  *config.Manager
	logger     *slog.Logger

	catalogPath  string
	watchCatalog bool

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
	// CatalogPath is the content catalog file. Empty uses the embedded
	// seed catalog and disables watching.
	CatalogPath string
	// TemplatesDir overlays user templates on the built-ins.
	TemplatesDir string
	// WatchCatalog reloads the catalog file on change.
	WatchCatalog bool
	// ConfigManager provides configuration with hot-reload support.
	ConfigManager *config.Manager
	// DefaultVariables are merged under request variables.
	DefaultVariables map[string]string
	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// New creates a new Server with the given configuration. The catalog
// and templates load here; a malformed data file fails startup rather
// than serving a partial engine.
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

	var (
		store *catalog.Store
		err   error
	)
	if cfg.CatalogPath != "" {
		store, err = catalog.Load(cfg.CatalogPath)
	} else {
		store, err = catalog.Seed()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	templates, err := assets.LoadDir(cfg.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	snapshot := catalog.NewSnapshot(store)
	eng := engine.New(engine.Config{
		Snapshot:         snapshot,
		Templates:        templates,
		DefaultVariables: cfg.DefaultVariables,
		Logger:           cfg.Logger,
	})

	s := &Server{
		engine:       eng,
		snapshot:     snapshot,
		configMgr:    cfg.ConfigManager,
		logger:       cfg.Logger,
		catalogPath:  cfg.CatalogPath,
		watchCatalog: cfg.WatchCatalog && cfg.CatalogPath != "",
	}

	s.services = &svcctx.Services{
		Engine:    eng,
		ConfigMgr: cfg.ConfigManager,
		Logger:    cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{CatalogPath: cfg.CatalogPath}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Addr returns the address the server binds to.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// withServices enriches every request context with core services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), s.services)))
	})
}

// Start starts the server. It blocks until the context is cancelled or
// an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	if s.watchCatalog {
		go func() {
			if err := s.snapshot.Watch(watchCtx, s.catalogPath, s.logger); err != nil {
				s.logger.Warn("catalog watcher stopped", "error", err)
			}
		}()
		s.logger.Info("watching catalog for changes", "path", s.catalogPath)
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

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown gracefully stops the HTTP server.
func (s *Server) shutdown() error {
	defer s.setNotRunning()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Running reports whether the server is currently serving.
func (s *Server) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
