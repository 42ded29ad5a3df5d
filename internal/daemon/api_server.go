// Package daemon serves scout's HTTP API: recommendations and the
// installed-server store, grouped under /api/v1.
package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"

	"github.com/scoutmcp/scout/internal/api"
	"github.com/scoutmcp/scout/internal/errors"
)

const (
	// DefaultAddr is the daemon's default bind address.
	DefaultAddr = "localhost:8090"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 5 * time.Second
)

// APIServer manages the HTTP API for the daemon.
// NewAPIServer should be used to create instances of APIServer.
type APIServer struct {
	logger          hclog.Logger
	engine          api.Recommender
	store           api.InstalledStore
	addr            string
	corsOrigins     []string
	shutdownTimeout time.Duration
}

// Option defines a functional option for configuring the APIServer.
type Option func(*APIServer) error

// WithAddr sets the bind address.
func WithAddr(addr string) Option {
	return func(s *APIServer) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}
		s.addr = addr
		return nil
	}
}

// WithCORSOrigins enables CORS for the given origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *APIServer) error {
		s.corsOrigins = origins
		return nil
	}
}

// WithShutdownTimeout sets how long to wait for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *APIServer) error {
		if d <= 0 {
			return fmt.Errorf("shutdown timeout must be positive, got %v", d)
		}
		s.shutdownTimeout = d
		return nil
	}
}

// NewAPIServer creates a new API server with the provided dependencies and options.
func NewAPIServer(logger hclog.Logger, engine api.Recommender, store api.InstalledStore, opts ...Option) (*APIServer, error) {
	if engine == nil {
		return nil, fmt.Errorf("recommendation engine is required")
	}
	if store == nil {
		return nil, fmt.Errorf("installed-server store is required")
	}

	s := &APIServer{
		logger:          logger.Named("api"),
		engine:          engine,
		store:           store,
		addr:            DefaultAddr,
		shutdownTimeout: DefaultShutdownTimeout,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start starts the API server and blocks until the context is canceled or an
// error occurs.
func (a *APIServer) Start(ctx context.Context) error {
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	if len(a.corsOrigins) > 0 {
		a.logger.Info("Enabling CORS", "origins", a.corsOrigins)
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: a.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}

	config := huma.DefaultConfig("scout API", "v1")
	router := humachi.New(mux, config)

	// Configure the error handling wrapping.
	huma.NewErrorWithContext = errorHandler(a.logger)

	// Safe way to ensure /api/v1.
	apiPathPrefix, err := url.JoinPath("/api", "v1")
	if err != nil {
		return err
	}

	v1 := huma.NewGroup(router, apiPathPrefix)
	api.RegisterRecommendationRoutes(v1, a.engine, "/recommendations")
	api.RegisterServerRoutes(v1, a.store, "/servers")

	srv := &http.Server{
		Addr:    a.addr,
		Handler: mux,
	}
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("Starting API server", "address", a.addr, "prefix", apiPathPrefix)
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down API server...")
		_ = srv.Shutdown(shutdownCtx)
		a.logger.Info("Shutdown complete")
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// mapError maps application domain errors to appropriate HTTP status codes.
// Errors without an explicit case fall through to HTTP 500.
func mapError(logger hclog.Logger, err error) huma.StatusError {
	switch {
	case stdErrors.Is(err, errors.ErrBadRequest):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrServerNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrNoRecommendations):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrIndexerFailed):
		logger.Error("Indexer failed", "error", err)
		return huma.Error502BadGateway("indexer command failed", err)
	default:
		logger.Error("Unexpected error handling API request", "error", err)
		return huma.Error500InternalServerError("Internal server error", err)
	}
}

// errorHandler wraps error handling for the application when converting to
// API friendly errors.
func errorHandler(logger hclog.Logger) func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
	return func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		switch len(errs) {
		case 0:
			return huma.NewError(status, msg)
		case 1:
			return mapError(logger, errs[0])
		default:
			return mapError(logger, stdErrors.Join(errs...))
		}
	}
}
