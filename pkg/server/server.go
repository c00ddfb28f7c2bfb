// Package server provides the HTTP server for the todo API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/griebenowschalk/my-todo-app/pkg/api/handlers"
	"github.com/griebenowschalk/my-todo-app/pkg/api/middleware"
	"github.com/griebenowschalk/my-todo-app/pkg/cleanup"
	"github.com/griebenowschalk/my-todo-app/pkg/config"
	"github.com/griebenowschalk/my-todo-app/pkg/moderation"
	"github.com/griebenowschalk/my-todo-app/pkg/ratelimit"
	"github.com/griebenowschalk/my-todo-app/pkg/store"
	"github.com/griebenowschalk/my-todo-app/pkg/telemetry/metrics"
)

// Deps bundles the wired components the server serves.
type Deps struct {
	Store     store.Store
	Filter    *moderation.Filter
	Validator *moderation.Validator
	Limiter   ratelimit.Limiter
	Engine    *cleanup.Engine
	Collector *metrics.Collector
	Version   string
}

// Server is the HTTP server for the todo API.
type Server struct {
	config       *config.Config
	deps         Deps
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new API server.
func NewServer(cfg *config.Config, deps Deps) *Server {
	return &Server{
		config:       cfg,
		deps:         deps,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting todo server",
			"address", s.config.Server.ListenAddress,
			"rate_limit_backend", s.config.RateLimit.Backend,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("todo server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	todoHandler := handlers.NewTodoHandler(s.deps.Store, s.deps.Validator, s.deps.Filter, s.deps.Collector)
	cleanupHandler := handlers.NewCleanupHandler(
		s.deps.Engine,
		s.deps.Store,
		cleanup.Config{
			RetentionDays: s.config.Cleanup.RetentionDays,
			MaxTodos:      s.config.Cleanup.MaxTodos,
		},
		s.config.Admin.Secret,
	)
	healthHandler := handlers.NewHealthHandler(s.deps.Store, s.deps.Version)

	// The rate limit gate applies to the todo surface only; probes, metrics
	// and the admin endpoints stay reachable when a client is throttled.
	limited := middleware.RateLimitMiddleware(s.deps.Limiter, s.deps.Collector)

	mux.Handle("GET /todos", limited(http.HandlerFunc(todoHandler.List)))
	mux.Handle("POST /todos", limited(http.HandlerFunc(todoHandler.Create)))
	mux.Handle("GET /todos/{id}", limited(http.HandlerFunc(todoHandler.Get)))
	mux.Handle("PATCH /todos/{id}", limited(http.HandlerFunc(todoHandler.Update)))
	mux.Handle("DELETE /todos/{id}", limited(http.HandlerFunc(todoHandler.Delete)))

	mux.HandleFunc("POST /admin/cleanup", cleanupHandler.Trigger)
	mux.HandleFunc("GET /admin/cleanup", cleanupHandler.Stats)

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)

	if s.deps.Collector != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle("GET /metrics", s.deps.Collector.Handler())
	}

	var handler http.Handler = mux

	handler = middleware.MetricsMiddleware(s.deps.Collector)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
