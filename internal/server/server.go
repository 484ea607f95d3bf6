package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/loamhq/userdir/internal/auth"
	"github.com/loamhq/userdir/internal/config"
	"github.com/loamhq/userdir/internal/server/middleware"
	"github.com/loamhq/userdir/internal/store"
)

// HandlerSet contains all HTTP handlers
type HandlerSet struct {
	Health  http.HandlerFunc
	Metrics http.HandlerFunc
	Whoami  http.HandlerFunc

	// User handlers
	ListUsers  http.HandlerFunc
	CreateUser http.HandlerFunc
	GetUser    http.HandlerFunc
	UpdateUser http.HandlerFunc
	DeleteUser http.HandlerFunc
}

// Server represents the HTTP server
type Server struct {
	config        *config.Config
	logger        *slog.Logger
	store         store.Store
	authenticator auth.Authenticator
	metrics       middleware.Metrics
	httpServer    *http.Server
	handlers      HandlerSet
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *slog.Logger, s store.Store, authenticator auth.Authenticator) *Server {
	return &Server{
		config:        cfg,
		logger:        logger,
		store:         s,
		authenticator: authenticator,
	}
}

// SetHandlers sets the HTTP handlers
func (s *Server) SetHandlers(handlers HandlerSet) {
	s.handlers = handlers
}

// SetMetrics sets the counter sink the middleware chain reports into
func (s *Server) SetMetrics(metrics middleware.Metrics) {
	s.metrics = metrics
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server",
		"host", s.config.Server.Host,
		"port", s.config.Server.Port,
		"storage_uri", s.config.Storage.URI,
		"auth_type", s.config.Auth.Type)

	serverErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		s.logger.Info("Shutdown signal received", "signal", sig.String())
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	s.logger.Info("Initiating graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server shutdown failed", "error", err)
		return err
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error("Store close failed", "error", err)
		return err
	}

	s.logger.Info("Server stopped gracefully")
	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware (applied to all routes)
	router.Use(middleware.Logging(s.logger, s.metrics))
	router.Use(middleware.NewRateLimiter(100, s.metrics)) // 100 req/min per IP
	router.Use(middleware.CORS())

	requireAuth := middleware.RequireAuth(s.authenticator, s.config.Auth.Realm)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		// Health and metrics endpoints (no auth required)
		if s.handlers.Health != nil {
			r.Get("/health", s.handlers.Health)
		}
		if s.handlers.Metrics != nil {
			r.Get("/metrics", s.handlers.Metrics)
		}

		// Whoami endpoint (auth required)
		if s.handlers.Whoami != nil {
			r.Get("/whoami", s.handlers.Whoami)
		}

		// User management endpoints (all auth required; listing
		// exposes stored passwords, so reads are protected too)
		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)

			if s.handlers.ListUsers != nil {
				r.Get("/", s.handlers.ListUsers)
			}
			if s.handlers.CreateUser != nil {
				r.Post("/", s.handlers.CreateUser)
			}

			r.Route("/{id}", func(r chi.Router) {
				if s.handlers.GetUser != nil {
					r.Get("/", s.handlers.GetUser)
				}
				if s.handlers.UpdateUser != nil {
					r.Put("/", s.handlers.UpdateUser)
				}
				if s.handlers.DeleteUser != nil {
					r.Delete("/", s.handlers.DeleteUser)
				}
			})
		})
	})

	return router
}
