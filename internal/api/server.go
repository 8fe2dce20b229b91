package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/eshaffer321/order-analytics/internal/api/handlers"
	"github.com/eshaffer321/order-analytics/internal/api/middleware"
	"github.com/eshaffer321/order-analytics/internal/application/service"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/metrics"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns defaults for local development.
func DefaultConfig() Config {
	return Config{
		Port:           8085,
		AllowedOrigins: middleware.DefaultCORSConfig().AllowedOrigins,
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	svc        *service.DashboardService
	metrics    *metrics.Registry
}

// NewServer creates a new API server. reg may be nil, in which case
// /metrics is not mounted.
func NewServer(cfg Config, svc *service.DashboardService, reg *metrics.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		svc:     svc,
		metrics: reg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.Recoverer)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	s.router.Use(middleware.Logging(s.logger))
	if s.metrics != nil {
		s.router.Use(middleware.Metrics(s.metrics))
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// no /api prefix, for load balancers
	s.router.Get("/health", handlers.NewHealthHandler(s.svc).ServeHTTP)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		dashboardHandler := handlers.NewDashboardHandler(s.svc)
		r.Get("/dashboard", dashboardHandler.Get)
		r.Get("/countries", dashboardHandler.Countries)
		r.Get("/monthly", dashboardHandler.Monthly)
		r.Get("/summary/daily", dashboardHandler.DailySummary)

		ordersHandler := handlers.NewOrdersHandler(s.svc)
		r.Get("/orders", ordersHandler.List)

		noticesHandler := handlers.NewNoticesHandler(s.svc)
		r.Get("/notices", noticesHandler.List)
		r.Delete("/notices/{id}", noticesHandler.Dismiss)

		refreshHandler := handlers.NewRefreshHandler(s.svc)
		r.Post("/refresh", refreshHandler.Start)
		r.Get("/refresh", refreshHandler.List)
		r.Get("/refresh/{jobId}", refreshHandler.Get)

		loadsHandler := handlers.NewLoadsHandler(s.svc)
		r.Get("/loads", loadsHandler.List)
		r.Get("/loads/{id}", loadsHandler.Get)

		exportHandler := handlers.NewExportHandler(s.svc)
		r.Get("/export", exportHandler.Download)
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
