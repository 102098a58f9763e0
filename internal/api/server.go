package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	mw "github.com/tphakala/astral-forecast/internal/api/middleware"
	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/dashboard"
	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/logger"
	"github.com/tphakala/astral-forecast/internal/nasa"
	"github.com/tphakala/astral-forecast/internal/neo"
	"github.com/tphakala/astral-forecast/internal/observability"
)

// ReportService is the part of dashboard.Service the server uses.
type ReportService interface {
	Tonight(ctx context.Context, loc locations.Location) (*dashboard.Report, error)
	NEO(ctx context.Context, date time.Time) ([]neo.Approach, time.Time, error)
	APOD(ctx context.Context, date time.Time) (*nasa.APOD, time.Time, error)
}

// Server is the HTTP server for astral-forecast.
type Server struct {
	echo     *echo.Echo
	config   *Config
	settings *conf.Settings
	service  ReportService
	metrics  *observability.Metrics
	theme    Theme
	page     *pageRenderer

	startTime time.Time
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithMetrics sets the observability metrics for the server.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new HTTP server with the given settings and options.
func New(settings *conf.Settings, service ReportService, opts ...ServerOption) (*Server, error) {
	config := ConfigFromSettings(settings)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	page, err := newPageRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	s := &Server{
		config:    config,
		settings:  settings,
		service:   service,
		theme:     ThemeFromSettings(settings.WebServer.Theme),
		page:      page,
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.WriteTimeout = config.WriteTimeout
	s.echo.Server.IdleTimeout = config.IdleTimeout

	s.setupMiddleware()
	s.setupRoutes()

	GetLogger().Info("HTTP server initialized",
		logger.String("address", config.Listen),
		logger.String("theme", s.theme.Name),
		logger.Bool("metrics", s.metrics != nil))

	return s, nil
}

// setupMiddleware configures the Echo middleware stack.
func (s *Server) setupMiddleware() {
	// Recovery middleware - should be first
	s.echo.Use(echomw.Recover())
	s.echo.Use(mw.NewCorrelationID())
	s.echo.Use(mw.NewRequestLoggerWithSkipper(GetLogger(), func(c echo.Context) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	}))
	if s.metrics != nil {
		s.echo.Use(mw.NewHTTPMetrics(s.metrics.HTTP))
	}
	s.echo.Use(echomw.Gzip())
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", s.healthCheck)
	s.echo.GET("/", s.dashboardPage)

	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	v1 := s.echo.Group("/api/v1")
	v1.GET("/locations", s.listLocations)
	v1.GET("/tonight/:location", s.tonight)
	v1.GET("/neo", s.neoFeed)
	v1.GET("/apod", s.apod)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// healthCheck handles the server health check endpoint.
func (s *Server) healthCheck(c echo.Context) error {
	uptime := time.Since(s.startTime)
	return c.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime":         uptime.Round(time.Second).String(),
		"uptime_seconds": uptime.Seconds(),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		GetLogger().Info("starting HTTP server", logger.String("address", s.config.Listen))
		if err := s.echo.Start(s.config.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()

	GetLogger().Info("shutting down HTTP server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}
