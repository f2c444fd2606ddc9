// Package server exposes match generation and introductions over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/siherrmann/matchmaker/metrics"
	"github.com/siherrmann/matchmaker/model"
)

// Service is the part of the matchmaker served over HTTP.
type Service interface {
	Authorize(ctx context.Context, ownerID string, eventID uuid.UUID) (*model.Event, error)
	GenerateMatches(ctx context.Context, eventID uuid.UUID) (*model.GenerateResult, error)
	SendIntroductions(ctx context.Context, eventID uuid.UUID, matchIDs []uuid.UUID) (*model.IntroductionResult, error)
	ImportCSV(ctx context.Context, eventID uuid.UUID, r io.Reader) (*model.ImportResult, error)
}

// Server is the HTTP surface of the matchmaker.
type Server struct {
	echo    *echo.Echo
	service Service
	metrics *metrics.Manager
	secret  []byte
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records requests and serves /metrics from the manager.
func WithMetrics(manager *metrics.Manager) Option {
	return func(s *Server) {
		s.metrics = manager
	}
}

// WithJWTSecret sets the HS256 secret bearer tokens are signed with.
func WithJWTSecret(secret string) Option {
	return func(s *Server) {
		s.secret = []byte(secret)
	}
}

// New creates a server with all routes registered.
func New(service Service, opts ...Option) *Server {
	s := &Server{
		echo:    echo.New(),
		service: service,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.Use(middleware.Recover())
	s.echo.Use(s.observe)
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("Request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Int64("latency_ms", v.Latency.Milliseconds()),
			)
			return nil
		},
	}))

	s.echo.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	api := s.echo.Group("/api", s.authenticate)
	api.POST("/events/:id/generate-matches", s.handleGenerateMatches)
	api.POST("/events/:id/send-introductions", s.handleSendIntroductions)
	api.POST("/events/:id/import-csv", s.handleImportCSV)

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Server listening", slog.String("address", addr))
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// observe records every request in the metrics manager.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTPRequest(c.Request().Method, route, c.Response().Status, time.Since(start))
		return nil
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
