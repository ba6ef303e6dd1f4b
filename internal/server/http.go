package server

import (
	"context"
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"launchpad/internal/core"
)

const defaultBodyLimit = "1M"

// Server wraps the Echo server.
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// Config holds server configuration options.
type Config struct {
	MetricsEnabled  bool
	MetricsEndpoint string // HTTP path for metrics (default: /metrics)
}

// New creates the HTTP server for the dispatch API.
func New(dispatcher Dispatcher, drafter Drafter, cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	handler := NewHandler(dispatcher, drafter)

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(defaultBodyLimit))
	e.Use(requestIDMiddleware())

	e.GET("/health", handler.Health)
	if cfg != nil && cfg.MetricsEnabled {
		metricsPath := "/metrics"
		if cfg.MetricsEndpoint != "" {
			metricsPath = path.Clean(cfg.MetricsEndpoint)
		}
		e.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))
	}

	e.POST("/v1/dispatch", handler.Dispatch)
	e.POST("/v1/drafts/:kind", handler.Draft)
	e.GET("/v1/drafts", handler.ListDraftKinds)

	return &Server{
		echo:    e,
		handler: handler,
	}
}

// requestIDMiddleware assigns each request a UUID, stores it on the request
// context for provider header propagation, and echoes it back to the caller.
func requestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			ctx := core.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// Start starts the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements http.Handler, allowing Server to be used with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
