package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// Routes served by the adapter.
const (
	RouteUploadPDF = "/upload-pdf"
	RouteChat      = "/chat"
	RouteHealth    = "/healthz"
	RouteMetrics   = "/metrics"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Server is the HTTP server for research-assistant.
type Server struct {
	ports    *Ports
	settings domain.ServerSettings
	echo     *echo.Echo
	started  time.Time
	now      func() time.Time
}

// NewServer creates a new HTTP server with the given ports.
func NewServer(ports *Ports, settings domain.ServerSettings) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if settings.MaxUploadMB <= 0 {
		settings.MaxUploadMB = domain.DefaultMaxUploadMB
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		ports:    ports,
		settings: settings,
		echo:     e,
		started:  time.Now(),
		now:      time.Now,
	}

	s.registerMiddleware()
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerMiddleware() {
	s.echo.Use(echoMiddleware.Recover())
	s.echo.Use(echoMiddleware.RequestID())
	s.echo.Use(requestLogger())
	s.echo.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: s.settings.AllowOrigins,
	}))
	s.echo.Use(echoMiddleware.BodyLimit(fmt.Sprintf("%dM", s.settings.MaxUploadMB)))
}

func (s *Server) registerRoutes() {
	s.echo.POST(RouteUploadPDF, s.handleUploadPDF)
	s.echo.POST(RouteChat, s.handleChat)
	s.echo.GET(RouteHealth, s.handleHealth)
	s.echo.GET(RouteMetrics, echo.WrapHandler(promhttp.Handler()))
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves HTTP on addr.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
