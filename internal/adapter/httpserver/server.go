// Package httpserver is the development proxy: it forwards /api/* to the backend so development builds can talk to
// a single local address, and serves health and metrics endpoints next to it.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pscheid92/forumclient/internal/adapter/metrics"
)

// APIPrefix is stripped from every forwarded request.
const APIPrefix = "/api"

// Options configures the proxy.
type Options struct {
	Addr      string
	Target    string
	RateLimit float64
	Burst     int
}

type Server struct {
	echo      *echo.Echo
	addr      string
	target    *url.URL
	limit     rateLimit

	registry  *prometheus.Registry
	metrics   *metrics.ProxyMetrics
	startTime time.Time
}

// NewServer validates the upstream address and registers all routes.
func NewServer(opts Options, reg *prometheus.Registry, m *metrics.ProxyMetrics) (*Server, error) {
	target, err := url.Parse(opts.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target: %w", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" || target.Host == "" {
		return nil, fmt.Errorf("proxy target must be an absolute http(s) URL, got %q", opts.Target)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:      e,
		addr:      opts.Addr,
		target:    target,
		limit:     newRateLimit(opts.RateLimit, opts.Burst),
		registry:  reg,
		metrics:   m,
		startTime: time.Now(),
	}
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	slog.Info("Starting development proxy", "addr", s.addr, "target", s.target.String())
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start proxy: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown proxy: %w", err)
	}
	return nil
}
