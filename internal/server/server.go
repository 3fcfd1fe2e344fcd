// Package server exposes the graph over HTTP with gin.
//
// Routes:
//
//	GET  /task/connections            every connection, sorted
//	POST /task/apply/:connectFrom     star operation, body is a JSON array
//	GET  /task/components/:node       component of a known node
//	GET  /task/stats                  graph size
//	GET  /health                      liveness
//	GET  /metrics                     Prometheus, when enabled
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Popov85/challenge-graph/internal/engine"
	"github.com/Popov85/challenge-graph/internal/graph"
	"github.com/Popov85/challenge-graph/internal/metrics"
)

// Service is the graph behaviour the HTTP layer depends on.
// Implemented by *engine.Engine.
type Service interface {
	Apply(ctx context.Context, anchor string, targets []string) (engine.Receipt, error)
	Connections() []graph.Connection
	Component(node string) ([]string, bool)
	Stats() graph.Stats
}

// Options configures a Server.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration

	// Metrics enables request metrics and the metrics route when non-nil.
	Metrics *metrics.Metrics

	// MetricsPath is the route serving Metrics. Defaults to /metrics.
	MetricsPath string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// RequestIDs generates ids for requests without X-Request-ID.
	// Defaults to UUIDv7.
	RequestIDs engine.IDGenerator
}

// Server serves a Service over HTTP.
type Server struct {
	svc    Service
	opts   Options
	router *gin.Engine
}

// New builds the router for svc.
func New(svc Service, opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestIDs == nil {
		opts.RequestIDs = engine.UUIDv7Generator{}
	}

	s := &Server{svc: svc, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(
		Recovery(s.opts.Logger),
		RequestID(s.opts.RequestIDs),
		AccessLog(s.opts.Logger),
	)
	if s.opts.Metrics != nil {
		r.Use(RequestMetrics(s.opts.Metrics))
	}

	task := r.Group("/task")
	task.GET("/connections", HandleListConnections(s.svc))
	task.POST("/apply/:connectFrom", HandleApply(s.svc, s.opts.Logger))
	task.GET("/components/:node", HandleComponent(s.svc))
	task.GET("/stats", HandleStats(s.svc))

	r.GET("/health", HandleHealth())
	if s.opts.Metrics != nil {
		r.GET(s.opts.MetricsPath, gin.WrapH(s.opts.Metrics.Handler()))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on Options.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// Returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.opts.Logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.opts.Logger.Info("http server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
