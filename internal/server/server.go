// Package server exposes the rendering pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness check
//	GET  /metrics          Prometheus metrics
//	POST /render           JSON request, artifact response
//	GET  /render/{graph6}  query-string variant of POST /render
//	GET  /renders          recent renders from the archive
//	GET  /renders/{id}     one archived render
//
// Errors are JSON objects {"code", "message"} with the HTTP status derived
// from the error code.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/g6viz/pkg/archive"
	"github.com/matzehuels/g6viz/pkg/cache"
	"github.com/matzehuels/g6viz/pkg/observability"
	"github.com/matzehuels/g6viz/pkg/pipeline"
)

// Server is the g6viz HTTP service.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	archive  archive.Archive
	logger   *log.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	router   chi.Router
}

// New builds a server around an existing runner. arc may be nil, which
// disables the /renders routes. New registers the server's Prometheus
// collectors as the global observability hooks.
func New(cfg Config, runner *pipeline.Runner, arc archive.Archive, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := NewMetrics(reg)
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetServerHooks(m)

	s := &Server{
		cfg:      cfg,
		runner:   runner,
		archive:  arc,
		logger:   logger,
		registry: reg,
		metrics:  m,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.instrument)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(newClientLimiter(s.cfg.RateLimit, s.cfg.Burst).middleware)
		}
		r.Post("/render", s.renderPost)
		r.Get("/render/{graph6}", s.renderGet)
	})

	r.Get("/renders", s.listRenders)
	r.Get("/renders/{id}", s.getRender)
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens on cfg.Addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the runner's cache and the archive.
func (s *Server) Close() error {
	var errs []error
	if err := s.runner.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.archive != nil {
		if err := s.archive.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Open connects the backends named in cfg and returns a ready server.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	var c cache.Cache
	switch {
	case cfg.RedisURL != "":
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		c = rc
		logger.Info("using redis cache")
	case cfg.CacheDir != "":
		fc, err := cache.NewFileCache(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("file cache: %w", err)
		}
		c = fc
		logger.Info("using file cache", "dir", cfg.CacheDir)
	default:
		c = cache.NewNullCache()
	}

	var arc archive.Archive
	if cfg.MongoURI != "" {
		m, err := archive.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("mongo archive: %w", err)
		}
		arc = m
		logger.Info("using mongo archive")
	} else {
		arc = archive.NewMemory()
	}

	runner := pipeline.NewRunner(c, nil, logger)
	return New(cfg, runner, arc, logger), nil
}
