// Package server serves rendered diagrams over HTTP for previewing.
//
// Routes:
//
//	GET /healthz                 liveness probe
//	GET /diagrams                JSON list of diagrams
//	GET /diagrams/{name}         rendered diagram (?format=png|svg|jpg|dot|mermaid)
//	GET /metrics                 Prometheus exposition, when metrics are enabled
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/eksdiagrams/pkg/diagram"
	"github.com/matzehuels/eksdiagrams/pkg/observability"
	"github.com/matzehuels/eksdiagrams/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Config configures a Server.
type Config struct {
	Runner   *pipeline.Runner
	Diagrams []*diagram.Diagram
	Metrics  *observability.Metrics // optional
	Logger   *log.Logger
	DPI      int
}

// Server renders diagrams on request. Renders go through the runner and
// therefore share its cache and engine.
type Server struct {
	runner   *pipeline.Runner
	diagrams []*diagram.Diagram
	metrics  *observability.Metrics
	logger   *log.Logger
	dpi      int
}

// New creates a server. Diagrams are served in the given order.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		runner:   runner,
		diagrams: cfg.Diagrams,
		metrics:  cfg.Metrics,
		logger:   logger,
		dpi:      cfg.DPI,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{name}", s.handleDiagram)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving diagrams", "addr", addr, "diagrams", len(s.diagrams))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) lookup(name string) (*diagram.Diagram, bool) {
	for _, d := range s.diagrams {
		if d.Name() == name || d.Filename() == name {
			return d, true
		}
	}
	return nil, false
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}
