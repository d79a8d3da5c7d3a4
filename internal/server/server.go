// Package server implements the dhcpdash preview API.
//
// The API is stateless: every request builds its own option form or tree
// from the request body and discards it afterwards.
//
//	GET  /health                       liveness probe
//	GET  /metrics                      Prometheus metrics
//	POST /api/v1/options/serialize     option document -> wire options
//	POST /api/v1/options/decode        wire options -> editable form
//	POST /api/v1/tree                  JSON value -> rendered tree lines
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dhcpdash/internal/config"
	"github.com/matzehuels/dhcpdash/pkg/observability"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 8 << 20

// Server serves the preview API.
type Server struct {
	cfg     config.Config
	logger  *log.Logger
	metrics *Metrics
	router  chi.Router
}

// New creates a server for cfg. A nil logger discards log output.
func New(cfg config.Config, logger *log.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Server{cfg: cfg, logger: logger, metrics: metrics}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/options/serialize", s.handleSerialize)
		r.Post("/options/decode", s.handleDecode)
		r.Post("/tree", s.handleTree)
	})
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// observe logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview API listening", "addr", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down preview API")
	return srv.Shutdown(shutdownCtx)
}
