// Package server exposes the layout engine and topology codecs over HTTP.
//
// Routes:
//
//	GET  /healthz                 build info
//	GET  /v1/layouts              registered strategy names
//	POST /v1/layouts/{name}       editor document in, repositioned document out
//	POST /v1/topology/import      topology JSON in, editor document out
//	POST /v1/topology/export      editor document in, topology JSON out
//	POST /v1/render               editor document in, SVG (or DOT) out
//
// Failures are JSON objects {"code": ..., "error": ...} with the status
// given by errors.HTTPStatus.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/whtopo/pkg/cache"
	"github.com/matzehuels/whtopo/pkg/layout"
	"github.com/matzehuels/whtopo/pkg/observability"
)

// Options configures a Server. Zero fields take defaults.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64

	// Layout tunes every strategy the service runs.
	Layout *layout.Config

	// Layouts memoizes layout runs. Nil disables caching.
	Layouts *cache.Layouts

	Logger *log.Logger
}

// Server is the layout HTTP service.
type Server struct {
	opts    Options
	cfg     layout.Config
	layouts *cache.Layouts
	logger  *log.Logger
	router  chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 8 << 20
	}
	s := &Server{
		opts:    opts,
		cfg:     layout.DefaultConfig(),
		layouts: opts.Layouts,
		logger:  opts.Logger,
	}
	if opts.Layout != nil {
		s.cfg = *opts.Layout
	}
	if s.layouts == nil {
		s.layouts = cache.NewLayouts(cache.NewNullCache(), 0)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe)
	r.Use(s.limitBody)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/layouts", s.handleListLayouts)
		r.Post("/layouts/{name}", s.handleLayout)
		r.Post("/topology/import", s.handleImport)
		r.Post("/topology/export", s.handleExport)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Error: "no route for " + r.URL.Path})
	})
	return r
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// observe reports every request to the HTTP hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}
