// Package server exposes the painter over HTTP.
//
// Routes:
//
//	GET  /healthz             liveness and build information
//	GET  /v1/glyphs           glyph catalog listing
//	POST /v1/layout?engine=   DOT in, layout JSON out
//	POST /v1/paint?format=    layout JSON (or DOT) in, SVG or DOT out
//
// A DOT body is recognized by a "text/vnd.graphviz" content type and laid
// out with Graphviz before painting. Painted artifacts and computed layouts
// are cached by content hash.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mcviz/pkg/glyph"
	"github.com/matzehuels/mcviz/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	// Pipeline holds the defaults for every request; requests choose the
	// format and may override the engine.
	Pipeline pipeline.Options
	// MaxBodyBytes limits request bodies. Zero means 4 MiB.
	MaxBodyBytes int64
}

const defaultMaxBody = 4 << 20

// Server serves painting requests.
type Server struct {
	opts   Options
	runner *pipeline.Runner
	router chi.Router
}

// New creates a server around runner. A nil runner paints without caching.
func New(runner *pipeline.Runner, opts Options) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}
	if opts.Pipeline.Catalog == nil {
		opts.Pipeline.Catalog = glyph.NewResolver(glyph.Default())
	}

	s := &Server{opts: opts, runner: runner}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.withLogger)
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/glyphs", s.handleGlyphs)
		r.Post("/layout", s.handleLayout)
		r.Post("/paint", s.handlePaint)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.runner.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
