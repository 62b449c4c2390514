// Package server exposes editing sessions over a JSON HTTP API.
//
// A session is created from a batch request (assets, copy, brand colour,
// ratios) and holds one editable creative per ratio. Clients then stream
// pointer events, switch templates, change the copy and export, while the
// server keeps each creative's preview up to date in the background.
//
// # Routes
//
//	GET    /api/health
//	GET    /api/palette?color=#RRGGBB
//	POST   /api/sessions
//	GET    /api/sessions/{id}
//	DELETE /api/sessions/{id}
//	PUT    /api/sessions/{id}/text
//	POST   /api/sessions/{id}/export?kb=500
//	GET    /api/sessions/{id}/creatives/{index}.png
//	POST   /api/sessions/{id}/creatives/{index}/pointer
//	POST   /api/sessions/{id}/creatives/{index}/template
//
// Errors are returned as {"code": "...", "error": "..."} with a status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/adforge/pkg/pipeline"
	"github.com/matzehuels/adforge/pkg/session"
)

// Defaults for [New].
const (
	DefaultMaxBodyBytes    = 32 << 20
	DefaultCleanupInterval = 5 * time.Minute
	shutdownTimeout        = 10 * time.Second
)

// Server serves the editing API.
type Server struct {
	runner   *pipeline.Runner
	store    session.Store
	logger   *log.Logger
	cfg      pipeline.RenderConfig
	pacing   time.Duration
	maxBody  int64
	interval time.Duration
	router   chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request and session logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithRenderConfig sets how previews are encoded.
func WithRenderConfig(cfg pipeline.RenderConfig) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithExportPacing sets the pause between exported creatives.
func WithExportPacing(d time.Duration) Option { return func(s *Server) { s.pacing = d } }

// WithMaxBodyBytes limits request bodies.
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithCleanupInterval sets how often expired sessions are dropped.
func WithCleanupInterval(d time.Duration) Option { return func(s *Server) { s.interval = d } }

// New creates a server over runner and store.
func New(runner *pipeline.Runner, store session.Store, opts ...Option) (*Server, error) {
	s := &Server{
		runner:   runner,
		store:    store,
		maxBody:  DefaultMaxBodyBytes,
		interval: DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := s.cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/palette", s.handlePalette)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/text", s.handleSetText)
			r.Post("/export", s.handleExport)

			r.Get("/creatives/{index}.png", s.handlePreview)
			r.Post("/creatives/{index}/pointer", s.handlePointer)
			r.Post("/creatives/{index}/template", s.handleTemplate)
		})
	})
	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, dropping expired
// sessions in the background. On shutdown every session is closed.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.cleanupLoop(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if cerr := s.store.Close(); err == nil {
			err = cerr
		}
		return err
	})
	return g.Wait()
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.Cleanup(ctx)
			if err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("expired sessions", "count", n)
			}
		}
	}
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
