// Package server exposes scenario replays over HTTP.
//
// Routes:
//
//	GET  /healthz           liveness check
//	GET  /version           build information
//	POST /v1/layouts        replay a scenario, store the result under a new ID
//	GET  /v1/layouts/{id}   fetch a stored result
//
// Results are stored through the pipeline runner's cache, so the Redis and
// Mongo backends let several server instances share them.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/tilewindow/pkg/buildinfo"
	apierrors "github.com/matzehuels/tilewindow/pkg/errors"
	"github.com/matzehuels/tilewindow/pkg/observability"
	"github.com/matzehuels/tilewindow/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Defaults are the engine options applied when a request leaves them zero.
type Defaults struct {
	MaxPoolSize int
	Tolerance   float64
	Estimate    float64
}

// Server routes HTTP requests to a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	defaults Defaults
	logger   *log.Logger
	router   chi.Router
}

// New returns a server. logger may be nil.
func New(runner *pipeline.Runner, defaults Defaults, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, defaults: defaults, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// createResponse is returned by POST /v1/layouts.
type createResponse struct {
	ID     string           `json:"id"`
	Result *pipeline.Result `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, apierrors.Wrap(apierrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if opts.MaxPoolSize == 0 {
		opts.MaxPoolSize = s.defaults.MaxPoolSize
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = s.defaults.Tolerance
	}
	if opts.Estimate == 0 {
		opts.Estimate = s.defaults.Estimate
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := uuid.NewString()
	if err := s.runner.Store(r.Context(), id, res); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/layouts/"+id)
	writeJSON(w, http.StatusCreated, createResponse{ID: id, Result: res})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, r, apierrors.New(apierrors.ErrCodeInvalidInput, "invalid id %q", id))
		return
	}
	res, err := s.runner.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createResponse{ID: id, Result: res})
}

// observe reports requests to the HTTP hooks and logs them at debug level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
