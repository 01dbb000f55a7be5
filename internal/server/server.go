// Package server implements the HTTP render service.
//
// The service exposes the render pipeline over HTTP: POST /api/render runs
// build, layout, and render for a submitted expression and returns the
// artifacts inline, and /api/layouts provides CRUD access to saved layouts
// backed by a Store (in-memory by default, MongoDB when configured).
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

	apperrors "github.com/mhuels/dagview/pkg/errors"
	"github.com/mhuels/dagview/pkg/pipeline"
	"github.com/mhuels/dagview/pkg/store"
)

// Server wires the render pipeline and layout store behind an HTTP router.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server around the given runner and store.
// A nil store falls back to an in-memory store, a nil logger to log.Default().
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  st,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Route("/layouts", func(r chi.Router) {
			r.Get("/", s.handleListLayouts)
			r.Post("/", s.handleSaveLayout)
			r.Get("/{id}", s.handleGetLayout)
			r.Delete("/{id}", s.handleDeleteLayout)
		})
	})

	return r
}

// logRequests logs each request with method, path, status, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Render
// =============================================================================

// RenderRequest is the body of POST /api/render.
type RenderRequest struct {
	Expression string   `json:"expression"`
	GraphName  string   `json:"graph_name,omitempty"`
	Style      string   `json:"style,omitempty"`
	Title      string   `json:"title,omitempty"`
	Formats    []string `json:"formats,omitempty"`
	Save       bool     `json:"save,omitempty"`
	Name       string   `json:"name,omitempty"`
}

// RenderResponse is the body returned by POST /api/render.
// Artifacts are keyed by format; binary formats are base64 encoded by
// encoding/json's []byte handling.
type RenderResponse struct {
	ID        string            `json:"id,omitempty"`
	GraphHash string            `json:"graph_hash"`
	Stats     pipeline.Stats    `json:"stats"`
	Artifacts map[string][]byte `json:"artifacts"`
}

// handleRender runs the full pipeline for a submitted expression.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Expression == "" {
		writeError(w, http.StatusBadRequest, "expression is required")
		return
	}

	opts := pipeline.Options{
		Expression: req.Expression,
		GraphName:  req.GraphName,
		Style:      req.Style,
		Title:      req.Title,
		Formats:    req.Formats,
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, statusFor(err), apperrors.UserMessage(err))
		return
	}

	resp := RenderResponse{
		GraphHash: result.GraphHash,
		Stats:     result.Stats,
		Artifacts: result.Artifacts,
	}

	if req.Save {
		rec := &store.Record{
			Name:   req.Name,
			Source: req.Expression,
			Graph:  result.Graph,
			Layout: result.Layout,
		}
		id, err := s.store.Save(r.Context(), rec)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "save layout")
			return
		}
		resp.ID = id
	}

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Layout Store
// =============================================================================

// handleListLayouts returns saved layouts, newest first.
func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list layouts")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// handleSaveLayout stores a layout record submitted directly.
func (s *Server) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	var rec store.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := s.store.Save(r.Context(), &rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "save layout")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// handleGetLayout returns a single saved layout by ID.
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "layout not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get layout")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDeleteLayout removes a saved layout by ID.
func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "layout not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "delete layout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Serve
// =============================================================================

// ListenAndServe runs the server on addr until ctx is cancelled.
// Shutdown waits up to 10 seconds for in-flight requests to drain.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// =============================================================================
// Helpers
// =============================================================================

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidExpression,
		apperrors.ErrCodeInvalidGraph,
		apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidStyle,
		apperrors.ErrCodeCycleDetected:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
