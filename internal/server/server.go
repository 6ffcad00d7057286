// Package server exposes a running expansion coordinator over HTTP.
//
// The server is a thin JSON facade: every route reads or mutates the
// coordinator, which owns all graph state. It exists so browser frontends
// and scripts can drive an expansion session without linking the Go module.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/canopyviz/canopy/pkg/errors"
	"github.com/canopyviz/canopy/pkg/expand"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address, e.g. "localhost:8412".
	Addr string
	// AllowAll allows all CORS origins (dev mode).
	AllowAll bool
}

// Server serves one coordinator session over HTTP.
type Server struct {
	cfg        Config
	coord      *expand.Coordinator
	logger     *log.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server around an existing coordinator.
func New(cfg Config, coord *expand.Coordinator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, coord: coord, logger: logger}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/viewport", s.handleViewport)
		r.Post("/nodes/{id}/activate", s.handleActivate)
		r.Post("/overflow/{id}/promote/{childID}", s.handlePromote)
		r.Post("/reset", s.handleReset)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address and blocks until the
// listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("canopy server listening", "addr", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// handleGraph returns the current nodes and edges.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

// handleViewport returns the most recent framing target.
func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	target, ok := s.coord.Viewport()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNodeNotFound, "no viewport computed yet"))
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// handleActivate expands one node and returns the resulting graph.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.coord.Activate(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

// handlePromote moves one hidden child out of an overflow node.
func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	childID := chi.URLParam(r, "childID")
	if err := s.coord.PromoteOverflowChild(r.Context(), id, childID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

// handleReset restores the initial root set.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.ResetToInitial(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps the structured error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidNodeID, errors.ErrCodeInvalidConfig, errors.ErrCodeDuplicateNode:
		status = http.StatusBadRequest
	case errors.ErrCodeExpandFailed, errors.ErrCodeLayoutFailed:
		status = http.StatusBadGateway
	case errors.ErrCodeCorruptState:
		status = http.StatusConflict
	}
	writeJSON(w, status, errorBody{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
