// Package server exposes the diagram engine over HTTP.
//
// Each document gets an in-memory board session holding its live model,
// diagram, and undo history; edits run through the same transactional
// operations the CLI uses and every mutation persists a fresh snapshot
// to the document store. Undo history is per-process: it does not
// survive a restart, the persisted document does.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/partboard/partboard/pkg/buildinfo"
	"github.com/partboard/partboard/pkg/cache"
	"github.com/partboard/partboard/pkg/config"
	"github.com/partboard/partboard/pkg/errors"
	"github.com/partboard/partboard/pkg/store"
	"github.com/partboard/partboard/pkg/template"
)

// Server wires the document store, artifact cache, and template registry
// into an HTTP API.
type Server struct {
	store    store.Store
	cache    cache.Cache
	registry *template.Registry
	cfg      config.Config
	logger   *log.Logger

	boards *boardSet
}

// New creates a server. The registry must contain the configured default
// template.
func New(st store.Store, c cache.Cache, registry *template.Registry, cfg config.Config, logger *log.Logger) *Server {
	return &Server{
		store:    st,
		cache:    c,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
		boards:   newBoardSet(),
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/templates", s.handleListTemplates)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Post("/", s.handleCreateDocument)

			r.Route("/{docID}", func(r chi.Router) {
				r.Get("/", s.handleGetDocument)
				r.Delete("/", s.handleDeleteDocument)

				r.Post("/nodes", s.handleAddNode)
				r.Patch("/nodes/{key}", s.handleSetProperty)
				r.Post("/nodes/{key}/toggle", s.handleToggleStatus)
				r.Delete("/nodes/{key}", s.handleRemoveNode)

				r.Post("/links", s.handleAddLink)
				r.Delete("/links", s.handleRemoveLink)

				r.Post("/template", s.handleSelectTemplate)
				r.Post("/undo", s.handleUndo)
				r.Post("/redo", s.handleRedo)

				r.Get("/render.svg", s.handleRenderSVG)
			})
		})
	})

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: s.cfg.Server.WriteTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"templates": s.registry.IDs()})
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// errorResponse is the JSON shape of every error reply.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.respondJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func (s *Server) badRequest(w http.ResponseWriter, format string, args ...any) {
	s.respondError(w, errors.New(errors.ErrCodeInvalidInput, format, args...))
}
