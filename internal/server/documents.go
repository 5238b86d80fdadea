package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/partboard/partboard/pkg/store"
)

type createDocumentRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"documents": list})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if req.Name == "" {
		s.badRequest(w, "document name must not be empty")
		return
	}

	doc := store.NewDocument(req.Name)
	doc.Template = s.cfg.Render.Template
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.respondError(w, err)
		return
	}
	s.logger.Info("document created", "id", doc.ID, "name", doc.Name)
	s.respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	// Serve the live board when one is open so unsaved edits are visible;
	// otherwise fall back to the stored document.
	id := chi.URLParam(r, "docID")
	if b, ok := s.boards.get(id); ok {
		b.mu.Lock()
		b.doc.Snapshot(b.diagram.Model())
		b.doc.Template = b.diagram.TemplateID()
		doc := *b.doc
		b.mu.Unlock()
		s.respondJSON(w, http.StatusOK, doc)
		return
	}

	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "docID")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	s.boards.evict(id)
	s.logger.Info("document deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
