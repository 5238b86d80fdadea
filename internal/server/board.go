package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/partboard/partboard/pkg/model"
	"github.com/partboard/partboard/pkg/store"
	"github.com/partboard/partboard/pkg/template"
)

// board is the live session for one document: its model, diagram, and
// undo history. The model is not safe for concurrent use, so all access
// goes through the board's lock.
type board struct {
	mu      sync.Mutex
	doc     *store.Document
	diagram *template.Diagram
}

// boardSet holds the open boards by document id.
type boardSet struct {
	mu     sync.Mutex
	boards map[string]*board
}

func newBoardSet() *boardSet {
	return &boardSet{boards: make(map[string]*board)}
}

func (bs *boardSet) get(id string) (*board, bool) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	b, ok := bs.boards[id]
	return b, ok
}

func (bs *boardSet) put(id string, b *board) {
	bs.mu.Lock()
	bs.boards[id] = b
	bs.mu.Unlock()
}

func (bs *boardSet) evict(id string) {
	bs.mu.Lock()
	delete(bs.boards, id)
	bs.mu.Unlock()
}

// openBoard returns the live board for a document, loading it from the
// store on first access.
func (s *Server) openBoard(ctx context.Context, id string) (*board, error) {
	if b, ok := s.boards.get(id); ok {
		return b, nil
	}

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m := model.New()
	m.SetLogger(s.logger)
	if err := doc.Restore(m); err != nil {
		return nil, err
	}

	templateID := doc.Template
	if templateID == "" {
		templateID = s.cfg.Render.Template
	}
	b := &board{
		doc:     doc,
		diagram: template.New(m, s.registry, templateID, template.WithLogger(s.logger)),
	}
	s.boards.put(id, b)
	return b, nil
}

// save snapshots the board's model into its document and persists it.
// Callers must hold the board lock.
func (s *Server) save(ctx context.Context, b *board) error {
	b.doc.Snapshot(b.diagram.Model())
	b.doc.Template = b.diagram.TemplateID()
	return s.store.Put(ctx, b.doc)
}

// withBoard resolves the {docID} route parameter, locks the board, and
// runs fn. A nil error from fn means fn already wrote the response.
func (s *Server) withBoard(w http.ResponseWriter, r *http.Request, fn func(b *board) error) {
	b, err := s.openBoard(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := fn(b); err != nil {
		s.respondError(w, err)
	}
}
