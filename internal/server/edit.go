package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/partboard/partboard/pkg/errors"
	"github.com/partboard/partboard/pkg/model"
)

type addNodeRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type setPropertyRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type linkRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type selectTemplateRequest struct {
	Template string `json:"template"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.badRequest(w, "invalid request body: %v", err)
			return
		}
	}

	s.withBoard(w, r, func(b *board) error {
		rec := model.Record{"name": "New Node", "status": "active"}
		if req.Name != "" {
			rec["name"] = req.Name
		}
		if req.Status != "" {
			rec["status"] = req.Status
		}

		m := b.diagram.Model()
		tx, err := m.StartTransaction("add node")
		if err != nil {
			return err
		}
		if err := m.AddNodeData(rec); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		if err := s.save(r.Context(), b); err != nil {
			return err
		}
		s.respondJSON(w, http.StatusCreated, rec)
		return nil
	})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	key, err := nodeKey(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.withBoard(w, r, func(b *board) error {
		m := b.diagram.Model()
		rec, ok := m.FindNodeForKey(key)
		if !ok {
			return errors.New(errors.ErrCodeUnknownRecord, "no node with key %d", key)
		}
		tx, err := m.StartTransaction("remove node")
		if err != nil {
			return err
		}
		if err := m.RemoveNodeData(rec); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		if err := s.save(r.Context(), b); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

func (s *Server) handleSetProperty(w http.ResponseWriter, r *http.Request) {
	key, err := nodeKey(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req setPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if req.Field == "" {
		s.badRequest(w, "field must not be empty")
		return
	}

	s.withBoard(w, r, func(b *board) error {
		m := b.diagram.Model()
		rec, ok := m.FindNodeForKey(key)
		if !ok {
			return errors.New(errors.ErrCodeUnknownRecord, "no node with key %d", key)
		}
		tx, err := m.StartTransaction("set property")
		if err != nil {
			return err
		}
		if err := m.SetDataProperty(rec, req.Field, req.Value); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		if err := s.save(r.Context(), b); err != nil {
			return err
		}
		s.respondJSON(w, http.StatusOK, rec)
		return nil
	})
}

func (s *Server) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	key, err := nodeKey(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.withBoard(w, r, func(b *board) error {
		m := b.diagram.Model()
		rec, ok := m.FindNodeForKey(key)
		if !ok {
			return errors.New(errors.ErrCodeUnknownRecord, "no node with key %d", key)
		}
		m.Selection().Select(rec)
		if err := b.diagram.ToggleStatus(); err != nil {
			return err
		}
		if err := s.save(r.Context(), b); err != nil {
			return err
		}
		s.respondJSON(w, http.StatusOK, rec)
		return nil
	})
}

func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}

	s.withBoard(w, r, func(b *board) error {
		m := b.diagram.Model()
		rec := model.Record{"from": req.From, "to": req.To}
		tx, err := m.StartTransaction("add link")
		if err != nil {
			return err
		}
		if err := m.AddLinkData(rec); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		if err := s.save(r.Context(), b); err != nil {
			return err
		}
		s.respondJSON(w, http.StatusCreated, rec)
		return nil
	})
}

func (s *Server) handleRemoveLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}

	s.withBoard(w, r, func(b *board) error {
		m := b.diagram.Model()
		var target model.Record
		for _, l := range m.LinkDataArray() {
			from, _ := l.From()
			to, _ := l.To()
			if from == req.From && to == req.To {
				target = l
				break
			}
		}
		if target == nil {
			return errors.New(errors.ErrCodeUnknownRecord, "no link %d -> %d", req.From, req.To)
		}
		tx, err := m.StartTransaction("remove link")
		if err != nil {
			return err
		}
		if err := m.RemoveLinkData(target); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		if err := s.save(r.Context(), b); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

func (s *Server) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	var req selectTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}

	s.withBoard(w, r, func(b *board) error {
		// Unknown ids leave the active template in place.
		b.diagram.SelectTemplate(req.Template)
		if err := s.save(r.Context(), b); err != nil {
			return err
		}
		s.respondJSON(w, http.StatusOK, map[string]string{"template": b.diagram.TemplateID()})
		return nil
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.withBoard(w, r, func(b *board) error {
		if err := b.diagram.Undo(); err != nil {
			return err
		}
		if err := s.save(r.Context(), b); err != nil {
			return err
		}
		s.respondJSON(w, http.StatusOK, undoState(b))
		return nil
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.withBoard(w, r, func(b *board) error {
		if err := b.diagram.Redo(); err != nil {
			return err
		}
		if err := s.save(r.Context(), b); err != nil {
			return err
		}
		s.respondJSON(w, http.StatusOK, undoState(b))
		return nil
	})
}

func undoState(b *board) map[string]bool {
	u := b.diagram.Model().Undo()
	return map[string]bool{"can_undo": u.CanUndo(), "can_redo": u.CanRedo()}
}

func nodeKey(r *http.Request) (int, error) {
	key, err := strconv.Atoi(chi.URLParam(r, "key"))
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "node key must be an integer")
	}
	return key, nil
}
