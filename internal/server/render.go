package server

import (
	"net/http"

	"github.com/partboard/partboard/pkg/cache"
	"github.com/partboard/partboard/pkg/render"
)

// handleRenderSVG serves the document as SVG. The scene view serializes
// the arranged parts directly; the graph view goes through Graphviz.
// Artifacts are cached by content fingerprint, so repeated renders of an
// unchanged board are served from cache.
func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view == "" {
		view = "scene"
	}
	if view != "scene" && view != "graph" {
		s.badRequest(w, "unknown view %q", view)
		return
	}
	detailed := r.URL.Query().Get("detailed") == "1"

	s.withBoard(w, r, func(b *board) error {
		b.doc.Snapshot(b.diagram.Model())
		b.doc.Template = b.diagram.TemplateID()

		format := "svg:" + view
		if detailed {
			format += ":detailed"
		}
		key := cache.ArtifactKey(b.doc.Fingerprint(), b.doc.Template, format)

		if svg, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
			writeSVG(w, svg)
			return nil
		}

		var svg []byte
		var err error
		switch view {
		case "graph":
			dot := render.ToDOT(b.diagram.Model(), render.Options{Detailed: detailed})
			svg, err = render.RenderSVG(dot)
			if err != nil {
				return err
			}
		default:
			svg = render.SceneSVG(b.diagram)
		}

		if err := s.cache.Set(r.Context(), key, svg, s.cfg.Cache.TTL.Duration()); err != nil {
			s.logger.Warn("cache artifact", "err", err)
		}
		writeSVG(w, svg)
		return nil
	})
}

func writeSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}
