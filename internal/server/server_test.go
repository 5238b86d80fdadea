package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/partboard/partboard/pkg/cache"
	"github.com/partboard/partboard/pkg/config"
	"github.com/partboard/partboard/pkg/store"
	"github.com/partboard/partboard/pkg/template"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	s := New(
		store.NewMemoryStore(),
		cache.NewMemoryCache(),
		template.BuiltinRegistry(),
		config.Default(),
		log.NewWithOptions(io.Discard, log.Options{}),
	)
	return s.Router()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func createDocument(t *testing.T, h http.Handler, name string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/documents", map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create document: %d %s", rec.Code, rec.Body.String())
	}
	doc := decode[store.Document](t, rec)
	if doc.ID == "" {
		t.Fatal("created document has no id")
	}
	return doc.ID
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestListTemplates(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/v1/templates", nil)
	body := decode[map[string][]string](t, rec)
	if len(body["templates"]) != 3 {
		t.Errorf("templates = %v", body["templates"])
	}
}

func TestDocumentLifecycle(t *testing.T) {
	h := newTestServer(t)
	id := createDocument(t, h, "line-1")

	rec := do(t, h, http.MethodGet, "/api/v1/documents/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}
	doc := decode[store.Document](t, rec)
	if doc.Name != "line-1" || doc.Template != "card" {
		t.Errorf("doc = %s/%s", doc.Name, doc.Template)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/documents", nil)
	list := decode[map[string][]store.Summary](t, rec)
	if len(list["documents"]) != 1 {
		t.Fatalf("listed %d documents", len(list["documents"]))
	}

	if rec = do(t, h, http.MethodDelete, "/api/v1/documents/"+id, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec = do(t, h, http.MethodGet, "/api/v1/documents/"+id, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: %d", rec.Code)
	}
}

func TestUnknownDocument(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/v1/documents/nope/nodes", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["code"] == "" {
		t.Errorf("error body missing code: %v", body)
	}
}

func TestNodeEdits(t *testing.T) {
	h := newTestServer(t)
	id := createDocument(t, h, "board")
	base := "/api/v1/documents/" + id

	rec := do(t, h, http.MethodPost, base+"/nodes", map[string]string{"name": "Press"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add node: %d %s", rec.Code, rec.Body.String())
	}
	node := decode[map[string]any](t, rec)
	if node["name"] != "Press" || node["status"] != "active" {
		t.Fatalf("node = %v", node)
	}
	key := int(node["key"].(float64))

	rec = do(t, h, http.MethodPatch, fmt.Sprintf("%s/nodes/%d", base, key),
		map[string]any{"field": "name", "value": "Stamping"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set property: %d %s", rec.Code, rec.Body.String())
	}
	if node = decode[map[string]any](t, rec); node["name"] != "Stamping" {
		t.Errorf("node = %v", node)
	}

	rec = do(t, h, http.MethodPost, fmt.Sprintf("%s/nodes/%d/toggle", base, key), nil)
	if node = decode[map[string]any](t, rec); node["status"] != "inactive" {
		t.Errorf("toggled node = %v", node)
	}

	// Edits survive in the persisted document.
	rec = do(t, h, http.MethodGet, base, nil)
	doc := decode[store.Document](t, rec)
	if len(doc.Nodes) != 1 || doc.Nodes[0]["name"] != "Stamping" {
		t.Errorf("persisted nodes = %v", doc.Nodes)
	}

	if rec = do(t, h, http.MethodDelete, fmt.Sprintf("%s/nodes/%d", base, key), nil); rec.Code != http.StatusNoContent {
		t.Fatalf("remove node: %d", rec.Code)
	}
	if rec = do(t, h, http.MethodDelete, fmt.Sprintf("%s/nodes/%d", base, key), nil); rec.Code != http.StatusNotFound {
		t.Errorf("remove missing node: %d", rec.Code)
	}
}

func TestLinkEditsAndCascade(t *testing.T) {
	h := newTestServer(t)
	id := createDocument(t, h, "board")
	base := "/api/v1/documents/" + id

	n1 := decode[map[string]any](t, do(t, h, http.MethodPost, base+"/nodes", map[string]string{"name": "A"}))
	n2 := decode[map[string]any](t, do(t, h, http.MethodPost, base+"/nodes", map[string]string{"name": "B"}))
	k1, k2 := int(n1["key"].(float64)), int(n2["key"].(float64))

	rec := do(t, h, http.MethodPost, base+"/links", map[string]int{"from": k1, "to": k2})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add link: %d %s", rec.Code, rec.Body.String())
	}

	// Removing a node cascades its links.
	if rec = do(t, h, http.MethodDelete, fmt.Sprintf("%s/nodes/%d", base, k1), nil); rec.Code != http.StatusNoContent {
		t.Fatalf("remove node: %d", rec.Code)
	}
	doc := decode[store.Document](t, do(t, h, http.MethodGet, base, nil))
	if len(doc.Nodes) != 1 || len(doc.Links) != 0 {
		t.Errorf("after cascade: %d nodes, %d links", len(doc.Nodes), len(doc.Links))
	}

	rec = do(t, h, http.MethodDelete, base+"/links", map[string]int{"from": k1, "to": k2})
	if rec.Code != http.StatusNotFound {
		t.Errorf("remove missing link: %d", rec.Code)
	}
}

func TestUndoRedoOverHTTP(t *testing.T) {
	h := newTestServer(t)
	id := createDocument(t, h, "board")
	base := "/api/v1/documents/" + id

	rec := do(t, h, http.MethodPost, base+"/undo", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("undo on empty history: %d", rec.Code)
	}

	do(t, h, http.MethodPost, base+"/nodes", map[string]string{"name": "Press"})

	rec = do(t, h, http.MethodPost, base+"/undo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("undo: %d %s", rec.Code, rec.Body.String())
	}
	state := decode[map[string]bool](t, rec)
	if state["can_undo"] || !state["can_redo"] {
		t.Errorf("state after undo = %v", state)
	}
	doc := decode[store.Document](t, do(t, h, http.MethodGet, base, nil))
	if len(doc.Nodes) != 0 {
		t.Errorf("nodes after undo = %v", doc.Nodes)
	}

	rec = do(t, h, http.MethodPost, base+"/redo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("redo: %d", rec.Code)
	}
	doc = decode[store.Document](t, do(t, h, http.MethodGet, base, nil))
	if len(doc.Nodes) != 1 {
		t.Errorf("nodes after redo = %v", doc.Nodes)
	}
}

func TestSelectTemplate(t *testing.T) {
	h := newTestServer(t)
	id := createDocument(t, h, "board")
	base := "/api/v1/documents/" + id

	rec := do(t, h, http.MethodPost, base+"/template", map[string]string{"template": "badge"})
	if body := decode[map[string]string](t, rec); body["template"] != "badge" {
		t.Fatalf("template = %v", body)
	}

	// Unknown ids keep the active template.
	rec = do(t, h, http.MethodPost, base+"/template", map[string]string{"template": "nope"})
	if body := decode[map[string]string](t, rec); body["template"] != "badge" {
		t.Errorf("template after unknown id = %v", body)
	}
}

func TestRenderSceneSVG(t *testing.T) {
	h := newTestServer(t)
	id := createDocument(t, h, "board")
	base := "/api/v1/documents/" + id
	do(t, h, http.MethodPost, base+"/nodes", map[string]string{"name": "Press"})

	rec := do(t, h, http.MethodGet, base+"/render.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("render: %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	svg := rec.Body.String()
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, ">Press</text>") {
		t.Errorf("svg = %s", svg)
	}

	// Unchanged board renders identically (served from cache).
	again := do(t, h, http.MethodGet, base+"/render.svg", nil)
	if again.Body.String() != svg {
		t.Error("cached render differs")
	}

	if rec = do(t, h, http.MethodGet, base+"/render.svg?view=bogus", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bogus view: %d", rec.Code)
	}
}
