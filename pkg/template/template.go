// Package template ties the graph model, the visual tree, and the layout
// oracle together into a diagram instance.
//
// A template is a pure function that builds a fresh visual tree for one
// node record, plus pointer-event handlers declared alongside it.
// Templates are selected from a registry by id; swapping the active
// template discards and rebuilds every part from the current model.
//
// # Data Flow
//
// Model mutation → part rebuild/binding refresh → panel arrangement →
// layout oracle positions → interaction writes back through model
// operations, wrapped in transactions so everything stays undoable.
package template

import (
	"github.com/partboard/partboard/pkg/visual"
)

// BuildFunc returns a fresh visual tree for one node part. It must be pure:
// no captured mutable state, all data flows in through bindings.
type BuildFunc func() *visual.Object

// HandlerSet groups the pointer handlers declared for one visual object.
// Nil entries mean "not handled here".
type HandlerSet struct {
	Click Handler
	Enter Handler
	Leave Handler
}

// Template pairs a build function with the pointer handlers declared at
// definition time. Handlers are keyed by the name of the visual object
// whose subtree they cover; the empty name covers the whole part.
type Template struct {
	ID       string
	Build    BuildFunc
	Handlers map[string]HandlerSet
}

// Registry maps template ids to templates. Lookup is a table, not a
// branching chain, so hosts can add templates without touching dispatch.
type Registry struct {
	byID  map[string]Template
	order []string
}

// NewRegistry creates an empty template registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Template)}
}

// Register adds a template. Re-registering an id replaces the previous
// entry but keeps its position in the listing order.
func (r *Registry) Register(t Template) {
	if _, exists := r.byID[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.byID[t.ID] = t
}

// Get returns the template with the given id.
func (r *Registry) Get(id string) (Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// IDs returns the registered template ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
