package template

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/partboard/partboard/pkg/layout"
	"github.com/partboard/partboard/pkg/model"
	"github.com/partboard/partboard/pkg/observability"
	"github.com/partboard/partboard/pkg/visual"
)

// Part is a top-level selectable visual entity backed by one record: a
// positioned node part or a link part between two node keys.
type Part struct {
	Record   model.Record
	Root     *visual.Object // nil for link parts
	Position visual.Point   // top-left, set by the layout oracle
	IsLink   bool
	From, To int // link endpoints (node keys)
}

// Key returns the node key backing a node part.
func (p *Part) Key() (int, bool) {
	if p.IsLink {
		return 0, false
	}
	return p.Record.Key()
}

// Diagram owns the derived visual state for one graph model: a part per
// node record, a part per link record, the active template, and the layout
// oracle. It subscribes to model changes and keeps the visual tree in sync
// synchronously, on the mutating call.
//
// Diagram is not safe for concurrent use; see the model package.
type Diagram struct {
	model      *model.GraphModel
	registry   *Registry
	templateID string
	oracle     layout.Oracle
	logger     *log.Logger

	parts     map[int]*Part // node parts by key
	linkParts []*Part
}

// Option configures a Diagram.
type Option func(*Diagram)

// WithLogger sets the diagram's logger. The model keeps its own.
func WithLogger(l *log.Logger) Option {
	return func(d *Diagram) { d.logger = l }
}

// WithOracle replaces the default layered layout oracle.
func WithOracle(o layout.Oracle) Option {
	return func(d *Diagram) { d.oracle = o }
}

// New creates a diagram over a model with the given registry and active
// template id, builds all parts, and subscribes to model changes.
func New(m *model.GraphModel, registry *Registry, templateID string, opts ...Option) *Diagram {
	d := &Diagram{
		model:      m,
		registry:   registry,
		templateID: templateID,
		oracle:     layout.NewLayered(),
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
		parts:      make(map[int]*Part),
	}
	for _, opt := range opts {
		opt(d)
	}
	m.AddChangeListener(d.onModelChange)
	d.rebuild()
	return d
}

// Model returns the underlying graph model.
func (d *Diagram) Model() *model.GraphModel { return d.model }

// TemplateID returns the active template id.
func (d *Diagram) TemplateID() string { return d.templateID }

// PartForKey returns the node part backing the given key.
func (d *Diagram) PartForKey(key int) (*Part, bool) {
	p, ok := d.parts[key]
	return p, ok
}

// NodeParts returns the node parts in model order.
func (d *Diagram) NodeParts() []*Part {
	out := make([]*Part, 0, len(d.parts))
	for _, rec := range d.model.NodeDataArray() {
		if key, ok := rec.Key(); ok {
			if p, exists := d.parts[key]; exists {
				out = append(out, p)
			}
		}
	}
	return out
}

// LinkParts returns the link parts in model order.
func (d *Diagram) LinkParts() []*Part {
	out := make([]*Part, len(d.linkParts))
	copy(out, d.linkParts)
	return out
}

// SelectTemplate swaps the active template and forces a full rebuild from
// the current model. An unknown template id is a no-op: the current
// template stays active and a warning is logged.
func (d *Diagram) SelectTemplate(id string) {
	if _, ok := d.registry.Get(id); !ok {
		d.logger.Warn("unknown template id ignored", "template", id)
		return
	}
	if id == d.templateID {
		return
	}
	d.templateID = id
	d.rebuild()
}

// =============================================================================
// Change handling
// =============================================================================

func (d *Diagram) onModelChange(c model.Change) {
	switch c.Kind {
	case model.PropertyChanged:
		d.refreshPart(c.Record)
	case model.NodeInserted, model.NodeRemoved, model.LinkInserted, model.LinkRemoved, model.ModelReset:
		// Membership changed: rebuild structure and re-run the oracle.
		d.rebuild()
	}
}

// refreshPart re-evaluates bindings and re-arranges the part backing a
// record after a property change. Geometry of other parts is untouched;
// membership did not change, so the oracle is not consulted.
func (d *Diagram) refreshPart(rec model.Record) {
	key, ok := rec.Key()
	if !ok {
		return
	}
	p, exists := d.parts[key]
	if !exists || p.Root == nil {
		return
	}
	applied := p.Root.Refresh(rec)
	visual.Arrange(p.Root)
	observability.Diagram().OnBindingRefresh(context.Background(), applied)
}

// rebuild discards all parts and rebuilds them from the current model:
// template build, binding refresh, arrangement, then oracle positioning.
func (d *Diagram) rebuild() {
	start := time.Now()
	tmpl, hasTemplate := d.registry.Get(d.templateID)

	d.parts = make(map[int]*Part)
	for _, rec := range d.model.NodeDataArray() {
		key, ok := rec.Key()
		if !ok {
			continue
		}
		p := &Part{Record: rec}
		if hasTemplate {
			p.Root = tmpl.Build()
			applied := p.Root.Refresh(rec)
			visual.Arrange(p.Root)
			observability.Diagram().OnBindingRefresh(context.Background(), applied)
		}
		d.parts[key] = p
	}

	d.linkParts = d.linkParts[:0]
	for _, rec := range d.model.LinkDataArray() {
		from, _ := rec.From()
		to, _ := rec.To()
		d.linkParts = append(d.linkParts, &Part{Record: rec, IsLink: true, From: from, To: to})
	}

	d.position()
	observability.Diagram().OnRebuild(context.Background(), d.templateID, len(d.parts), time.Since(start))
}

// position runs the layout oracle over the current membership and applies
// the returned positions to the node parts.
func (d *Diagram) position() {
	start := time.Now()
	g := d.graph()
	positions := d.oracle.ComputeLayout(g)
	for key, p := range d.parts {
		p.Position = positions[key]
	}
	observability.Diagram().OnLayout(context.Background(), len(g.Nodes), len(g.Links), time.Since(start))
}

// graph projects the model onto the oracle's input topology.
func (d *Diagram) graph() layout.Graph {
	var g layout.Graph
	for _, rec := range d.model.NodeDataArray() {
		if key, ok := rec.Key(); ok {
			g.Nodes = append(g.Nodes, key)
		}
	}
	for _, rec := range d.model.LinkDataArray() {
		from, okFrom := rec.From()
		to, okTo := rec.To()
		if okFrom && okTo {
			g.Links = append(g.Links, [2]int{from, to})
		}
	}
	return g
}

// =============================================================================
// Edit API
// =============================================================================

// AddNode appends a new active node to the model inside its own
// transaction and returns the new record.
func (d *Diagram) AddNode() (model.Record, error) {
	tx, err := d.model.StartTransaction("add node")
	if err != nil {
		return nil, err
	}
	rec := model.Record{"name": "New Node", "status": "active"}
	if err := d.model.AddNodeData(rec); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// RemoveSelectedNode removes the selected node (cascading its links)
// inside a transaction. It is a no-op when nothing is selected or the
// selection is a link.
func (d *Diagram) RemoveSelectedNode() error {
	sel, ok := d.model.Selection().Primary()
	if !ok {
		return nil
	}
	if _, isNode := sel.Key(); !isNode {
		return nil
	}
	tx, err := d.model.StartTransaction("remove node")
	if err != nil {
		return err
	}
	if err := d.model.RemoveNodeData(sel); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ToggleStatus flips the selected node's status between "active" and
// "inactive" inside a transaction. No-op when nothing is selected.
func (d *Diagram) ToggleStatus() error {
	sel, ok := d.model.Selection().Primary()
	if !ok {
		return nil
	}
	if _, isNode := sel.Key(); !isNode {
		return nil
	}
	next := "active"
	if sel["status"] == "active" {
		next = "inactive"
	}
	tx, err := d.model.StartTransaction("toggle status")
	if err != nil {
		return err
	}
	if err := d.model.SetDataProperty(sel, "status", next); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// LogModelData logs and returns the model's records as indented JSON.
func (d *Diagram) LogModelData() string {
	data := map[string]any{
		"nodeDataArray": d.model.NodeDataArray(),
		"linkDataArray": d.model.LinkDataArray(),
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		d.logger.Error("marshal model data", "err", err)
		return ""
	}
	d.logger.Info("model data", "json", string(out))
	return string(out)
}

// LogSelectedPart logs and returns the selected record, or a placeholder
// when nothing is selected.
func (d *Diagram) LogSelectedPart() string {
	sel, ok := d.model.Selection().Primary()
	if !ok {
		d.logger.Info("no part selected")
		return "no selection"
	}
	out, err := json.Marshal(sel)
	if err != nil {
		d.logger.Error("marshal selection", "err", err)
		return ""
	}
	d.logger.Info("selected part", "json", string(out))
	return string(out)
}

// Undo reverts the most recent committed transaction.
func (d *Diagram) Undo() error { return d.model.Undo().Undo() }

// Redo re-applies the most recently undone transaction.
func (d *Diagram) Redo() error { return d.model.Undo().Redo() }

// String describes the diagram for logs.
func (d *Diagram) String() string {
	return fmt.Sprintf("diagram(template=%s nodes=%d links=%d)",
		d.templateID, len(d.parts), len(d.linkParts))
}
