// Package model implements the authoritative graph model behind a diagram:
// ordered node and link records, undoable transactions, and selection state.
//
// The model is the single source of truth for what exists in a diagram.
// Visual objects are derived from records and rebuilt when records change;
// they never own data of their own.
//
// # Mutation Rules
//
// All mutations go through GraphModel methods. Structural violations
// (duplicate keys, unknown records) fail fast and leave the model unchanged.
// Unresolved link endpoints are a soft violation: the link is kept, a
// warning is logged, and renderers draw it unattached.
//
// Wrap related edits in a transaction to make them undoable as one step:
//
//	tx, err := m.StartTransaction("toggle status")
//	if err != nil {
//	    return err
//	}
//	m.SetDataProperty(rec, "status", "inactive")
//	tx.Commit()
//
// # Concurrency
//
// GraphModel is not safe for concurrent use without external
// synchronization. All operations execute synchronously on the calling
// goroutine; change listeners run inline on the mutating call.
package model

import (
	"io"
	"reflect"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/partboard/partboard/pkg/errors"
)

// GraphModel holds the ordered node and link records of one diagram.
//
// The zero value is not usable - use New to create a valid instance.
type GraphModel struct {
	nodes []Record
	links []Record
	byKey map[int]Record

	nextKey   int
	undo      *UndoManager
	selection *Selection
	listeners []Listener
	logger    *log.Logger
}

// New creates an empty graph model with a discarding logger.
func New() *GraphModel {
	m := &GraphModel{
		byKey:   make(map[int]Record),
		nextKey: 1,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	m.undo = newUndoManager(m)
	m.selection = newSelection(m)
	return m
}

// SetLogger replaces the model's logger. Passing nil restores the
// discarding default.
func (m *GraphModel) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.NewWithOptions(io.Discard, log.Options{})
	}
	m.logger = l
}

// Undo returns the model's undo manager.
func (m *GraphModel) Undo() *UndoManager { return m.undo }

// Selection returns the model's selection state.
func (m *GraphModel) Selection() *Selection { return m.selection }

// =============================================================================
// Accessors
// =============================================================================

// NodeDataArray returns the node records in insertion order.
// The slice is a copy; the records are the live model records.
func (m *GraphModel) NodeDataArray() []Record { return slices.Clone(m.nodes) }

// LinkDataArray returns the link records in insertion order.
// The slice is a copy; the records are the live model records.
func (m *GraphModel) LinkDataArray() []Record { return slices.Clone(m.links) }

// NodeCount returns the number of node records.
func (m *GraphModel) NodeCount() int { return len(m.nodes) }

// LinkCount returns the number of link records.
func (m *GraphModel) LinkCount() int { return len(m.links) }

// FindNodeForKey returns the node record with the given key.
func (m *GraphModel) FindNodeForKey(key int) (Record, bool) {
	r, ok := m.byKey[key]
	return r, ok
}

// LinksConnectedTo returns every link record whose from or to endpoint
// references the given node key.
func (m *GraphModel) LinksConnectedTo(key int) []Record {
	var out []Record
	for _, l := range m.links {
		if from, ok := l.From(); ok && from == key {
			out = append(out, l)
			continue
		}
		if to, ok := l.To(); ok && to == key {
			out = append(out, l)
		}
	}
	return out
}

// ContainsLink reports whether rec is one of the model's link records.
// Link records have no unique key, so membership is by underlying map
// identity rather than by value.
func (m *GraphModel) ContainsLink(rec Record) bool {
	return slices.ContainsFunc(m.links, func(l Record) bool { return sameRecord(l, rec) })
}

// sameRecord reports whether two records share the same underlying map.
func sameRecord(a, b Record) bool {
	if a == nil || b == nil {
		return false
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// =============================================================================
// Mutations
// =============================================================================

// AddNodeData appends a node record to the model. If the record has no key,
// a fresh unique key is assigned. Returns ErrCodeDuplicateKey if the key is
// already in use; the model is left unchanged.
func (m *GraphModel) AddNodeData(rec Record) error {
	if rec == nil {
		return errors.New(errors.ErrCodeInvalidRecord, "node record must not be nil")
	}
	key, ok := rec.Key()
	if !ok {
		key = m.assignKey()
		rec[KeyField] = key
	} else if _, exists := m.byKey[key]; exists {
		return errors.New(errors.ErrCodeDuplicateKey, "node key %d already exists", key)
	}
	if key >= m.nextKey {
		m.nextKey = key + 1
	}
	m.insertNode(rec, len(m.nodes))
	m.record(edit{kind: editAddNode, record: rec, index: len(m.nodes) - 1})
	return nil
}

// RemoveNodeData removes a node record and cascades removal of every link
// referencing its key. Returns ErrCodeUnknownRecord if the node is not in
// the model; the model is left unchanged.
func (m *GraphModel) RemoveNodeData(rec Record) error {
	key, ok := rec.Key()
	if !ok {
		return errors.New(errors.ErrCodeInvalidRecord, "node record has no key")
	}
	stored, ok := m.byKey[key]
	if !ok {
		return errors.New(errors.ErrCodeUnknownRecord, "no node with key %d", key)
	}

	// Dependent links go first so that undo reinserts the node before them.
	for _, l := range m.LinksConnectedTo(key) {
		idx := slices.IndexFunc(m.links, func(r Record) bool { return sameRecord(r, l) })
		m.deleteLink(idx)
		m.record(edit{kind: editRemoveLink, record: l, index: idx})
	}

	idx := slices.IndexFunc(m.nodes, func(r Record) bool { return sameRecord(r, stored) })
	m.deleteNode(idx)
	m.record(edit{kind: editRemoveNode, record: stored, index: idx})
	return nil
}

// AddLinkData appends a link record. Endpoints referencing unknown node keys
// are a soft violation: the link is added anyway and a warning is logged.
func (m *GraphModel) AddLinkData(rec Record) error {
	if rec == nil {
		return errors.New(errors.ErrCodeInvalidRecord, "link record must not be nil")
	}
	m.warnUnresolved(rec)
	m.insertLink(rec, len(m.links))
	m.record(edit{kind: editAddLink, record: rec, index: len(m.links) - 1})
	return nil
}

// RemoveLinkData removes a link record. Returns ErrCodeUnknownRecord if the
// link is not in the model.
func (m *GraphModel) RemoveLinkData(rec Record) error {
	idx := slices.IndexFunc(m.links, func(r Record) bool { return sameRecord(r, rec) })
	if idx < 0 {
		return errors.New(errors.ErrCodeUnknownRecord, "link record is not in the model")
	}
	stored := m.links[idx]
	m.deleteLink(idx)
	m.record(edit{kind: editRemoveLink, record: stored, index: idx})
	return nil
}

// SetDataProperty sets a field on a record owned by the model and notifies
// listeners. Node records are resolved by key, so callers may pass a copy;
// link records must be the model's own record.
//
// Setting a field to a value equal to the current one is a no-op for
// listeners (no refresh is triggered) but is still appended to an open
// transaction, mirroring the edit history of the call sequence. Equality is
// structural, so composite values compare by content, not identity.
func (m *GraphModel) SetDataProperty(rec Record, field string, value any) error {
	target, err := m.resolve(rec)
	if err != nil {
		return err
	}

	old, had := target[field]
	changed := !had || !equalValues(old, value)
	m.record(edit{kind: editSetProperty, record: target, field: field, old: old, oldPresent: had, new: value})
	if !changed {
		return nil
	}

	target[field] = value
	m.notify(Change{Kind: PropertyChanged, Record: target, Field: field, Old: old, New: value})
	return nil
}

// ReplaceModel swaps the entire node and link record sets, clears the undo
// history and the selection, and fires a single ModelReset change.
// Returns ErrCodeDuplicateKey if the node set contains a repeated key; the
// model is left unchanged.
func (m *GraphModel) ReplaceModel(nodes, links []Record) error {
	byKey := make(map[int]Record, len(nodes))
	next := 1
	for _, n := range nodes {
		key, ok := n.Key()
		if !ok {
			return errors.New(errors.ErrCodeInvalidRecord, "node record has no key")
		}
		if _, dup := byKey[key]; dup {
			return errors.New(errors.ErrCodeDuplicateKey, "node key %d appears twice", key)
		}
		byKey[key] = n
		if key >= next {
			next = key + 1
		}
	}

	m.nodes = slices.Clone(nodes)
	m.links = slices.Clone(links)
	m.byKey = byKey
	m.nextKey = next
	for _, l := range m.links {
		m.warnUnresolved(l)
	}
	m.undo.Clear()
	m.selection.Clear()
	m.notify(Change{Kind: ModelReset})
	return nil
}

// =============================================================================
// Internals
// =============================================================================

// resolve maps a caller-supplied record to the model's own record.
func (m *GraphModel) resolve(rec Record) (Record, error) {
	if rec == nil {
		return nil, errors.New(errors.ErrCodeInvalidRecord, "record must not be nil")
	}
	if key, ok := rec.Key(); ok {
		stored, exists := m.byKey[key]
		if !exists {
			return nil, errors.New(errors.ErrCodeUnknownRecord, "no node with key %d", key)
		}
		return stored, nil
	}
	if m.ContainsLink(rec) {
		return rec, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownRecord, "record is not in the model")
}

func (m *GraphModel) assignKey() int {
	k := m.nextKey
	m.nextKey++
	return k
}

func (m *GraphModel) warnUnresolved(l Record) {
	from, fromOK := l.From()
	to, toOK := l.To()
	if !fromOK || !toOK {
		m.logger.Warn("link record missing endpoint field", "record", l)
		return
	}
	if _, ok := m.byKey[from]; !ok {
		m.logger.Warn("link references unknown node; it will render unattached",
			"code", errors.ErrCodeUnresolvedLink, "endpoint", from)
	}
	if _, ok := m.byKey[to]; !ok {
		m.logger.Warn("link references unknown node; it will render unattached",
			"code", errors.ErrCodeUnresolvedLink, "endpoint", to)
	}
}

// insertNode, deleteNode, insertLink and deleteLink apply structural changes
// and notify listeners. They do not touch the undo manager; callers record
// edits themselves, and undo/redo replays through these same paths.

func (m *GraphModel) insertNode(rec Record, idx int) {
	m.nodes = slices.Insert(m.nodes, idx, rec)
	if key, ok := rec.Key(); ok {
		m.byKey[key] = rec
	}
	m.notify(Change{Kind: NodeInserted, Record: rec})
}

func (m *GraphModel) deleteNode(idx int) {
	rec := m.nodes[idx]
	m.nodes = slices.Delete(m.nodes, idx, idx+1)
	if key, ok := rec.Key(); ok {
		delete(m.byKey, key)
	}
	if sel, ok := m.selection.Primary(); ok && sameRecord(sel, rec) {
		m.selection.Clear()
	}
	m.notify(Change{Kind: NodeRemoved, Record: rec})
}

func (m *GraphModel) insertLink(rec Record, idx int) {
	m.links = slices.Insert(m.links, idx, rec)
	m.notify(Change{Kind: LinkInserted, Record: rec})
}

func (m *GraphModel) deleteLink(idx int) {
	rec := m.links[idx]
	m.links = slices.Delete(m.links, idx, idx+1)
	if sel, ok := m.selection.Primary(); ok && sameRecord(sel, rec) {
		m.selection.Clear()
	}
	m.notify(Change{Kind: LinkRemoved, Record: rec})
}

func (m *GraphModel) record(e edit) {
	m.undo.recordEdit(e)
}
