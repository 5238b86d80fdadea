package model

import (
	"context"
	"slices"

	"github.com/partboard/partboard/pkg/errors"
	"github.com/partboard/partboard/pkg/observability"
)

// editKind identifies one atomic, reversible model edit.
type editKind int

const (
	editAddNode editKind = iota
	editRemoveNode
	editAddLink
	editRemoveLink
	editSetProperty
)

// edit is a reversible descriptor of one atomic model mutation. Structural
// edits remember the record's slice index so that undo restores the original
// ordering.
type edit struct {
	kind   editKind
	record Record
	index  int

	// Property edits only.
	field      string
	old        any
	oldPresent bool
	new        any
}

// undo applies the inverse of the edit.
func (e edit) undo(m *GraphModel) {
	switch e.kind {
	case editAddNode:
		m.deleteNode(e.index)
	case editRemoveNode:
		m.insertNode(e.record, e.index)
	case editAddLink:
		m.deleteLink(e.index)
	case editRemoveLink:
		m.insertLink(e.record, e.index)
	case editSetProperty:
		m.applyProperty(e.record, e.field, e.old, e.oldPresent)
	}
}

// redo re-applies the edit.
func (e edit) redo(m *GraphModel) {
	switch e.kind {
	case editAddNode:
		m.insertNode(e.record, e.index)
	case editRemoveNode:
		m.deleteNode(e.index)
	case editAddLink:
		m.insertLink(e.record, e.index)
	case editRemoveLink:
		m.deleteLink(e.index)
	case editSetProperty:
		m.applyProperty(e.record, e.field, e.new, true)
	}
}

// applyProperty writes a field during undo/redo replay. It notifies
// listeners like SetDataProperty but never records new edits.
func (m *GraphModel) applyProperty(rec Record, field string, value any, present bool) {
	old, had := rec[field]
	if present {
		rec[field] = value
	} else {
		delete(rec, field)
	}
	if had != present || !equalValues(old, value) {
		m.notify(Change{Kind: PropertyChanged, Record: rec, Field: field, Old: old, New: value})
	}
}

// =============================================================================
// Transactions
// =============================================================================

// Transaction is an explicit handle for a group of model edits undoable as
// one unit. Obtain one from [GraphModel.StartTransaction]; finish it with
// Commit or Rollback. A transaction handle is single-use.
type Transaction struct {
	name   string
	mgr    *UndoManager
	edits  []edit
	closed bool
}

// Name returns the label given to StartTransaction.
func (t *Transaction) Name() string { return t.name }

// Commit closes the transaction and pushes it onto the undo stack.
// Committing clears the redo stack (linear history, no branching).
// Returns ErrCodeNotRecording if the transaction was already closed.
func (t *Transaction) Commit() error {
	if t.closed || t.mgr.recording != t {
		return errors.New(errors.ErrCodeNotRecording, "transaction %q is not recording", t.name)
	}
	t.closed = true
	t.mgr.recording = nil
	if len(t.edits) == 0 {
		t.mgr.model.logger.Debug("empty transaction discarded", "name", t.name)
		return nil
	}
	t.mgr.undoStack = append(t.mgr.undoStack, t)
	t.mgr.redoStack = nil
	t.mgr.model.logger.Debug("transaction committed", "name", t.name, "edits", len(t.edits))
	observability.Model().OnTransactionCommit(context.Background(), t.name, len(t.edits))
	return nil
}

// Rollback closes the transaction and reverts its buffered edits in reverse
// order. Nothing is pushed onto the undo stack.
// Returns ErrCodeNotRecording if the transaction was already closed.
func (t *Transaction) Rollback() error {
	if t.closed || t.mgr.recording != t {
		return errors.New(errors.ErrCodeNotRecording, "transaction %q is not recording", t.name)
	}
	t.closed = true
	t.mgr.recording = nil
	for _, e := range slices.Backward(t.edits) {
		e.undo(t.mgr.model)
	}
	t.mgr.model.logger.Debug("transaction rolled back", "name", t.name, "edits", len(t.edits))
	return nil
}

// =============================================================================
// UndoManager
// =============================================================================

// UndoManager records committed transactions and replays them. At most one
// transaction may be recording at a time per model; StartTransaction fails
// rather than nesting.
type UndoManager struct {
	model     *GraphModel
	recording *Transaction
	undoStack []*Transaction
	redoStack []*Transaction
}

func newUndoManager(m *GraphModel) *UndoManager {
	return &UndoManager{model: m}
}

// StartTransaction opens a new transaction with a descriptive name.
// Returns ErrCodeAlreadyRecording if another transaction is open.
func (m *GraphModel) StartTransaction(name string) (*Transaction, error) {
	u := m.undo
	if u.recording != nil {
		return nil, errors.New(errors.ErrCodeAlreadyRecording,
			"transaction %q is already recording", u.recording.name)
	}
	u.recording = &Transaction{name: name, mgr: u}
	return u.recording, nil
}

// IsRecording reports whether a transaction is currently open.
func (u *UndoManager) IsRecording() bool { return u.recording != nil }

// CanUndo reports whether there is a committed transaction to undo.
func (u *UndoManager) CanUndo() bool { return len(u.undoStack) > 0 && u.recording == nil }

// CanRedo reports whether there is an undone transaction to redo.
func (u *UndoManager) CanRedo() bool { return len(u.redoStack) > 0 && u.recording == nil }

// Undo reverts the most recently committed transaction, applying its inverse
// edits in reverse order, and moves it to the redo stack.
// Returns ErrCodeNothingToUndo if the undo stack is empty and
// ErrCodeAlreadyRecording if a transaction is open.
func (u *UndoManager) Undo() error {
	if u.recording != nil {
		return errors.New(errors.ErrCodeAlreadyRecording, "cannot undo while recording")
	}
	if len(u.undoStack) == 0 {
		return errors.New(errors.ErrCodeNothingToUndo, "undo stack is empty")
	}
	t := u.undoStack[len(u.undoStack)-1]
	u.undoStack = u.undoStack[:len(u.undoStack)-1]
	for _, e := range slices.Backward(t.edits) {
		e.undo(u.model)
	}
	u.redoStack = append(u.redoStack, t)
	u.model.logger.Debug("undone", "name", t.name)
	observability.Model().OnUndo(context.Background(), t.name)
	return nil
}

// Redo re-applies the most recently undone transaction and moves it back to
// the undo stack. Returns ErrCodeNothingToRedo if the redo stack is empty
// and ErrCodeAlreadyRecording if a transaction is open.
func (u *UndoManager) Redo() error {
	if u.recording != nil {
		return errors.New(errors.ErrCodeAlreadyRecording, "cannot redo while recording")
	}
	if len(u.redoStack) == 0 {
		return errors.New(errors.ErrCodeNothingToRedo, "redo stack is empty")
	}
	t := u.redoStack[len(u.redoStack)-1]
	u.redoStack = u.redoStack[:len(u.redoStack)-1]
	for _, e := range t.edits {
		e.redo(u.model)
	}
	u.undoStack = append(u.undoStack, t)
	u.model.logger.Debug("redone", "name", t.name)
	observability.Model().OnRedo(context.Background(), t.name)
	return nil
}

// Clear drops all history and any open transaction. Called on model reset.
func (u *UndoManager) Clear() {
	u.recording = nil
	u.undoStack = nil
	u.redoStack = nil
}

// recordEdit appends an edit to the open transaction, if any.
func (u *UndoManager) recordEdit(e edit) {
	if u.recording != nil {
		u.recording.edits = append(u.recording.edits, e)
	}
}
