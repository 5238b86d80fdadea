package model

// Selection tracks the zero-or-one primary selected record of a diagram
// instance. The selected record may be a node or a link. Selection is
// cleared when the selected record is removed or the model is reset.
type Selection struct {
	model     *GraphModel
	primary   Record
	listeners []func(Record)
}

func newSelection(m *GraphModel) *Selection {
	return &Selection{model: m}
}

// Primary returns the currently selected record.
func (s *Selection) Primary() (Record, bool) {
	return s.primary, s.primary != nil
}

// Select replaces the primary selection and fires a selection-changed
// notification. Selecting the already-selected record is a no-op.
func (s *Selection) Select(rec Record) {
	if sameRecord(s.primary, rec) {
		return
	}
	s.primary = rec
	s.changed()
}

// Clear empties the selection and notifies listeners if it was non-empty.
func (s *Selection) Clear() {
	if s.primary == nil {
		return
	}
	s.primary = nil
	s.changed()
}

// OnChanged registers a listener for selection changes. The listener
// receives the new primary record, or nil when the selection was cleared.
func (s *Selection) OnChanged(fn func(Record)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Selection) changed() {
	s.model.logger.Debug("selection changed", "record", s.primary)
	for _, fn := range s.listeners {
		fn(s.primary)
	}
}
