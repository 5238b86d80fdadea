package model

// ChangeKind identifies the type of a model change notification.
type ChangeKind int

const (
	// NodeInserted fires after a node record is appended to the model.
	NodeInserted ChangeKind = iota
	// NodeRemoved fires after a node record (and its dependent links) is removed.
	NodeRemoved
	// LinkInserted fires after a link record is appended to the model.
	LinkInserted
	// LinkRemoved fires after a link record is removed.
	LinkRemoved
	// PropertyChanged fires after SetDataProperty changes a field's value.
	// It does not fire when the new value equals the current one.
	PropertyChanged
	// ModelReset fires after the whole node/link set is replaced.
	ModelReset
)

// String returns the change kind name for logging.
func (k ChangeKind) String() string {
	switch k {
	case NodeInserted:
		return "node-inserted"
	case NodeRemoved:
		return "node-removed"
	case LinkInserted:
		return "link-inserted"
	case LinkRemoved:
		return "link-removed"
	case PropertyChanged:
		return "property-changed"
	case ModelReset:
		return "model-reset"
	default:
		return "unknown"
	}
}

// Change describes a single model mutation delivered to listeners.
type Change struct {
	Kind   ChangeKind
	Record Record // The affected record; nil for ModelReset.
	Field  string // Set for PropertyChanged.
	Old    any    // Previous field value for PropertyChanged.
	New    any    // New field value for PropertyChanged.
}

// Listener receives change notifications. Listeners run synchronously on the
// mutating call and must not mutate the model re-entrantly.
type Listener func(Change)

// AddChangeListener registers a listener for all subsequent model changes.
// Listeners cannot be removed; create a new model to drop them.
func (m *GraphModel) AddChangeListener(l Listener) {
	m.listeners = append(m.listeners, l)
}

func (m *GraphModel) notify(c Change) {
	m.logger.Debug("model change", "kind", c.Kind.String(), "field", c.Field)
	for _, l := range m.listeners {
		l(c)
	}
}
