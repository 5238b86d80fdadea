package template

// EventKind identifies a pointer event delivered to a part.
type EventKind int

const (
	// EventClick fires on a pointer press over a part.
	EventClick EventKind = iota
	// EventEnter fires when the pointer moves onto a part.
	EventEnter
	// EventLeave fires when the pointer moves off a part.
	EventLeave
)

// String returns the event kind name for logging.
func (k EventKind) String() string {
	switch k {
	case EventClick:
		return "click"
	case EventEnter:
		return "enter"
	case EventLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// PointerEvent is delivered to template handlers. Target is the name of
// the visual object under the pointer, or empty for the part as a whole.
type PointerEvent struct {
	Kind   EventKind
	Target string
	Part   *Part
}

// Handler receives a pointer event and the owning part. Handlers may read
// the record but must mutate it only through GraphModel operations so that
// changes stay undoable.
type Handler func(ev PointerEvent)

// DispatchPointer routes a pointer event to the active template's
// handlers. The handler declared for the named target object wins; when
// the target declares none, the handler declared for the whole part (the
// empty name) is used. A click additionally makes the part the primary
// selection before the handler runs.
//
// Events for unknown node keys are dropped.
func (d *Diagram) DispatchPointer(kind EventKind, key int, target string) {
	p, ok := d.parts[key]
	if !ok {
		return
	}
	if kind == EventClick {
		d.model.Selection().Select(p.Record)
	}

	tmpl, ok := d.registry.Get(d.templateID)
	if !ok {
		return
	}
	h := pickHandler(tmpl, kind, target)
	if h == nil {
		return
	}
	d.logger.Debug("pointer event", "kind", kind.String(), "key", key, "target", target)
	h(PointerEvent{Kind: kind, Target: target, Part: p})
}

// pickHandler resolves the handler for an event, preferring the subtree
// that declared it over the part-level fallback.
func pickHandler(t Template, kind EventKind, target string) Handler {
	if target != "" {
		if h := handlerFor(t.Handlers[target], kind); h != nil {
			return h
		}
	}
	return handlerFor(t.Handlers[""], kind)
}

func handlerFor(set HandlerSet, kind EventKind) Handler {
	switch kind {
	case EventClick:
		return set.Click
	case EventEnter:
		return set.Enter
	case EventLeave:
		return set.Leave
	default:
		return nil
	}
}
