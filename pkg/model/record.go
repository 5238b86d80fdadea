package model

import (
	"maps"
	"reflect"
)

// Well-known record fields. Node records carry KeyField; link records carry
// FromField and ToField. All other fields are passed through opaquely.
const (
	KeyField  = "key"
	FromField = "from"
	ToField   = "to"
)

// Record is the data item backing one node or one link. Fields map names to
// arbitrary values. Identity is by key, not by map reference: two Record
// values with the same key refer to the same node.
//
// Records must only be mutated through [GraphModel.SetDataProperty] so that
// changes stay observable and undoable. Direct writes bypass change
// notification and the undo manager.
type Record map[string]any

// Key returns the node key, normalizing common numeric representations
// (int, int64, float64 from JSON decoding). The second return value is
// false if the record has no usable key.
func (r Record) Key() (int, bool) {
	return intField(r, KeyField)
}

// From returns the source node key of a link record.
func (r Record) From() (int, bool) {
	return intField(r, FromField)
}

// To returns the target node key of a link record.
func (r Record) To() (int, bool) {
	return intField(r, ToField)
}

func intField(r Record, field string) (int, bool) {
	switch v := r[field].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// Clone returns a shallow copy of the record. Field values are shared, which
// is safe for the primitive values the model stores; nested mutable values
// should be treated as immutable by callers.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// equalValues reports whether two field values are equal for the purposes of
// change detection. Primitives compare structurally; composite values fall
// back to reflect.DeepEqual, so replacing a slice with an equal slice is
// treated as no change.
func equalValues(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	return reflect.DeepEqual(a, b)
}
