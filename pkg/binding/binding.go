// Package binding implements one-directional data→view property bindings.
//
// A binding maps a record field to a named property on a visual object,
// optionally through a pure conversion function. Bindings are declared when
// a template is defined and evaluated whenever the owning record changes or
// a visual object is first attached to a record. They never write back to
// the record.
//
// # Failure Policy
//
// Binding evaluation is null-safe and isolated per binding: a missing
// source field leaves the target property at its current value, a converter
// panic is recovered and skipped, and a rejected property write is ignored.
// One bad binding never aborts the refresh of its siblings.
package binding

import (
	"github.com/partboard/partboard/pkg/model"
)

// Converter transforms a record field value into a property value. It must
// be a pure function; it is re-invoked on every refresh.
type Converter func(any) any

// Binding is a declarative link from a record field to an object property.
type Binding struct {
	Target string    // property name on the visual object
	Source string    // field name on the record
	Conv   Converter // optional conversion, nil applies the raw value
}

// New declares a binding from a record field to a target property.
func New(target, source string) Binding {
	return Binding{Target: target, Source: source}
}

// WithConverter returns a copy of the binding that applies fn to the field
// value before assignment.
func (b Binding) WithConverter(fn Converter) Binding {
	b.Conv = fn
	return b
}

// Target is the write interface bindings need from a visual object.
// SetProperty returns an error for unknown properties or mismatched types;
// the engine treats that as a skipped binding.
type Target interface {
	SetProperty(name string, value any) error
}

// Refresh evaluates bindings against a record and applies the results to
// the target object. It returns the number of properties actually applied.
// Evaluation failures are swallowed per binding, so the visual tree and the
// model can never be left partially out of sync by a bad converter.
func Refresh(obj Target, bindings []Binding, rec model.Record) int {
	applied := 0
	for _, b := range bindings {
		if apply(obj, b, rec) {
			applied++
		}
	}
	return applied
}

func apply(obj Target, b Binding, rec model.Record) (ok bool) {
	value, present := rec[b.Source]
	if !present {
		return false
	}
	if b.Conv != nil {
		defer func() {
			// A panicking converter skips this binding only.
			if recover() != nil {
				ok = false
			}
		}()
		value = b.Conv(value)
	}
	return obj.SetProperty(b.Target, value) == nil
}
