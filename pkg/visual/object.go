// Package visual implements the display tree of a diagram part: shapes,
// text blocks, and panels that arrange children with pluggable layout
// strategies.
//
// Visual objects are derived state. They are built by a template function
// from a data record, their bound properties are refreshed whenever that
// record changes, and they are discarded and rebuilt when the record is
// removed or the template is swapped. Nothing in this package writes back
// to the model.
//
// # Building Trees
//
// Objects are assembled with chainable setters, so a template reads like
// the tree it produces:
//
//	visual.NewPanel(visual.LayoutAuto,
//	    visual.NewShape("rounded").WithFill("#90CAF9"),
//	    visual.NewTextBlock("").
//	        WithMargin(visual.UniformMargin(8)).
//	        Bind(binding.New("text", "name")),
//	).WithName("root")
package visual

import (
	"github.com/partboard/partboard/pkg/binding"
	"github.com/partboard/partboard/pkg/errors"
	"github.com/partboard/partboard/pkg/model"
)

// Kind discriminates the three visual object variants.
type Kind int

const (
	// KindShape is a geometric figure with fill and stroke.
	KindShape Kind = iota
	// KindText is a single line of text.
	KindText
	// KindPanel arranges child objects per a layout strategy.
	KindPanel
)

// LayoutKind selects a panel's arrangement strategy.
type LayoutKind int

const (
	// LayoutAuto sizes the first child (the background) to fit the
	// remaining children plus margins.
	LayoutAuto LayoutKind = iota
	// LayoutSpot positions each child independently by alignment spots.
	LayoutSpot
	// LayoutVertical stacks children top to bottom.
	LayoutVertical
	// LayoutHorizontal stacks children left to right.
	LayoutHorizontal
)

// Object is one element of the display tree. The Kind field determines
// which attributes are meaningful; the zero values of the rest are inert.
//
// Offset and Actual are computed by Arrange and are relative to the parent
// panel's top-left corner.
type Object struct {
	Kind Kind
	Name string

	// Geometry
	DesiredSize Size // zero means size-to-content
	Margin      Margin

	// Appearance
	Fill        string
	Stroke      string
	StrokeWidth float64

	// Shape
	Figure string // "rectangle", "rounded", "ellipse"

	// Text
	Text     string
	FontSize float64

	// Panel
	Children         []*Object
	Layout           LayoutKind
	DefaultAlignment Spot
	Padding          Margin // interior inset between an auto panel's background and its content

	// Per-child placement within spot panels and stacks. The Set flags
	// distinguish "explicitly top-left" from "unset, use the default".
	Alignment         Spot
	AlignmentSet      bool
	AlignmentFocus    Spot
	AlignmentFocusSet bool

	// Bindings declared on this object.
	Bindings []binding.Binding

	// Computed by Arrange.
	Offset Point
	Actual Size
}

// NewShape creates a shape object with the given figure and a default
// stroke.
func NewShape(figure string) *Object {
	return &Object{Kind: KindShape, Figure: figure, Fill: "white", Stroke: "black", StrokeWidth: 1}
}

// NewTextBlock creates a text object with the default font size.
func NewTextBlock(text string) *Object {
	return &Object{Kind: KindText, Text: text, FontSize: defaultFontSize, Stroke: "black"}
}

// NewPanel creates a panel with the given layout strategy and children.
// Stacked children align to the panel center unless overridden.
func NewPanel(layout LayoutKind, children ...*Object) *Object {
	return &Object{Kind: KindPanel, Layout: layout, Children: children, DefaultAlignment: SpotCenter}
}

// =============================================================================
// Chainable setters
// =============================================================================

// WithName names the object for later lookup with FindByName.
func (o *Object) WithName(name string) *Object { o.Name = name; return o }

// WithFill sets the fill color.
func (o *Object) WithFill(fill string) *Object { o.Fill = fill; return o }

// WithStroke sets the stroke color and width.
func (o *Object) WithStroke(stroke string, width float64) *Object {
	o.Stroke = stroke
	o.StrokeWidth = width
	return o
}

// WithDesiredSize fixes the object's size instead of sizing to content.
func (o *Object) WithDesiredSize(w, h float64) *Object {
	o.DesiredSize = Size{w, h}
	return o
}

// WithMargin sets the spacing around the object.
func (o *Object) WithMargin(m Margin) *Object { o.Margin = m; return o }

// WithPadding sets the interior inset of an auto panel.
func (o *Object) WithPadding(m Margin) *Object { o.Padding = m; return o }

// WithFontSize sets the text font size.
func (o *Object) WithFontSize(size float64) *Object { o.FontSize = size; return o }

// WithDefaultAlignment sets the cross-axis alignment for a stack panel's
// children that carry no explicit alignment.
func (o *Object) WithDefaultAlignment(s Spot) *Object { o.DefaultAlignment = s; return o }

// WithAlignment anchors the object at a spot of its parent panel.
func (o *Object) WithAlignment(s Spot) *Object {
	o.Alignment = s
	o.AlignmentSet = true
	return o
}

// WithAlignmentFocus selects which point of the object sits on the
// alignment anchor.
func (o *Object) WithAlignmentFocus(s Spot) *Object {
	o.AlignmentFocus = s
	o.AlignmentFocusSet = true
	return o
}

// Bind declares a data binding on the object.
func (o *Object) Bind(b binding.Binding) *Object {
	o.Bindings = append(o.Bindings, b)
	return o
}

// =============================================================================
// Tree operations
// =============================================================================

// FindByName returns the first object in the subtree (pre-order) with the
// given name.
func (o *Object) FindByName(name string) (*Object, bool) {
	if o.Name == name {
		return o, true
	}
	for _, c := range o.Children {
		if found, ok := c.FindByName(name); ok {
			return found, true
		}
	}
	return nil, false
}

// Walk visits the subtree in pre-order. Returning false from fn stops the
// walk.
func (o *Object) Walk(fn func(*Object) bool) bool {
	if !fn(o) {
		return false
	}
	for _, c := range o.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Refresh evaluates every binding in the subtree against the record and
// returns the number of properties applied. Binding failures are swallowed
// per binding; see the binding package.
func (o *Object) Refresh(rec model.Record) int {
	applied := 0
	o.Walk(func(obj *Object) bool {
		applied += binding.Refresh(obj, obj.Bindings, rec)
		return true
	})
	return applied
}

// SetProperty implements [binding.Target]. Property names mirror the
// chainable setters; unknown names and mismatched types return
// ErrCodeInvalidInput so the binding engine can skip them.
func (o *Object) SetProperty(name string, value any) error {
	switch name {
	case "fill":
		s, ok := value.(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "fill wants string, got %T", value)
		}
		o.Fill = s
	case "stroke":
		s, ok := value.(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "stroke wants string, got %T", value)
		}
		o.Stroke = s
	case "strokeWidth":
		f, ok := toFloat(value)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "strokeWidth wants number, got %T", value)
		}
		o.StrokeWidth = f
	case "text":
		s, ok := value.(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "text wants string, got %T", value)
		}
		o.Text = s
	case "figure":
		s, ok := value.(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "figure wants string, got %T", value)
		}
		o.Figure = s
	case "fontSize":
		f, ok := toFloat(value)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "fontSize wants number, got %T", value)
		}
		o.FontSize = f
	case "width":
		f, ok := toFloat(value)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "width wants number, got %T", value)
		}
		o.DesiredSize.W = f
	case "height":
		f, ok := toFloat(value)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "height wants number, got %T", value)
		}
		o.DesiredSize.H = f
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown property %q", name)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
