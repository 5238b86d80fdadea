package visual

import "unicode/utf8"

// Font metrics for intrinsic text sizing. Text is measured with a
// fixed-ratio character model rather than real font metrics; SVG output
// uses the same ratios, so labels fit the boxes they are measured for.
const (
	defaultFontSize  = 12.0
	fontCharWidth    = 0.55 // advance width as a fraction of font size
	fontLineHeight   = 1.4  // line height as a fraction of font size
	defaultShapeSide = 40.0 // fallback square for shapes without a size
)

// MeasureText returns the intrinsic size of a single line of text at the
// given font size.
func MeasureText(text string, fontSize float64) Size {
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	n := utf8.RuneCountInString(text)
	return Size{
		W: float64(n) * fontSize * fontCharWidth,
		H: fontSize * fontLineHeight,
	}
}

// measure computes the intrinsic size of an object before placement. An
// explicit DesiredSize always wins. Panels must be arranged before their
// measure is meaningful; Arrange handles that ordering.
func (o *Object) measure() Size {
	if !o.DesiredSize.IsZero() {
		return o.DesiredSize
	}
	switch o.Kind {
	case KindText:
		return MeasureText(o.Text, o.FontSize)
	case KindShape:
		return Size{defaultShapeSide, defaultShapeSide}
	case KindPanel:
		// Actual was filled in by arranging the subtree.
		return o.Actual
	default:
		return Size{}
	}
}
