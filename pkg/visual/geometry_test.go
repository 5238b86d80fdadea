package visual

import (
	"math"
	"testing"
)

func TestSpotPointIn(t *testing.T) {
	sz := Size{60, 40}
	tests := []struct {
		name string
		spot Spot
		want Point
	}{
		{name: "top-left", spot: SpotTopLeft, want: Point{0, 0}},
		{name: "center", spot: SpotCenter, want: Point{30, 20}},
		{name: "top-right", spot: SpotTopRight, want: Point{60, 0}},
		{name: "bottom", spot: SpotBottom, want: Point{30, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spot.PointIn(sz); got != tt.want {
				t.Errorf("PointIn(%v) = %v, want %v", sz, got, tt.want)
			}
		})
	}
}

func TestMarginTotals(t *testing.T) {
	m := Margin{Top: 1, Right: 2, Bottom: 3, Left: 4}
	if got := m.Horizontal(); got != 6 {
		t.Errorf("Horizontal() = %v, want 6", got)
	}
	if got := m.Vertical(); got != 4 {
		t.Errorf("Vertical() = %v, want 4", got)
	}
	if u := UniformMargin(8); u.Horizontal() != 16 || u.Vertical() != 16 {
		t.Errorf("UniformMargin(8) totals = %v/%v, want 16/16", u.Horizontal(), u.Vertical())
	}
}

func TestSizeUnion(t *testing.T) {
	got := Size{10, 40}.Union(Size{30, 20})
	if got != (Size{30, 40}) {
		t.Errorf("Union = %v, want {30 40}", got)
	}
}

// near compares floats with a tolerance; the measurement math multiplies
// float64 values at runtime, so exact comparison against folded constants
// is too strict.
func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeasureText(t *testing.T) {
	got := MeasureText("Alpha", 12)
	want := Size{W: 5 * 12 * fontCharWidth, H: 12 * fontLineHeight}
	if !near(got.W, want.W) || !near(got.H, want.H) {
		t.Errorf("MeasureText = %v, want %v", got, want)
	}

	// Zero font size falls back to the default.
	fallback := MeasureText("x", 0)
	if !near(fallback.H, defaultFontSize*fontLineHeight) {
		t.Errorf("fallback height = %v", fallback.H)
	}
}
