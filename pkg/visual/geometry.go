package visual

// Point is a position in diagram coordinates. The origin is the top-left
// corner; X grows rightward and Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the component-wise sum of two points.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Size is a width/height pair in diagram units.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// IsZero reports whether both dimensions are zero, meaning "no explicit
// size" for desired-size fields.
func (s Size) IsZero() bool { return s.W == 0 && s.H == 0 }

// Union returns the smallest size covering both s and t.
func (s Size) Union(t Size) Size {
	return Size{max(s.W, t.W), max(s.H, t.H)}
}

// Margin is spacing around an object's four edges.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// UniformMargin returns a margin with the same value on all four edges.
func UniformMargin(v float64) Margin {
	return Margin{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns the total horizontal spacing (left + right).
func (m Margin) Horizontal() float64 { return m.Left + m.Right }

// Vertical returns the total vertical spacing (top + bottom).
func (m Margin) Vertical() float64 { return m.Top + m.Bottom }

// Spot is a normalized anchor within a rectangle: (0,0) is the top-left
// corner, (1,1) the bottom-right, (0.5,0.5) the center. Spots describe
// where a child attaches in spot panels and how children align in stacks.
type Spot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Common spots.
var (
	SpotTopLeft     = Spot{0, 0}
	SpotTop         = Spot{0.5, 0}
	SpotTopRight    = Spot{1, 0}
	SpotLeft        = Spot{0, 0.5}
	SpotCenter      = Spot{0.5, 0.5}
	SpotRight       = Spot{1, 0.5}
	SpotBottomLeft  = Spot{0, 1}
	SpotBottom      = Spot{0.5, 1}
	SpotBottomRight = Spot{1, 1}
)

// PointIn returns the concrete point the spot denotes within a rectangle of
// the given size, relative to the rectangle's top-left corner.
func (s Spot) PointIn(sz Size) Point {
	return Point{s.X * sz.W, s.Y * sz.H}
}
