package visual

// Arrange computes Offset and Actual for every object in the subtree.
//
// Layout is a pure function of the current property values: arranging the
// same tree twice yields the same offsets, and Arrange must be re-run
// whenever a measured size or a bound property changes. Offsets are
// relative to the parent panel's top-left corner; the root's offset is left
// untouched (it is positioned by the diagram's layout oracle).
func Arrange(root *Object) {
	root.arrange()
}

func (o *Object) arrange() {
	if o.Kind != KindPanel {
		o.Actual = o.measure()
		return
	}
	for _, c := range o.Children {
		c.arrange()
	}
	switch o.Layout {
	case LayoutAuto:
		o.arrangeAuto()
	case LayoutSpot:
		o.arrangeSpot()
	case LayoutVertical:
		o.arrangeStack(false)
	case LayoutHorizontal:
		o.arrangeStack(true)
	}
}

// arrangeAuto sizes the first child (the background) to fit the remaining
// children plus their margins plus the panel padding, and centers each
// foreground child.
func (o *Object) arrangeAuto() {
	if len(o.Children) == 0 {
		o.Actual = o.DesiredSize
		return
	}

	bg, fg := o.Children[0], o.Children[1:]

	var content Size
	for _, c := range fg {
		content = content.Union(Size{
			W: c.Actual.W + c.Margin.Horizontal(),
			H: c.Actual.H + c.Margin.Vertical(),
		})
	}

	switch {
	case !o.DesiredSize.IsZero():
		o.Actual = o.DesiredSize
	case !bg.DesiredSize.IsZero():
		o.Actual = bg.DesiredSize
	default:
		o.Actual = Size{
			W: content.W + o.Padding.Horizontal(),
			H: content.H + o.Padding.Vertical(),
		}
	}

	bg.Offset = Point{}
	bg.Actual = o.Actual
	for _, c := range fg {
		c.Offset = Point{
			X: (o.Actual.W - c.Actual.W) / 2,
			Y: (o.Actual.H - c.Actual.H) / 2,
		}
	}
}

// arrangeSpot positions every child independently: the child's
// alignment-focus point is placed on the panel's alignment anchor.
// Children never affect each other's placement; unset spots default to
// the center.
func (o *Object) arrangeSpot() {
	switch {
	case !o.DesiredSize.IsZero():
		o.Actual = o.DesiredSize
	case len(o.Children) > 0:
		main := o.Children[0]
		o.Actual = Size{
			W: main.Actual.W + main.Margin.Horizontal(),
			H: main.Actual.H + main.Margin.Vertical(),
		}
	default:
		o.Actual = Size{}
	}

	for _, c := range o.Children {
		anchor, focus := SpotCenter, SpotCenter
		if c.AlignmentSet {
			anchor = c.Alignment
		}
		if c.AlignmentFocusSet {
			focus = c.AlignmentFocus
		}
		anchorPt := anchor.PointIn(o.Actual)
		focusPt := focus.PointIn(c.Actual)
		c.Offset = Point{X: anchorPt.X - focusPt.X, Y: anchorPt.Y - focusPt.Y}
	}
}

// arrangeStack places children in sequence order along one axis. The
// cross-axis position follows each child's own alignment, falling back to
// the panel's DefaultAlignment. The stack extent is the sum of child
// extents plus margins; the cross extent is the maximum across children.
func (o *Object) arrangeStack(horizontal bool) {
	var cross, pos float64
	for _, c := range o.Children {
		if horizontal {
			cross = max(cross, c.Actual.H+c.Margin.Vertical())
		} else {
			cross = max(cross, c.Actual.W+c.Margin.Horizontal())
		}
	}
	if horizontal && o.DesiredSize.H > 0 {
		cross = o.DesiredSize.H
	}
	if !horizontal && o.DesiredSize.W > 0 {
		cross = o.DesiredSize.W
	}

	for _, c := range o.Children {
		align := o.DefaultAlignment
		if c.AlignmentSet {
			align = c.Alignment
		}
		if horizontal {
			pos += c.Margin.Left
			free := cross - c.Actual.H - c.Margin.Vertical()
			c.Offset = Point{X: pos, Y: c.Margin.Top + align.Y*free}
			pos += c.Actual.W + c.Margin.Right
		} else {
			pos += c.Margin.Top
			free := cross - c.Actual.W - c.Margin.Horizontal()
			c.Offset = Point{X: c.Margin.Left + align.X*free, Y: pos}
			pos += c.Actual.H + c.Margin.Bottom
		}
	}

	if horizontal {
		o.Actual = Size{W: pos, H: cross}
	} else {
		o.Actual = Size{W: cross, H: pos}
	}
	if !o.DesiredSize.IsZero() {
		o.Actual = o.DesiredSize
	}
}
