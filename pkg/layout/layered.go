package layout

import (
	"slices"

	"github.com/partboard/partboard/pkg/visual"
)

// Default spacing between layered nodes, in diagram units.
const (
	DefaultColumnSpacing = 140.0
	DefaultRowSpacing    = 90.0
)

// Layered assigns nodes to horizontal rows by their depth in the link
// graph and slots each row left to right in key order.
//
// Rows are computed with a longest-path traversal (Kahn's algorithm):
// every node sits one row below its deepest parent, so roots (no incoming
// links) occupy row 0. Nodes caught in a cycle never reach zero in-degree
// and stay at row 0. Links with an endpoint missing from the node set are
// skipped entirely.
type Layered struct {
	ColumnSpacing float64
	RowSpacing    float64
}

// NewLayered creates a layered oracle with the default spacing.
func NewLayered() *Layered {
	return &Layered{ColumnSpacing: DefaultColumnSpacing, RowSpacing: DefaultRowSpacing}
}

// ComputeLayout implements [Oracle].
func (l *Layered) ComputeLayout(g Graph) map[int]visual.Point {
	colSpace := l.ColumnSpacing
	if colSpace <= 0 {
		colSpace = DefaultColumnSpacing
	}
	rowSpace := l.RowSpacing
	if rowSpace <= 0 {
		rowSpace = DefaultRowSpacing
	}

	exists := make(map[int]bool, len(g.Nodes))
	for _, k := range g.Nodes {
		exists[k] = true
	}

	children := make(map[int][]int)
	inDegree := make(map[int]int, len(g.Nodes))
	for _, link := range g.Links {
		from, to := link[0], link[1]
		if !exists[from] || !exists[to] {
			continue
		}
		children[from] = append(children[from], to)
		inDegree[to]++
	}

	// Longest-path layering via topological traversal.
	rows := make(map[int]int, len(g.Nodes))
	var queue []int
	for _, k := range g.Nodes {
		if inDegree[k] == 0 {
			queue = append(queue, k)
		}
	}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range children[curr] {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	// Slot each row in ascending key order for deterministic output.
	byRow := make(map[int][]int)
	for _, k := range g.Nodes {
		byRow[rows[k]] = append(byRow[rows[k]], k)
	}

	positions := make(map[int]visual.Point, len(g.Nodes))
	for row, keys := range byRow {
		slices.Sort(keys)
		for slot, k := range keys {
			positions[k] = visual.Point{
				X: float64(slot) * colSpace,
				Y: float64(row) * rowSpace,
			}
		}
	}
	return positions
}
