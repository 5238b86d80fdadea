// Package layout positions the top-level parts of a diagram.
//
// The layout algorithm is deliberately behind an interface: the diagram
// calls an [Oracle] after every model mutation that changes node or link
// membership, and anything that maps node keys to positions can serve.
// The built-in [Layered] oracle computes a deterministic tree-style layout;
// render/dot.go exports the same graph to Graphviz for node-link output.
package layout

import "github.com/partboard/partboard/pkg/visual"

// Graph is the minimal topology an oracle consumes: node keys and directed
// links between them. Links referencing keys absent from Nodes are ignored
// by the built-in oracle (they render unattached).
type Graph struct {
	Nodes []int
	Links [][2]int // [from, to]
}

// Oracle computes a position for every node key in the graph. Positions
// are the top-left corner of the node's visual part in diagram
// coordinates. Implementations must be deterministic for equal inputs.
type Oracle interface {
	ComputeLayout(g Graph) map[int]visual.Point
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(g Graph) map[int]visual.Point

// ComputeLayout calls f.
func (f OracleFunc) ComputeLayout(g Graph) map[int]visual.Point { return f(g) }
