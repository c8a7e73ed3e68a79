package routetree

import (
	"errors"

	"github.com/katalvlaran/lvroute/rrgraph"
)

var (
	// ErrEmptyTraceback indicates a tree was requested from an empty traceback.
	ErrEmptyTraceback = errors.New("routetree: traceback is empty")

	// ErrBadBranch indicates a path or traceback segment that does not attach
	// to the existing tree, or that revisits a node.
	ErrBadBranch = errors.New("routetree: branch does not attach to the tree")

	// ErrDisconnectedEdge indicates a parent/child link with no rr-graph edge.
	ErrDisconnectedEdge = errors.New("routetree: tree link has no matching rr-graph edge")

	// ErrBrokenLink indicates inconsistent parent/child indices.
	ErrBrokenLink = errors.New("routetree: inconsistent parent/child link")
)

// NoParent is the Parent of the root.
const NoParent = -1

// Node is one tree node. Parent and Children are arena indices.
type Node struct {
	Inode        int
	Parent       int
	ParentSwitch int // switch on the link from Parent; rrgraph.NoSwitch at the root
	Children     []int
	ReExpand     bool // may seed the next search; false for IPIN and SINK
	RUpstream    float64
	CDownstream  float64
	Tdel         float64
	Pin          int // net pin for SINK nodes, 0 elsewhere
}

// Elem is one traceback element: Node, and the switch taken to the next element.
type Elem struct {
	Node   int
	Switch int
}

// Traceback is the flat committed routing of one net.
type Traceback []Elem

// Walk calls fn for every routed node once, skipping the branch-point element
// that follows each SINK.
func (tb Traceback) Walk(g *rrgraph.Graph, fn func(inode int)) {
	for i := 0; i < len(tb); i++ {
		fn(tb[i].Node)
		if g.Node(tb[i].Node).Type == rrgraph.Sink {
			i++
		}
	}
}

// Nodes returns the routed nodes in Walk order.
func (tb Traceback) Nodes(g *rrgraph.Graph) []int {
	out := make([]int, 0, len(tb))
	tb.Walk(g, func(inode int) { out = append(out, inode) })

	return out
}

// Segments splits tb into per-sink segments. Every segment after the first
// starts with its branch point.
func (tb Traceback) Segments(g *rrgraph.Graph) []Traceback {
	var out []Traceback
	start := 0
	for i := range tb {
		if g.Node(tb[i].Node).Type == rrgraph.Sink {
			out = append(out, tb[start:i+1])
			start = i + 1
		}
	}
	if start < len(tb) {
		out = append(out, tb[start:])
	}

	return out
}
