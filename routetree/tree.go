package routetree

import (
	"fmt"

	"github.com/katalvlaran/lvroute/rrgraph"
)

// Tree is the routing tree of one net. Index 0 is the SOURCE root.
type Tree struct {
	g     *rrgraph.Graph
	nodes []Node
	index map[int]int // rr-node → tree node; SINKs are not indexed
}

// New returns a tree holding only source.
func New(g *rrgraph.Graph, source int) *Tree {
	t := &Tree{g: g, index: make(map[int]int)}
	n := g.Node(source)
	t.nodes = append(t.nodes, Node{
		Inode:        source,
		Parent:       NoParent,
		ParentSwitch: rrgraph.NoSwitch,
		ReExpand:     true,
		RUpstream:    n.R,
		CDownstream:  n.C,
		Tdel:         0.5 * n.R * n.C,
	})
	t.index[source] = 0

	return t
}

// Graph returns the graph t is built on.
func (t *Tree) Graph() *rrgraph.Graph { return t.g }

// Root returns the root index, always 0.
func (t *Tree) Root() int { return 0 }

// Len returns the number of tree nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns a pointer to tree node id. Callers may toggle ReExpand.
func (t *Tree) Node(id int) *Node { return &t.nodes[id] }

// Nodes returns the arena.
func (t *Tree) Nodes() []Node { return t.nodes }

// Lookup returns the tree node holding a non-SINK rr-node.
func (t *Tree) Lookup(inode int) (int, bool) {
	id, ok := t.index[inode]

	return id, ok
}

// Contains reports whether inode is in the tree. SINKs are never reported.
func (t *Tree) Contains(inode int) bool {
	_, ok := t.Lookup(inode)

	return ok
}

// Sinks returns the tree indices of all SINK nodes in arena order.
func (t *Tree) Sinks() []int {
	var out []int
	for id := range t.nodes {
		if t.g.Node(t.nodes[id].Inode).Type == rrgraph.Sink {
			out = append(out, id)
		}
	}

	return out
}

// PinDelays returns Tdel per net pin, indexed 1..numSinks. Pins not in the
// tree keep zero.
func (t *Tree) PinDelays(numSinks int) []float64 {
	out := make([]float64, numSinks+1)
	for _, id := range t.Sinks() {
		if p := t.nodes[id].Pin; p > 0 && p <= numSinks {
			out[p] = t.nodes[id].Tdel
		}
	}

	return out
}

// add appends a child of parent and returns its index.
func (t *Tree) add(parent, sw, inode, pin int) int {
	kind := t.g.Node(inode).Type
	id := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		Inode:        inode,
		Parent:       parent,
		ParentSwitch: sw,
		ReExpand:     kind != rrgraph.IPin && kind != rrgraph.Sink,
		Pin:          pin,
	})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	if kind != rrgraph.Sink {
		t.index[inode] = id
	}

	return id
}

// AddPath grafts one traceback segment onto the tree. seg[0] must already be
// in the tree and seg must end at a SINK; every element except the last
// carries the switch into the next one. pin is the net pin the SINK serves.
// It returns the index of the new SINK node.
func (t *Tree) AddPath(seg Traceback, pin int) (int, error) {
	if len(seg) < 2 {
		return 0, fmt.Errorf("%w: segment of length %d", ErrBadBranch, len(seg))
	}
	if err := checkNodes(t.g, seg); err != nil {
		return 0, err
	}
	branch, ok := t.Lookup(seg[0].Node)
	if !ok {
		return 0, fmt.Errorf("%w: node %d is not routed", ErrBadBranch, seg[0].Node)
	}
	for i := 1; i < len(seg); i++ {
		if i < len(seg)-1 && t.Contains(seg[i].Node) {
			return 0, fmt.Errorf("%w: node %d already routed", ErrBadBranch, seg[i].Node)
		}
		if !linked(t.g, seg[i-1].Node, seg[i].Node, seg[i-1].Switch) {
			return 0, fmt.Errorf("%w: %d -> %d switch %d", ErrDisconnectedEdge, seg[i-1].Node, seg[i].Node, seg[i-1].Switch)
		}
	}

	// 1) Link the new chain.
	parent := branch
	first := -1
	for i := 1; i < len(seg); i++ {
		var p int
		if i == len(seg)-1 {
			p = pin
		}
		parent = t.add(parent, seg[i-1].Switch, seg[i].Node, p)
		if first < 0 {
			first = parent
		}
	}
	sink := parent

	// 2) Electricals: R down the chain, C up the chain and beyond, then Tdel
	// under the highest ancestor whose C changed.
	for id := first; ; id = t.nodes[id].Children[0] {
		t.nodes[id].RUpstream = t.rUpstream(id)
		if id == sink {
			break
		}
	}
	for id := sink; ; id = t.nodes[id].Parent {
		t.nodes[id].CDownstream = t.cDownstream(id)
		if id == first {
			break
		}
	}
	top := t.propagateC(first)
	t.LoadTdel(top, t.arrival(top))

	return sink, nil
}

// FromTraceback rebuilds the tree of a previously committed traceback.
// pinOf maps a SINK rr-node to the net pin it serves; it is called once per
// SINK element in order, so nets with several pins on one SINK can hand out
// distinct pins. Every element must name a node of g and every link must be
// an edge of g through the recorded switch.
// Complexity: O(len(tb) × out-degree).
func FromTraceback(g *rrgraph.Graph, tb Traceback, pinOf func(sinkInode int) int) (*Tree, error) {
	if len(tb) == 0 {
		return nil, ErrEmptyTraceback
	}
	if err := checkNodes(g, tb); err != nil {
		return nil, err
	}
	t := New(g, tb[0].Node)
	parent := 0
	for i := 1; i < len(tb); i++ {
		prev := tb[i-1]
		if g.Node(prev.Node).Type == rrgraph.Sink {
			// tb[i] is a branch point: it must already be routed.
			id, ok := t.Lookup(tb[i].Node)
			if !ok {
				return nil, fmt.Errorf("%w: branch point %d at element %d", ErrBadBranch, tb[i].Node, i)
			}
			parent = id
			continue
		}
		inode := tb[i].Node
		if !linked(g, prev.Node, inode, prev.Switch) {
			return nil, fmt.Errorf("%w: %d -> %d switch %d at element %d",
				ErrDisconnectedEdge, prev.Node, inode, prev.Switch, i)
		}
		if g.Node(inode).Type != rrgraph.Sink && t.Contains(inode) {
			return nil, fmt.Errorf("%w: node %d repeated at element %d", ErrBadBranch, inode, i)
		}
		pin := 0
		if g.Node(inode).Type == rrgraph.Sink && pinOf != nil {
			pin = pinOf(inode)
		}
		parent = t.add(parent, prev.Switch, inode, pin)
	}
	t.Reload()

	return t, nil
}

// Traceback emits the flat form: each non-leaf node is written once before
// each of its child subtrees, and a leaf SINK closes the segment.
func (t *Tree) Traceback() Traceback {
	tb := make(Traceback, 0, len(t.nodes)+len(t.nodes)/2)
	var walk func(id int)
	walk = func(id int) {
		n := &t.nodes[id]
		if len(n.Children) == 0 {
			tb = append(tb, Elem{Node: n.Inode, Switch: rrgraph.NoSwitch})
			return
		}
		for _, c := range n.Children {
			tb = append(tb, Elem{Node: n.Inode, Switch: t.nodes[c].ParentSwitch})
			walk(c)
		}
	}
	walk(0)

	return tb
}

// Validate checks parent/child consistency and that every link is an edge of
// the graph with the recorded switch.
func (t *Tree) Validate() error {
	if len(t.nodes) == 0 || t.nodes[0].Parent != NoParent {
		return fmt.Errorf("%w: bad root", ErrBrokenLink)
	}
	seen := make([]bool, len(t.nodes))
	seen[0] = true
	for id := range t.nodes {
		n := &t.nodes[id]
		for _, c := range n.Children {
			if c <= 0 || c >= len(t.nodes) || seen[c] || t.nodes[c].Parent != id {
				return fmt.Errorf("%w: %d -> %d", ErrBrokenLink, id, c)
			}
			seen[c] = true
			child := &t.nodes[c]
			if !linked(t.g, n.Inode, child.Inode, child.ParentSwitch) {
				return fmt.Errorf("%w: %d -> %d switch %d", ErrDisconnectedEdge, n.Inode, child.Inode, child.ParentSwitch)
			}
		}
	}
	for id, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: node %d is orphaned", ErrBrokenLink, id)
		}
	}

	return nil
}

// checkNodes rejects elements naming rr-nodes outside g.
func checkNodes(g *rrgraph.Graph, tb Traceback) error {
	for i, el := range tb {
		if el.Node < 0 || el.Node >= g.NumNodes() {
			return fmt.Errorf("%w: element %d names rr-node %d of %d", ErrBadBranch, i, el.Node, g.NumNodes())
		}
	}

	return nil
}

// linked reports whether g has an edge from → to through switch sw.
func linked(g *rrgraph.Graph, from, to, sw int) bool {
	for _, e := range g.Node(from).Edges {
		if e.To == to && e.Switch == sw {
			return true
		}
	}

	return false
}
