package rrgraph

import "fmt"

// Graph is an immutable-after-build routing-resource graph for an nx×ny device.
// Logic blocks occupy 1..NX × 1..NY; channels and I/O extend the usable
// coordinate range to 0..NX+1 × 0..NY+1.
type Graph struct {
	NX, NY int

	nodes     []Node
	switches  []Switch
	costIndex []CostIndexData
}

// New returns an empty graph for an nx×ny block grid.
func New(nx, ny int) (*Graph, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBadGridSize, nx, ny)
	}

	return &Graph{NX: nx, NY: ny}, nil
}

// AddSwitch appends a switch and returns its index.
func (g *Graph) AddSwitch(sw Switch) int {
	g.switches = append(g.switches, sw)

	return len(g.switches) - 1
}

// AddCostIndex appends a cost-index entry and returns its index. A zero
// SavedBaseCost is initialized from BaseCost.
func (g *Graph) AddCostIndex(d CostIndexData) int {
	if d.SavedBaseCost == 0 {
		d.SavedBaseCost = d.BaseCost
	}
	g.costIndex = append(g.costIndex, d)

	return len(g.costIndex) - 1
}

// AddNode appends a node and returns its index. Edges carried by n are kept
// as-is; they are checked by Validate.
func (g *Graph) AddNode(n Node) int {
	g.nodes = append(g.nodes, n)

	return len(g.nodes) - 1
}

// AddEdge adds a directed edge from → to through switch sw.
func (g *Graph) AddEdge(from, to, sw int) error {
	if from < 0 || from >= len(g.nodes) {
		return fmt.Errorf("%w: from=%d", ErrNodeIndex, from)
	}
	if to < 0 || to >= len(g.nodes) {
		return fmt.Errorf("%w: to=%d", ErrNodeIndex, to)
	}
	if sw < 0 || sw >= len(g.switches) {
		return fmt.Errorf("%w: %d on edge %d->%d", ErrSwitchIndex, sw, from, to)
	}
	g.nodes[from].Edges = append(g.nodes[from].Edges, Edge{To: to, Switch: sw})

	return nil
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// Node returns a pointer to node i. Callers must treat it as read-only.
func (g *Graph) Node(i int) *Node { return &g.nodes[i] }

// Nodes returns the node table. Callers must treat it as read-only.
func (g *Graph) Nodes() []Node { return g.nodes }

// Switch returns a pointer to switch i.
func (g *Graph) Switch(i int) *Switch { return &g.switches[i] }

// Switches returns the switch table.
func (g *Graph) Switches() []Switch { return g.switches }

// CostIndex returns a pointer to cost-index entry i.
func (g *Graph) CostIndex(i int) *CostIndexData { return &g.costIndex[i] }

// CostIndices returns the cost-index table.
func (g *Graph) CostIndices() []CostIndexData { return g.costIndex }

// NumCostIndices returns the size of the cost-index table.
func (g *Graph) NumCostIndices() int { return len(g.costIndex) }

// Validate checks every cross reference and geometric bound.
// Complexity: O(V + E).
func (g *Graph) Validate() error {
	// 1) The four terminal/pin cost indices are mandatory.
	if len(g.costIndex) < ChanXCostIndexStart {
		return fmt.Errorf("%w: need at least %d entries, have %d",
			ErrCostIndex, ChanXCostIndexStart, len(g.costIndex))
	}
	for i, d := range g.costIndex {
		if d.OrthoCostIndex < 0 || d.OrthoCostIndex >= len(g.costIndex) {
			return fmt.Errorf("%w: entry %d has ortho index %d", ErrCostIndex, i, d.OrthoCostIndex)
		}
	}

	// 2) Per-node attributes and outgoing edges.
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Capacity < 0 {
			return fmt.Errorf("%w: node %d capacity %d", ErrBadCapacity, i, n.Capacity)
		}
		if n.CostIndex < 0 || n.CostIndex >= len(g.costIndex) {
			return fmt.Errorf("%w: node %d uses %d", ErrCostIndex, i, n.CostIndex)
		}
		if n.XLow < 0 || n.YLow < 0 || n.XHigh > g.NX+1 || n.YHigh > g.NY+1 ||
			n.XLow > n.XHigh || n.YLow > n.YHigh {
			return fmt.Errorf("%w: node %d %s", ErrOutOfGrid, i, n)
		}
		for _, e := range n.Edges {
			if e.To < 0 || e.To >= len(g.nodes) {
				return fmt.Errorf("%w: edge %d->%d", ErrNodeIndex, i, e.To)
			}
			if e.Switch < 0 || e.Switch >= len(g.switches) {
				return fmt.Errorf("%w: edge %d->%d uses %d", ErrSwitchIndex, i, e.To, e.Switch)
			}
		}
	}

	return nil
}
