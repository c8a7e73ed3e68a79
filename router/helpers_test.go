package router_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/netlist"
	"github.com/katalvlaran/lvroute/routetree"
	"github.com/katalvlaran/lvroute/rrgraph"
)

const (
	swRouting = 0
	swFree    = 1
)

// fabric builds small rr-graphs by hand.
type fabric struct {
	t *testing.T
	g *rrgraph.Graph
}

func newFabric(t *testing.T, nx, ny int) *fabric {
	t.Helper()
	g, err := rrgraph.New(nx, ny)
	require.NoError(t, err)
	g.AddSwitch(rrgraph.Switch{Name: "routing", R: 1, Tdel: 1, Buffered: true})
	g.AddSwitch(rrgraph.Switch{Name: "free", Buffered: true})
	g.AddCostIndex(rrgraph.CostIndexData{BaseCost: 1, OrthoCostIndex: rrgraph.SourceCostIndex})
	g.AddCostIndex(rrgraph.CostIndexData{BaseCost: 0, OrthoCostIndex: rrgraph.SinkCostIndex})
	g.AddCostIndex(rrgraph.CostIndexData{BaseCost: 1, OrthoCostIndex: rrgraph.OPinCostIndex})
	g.AddCostIndex(rrgraph.CostIndexData{BaseCost: 1, OrthoCostIndex: rrgraph.IPinCostIndex, TLinear: 1})
	g.AddCostIndex(rrgraph.CostIndexData{BaseCost: 1, OrthoCostIndex: 5, InvLength: 1, TLinear: 1})
	g.AddCostIndex(rrgraph.CostIndexData{BaseCost: 1, OrthoCostIndex: 4, InvLength: 1, TLinear: 1})

	return &fabric{t: t, g: g}
}

func (f *fabric) node(kind rrgraph.NodeType, x, y int) int {
	n := rrgraph.Node{Type: kind, XLow: x, YLow: y, XHigh: x, YHigh: y, Capacity: 1}
	switch kind {
	case rrgraph.Source:
		n.CostIndex = rrgraph.SourceCostIndex
	case rrgraph.Sink:
		n.CostIndex = rrgraph.SinkCostIndex
	case rrgraph.OPin:
		n.CostIndex = rrgraph.OPinCostIndex
	case rrgraph.IPin:
		n.CostIndex = rrgraph.IPinCostIndex
		n.C = 1
	case rrgraph.ChanX:
		n.CostIndex, n.R, n.C = rrgraph.ChanXCostIndexStart, 1, 1
	case rrgraph.ChanY:
		n.CostIndex, n.R, n.C = rrgraph.ChanXCostIndexStart+1, 1, 1
	}

	return f.g.AddNode(n)
}

func (f *fabric) edge(from, to int) {
	sw := swRouting
	switch f.g.Node(from).Type {
	case rrgraph.Source, rrgraph.IPin:
		sw = swFree
	}
	require.NoError(f.t, f.g.AddEdge(from, to, sw))
}

func (f *fabric) chain(nodes ...int) {
	for i := 1; i < len(nodes); i++ {
		f.edge(nodes[i-1], nodes[i])
	}
}

func (f *fabric) graph() *rrgraph.Graph {
	require.NoError(f.t, f.g.Validate())

	return f.g
}

// lineFabric is a block at (1,1) driving a block at (d+1,1) over tracks
// parallel CHANX rows of d unit wires.
func lineFabric(t *testing.T, d, tracks int) (*rrgraph.Graph, *netlist.Netlist) {
	t.Helper()
	f := newFabric(t, d+1, 1)
	src := f.node(rrgraph.Source, 1, 1)
	opin := f.node(rrgraph.OPin, 1, 1)
	ipin := f.node(rrgraph.IPin, d+1, 1)
	sink := f.node(rrgraph.Sink, d+1, 1)
	f.chain(src, opin)
	f.chain(ipin, sink)
	for tr := 0; tr < tracks; tr++ {
		prev := opin
		for x := 1; x <= d; x++ {
			w := f.node(rrgraph.ChanX, x, 1)
			f.edge(prev, w)
			prev = w
		}
		f.edge(prev, ipin)
	}
	nl := &netlist.Netlist{}
	nl.Add(netlist.Net{Name: "line", Source: src, Sinks: []int{sink}})

	return f.graph(), nl
}

// sharedFabric has nets a and b whose cheapest paths share the single wire w.
// With detour, b may instead take two wires of its own.
type sharedFabric struct {
	g      *rrgraph.Graph
	nl     *netlist.Netlist
	w      int
	detour []int
}

func newSharedFabric(t *testing.T, detour bool) *sharedFabric {
	t.Helper()
	f := newFabric(t, 3, 2)
	s := &sharedFabric{}

	srcA, opinA := f.node(rrgraph.Source, 1, 1), f.node(rrgraph.OPin, 1, 1)
	ipinA, sinkA := f.node(rrgraph.IPin, 3, 1), f.node(rrgraph.Sink, 3, 1)
	srcB, opinB := f.node(rrgraph.Source, 1, 2), f.node(rrgraph.OPin, 1, 2)
	ipinB, sinkB := f.node(rrgraph.IPin, 3, 2), f.node(rrgraph.Sink, 3, 2)
	s.w = f.node(rrgraph.ChanX, 2, 1)

	f.chain(srcA, opinA, s.w, ipinA, sinkA)
	f.chain(srcB, opinB, s.w, ipinB, sinkB)
	if detour {
		s.detour = []int{f.node(rrgraph.ChanX, 2, 2), f.node(rrgraph.ChanX, 2, 2)}
		f.chain(opinB, s.detour[0], s.detour[1], ipinB)
	}

	s.g = f.graph()
	s.nl = &netlist.Netlist{}
	s.nl.Add(netlist.Net{Name: "a", Source: srcA, Sinks: []int{sinkA}})
	s.nl.Add(netlist.Net{Name: "b", Source: srcB, Sinks: []int{sinkB}})

	return s
}

func countWires(g *rrgraph.Graph, tb routetree.Traceback) int {
	n := 0
	tb.Walk(g, func(inode int) {
		if g.Node(inode).Type.IsChannel() {
			n++
		}
	})

	return n
}

func contains(tb routetree.Traceback, inode int) bool {
	for _, el := range tb {
		if el.Node == inode {
			return true
		}
	}

	return false
}
