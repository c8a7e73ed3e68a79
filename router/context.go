package router

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lvroute/congestion"
	"github.com/katalvlaran/lvroute/netlist"
	"github.com/katalvlaran/lvroute/pqueue"
	"github.com/katalvlaran/lvroute/routetree"
	"github.com/katalvlaran/lvroute/rrgraph"
)

// hugeCost marks an untouched node; anything above 0.99 × hugeCost counts as
// never reached in the current search.
const hugeCost = 1e30

// ErrMissingFixedRoute indicates a Fixed net without a supplied route.
var ErrMissingFixedRoute = errors.New("router: fixed net has no supplied route")

// Context owns every piece of mutable state of one routing attempt. The graph
// and netlist are only read, so several Contexts may share them.
type Context struct {
	g     *rrgraph.Graph
	nl    *netlist.Netlist
	opts  Options
	cong  *congestion.Model
	heap  *pqueue.Heap
	sched congestion.Schedule
	log   *slog.Logger
	obs   Observer

	// per-node search state, reset through modified after every sink
	pathCost []float64
	backCost []float64
	prevNode []int
	prevEdge []int
	modified []int

	pinCrit  []float64 // per-pin criticality of the net being routed

	baseCost []float64 // working copy of the cost-index base costs

	traces   []routetree.Traceback
	bbs      []netlist.BBox
	netDelay [][]float64
	routed   []bool
	conns    *connections
	opins    [][]int // OPINs held by each reservation

	presFac float64
	itry    int
	crit    TimingAnalyzer // criticality source of the current iteration
}

// NewContext prepares a routing attempt of nl on g. Fixed nets are committed
// immediately from fixed, which maps net index to its pre-computed route.
func NewContext(g *rrgraph.Graph, nl *netlist.Netlist, fixed map[int]routetree.Traceback, opts ...Option) (*Context, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.normalize(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := nl.Validate(g); err != nil {
		return nil, err
	}

	n := g.NumNodes()
	c := &Context{
		g:    g,
		nl:   nl,
		opts: o,
		cong: congestion.New(g),
		heap: pqueue.New(max(64, n/16)),
		sched: congestion.Schedule{
			FirstIterPresFac: o.FirstIterPresFac,
			InitialPresFac:   o.InitialPresFac,
			PresFacMult:      o.PresFacMult,
			AccFac:           o.AccFac,
		},
		log:      o.Logger,
		obs:      o.Observer,
		pathCost: make([]float64, n),
		backCost: make([]float64, n),
		prevNode: make([]int, n),
		prevEdge: make([]int, n),
		pinCrit:  make([]float64, nl.MaxSinks()+1),
		baseCost: make([]float64, g.NumCostIndices()),
		traces:   make([]routetree.Traceback, nl.Len()),
		bbs:      make([]netlist.BBox, nl.Len()),
		netDelay: make([][]float64, nl.Len()),
		routed:   make([]bool, nl.Len()),
		opins:    make([][]int, len(nl.Reservations)),
	}
	for i := range c.pathCost {
		c.pathCost[i] = hugeCost
		c.backCost[i] = hugeCost
		c.prevNode[i] = pqueue.Open
		c.prevEdge[i] = pqueue.Open
	}
	for i, d := range g.CostIndices() {
		c.baseCost[i] = d.BaseCost
	}
	for i := range nl.Nets {
		net := &nl.Nets[i]
		c.bbs[i] = netlist.RouteBB(g, net, o.BBFactor)
		c.netDelay[i] = make([]float64, net.NumSinks()+1)
	}
	c.conns = newConnections(nl)
	c.presFac = c.sched.First()

	for i := range nl.Nets {
		if !nl.Nets[i].Fixed {
			continue
		}
		tb, ok := fixed[i]
		if !ok || len(tb) == 0 {
			return nil, fmt.Errorf("%w: net %q", ErrMissingFixedRoute, nl.Nets[i].Name)
		}
		if err := c.setFixedRoute(i, tb); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// setFixedRoute installs and commits a pre-computed route. The route must
// start at the driver and every one of its segments must end at a SINK, so
// that each pin of the net is reached exactly once.
func (c *Context) setFixedRoute(inet int, tb routetree.Traceback) error {
	net := &c.nl.Nets[inet]
	if tb[0].Node != net.Source {
		return fmt.Errorf("net %q: %w: route starts at %d, driver is %d",
			net.Name, routetree.ErrBadBranch, tb[0].Node, net.Source)
	}
	tree, err := routetree.FromTraceback(c.g, tb, c.conns.pinDispenser(inet))
	if err != nil {
		return fmt.Errorf("net %q: %w", net.Name, err)
	}
	if err = tree.Validate(); err != nil {
		return fmt.Errorf("net %q: %w", net.Name, err)
	}
	for _, seg := range tb.Segments(c.g) {
		last := seg[len(seg)-1].Node
		if c.g.Node(last).Type != rrgraph.Sink {
			return fmt.Errorf("net %q: %w: segment ends at %s node %d",
				net.Name, routetree.ErrBadBranch, c.g.Node(last).Type, last)
		}
	}
	reached := make([]bool, net.NumSinks()+1)
	for _, id := range tree.Sinks() {
		pin := tree.Node(id).Pin
		if pin < 1 || pin > net.NumSinks() || reached[pin] {
			return fmt.Errorf("net %q: %w: SINK %d does not map to a distinct pin",
				net.Name, routetree.ErrBadBranch, tree.Node(id).Inode)
		}
		reached[pin] = true
	}
	for pin := 1; pin <= net.NumSinks(); pin++ {
		if !reached[pin] {
			return fmt.Errorf("net %q: %w: pin %d is not reached", net.Name, routetree.ErrBadBranch, pin)
		}
	}
	c.traces[inet] = append(routetree.Traceback(nil), tb...)
	c.UpdatePathCost(inet, +1)
	copy(c.netDelay[inet], tree.PinDelays(net.NumSinks()))

	return nil
}

// Graph returns the routing-resource graph.
func (c *Context) Graph() *rrgraph.Graph { return c.g }

// Congestion exposes the occupancy and cost state.
func (c *Context) Congestion() *congestion.Model { return c.cong }

// Traceback returns the current routing of net inet.
func (c *Context) Traceback(inet int) routetree.Traceback { return c.traces[inet] }

// NetDelays returns the per-pin delays of net inet, index 0 unused.
func (c *Context) NetDelays(inet int) []float64 { return c.netDelay[inet] }

// Routed reports whether net inet was handled in the current iteration.
func (c *Context) Routed(inet int) bool { return c.routed[inet] }

// PresFac returns the present congestion factor in force.
func (c *Context) PresFac() float64 { return c.presFac }

// HeapStats returns the priority-queue traffic counters.
func (c *Context) HeapStats() pqueue.Stats { return c.heap.Stats() }

// UpdatePathCost adds delta (+1 or −1) to the occupancy of every node of net
// inet's traceback, each node counted once.
func (c *Context) UpdatePathCost(inet, delta int) {
	c.updateTraceCost(c.traces[inet], delta)
}

func (c *Context) updateTraceCost(tb routetree.Traceback, delta int) {
	tb.Walk(c.g, func(inode int) {
		c.cong.UpdateNode(inode, delta, c.presFac)
	})
}

// PathCostsReset reports whether every node's search state is back to
// untouched, which must hold between connection searches.
func (c *Context) PathCostsReset() bool {
	if len(c.modified) != 0 || c.heap.Outstanding() != 0 {
		return false
	}
	for i := range c.pathCost {
		if c.pathCost[i] != hugeCost || c.backCost[i] != hugeCost {
			return false
		}
	}

	return true
}

// resetPathCosts restores every node touched since the last reset.
// Complexity: O(touched).
func (c *Context) resetPathCosts() {
	for _, inode := range c.modified {
		c.pathCost[inode] = hugeCost
		c.backCost[inode] = hugeCost
		c.prevNode[inode] = pqueue.Open
		c.prevEdge[inode] = pqueue.Open
	}
	c.modified = c.modified[:0]
}
