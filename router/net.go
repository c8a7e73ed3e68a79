package router

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/katalvlaran/lvroute/routetree"
	"github.com/katalvlaran/lvroute/rrgraph"
)

// netDelayTolerance is the relative tolerance of the final delay cross-check.
const netDelayTolerance = 1e-4

// tryRouteNet routes net inet unless it is fixed, global, empty, or already
// legally routed.
func (c *Context) tryRouteNet(inet int) error {
	net := &c.nl.Nets[inet]
	if net.Fixed || net.Global || net.NumSinks() == 0 || !c.shouldRouteNet(inet) {
		c.routed[inet] = true
		return nil
	}
	if err := c.routeNet(inet); err != nil {
		return err
	}
	c.routed[inet] = true

	return nil
}

// shouldRouteNet reports whether net inet has no routing yet, touches an
// over-used node, or reaches a sink flagged for forced reroute.
func (c *Context) shouldRouteNet(inet int) bool {
	tb := c.traces[inet]
	if len(tb) == 0 {
		return true
	}
	for i := 0; i < len(tb); i++ {
		inode := tb[i].Node
		if c.cong.Overused(inode) {
			return true
		}
		if c.g.Node(inode).Type == rrgraph.Sink {
			if c.conns.shouldForce(inet, inode) {
				return true
			}
			i++ // skip the next segment's branch point
		}
	}

	return false
}

// pinCriticality shapes the raw criticality: shifted down by 1 − max, raised
// to CriticalityExp, capped at max.
func (c *Context) pinCriticality(inet, pin int) float64 {
	crit := max(c.crit.Criticality(inet, pin)-(1-c.opts.MaxCriticality), 0)
	crit = math.Pow(crit, c.opts.CriticalityExp)

	return min(crit, c.opts.MaxCriticality)
}

// routeNet builds a branch to every sink not kept from the previous routing,
// most critical first, and refreshes the net's delays.
func (c *Context) routeNet(inet int) error {
	net := &c.nl.Nets[inet]
	numSinks := net.NumSinks()

	tree, remaining, err := c.setupRoutingResources(inet)
	if err != nil {
		return err
	}

	crit := c.pinCrit[:numSinks+1]
	for _, p := range remaining {
		crit[p] = c.pinCriticality(inet, p)
	}
	sort.SliceStable(remaining, func(a, b int) bool { return crit[remaining[a]] > crit[remaining[b]] })

	c.updateBaseCosts(numSinks)

	for k, pin := range remaining {
		// Late in the run, stop the net from grabbing a second OPIN.
		if k > 0 && c.itry > 5 {
			tree.Node(tree.Root()).ReExpand = false
		}
		t := &target{inet: inet, pin: pin, node: net.Pin(pin), crit: crit[pin], sinks: numSinks}
		sink := c.routeConnection(tree, t)
		if sink == nil {
			c.log.Info("cannot route connection", "net", net.Name, "pin", pin,
				"source", net.Source, "sink", t.node)
			return &ConnectionError{
				Net:    net.Name,
				NetIdx: inet,
				Source: c.g.Node(net.Source),
				Sink:   c.g.Node(t.node),
				SrcIdx: net.Source,
				DstIdx: t.node,
			}
		}
		err = c.commitConnection(tree, sink, t)
		c.heap.Release(sink)
		c.heap.Empty()
		c.resetPathCosts()
		if err != nil {
			return err
		}
		c.obs.SinkRouted(inet, pin, crit[pin])
	}

	copy(c.netDelay[inet], tree.PinDelays(numSinks))

	return nil
}

// setupRoutingResources prepares the starting tree of net inet and returns
// the pins still to reach. Small nets and iteration 1 start from scratch;
// wider nets keep the legal part of their previous routing.
func (c *Context) setupRoutingResources(inet int) (*routetree.Tree, []int, error) {
	net := &c.nl.Nets[inet]
	numSinks := net.NumSinks()

	if numSinks < c.opts.MinIncrementalRerouteFanout || c.itry == 1 || len(c.traces[inet]) == 0 {
		c.obs.NetRerouted(inet)
		c.UpdatePathCost(inet, -1)
		c.traces[inet] = nil
		if n := c.conns.clearNet(inet); n > 0 {
			c.obs.ForcedReroutePerformed(inet, n)
		}
		remaining := make([]int, numSinks)
		for i := range remaining {
			remaining[i] = i + 1
		}

		return routetree.New(c.g, net.Source), remaining, nil
	}

	tree, err := routetree.FromTraceback(c.g, c.traces[inet], c.conns.pinDispenser(inet))
	if err != nil {
		return nil, nil, fmt.Errorf("net %q: %w", net.Name, err)
	}
	res := tree.Prune(c.cong.Overused, func(sink int) bool { return c.conns.shouldForce(inet, sink) })
	cleared := 0
	for _, s := range res.ClearedSinks {
		if c.conns.clear(inet, s) {
			cleared++
		}
	}
	if cleared > 0 {
		c.obs.ForcedReroutePerformed(inet, cleared)
	}

	// The whole old routing leaves; the surviving tree comes back.
	c.UpdatePathCost(inet, -1)
	c.traces[inet] = nil
	if res.Destroyed {
		c.obs.RouteTreePruned(inet)
	} else {
		c.obs.RouteTreePreserved(inet)
		c.traces[inet] = tree.Traceback()
		c.UpdatePathCost(inet, +1)
	}

	reached := make([]bool, numSinks+1)
	for _, p := range res.ReachedPins {
		reached[p] = true
	}
	var remaining []int
	for p := 1; p <= numSinks; p++ {
		if !reached[p] {
			remaining = append(remaining, p)
		}
	}

	return tree, remaining, nil
}

// checkNetDelays recomputes every routed net's delays from its traceback and
// compares them with the incrementally maintained ones. Pins sharing one SINK
// are compared as a sorted group.
func (c *Context) checkNetDelays() error {
	for inet := range c.nl.Nets {
		net := &c.nl.Nets[inet]
		if net.Global || len(c.traces[inet]) == 0 {
			continue
		}
		tree, err := routetree.FromTraceback(c.g, c.traces[inet], c.conns.pinDispenser(inet))
		if err != nil {
			return fmt.Errorf("net %q: %w", net.Name, err)
		}
		check := tree.PinDelays(net.NumSinks())
		for sink, pins := range c.conns.sinkPins[inet] {
			got := make([]float64, len(pins))
			want := make([]float64, len(pins))
			for k, p := range pins {
				got[k], want[k] = c.netDelay[inet][p], check[p]
			}
			slices.Sort(got)
			slices.Sort(want)
			for k := range got {
				if delayMismatch(got[k], want[k]) {
					return fmt.Errorf("%w: net %q sink node %d: %g vs %g",
						ErrNetDelayMismatch, net.Name, sink, got[k], want[k])
				}
			}
		}
	}

	return nil
}

func delayMismatch(got, want float64) bool {
	if want == 0 {
		return math.Abs(got) > netDelayTolerance
	}

	return math.Abs(1-got/want) > netDelayTolerance
}
