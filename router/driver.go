package router

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/katalvlaran/lvroute/congestion"
	"github.com/katalvlaran/lvroute/netlist"
	"github.com/katalvlaran/lvroute/pqueue"
	"github.com/katalvlaran/lvroute/routetree"
	"github.com/katalvlaran/lvroute/rrgraph"
)

// Result is the outcome of a routing run. On failure it still holds the
// iteration history and the last, illegal, routing.
type Result struct {
	Success           bool
	Iterations        int
	Stats             []IterationStats
	Reason            string // error text when Success is false
	Tracebacks        []routetree.Traceback
	NetDelay          [][]float64
	CriticalPathDelay float64
	Overuse           congestion.OveruseInfo
	Congested         []int // rr-nodes still over capacity at the end
	Wirelength        WirelengthInfo
	Heap              pqueue.Stats
}

// Route routes nl on g. Fixed nets are not supported here; use RouteFixed.
func Route(ctx context.Context, g *rrgraph.Graph, nl *netlist.Netlist, opts ...Option) (*Result, error) {
	return RouteFixed(ctx, g, nl, nil, opts...)
}

// RouteFixed routes nl on g with the routes of its Fixed nets taken from
// fixed, keyed by net index.
func RouteFixed(ctx context.Context, g *rrgraph.Graph, nl *netlist.Netlist,
	fixed map[int]routetree.Traceback, opts ...Option) (*Result, error) {
	c, err := NewContext(g, nl, fixed, opts...)
	if err != nil {
		return nil, err
	}

	return c.Route(ctx)
}

// Route runs the negotiated-congestion loop. A Context routes once.
func (c *Context) Route(ctx context.Context) (*Result, error) {
	order := c.sortedNets()
	res := &Result{}
	pred := &successPredictor{}
	threshold := c.abortThreshold()
	var cpd float64

	c.log.Info("routing started", "nets", c.nl.Len(), "nodes", c.g.NumNodes(),
		"max_iterations", c.opts.MaxRouterIterations, "timing_driven", c.opts.Timing != nil)

	for c.itry = 1; c.itry <= c.opts.MaxRouterIterations; c.itry++ {
		start := time.Now()
		clear(c.routed)
		c.crit = c.criticalitySource()

		// 1) Reroute every net that needs it, widest first.
		for _, inet := range order {
			if err := ctx.Err(); err != nil {
				return c.finish(res, cpd, fmt.Errorf("%w: %w", ErrCanceled, err))
			}
			if err := c.tryRouteNet(inet); err != nil {
				return c.finish(res, cpd, err)
			}
		}
		c.reserveLocallyUsedOPins(c.itry > 1)

		// 2) Measure.
		feasible := c.cong.Feasible()
		est := pred.estimate()
		over := c.cong.Overuse()
		wl := c.wirelength()
		pred.add(c.itry, over.OverusedNodes)
		if c.opts.Timing != nil {
			c.opts.Timing.Update(c.netDelay)
			cpd = c.opts.Timing.CriticalPathDelay()
		}
		st := IterationStats{
			Iteration:           c.itry,
			Elapsed:             time.Since(start),
			PresFac:             c.presFac,
			Overuse:             over,
			Wirelength:          wl,
			CPD:                 cpd,
			EstSuccessIteration: est,
		}
		res.Stats = append(res.Stats, st)
		res.Iterations = c.itry
		c.logStatus(st)
		c.obs.IterationDone(st)

		// 3) Stop or give up.
		if feasible {
			res.Success = true
			break
		}
		if c.itry == 1 && wl.UsedRatio() > c.opts.FirstIterWirelengthLimit {
			return c.finish(res, cpd, fmt.Errorf("%w: first iteration uses %.1f%% of the wiring, limit %.1f%%",
				ErrAborted, 100*wl.UsedRatio(), 100*c.opts.FirstIterWirelengthLimit))
		}
		if over.OverusedNodes > c.opts.PredictorMinOveruse && !math.IsNaN(est) && est > threshold {
			return c.finish(res, cpd, fmt.Errorf("%w: predicted success iteration %.1f is beyond %.1f",
				ErrAborted, est, threshold))
		}

		// 4) Raise congestion costs for the next pass.
		c.presFac = c.sched.Advance(c.cong, c.itry, c.presFac)
		c.updateTimingState(cpd)
	}

	if !res.Success {
		last := res.Stats[len(res.Stats)-1]
		return c.finish(res, cpd, fmt.Errorf("%w: %d over-used nodes after %d iterations",
			ErrCongested, last.Overuse.OverusedNodes, res.Iterations))
	}
	if c.opts.Timing != nil && c.opts.CheckNetDelays {
		if err := c.checkNetDelays(); err != nil {
			return c.finish(res, cpd, err)
		}
	}
	c.log.Info("routing succeeded", "iterations", res.Iterations, "critical_path", cpd)

	return c.finish(res, cpd, nil)
}

// sortedNets orders net indices by fanout, widest first, keeping input order
// among equals.
func (c *Context) sortedNets() []int {
	order := make([]int, c.nl.Len())
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return c.nl.Nets[b].NumSinks() - c.nl.Nets[a].NumSinks()
	})

	return order
}

// criticalitySource picks the criticalities of the current iteration: all
// ones in a timing-driven first pass, all zeros without timing.
func (c *Context) criticalitySource() TimingAnalyzer {
	switch {
	case c.opts.Timing == nil:
		return constantTiming(0)
	case c.itry == 1:
		return constantTiming(1)
	}

	return c.opts.Timing
}

// updateTimingState does the end-of-iteration connection bookkeeping.
func (c *Context) updateTimingState(cpd float64) {
	if c.opts.Timing == nil {
		for i := range c.netDelay {
			clear(c.netDelay[i])
		}
		return
	}
	if c.itry == 1 {
		c.conns.setStable(cpd)
		c.conns.setLowerBounds(c.netDelay)
		return
	}

	stable := true
	if c.conns.grewSignificantly(cpd) {
		flagged := c.conns.forciblyReroute(c.opts.MaxCriticality, c.opts.Timing, c.netDelay)
		for _, f := range flagged {
			c.obs.ForcedRerouteMarked(f[0], f[1])
		}
		stable = len(flagged) == 0
	}
	if stable {
		c.conns.setStable(cpd)
	}
}

func (c *Context) logStatus(st IterationStats) {
	c.log.Info("iteration",
		"iter", st.Iteration,
		"time", st.Elapsed.Round(time.Microsecond),
		"pres_fac", st.PresFac,
		"overused", st.Overuse.OverusedNodes,
		"overused_pct", 100*st.Overuse.OverusedRatio(),
		"wirelength", st.Wirelength.Used,
		"wirelength_pct", 100*st.Wirelength.UsedRatio(),
		"cpd", st.CPD,
		"est_success", st.EstSuccessIteration,
	)
}

// finish snapshots the routing into res.
func (c *Context) finish(res *Result, cpd float64, err error) (*Result, error) {
	res.Tracebacks = make([]routetree.Traceback, len(c.traces))
	for i, tb := range c.traces {
		res.Tracebacks[i] = slices.Clone(tb)
	}
	res.NetDelay = make([][]float64, len(c.netDelay))
	for i, d := range c.netDelay {
		res.NetDelay[i] = slices.Clone(d)
	}
	res.CriticalPathDelay = cpd
	res.Overuse = c.cong.Overuse()
	res.Congested = c.cong.OverusedNodes()
	res.Wirelength = c.wirelength()
	res.Heap = c.heap.Stats()
	if err != nil {
		res.Reason = err.Error()
		c.log.Info("routing failed", "iterations", res.Iterations, "reason", res.Reason)
	}

	return res, err
}
