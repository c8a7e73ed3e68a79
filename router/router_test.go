package router_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/netlist"
	"github.com/katalvlaran/lvroute/router"
	"github.com/katalvlaran/lvroute/routetree"
	"github.com/katalvlaran/lvroute/rrgraph"
	"github.com/katalvlaran/lvroute/timing"
)

func TestRoute_StraightLine(t *testing.T) {
	for _, d := range []int{1, 3, 6} {
		t.Run(fmt.Sprintf("d=%d", d), func(t *testing.T) {
			g, nl := lineFabric(t, d, 2)
			res, err := router.Route(context.Background(), g, nl)
			require.NoError(t, err)
			require.True(t, res.Success)

			assert.Equal(t, 1, res.Iterations)
			assert.Equal(t, d, countWires(g, res.Tracebacks[0]), "one unit wire per block crossed")
			require.Len(t, res.Stats, 1)
			assert.Zero(t, res.Stats[0].PresFac, "congestion never escalated")
			assert.Zero(t, res.Overuse.OverusedNodes)
			assert.Equal(t, d, res.Wirelength.Used)
		})
	}
}

func TestRoute_StraightLineTimingDriven(t *testing.T) {
	g, nl := lineFabric(t, 4, 1)
	sta, err := timing.New(nl)
	require.NoError(t, err)

	res, err := router.Route(context.Background(), g, nl, router.WithTiming(sta))
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Positive(t, res.NetDelay[0][1])
	assert.InDelta(t, res.NetDelay[0][1], res.CriticalPathDelay, 1e-12)
}

func TestRoute_SharedNodeResolves(t *testing.T) {
	s := newSharedFabric(t, true)
	res, err := router.Route(context.Background(), s.g, s.nl,
		router.WithAstarFac(0), router.WithFirstIterWirelengthLimit(100))
	require.NoError(t, err)
	require.True(t, res.Success)

	// Iteration 1 ignores congestion so both nets take the short wire.
	assert.Equal(t, 1, res.Stats[0].Overuse.OverusedNodes)
	assert.Equal(t, 3, res.Iterations)
	assert.True(t, contains(res.Tracebacks[0], s.w))
	assert.True(t, contains(res.Tracebacks[1], s.detour[0]))
	assert.False(t, contains(res.Tracebacks[1], s.w))
}

func TestRoute_SharedNodeNoAlternative(t *testing.T) {
	s := newSharedFabric(t, false)
	res, err := router.Route(context.Background(), s.g, s.nl,
		router.WithMaxIterations(5),
		router.WithPredictor(router.PredictorOff),
		router.WithFirstIterWirelengthLimit(100))
	require.ErrorIs(t, err, router.ErrCongested)
	assert.NotErrorIs(t, err, router.ErrUnroutable)

	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, 5, res.Iterations)
	assert.Equal(t, 1, res.Overuse.OverusedNodes)
	assert.Equal(t, []int{s.w}, res.Congested)
	assert.Equal(t, err.Error(), res.Reason)
}

func TestRoute_UnreachableSink(t *testing.T) {
	f := newFabric(t, 2, 1)
	src, opin := f.node(rrgraph.Source, 1, 1), f.node(rrgraph.OPin, 1, 1)
	w := f.node(rrgraph.ChanX, 1, 1)
	sink := f.node(rrgraph.Sink, 2, 1)
	f.chain(src, opin, w)
	g := f.graph()
	nl := &netlist.Netlist{}
	nl.Add(netlist.Net{Name: "island", Source: src, Sinks: []int{sink}})

	res, err := router.Route(context.Background(), g, nl)
	require.ErrorIs(t, err, router.ErrUnroutable)
	assert.NotErrorIs(t, err, router.ErrCongested)

	var ce *router.ConnectionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "island", ce.Net)
	assert.Equal(t, src, ce.SrcIdx)
	assert.Equal(t, sink, ce.DstIdx)
	assert.Equal(t, rrgraph.Sink, ce.Sink.Type)
	assert.Contains(t, err.Error(), "SINK (2,1)")

	require.NotNil(t, res)
	assert.Zero(t, res.Iterations)
}

func TestRoute_IslandFeasible(t *testing.T) {
	opts := rrgraph.DefaultIslandOptions()
	opts.NX, opts.NY, opts.ChannelWidth = 3, 3, 4
	g, is, err := rrgraph.BuildIsland(opts)
	require.NoError(t, err)
	nl := netlist.Ring(is)

	prof := &router.Profile{}
	c, err := router.NewContext(g, nl, nil, router.WithObserver(prof))
	require.NoError(t, err)
	res, err := c.Route(context.Background())
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.True(t, c.Congestion().Feasible())
	assert.True(t, c.PathCostsReset())
	for i := range nl.Nets {
		net := &nl.Nets[i]
		tb := c.Traceback(i)
		require.NotEmpty(t, tb, net.Name)
		assert.Equal(t, net.Source, tb[0].Node)
		for _, s := range net.Sinks {
			assert.True(t, contains(tb, s), "net %s misses sink %d", net.Name, s)
		}
		tree, err := routetree.FromTraceback(g, tb, func(int) int { return 1 })
		require.NoError(t, err)
		require.NoError(t, tree.Validate())
	}

	assert.Equal(t, res.Iterations, prof.Iterations)
	assert.GreaterOrEqual(t, prof.SinksRouted, 2*nl.Len())
	assert.Equal(t, prof.SinksRouted, sum(prof.SinksByCriticality[:]))
}

func TestContext_OccupancyConservation(t *testing.T) {
	opts := rrgraph.DefaultIslandOptions()
	opts.NX, opts.NY = 3, 3
	g, is, err := rrgraph.BuildIsland(opts)
	require.NoError(t, err)
	nl := netlist.Ring(is)

	c, err := router.NewContext(g, nl, nil)
	require.NoError(t, err)
	_, err = c.Route(context.Background())
	require.NoError(t, err)

	before := occupancies(c)
	for i := range nl.Nets {
		c.UpdatePathCost(i, -1)
	}
	for inode, occ := range occupancies(c) {
		require.Zero(t, occ, "node %d still occupied after full rip-up", inode)
	}
	for i := range nl.Nets {
		c.UpdatePathCost(i, +1)
	}
	assert.Equal(t, before, occupancies(c))
}

func TestRoute_Reservation(t *testing.T) {
	opts := rrgraph.DefaultIslandOptions()
	opts.NX, opts.NY, opts.Outputs = 2, 2, 2
	g, is, err := rrgraph.BuildIsland(opts)
	require.NoError(t, err)
	a, _ := is.Block(1, 1)
	b, _ := is.Block(2, 2)
	nl := &netlist.Netlist{Reservations: []netlist.OPinReservation{{Source: b.Source, Count: 1}}}
	nl.Add(netlist.Net{Name: "n", Source: a.Source, Sinks: []int{b.Sink}})

	c, err := router.NewContext(g, nl, nil)
	require.NoError(t, err)
	res, err := c.Route(context.Background())
	require.NoError(t, err)
	require.True(t, res.Success)

	held := 0
	for _, p := range b.OPins {
		held += c.Congestion().Occupancy(p)
	}
	assert.Equal(t, 1, held)
}

func TestRoute_FixedNet(t *testing.T) {
	g, nl := lineFabric(t, 2, 2)
	first, err := router.Route(context.Background(), g, nl)
	require.NoError(t, err)

	nl.Nets[0].Fixed = true
	fixed := map[int]routetree.Traceback{0: first.Tracebacks[0]}
	res, err := router.RouteFixed(context.Background(), g, nl, fixed)
	require.NoError(t, err)
	assert.Equal(t, first.Tracebacks[0], res.Tracebacks[0])

	_, err = router.RouteFixed(context.Background(), g, nl, nil)
	require.ErrorIs(t, err, router.ErrMissingFixedRoute)
}

func TestRoute_Canceled(t *testing.T) {
	g, nl := lineFabric(t, 2, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := router.Route(ctx, g, nl)
	require.ErrorIs(t, err, router.ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRoute_FirstIterationWirelengthAbort(t *testing.T) {
	s := newSharedFabric(t, false)
	_, err := router.Route(context.Background(), s.g, s.nl)
	require.ErrorIs(t, err, router.ErrAborted)
}

func TestNewContext_BadOptions(t *testing.T) {
	g, nl := lineFabric(t, 1, 1)

	assert.Panics(t, func() { _, _ = router.NewContext(g, nl, nil, router.WithMaxIterations(0)) })
	assert.Panics(t, func() { _, _ = router.NewContext(g, nl, nil, router.WithCriticality(1.5, 1)) })
	assert.Panics(t, func() { _, _ = router.NewContext(g, nl, nil, router.WithAstarFac(-1)) })
	assert.Panics(t, func() { _, _ = router.NewContext(g, nl, nil, router.WithHighFanout(-1, 0)) })
	assert.Panics(t, func() { _, _ = router.NewContext(g, nl, nil, router.WithHighFanout(8, -2)) })
	assert.Panics(t, func() { _, _ = router.NewContext(g, nl, nil, router.WithMinIncrementalRerouteFanout(-1)) })

	tests := []struct {
		name string
		set  router.Option
		want error
	}{
		{"Iterations", func(o *router.Options) { o.MaxRouterIterations = 0 }, router.ErrBadIterations},
		{"HighFanoutLimit", func(o *router.Options) { o.HighFanoutNetLimit = -1 }, router.ErrBadFactor},
		{"BinSlack", func(o *router.Options) { o.BinSlack = -3 }, router.ErrBadFactor},
		{"IncrementalFanout", func(o *router.Options) { o.MinIncrementalRerouteFanout = -5 }, router.ErrBadFactor},
		{"InitialPresFac", func(o *router.Options) { o.InitialPresFac = -0.5 }, router.ErrBadFactor},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := router.NewContext(g, nl, nil, tc.set)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParsePredictorMode(t *testing.T) {
	for _, m := range []router.PredictorMode{router.PredictorSafe, router.PredictorAggressive, router.PredictorOff} {
		got, err := router.ParsePredictorMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := router.ParsePredictorMode("eager")
	require.Error(t, err)
}

func TestReport(t *testing.T) {
	g, nl := lineFabric(t, 3, 1)
	res, err := router.Route(context.Background(), g, nl)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, router.Report(&buf, res))
	assert.Contains(t, buf.String(), "Overused RR Nodes")
	assert.Contains(t, buf.String(), "N/A")
	assert.Contains(t, buf.String(), "Successfully routed after 1 routing iterations.")

	s := newSharedFabric(t, false)
	res, _ = router.Route(context.Background(), s.g, s.nl, router.WithMaxIterations(2),
		router.WithFirstIterWirelengthLimit(100))
	buf.Reset()
	require.NoError(t, router.Report(&buf, res))
	assert.Contains(t, buf.String(), "Routing failed after 2 iterations")
	assert.Contains(t, buf.String(), fmt.Sprintf("Overused rr-nodes: %d\n", s.w))
}

func occupancies(c *router.Context) []int {
	g := c.Graph()
	out := make([]int, g.NumNodes())
	for i := range out {
		out[i] = c.Congestion().Occupancy(i)
	}

	return out
}

func sum(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}

	return s
}
