package router_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/netlist"
	"github.com/katalvlaran/lvroute/router"
	"github.com/katalvlaran/lvroute/routetree"
	"github.com/katalvlaran/lvroute/rrgraph"
	"github.com/katalvlaran/lvroute/timing"
)

// chainedIsland builds a congested 6×6 island with a random netlist whose
// nets feed the nets driven by their sink blocks. Only links to a later net
// are kept, so the timing graph stays acyclic.
func chainedIsland(t *testing.T, seed int64) (*rrgraph.Graph, *netlist.Netlist, []timing.Link) {
	t.Helper()
	opts := rrgraph.DefaultIslandOptions()
	opts.NX, opts.NY, opts.ChannelWidth = 6, 6, 6
	g, is, err := rrgraph.BuildIsland(opts)
	require.NoError(t, err)
	nl := netlist.Random(is, 6, seed)

	driver := make(map[int]int, nl.Len()) // SOURCE rr-node → net
	for i := range nl.Nets {
		driver[nl.Nets[i].Source] = i
	}
	blockSource := make(map[int]int) // SINK rr-node → SOURCE of its block
	for x := 1; x <= opts.NX; x++ {
		for y := 1; y <= opts.NY; y++ {
			b, _ := is.Block(x, y)
			blockSource[b.Sink] = b.Source
		}
	}

	var links []timing.Link
	for i := range nl.Nets {
		for p, sink := range nl.Nets[i].Sinks {
			to, ok := driver[blockSource[sink]]
			if ok && to > i {
				links = append(links, timing.Link{From: i, Pin: p + 1, To: to, Delay: 1e-10})
			}
		}
	}
	require.NotEmpty(t, links)

	return g, nl, links
}

func TestRoute_IncrementalAndForcedReroute(t *testing.T) {
	tests := []struct {
		name         string
		opts         []router.Option
		wantPreserve bool
	}{
		{"incremental", []router.Option{router.WithMinIncrementalRerouteFanout(1)}, true},
		{"high fanout bins", []router.Option{router.WithHighFanout(2, 1)}, false},
		{"incremental with bins", []router.Option{
			router.WithMinIncrementalRerouteFanout(1), router.WithHighFanout(2, 1),
		}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, nl, links := chainedIsland(t, 42)
			sta, err := timing.New(nl, links...)
			require.NoError(t, err)

			prof := &router.Profile{}
			opts := append([]router.Option{
				router.WithTiming(sta),
				router.WithObserver(prof),
				router.WithMaxIterations(100),
				router.WithPredictor(router.PredictorOff),
				router.WithFirstIterWirelengthLimit(1),
			}, tc.opts...)
			c, err := router.NewContext(g, nl, nil, opts...)
			require.NoError(t, err)

			var res *router.Result
			require.NotPanics(t, func() { res, err = c.Route(context.Background()) })
			require.NoError(t, err)
			require.True(t, res.Success)
			assert.True(t, c.Congestion().Feasible())
			assert.True(t, c.PathCostsReset())
			assert.Empty(t, res.Congested)

			for i := range nl.Nets {
				net := &nl.Nets[i]
				if net.NumSinks() == 0 {
					continue
				}
				tb := res.Tracebacks[i]
				require.NotEmpty(t, tb, net.Name)
				for _, s := range net.Sinks {
					assert.True(t, contains(tb, s), "net %s misses sink %d", net.Name, s)
				}
				tree, err := routetree.FromTraceback(g, tb, func(int) int { return 1 })
				require.NoError(t, err)
				require.NoError(t, tree.Validate())
			}

			assert.Greater(t, res.Iterations, 1, "the island must be congested")
			assert.Positive(t, prof.ForcedMarked)
			assert.Positive(t, prof.ForcedPerformed)
			if tc.wantPreserve {
				assert.Positive(t, prof.TreesPreserved)
			} else {
				assert.Zero(t, prof.TreesPreserved)
			}
		})
	}
}
