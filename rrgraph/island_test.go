package rrgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/rrgraph"
)

func TestBuildIsland_Counts(t *testing.T) {
	opts := rrgraph.DefaultIslandOptions()
	opts.NX, opts.NY, opts.ChannelWidth = 3, 2, 2
	g, is, err := rrgraph.BuildIsland(opts)
	require.NoError(t, err)

	// CHANX: NX*(NY+1) segments, CHANY: (NX+1)*NY segments, W tracks each.
	wires := (3*3 + 4*2) * 2
	// Per block: SOURCE, SINK, Outputs OPINs, Inputs IPINs.
	pins := 3 * 2 * (2 + opts.Outputs + opts.Inputs)
	assert.Equal(t, wires+pins, g.NumNodes())
	assert.Equal(t, 6, g.NumCostIndices())

	b, ok := is.Block(2, 1)
	require.True(t, ok)
	assert.Equal(t, rrgraph.Source, g.Node(b.Source).Type)
	assert.Equal(t, opts.Inputs, g.Node(b.Sink).Capacity)
	require.Len(t, b.IPins, opts.Inputs)

	_, ok = is.Block(0, 1)
	assert.False(t, ok)
	assert.Nil(t, is.ChanX(0, 0))
	assert.Len(t, is.ChanY(0, 1), 2)
}

func TestBuildIsland_Connectivity(t *testing.T) {
	g, is, err := rrgraph.BuildIsland(rrgraph.DefaultIslandOptions())
	require.NoError(t, err)

	// BFS from one block's SOURCE must reach every other block's SINK.
	src, _ := is.Block(1, 1)
	seen := make([]bool, g.NumNodes())
	queue := []int{src.Source}
	seen[src.Source] = true
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, e := range g.Node(u).Edges {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	for x := 1; x <= 4; x++ {
		for y := 1; y <= 4; y++ {
			b, _ := is.Block(x, y)
			assert.True(t, seen[b.Sink], "sink of block (%d,%d) unreachable", x, y)
		}
	}
}

func TestBuildIsland_BadOptions(t *testing.T) {
	opts := rrgraph.DefaultIslandOptions()
	opts.ChannelWidth = 0
	_, _, err := rrgraph.BuildIsland(opts)
	require.ErrorIs(t, err, rrgraph.ErrBadIslandOption)
}
