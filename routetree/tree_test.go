package routetree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/routetree"
	"github.com/katalvlaran/lvroute/rrgraph"
)

const (
	swBuf   = 0 // buffered, R 2, Tdel 3, Cinternal 0.5
	swPass  = 1 // pass transistor, R 5, Tdel 1
	swFree  = 2 // delayless
	nSource = 0
	nOPin   = 1
	nWireA  = 2
	nWireB  = 3
	nIPinA  = 4
	nSinkA  = 5
	nIPinB  = 6
	nSinkB  = 7
)

// fork builds SOURCE → OPIN → wireA, which feeds IPIN A → SINK A directly and
// IPIN B → SINK B through a buffer and wireB.
func fork(t *testing.T) *rrgraph.Graph {
	t.Helper()
	g, err := rrgraph.New(2, 1)
	require.NoError(t, err)
	g.AddSwitch(rrgraph.Switch{Name: "buf", R: 2, Tdel: 3, Cinternal: 0.5, Buffered: true})
	g.AddSwitch(rrgraph.Switch{Name: "pass", R: 5, Tdel: 1})
	g.AddSwitch(rrgraph.Switch{Name: "free", Buffered: true})
	for i := 0; i < 6; i++ {
		g.AddCostIndex(rrgraph.CostIndexData{BaseCost: 1, OrthoCostIndex: i})
	}
	add := func(kind rrgraph.NodeType, x int, r, c float64, ci int) {
		g.AddNode(rrgraph.Node{Type: kind, XLow: x, YLow: 1, XHigh: x, YHigh: 1, Capacity: 1, CostIndex: ci, R: r, C: c})
	}
	add(rrgraph.Source, 1, 0, 0, rrgraph.SourceCostIndex)
	add(rrgraph.OPin, 1, 0, 0, rrgraph.OPinCostIndex)
	add(rrgraph.ChanX, 1, 10, 1, rrgraph.ChanXCostIndexStart)
	add(rrgraph.ChanX, 2, 10, 1, rrgraph.ChanXCostIndexStart)
	add(rrgraph.IPin, 1, 0, 2, rrgraph.IPinCostIndex)
	add(rrgraph.Sink, 1, 0, 0, rrgraph.SinkCostIndex)
	add(rrgraph.IPin, 2, 0, 2, rrgraph.IPinCostIndex)
	add(rrgraph.Sink, 2, 0, 0, rrgraph.SinkCostIndex)
	for _, e := range [][3]int{
		{nSource, nOPin, swFree},
		{nOPin, nWireA, swPass},
		{nWireA, nWireB, swBuf},
		{nWireA, nIPinA, swPass},
		{nIPinA, nSinkA, swFree},
		{nWireB, nIPinB, swPass},
		{nIPinB, nSinkB, swFree},
	} {
		require.NoError(t, g.AddEdge(e[0], e[1], e[2]))
	}
	require.NoError(t, g.Validate())

	return g
}

var forkTraceback = routetree.Traceback{
	{nSource, swFree}, {nOPin, swPass}, {nWireA, swPass}, {nIPinA, swFree}, {nSinkA, rrgraph.NoSwitch},
	{nWireA, swBuf}, {nWireB, swPass}, {nIPinB, swFree}, {nSinkB, rrgraph.NoSwitch},
}

func pins() func(int) int {
	return func(inode int) int {
		if inode == nSinkA {
			return 1
		}
		return 2
	}
}

func TestFromTraceback_Electricals(t *testing.T) {
	g := fork(t)
	tr, err := routetree.FromTraceback(g, forkTraceback, pins())
	require.NoError(t, err)
	require.NoError(t, tr.Validate())
	require.Equal(t, 8, tr.Len())

	want := []struct {
		inode       int
		rUp, cDown  float64
		tdel        float64
		reExpand    bool
		pin, parent int
	}{
		{nSource, 0, 0, 0, true, 0, routetree.NoParent},
		{nOPin, 0, 3.5, 0, true, 0, 0},
		{nWireA, 15, 3.5, 36, true, 0, 1},
		{nIPinA, 20, 2, 47, false, 0, 2},
		{nSinkA, 0, 0, 47, false, 1, 3},
		{nWireB, 12, 3, 60, true, 0, 2},
		{nIPinB, 17, 2, 71, false, 0, 5},
		{nSinkB, 0, 0, 71, false, 2, 6},
	}
	for id, w := range want {
		n := tr.Node(id)
		assert.Equal(t, w.inode, n.Inode, "node %d", id)
		assert.Equal(t, w.parent, n.Parent, "node %d", id)
		assert.InDelta(t, w.rUp, n.RUpstream, 1e-12, "R_upstream of %d", id)
		assert.InDelta(t, w.cDown, n.CDownstream, 1e-12, "C_downstream of %d", id)
		assert.InDelta(t, w.tdel, n.Tdel, 1e-12, "Tdel of %d", id)
		assert.Equal(t, w.reExpand, n.ReExpand, "re-expand of %d", id)
		assert.Equal(t, w.pin, n.Pin, "pin of %d", id)
	}

	delays := tr.PinDelays(2)
	assert.InDelta(t, 47, delays[1], 1e-12)
	assert.InDelta(t, 71, delays[2], 1e-12)
	assert.Equal(t, []int{4, 7}, tr.Sinks())

	id, ok := tr.Lookup(nWireB)
	require.True(t, ok)
	assert.Equal(t, 5, id)
	assert.False(t, tr.Contains(nSinkA), "SINKs are not indexed")
}

func TestTraceback_RoundTrip(t *testing.T) {
	g := fork(t)
	tr, err := routetree.FromTraceback(g, forkTraceback, pins())
	require.NoError(t, err)
	require.Equal(t, forkTraceback, tr.Traceback())

	assert.Equal(t, []int{nSource, nOPin, nWireA, nIPinA, nSinkA, nWireB, nIPinB, nSinkB}, forkTraceback.Nodes(g))
	segs := forkTraceback.Segments(g)
	require.Len(t, segs, 2)
	assert.Equal(t, nWireA, segs[1][0].Node, "later segments start at their branch point")
}

func TestAddPath_MatchesFullReload(t *testing.T) {
	g := fork(t)
	full, err := routetree.FromTraceback(g, forkTraceback, pins())
	require.NoError(t, err)

	inc := routetree.New(g, nSource)
	sink, err := inc.AddPath(forkTraceback[:5], 1)
	require.NoError(t, err)
	assert.Equal(t, 4, sink)
	sink, err = inc.AddPath(forkTraceback[5:], 2)
	require.NoError(t, err)
	assert.Equal(t, 7, sink)

	require.NoError(t, inc.Validate())
	require.Equal(t, full.Nodes(), inc.Nodes())
}

func TestAddPath_Errors(t *testing.T) {
	g := fork(t)
	tr := routetree.New(g, nSource)

	_, err := tr.AddPath(routetree.Traceback{{nSource, rrgraph.NoSwitch}}, 1)
	require.ErrorIs(t, err, routetree.ErrBadBranch)

	_, err = tr.AddPath(routetree.Traceback{{nWireA, swPass}, {nIPinA, swFree}, {nSinkA, rrgraph.NoSwitch}}, 1)
	require.ErrorIs(t, err, routetree.ErrBadBranch, "branch point must be routed")

	_, err = tr.AddPath(forkTraceback[:5], 1)
	require.NoError(t, err)
	_, err = tr.AddPath(routetree.Traceback{{nSource, swFree}, {nOPin, swPass}, {nWireA, swBuf}, {nWireB, rrgraph.NoSwitch}}, 2)
	require.ErrorIs(t, err, routetree.ErrBadBranch, "cannot route through an already routed node")
}

func TestFromTraceback_Errors(t *testing.T) {
	g := fork(t)
	_, err := routetree.FromTraceback(g, nil, nil)
	require.ErrorIs(t, err, routetree.ErrEmptyTraceback)

	bad := append(routetree.Traceback{}, forkTraceback[:5]...)
	bad = append(bad, routetree.Elem{Node: nWireB, Switch: swPass}, routetree.Elem{Node: nIPinB, Switch: swFree},
		routetree.Elem{Node: nSinkB, Switch: rrgraph.NoSwitch})

	tests := []struct {
		name string
		tb   routetree.Traceback
		want error
	}{
		{"BranchNotRouted", bad, routetree.ErrBadBranch},
		{"NoSwitchLink", routetree.Traceback{
			{nSource, rrgraph.NoSwitch}, {nOPin, swPass}, {nWireA, swPass}, {nIPinA, swFree}, {nSinkA, rrgraph.NoSwitch},
		}, routetree.ErrDisconnectedEdge},
		{"SwitchOutOfRange", routetree.Traceback{
			{nSource, swFree}, {nOPin, 7}, {nWireA, swPass}, {nIPinA, swFree}, {nSinkA, rrgraph.NoSwitch},
		}, routetree.ErrDisconnectedEdge},
		{"WrongSwitch", routetree.Traceback{
			{nSource, swFree}, {nOPin, swBuf}, {nWireA, swPass}, {nIPinA, swFree}, {nSinkA, rrgraph.NoSwitch},
		}, routetree.ErrDisconnectedEdge},
		{"NotAnEdge", routetree.Traceback{
			{nSource, swFree}, {nOPin, swPass}, {nWireA, swPass}, {nIPinB, swFree}, {nSinkB, rrgraph.NoSwitch},
		}, routetree.ErrDisconnectedEdge},
		{"NodeOutOfRange", routetree.Traceback{{nSource, swFree}, {nOPin, swPass}, {99, rrgraph.NoSwitch}}, routetree.ErrBadBranch},
		{"NegativeSource", routetree.Traceback{{-1, swFree}, {nOPin, swPass}}, routetree.ErrBadBranch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, err = routetree.FromTraceback(g, tc.tb, pins())
			})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAddPath_RejectsMissingEdge(t *testing.T) {
	g := fork(t)
	tr := routetree.New(g, nSource)
	_, err := tr.AddPath(routetree.Traceback{{nSource, swFree}, {nOPin, swPass}, {nWireA, swPass}, {nIPinB, swFree}, {nSinkB, rrgraph.NoSwitch}}, 2)
	require.ErrorIs(t, err, routetree.ErrDisconnectedEdge)
	require.Equal(t, 1, tr.Len(), "a rejected path leaves the tree untouched")

	_, err = tr.AddPath(routetree.Traceback{{nSource, swFree}, {42, rrgraph.NoSwitch}}, 1)
	require.ErrorIs(t, err, routetree.ErrBadBranch)
}

func TestValidate_DetectsMissingEdge(t *testing.T) {
	g := fork(t)
	tr, err := routetree.FromTraceback(g, forkTraceback, pins())
	require.NoError(t, err)
	tr.Node(5).ParentSwitch = swPass
	require.ErrorIs(t, tr.Validate(), routetree.ErrDisconnectedEdge)
}

func TestPrune(t *testing.T) {
	g := fork(t)

	t.Run("LegalTreeUnchanged", func(t *testing.T) {
		tr, err := routetree.FromTraceback(g, forkTraceback, pins())
		require.NoError(t, err)
		before := append([]routetree.Node(nil), tr.Nodes()...)

		res := tr.Prune(func(int) bool { return false }, nil)
		assert.False(t, res.Destroyed)
		assert.Equal(t, []int{1, 2}, res.ReachedPins)
		assert.Empty(t, res.PrunedPins)
		assert.Equal(t, before, tr.Nodes())
		assert.Equal(t, forkTraceback, tr.Traceback())
	})

	t.Run("CongestedBranch", func(t *testing.T) {
		tr, err := routetree.FromTraceback(g, forkTraceback, pins())
		require.NoError(t, err)

		res := tr.Prune(func(inode int) bool { return inode == nWireB }, nil)
		require.NoError(t, tr.Validate())
		assert.False(t, res.Destroyed)
		assert.Equal(t, []int{1}, res.ReachedPins)
		assert.Equal(t, []int{2}, res.PrunedPins)
		assert.Equal(t, forkTraceback[:5], tr.Traceback())
		assert.False(t, tr.Contains(nWireB))

		wire, _ := tr.Lookup(nWireA)
		assert.InDelta(t, 3.0, tr.Node(wire).CDownstream, 1e-12, "capacitance of the removed branch is gone")
	})

	t.Run("ForcedSink", func(t *testing.T) {
		tr, err := routetree.FromTraceback(g, forkTraceback, pins())
		require.NoError(t, err)

		res := tr.Prune(nil, func(sink int) bool { return sink == nSinkA })
		require.NoError(t, tr.Validate())
		assert.Equal(t, []int{nSinkA}, res.ClearedSinks)
		assert.Equal(t, []int{1}, res.PrunedPins)
		assert.Equal(t, []int{2}, res.ReachedPins)
		assert.False(t, tr.Contains(nIPinA), "dangling IPIN is removed")
		assert.True(t, tr.Contains(nWireA))
	})

	t.Run("Destroyed", func(t *testing.T) {
		tr, err := routetree.FromTraceback(g, forkTraceback, pins())
		require.NoError(t, err)

		res := tr.Prune(func(inode int) bool { return inode == nOPin }, nil)
		assert.True(t, res.Destroyed)
		assert.Equal(t, 1, tr.Len())
		assert.Equal(t, nSource, tr.Node(tr.Root()).Inode)
		assert.Equal(t, []int{1, 2}, res.PrunedPins)
		assert.Empty(t, res.ReachedPins)
	})
}
