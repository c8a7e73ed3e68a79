package router

import (
	"math"

	"github.com/katalvlaran/lvroute/rrgraph"
)

// roundUp is ceil with a small tolerance so 2.0004 segments count as 2.
func roundUp(x float64) int {
	return int(math.Ceil(x - 0.001))
}

// expectedSegs estimates how many segments of inode's type (same) and of its
// orthogonal type (ortho) are still needed to reach target. inode is a
// CHANX or CHANY node; target is a SINK whose (xlow, ylow) is its block.
func expectedSegs(g *rrgraph.Graph, inode, target int) (same, ortho int) {
	n := g.Node(inode)
	t := g.Node(target)
	tx, ty := float64(t.XLow), float64(t.YLow)
	ci := g.CostIndex(n.CostIndex)
	invLen := ci.InvLength
	orthoInvLen := g.CostIndex(ci.OrthoCostIndex).InvLength
	xlow, xhigh := float64(n.XLow), float64(n.XHigh)
	ylow, yhigh := float64(n.YLow), float64(n.YHigh)

	// A wire in the row or column next to the target block needs no
	// orthogonal segment and may stop one block short.
	var pass float64
	if n.Type == rrgraph.ChanX {
		switch {
		case ylow > ty:
			ortho = roundUp((ylow - ty + 1) * orthoInvLen)
			pass = 1
		case ylow < ty-1:
			ortho = roundUp((ty - ylow) * orthoInvLen)
			pass = 1
		}
		switch {
		case xlow > tx+pass:
			same = roundUp((xlow - pass - tx) * invLen)
		case xhigh < tx-pass:
			same = roundUp((tx - pass - xhigh) * invLen)
		}

		return same, ortho
	}

	switch {
	case xlow > tx:
		ortho = roundUp((xlow - tx + 1) * orthoInvLen)
		pass = 1
	case xlow < tx-1:
		ortho = roundUp((tx - xlow) * orthoInvLen)
		pass = 1
	}
	switch {
	case ylow > ty+pass:
		same = roundUp((ylow - pass - ty) * invLen)
	case yhigh < ty-pass:
		same = roundUp((ty - pass - yhigh) * invLen)
	}

	return same, ortho
}

// expectedCost is the lookahead from inode to target: a weighted blend of the
// estimated remaining delay and congestion. It is not a lower bound.
func (c *Context) expectedCost(inode, target int, crit, rUpstream float64) float64 {
	n := c.g.Node(inode)
	switch n.Type {
	case rrgraph.ChanX, rrgraph.ChanY:
		same, ortho := expectedSegs(c.g, inode, target)
		ci := c.g.CostIndex(n.CostIndex)
		oi := ci.OrthoCostIndex
		co := c.g.CostIndex(oi)
		fs, fo := float64(same), float64(ortho)

		cong := fs*c.baseCost[n.CostIndex] + fo*c.baseCost[oi] +
			c.baseCost[rrgraph.IPinCostIndex] + c.baseCost[rrgraph.SinkCostIndex]
		tdel := fs*ci.TLinear + fo*co.TLinear +
			fs*fs*ci.TQuadratic + fo*fo*co.TQuadratic +
			rUpstream*(fs*ci.CLoad+fo*co.CLoad) +
			c.g.CostIndex(rrgraph.IPinCostIndex).TLinear

		return crit*tdel + (1-crit)*cong
	case rrgraph.IPin:
		return c.baseCost[rrgraph.SinkCostIndex]
	}

	return 0
}

// updateBaseCosts rescales the working base costs for a net of the given
// fanout: wire types with a quadratic delay term get saved × sqrt(fanout).
func (c *Context) updateBaseCosts(fanout int) {
	f := math.Sqrt(float64(fanout))
	idx := c.g.CostIndices()
	for i := rrgraph.ChanXCostIndexStart; i < len(idx); i++ {
		c.baseCost[i] = idx[i].SavedBaseCost
		if idx[i].TQuadratic > 0 {
			c.baseCost[i] *= f
		}
	}
}

// congCost is the congestion cost of inode under the current base costs.
func (c *Context) congCost(inode int) float64 {
	return c.cong.CongCost(inode, c.baseCost[c.g.Node(inode).CostIndex])
}
