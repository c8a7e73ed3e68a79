package netlist

import "github.com/katalvlaran/lvroute/rrgraph"

// BBox is an inclusive rectangle in device coordinates.
type BBox struct {
	XMin, YMin, XMax, YMax int
}

// Overlaps reports whether node n's extent intersects the box.
func (b BBox) Overlaps(n *rrgraph.Node) bool {
	return n.XHigh >= b.XMin && n.XLow <= b.XMax && n.YHigh >= b.YMin && n.YLow <= b.YMax
}

// Area returns (XMax-XMin)*(YMax-YMin), the measure used to size per-sink bins.
func (b BBox) Area() int {
	return (b.XMax - b.XMin) * (b.YMax - b.YMin)
}

// TerminalBB returns the tight box around the terminals of n.
func TerminalBB(g *rrgraph.Graph, n *Net) BBox {
	src := g.Node(n.Source)
	bb := BBox{XMin: src.XLow, YMin: src.YLow, XMax: src.XLow, YMax: src.YLow}
	for _, s := range n.Sinks {
		node := g.Node(s)
		bb.XMin = min(bb.XMin, node.XLow)
		bb.XMax = max(bb.XMax, node.XLow)
		bb.YMin = min(bb.YMin, node.YLow)
		bb.YMax = max(bb.YMax, node.YLow)
	}

	return bb
}

// RouteBB returns the region the maze router may explore for net n: the
// terminal box with the channels below and to the left included, expanded by
// bbFactor channels on every side and clipped to [0,nx+1]×[0,ny+1].
func RouteBB(g *rrgraph.Graph, n *Net, bbFactor int) BBox {
	bb := TerminalBB(g, n)
	// The channels on all four sides must be usable even when bbFactor is 0.
	bb.XMin--
	bb.YMin--

	return BBox{
		XMin: max(bb.XMin-bbFactor, 0),
		YMin: max(bb.YMin-bbFactor, 0),
		XMax: min(bb.XMax+bbFactor, g.NX+1),
		YMax: min(bb.YMax+bbFactor, g.NY+1),
	}
}
