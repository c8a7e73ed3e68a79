package router

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvroute/pqueue"
	"github.com/katalvlaran/lvroute/routetree"
	"github.com/katalvlaran/lvroute/rrgraph"
)

// target bundles what one connection search needs to know about its sink.
type target struct {
	inet   int
	pin    int
	node   int
	crit   float64
	sinks  int // fanout of the net
	binLim int // high-fanout bin radius, valid when sinks ≥ HighFanoutNetLimit
}

// routeConnection runs the directed search from every re-expandable node of
// tree to t.node. It returns the heap entry that reached the sink, or nil
// when the heap ran dry. The caller releases the entry.
func (c *Context) routeConnection(tree *routetree.Tree, t *target) *pqueue.Entry {
	t.binLim = c.markBins(tree, t)

	// 1) Seed with the whole partial routing, then heapify once.
	c.seedFromTree(tree, t)
	c.heap.Build()

	// 2) Expand until the sink is popped.
	for {
		cur, ok := c.heap.PopMin()
		if !ok {
			c.resetPathCosts()
			return nil
		}
		inode := cur.Node
		if inode == t.node {
			return cur
		}

		oldTotal := c.pathCost[inode]
		oldBack := c.backCost[inode]
		firstTouch := oldTotal > 0.99*hugeCost
		if firstTouch {
			oldBack = hugeCost
		}
		// Re-expand only if both the total and the backward cost improve.
		if oldTotal > cur.Cost && oldBack > cur.BackwardCost {
			c.prevNode[inode] = cur.PrevNode
			c.prevEdge[inode] = cur.PrevEdge
			c.pathCost[inode] = cur.Cost
			c.backCost[inode] = cur.BackwardCost
			if firstTouch {
				c.modified = append(c.modified, inode)
			}
			c.expandNeighbours(tree, cur, t)
		}
		c.heap.Release(cur)
	}
}

// seedFromTree pushes every re-expandable tree node, pre-order, with the
// delay already accumulated along the tree as its backward cost.
func (c *Context) seedFromTree(tree *routetree.Tree, t *target) {
	stack := []int{tree.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := tree.Node(id)
		if n.ReExpand {
			back := t.crit * n.Tdel
			total := back + c.opts.AstarFac*c.expectedCost(n.Inode, t.node, t.crit, n.RUpstream)
			if total < c.pathCost[n.Inode] {
				e := c.heap.Alloc()
				e.Node, e.Cost, e.BackwardCost, e.RUpstream = n.Inode, total, back, n.RUpstream
				c.heap.PushBack(e)
			}
		}
		for k := len(n.Children) - 1; k >= 0; k-- {
			stack = append(stack, n.Children[k])
		}
	}
}

// expandNeighbours pushes every admissible fanout of cur.
func (c *Context) expandNeighbours(tree *routetree.Tree, cur *pqueue.Entry, t *target) {
	from := c.g.Node(cur.Node)
	tn := c.g.Node(t.node)
	tx, ty := tn.XHigh, tn.YHigh
	highFanout := t.sinks >= c.opts.HighFanoutNetLimit
	bb := c.bbs[t.inet]

	for iedge, e := range from.Edges {
		to := c.g.Node(e.To)
		if highFanout {
			r := t.binLim
			if to.XHigh < tx-r || to.XLow > tx+r || to.YHigh < ty-r || to.YLow > ty+r {
				continue
			}
		} else if !bb.Overlaps(to) {
			continue
		}
		// Only the target block's input pins lead anywhere useful.
		if to.Type == rrgraph.IPin && (to.XHigh != tx || to.YHigh != ty) {
			continue
		}
		// Tree nodes enter the search as seeds only.
		if tree.Contains(e.To) {
			continue
		}

		back := cur.BackwardCost + (1-t.crit)*c.congCost(e.To)
		sw := c.g.Switch(e.Switch)
		rUp := sw.R
		if !sw.Buffered {
			rUp += cur.RUpstream
		}
		tdel := to.C*(rUp+0.5*to.R) + sw.Tdel
		rUp += to.R
		back += t.crit * tdel
		if c.opts.BendCost != 0 &&
			((from.Type == rrgraph.ChanX && to.Type == rrgraph.ChanY) ||
				(from.Type == rrgraph.ChanY && to.Type == rrgraph.ChanX)) {
			back += c.opts.BendCost
		}
		total := back + c.opts.AstarFac*c.expectedCost(e.To, t.node, t.crit, rUp)
		if total >= c.pathCost[e.To] {
			continue
		}
		ent := c.heap.Alloc()
		ent.Node, ent.Cost, ent.PrevNode, ent.PrevEdge = e.To, total, cur.Node, iedge
		ent.BackwardCost, ent.RUpstream = back, rUp
		c.heap.Push(ent)
	}
}

// markBins sizes the search bin of a high-fanout net around the target and
// lets only the root's children inside it seed the search. Smaller nets are
// confined by their bounding box instead and get radius 1.
func (c *Context) markBins(tree *routetree.Tree, t *target) int {
	if t.sinks < c.opts.HighFanoutNetLimit {
		return 1
	}
	chip := max(c.g.NX+2, c.g.NY+2)
	root := tree.Node(tree.Root())
	if len(root.Children) == 0 {
		return chip
	}

	tn := c.g.Node(t.node)
	tx, ty := tn.XHigh, tn.YHigh
	within := func(inode, r int) bool {
		n := c.g.Node(inode)
		return n.XLow <= tx+r && n.XHigh >= tx-r && n.YLow <= ty+r && n.YHigh >= ty-r
	}
	wire := func(inode int) bool {
		k := c.g.Node(inode).Type
		return k != rrgraph.IPin && k != rrgraph.Sink
	}

	area := max(c.bbs[t.inet].Area(), 1)
	rlim := int(math.Ceil(math.Sqrt(float64(area) / float64(t.sinks))))
	for {
		found := false
		for _, ch := range root.Children {
			inode := tree.Node(ch).Inode
			if wire(inode) && within(inode, rlim) {
				found = true
				break
			}
		}
		if found {
			rlim += c.opts.BinSlack
			break
		}
		if rlim > chip {
			panic(fmt.Sprintf("router: net %d has routing outside any bin around sink %d", t.inet, t.node))
		}
		rlim *= 2
	}
	rlim += max(tn.XHigh-tn.XLow, tn.YHigh-tn.YLow)

	for _, ch := range root.Children {
		n := tree.Node(ch)
		if wire(n.Inode) {
			n.ReExpand = within(n.Inode, rlim)
		}
	}

	return rlim
}

// commitConnection turns the predecessor chain ending at sink into a traceback
// segment, grafts it onto tree, and charges its nodes to the congestion model.
func (c *Context) commitConnection(tree *routetree.Tree, sink *pqueue.Entry, t *target) error {
	seg := routetree.Traceback{{Node: sink.Node, Switch: rrgraph.NoSwitch}}
	inode, iedge := sink.PrevNode, sink.PrevEdge
	for inode != pqueue.Open {
		seg = append(seg, routetree.Elem{Node: inode, Switch: c.g.Node(inode).Edges[iedge].Switch})
		inode, iedge = c.prevNode[inode], c.prevEdge[inode]
	}
	for i, j := 0, len(seg)-1; i < j; i, j = i+1, j-1 {
		seg[i], seg[j] = seg[j], seg[i]
	}

	if _, err := tree.AddPath(seg, t.pin); err != nil {
		return fmt.Errorf("net %q pin %d: %w", c.nl.Nets[t.inet].Name, t.pin, err)
	}

	// The first segment also occupies the SOURCE; later ones start at a
	// branch point that is already charged.
	fresh := seg
	if len(c.traces[t.inet]) > 0 {
		fresh = seg[1:]
	}
	c.traces[t.inet] = append(c.traces[t.inet], seg...)
	for _, el := range fresh {
		c.cong.UpdateNode(el.Node, +1, c.presFac)
	}

	return nil
}
