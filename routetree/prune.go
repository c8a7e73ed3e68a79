package routetree

import "github.com/katalvlaran/lvroute/rrgraph"

// PruneResult reports what Prune kept and removed.
type PruneResult struct {
	// Destroyed is true when nothing but the root survived.
	Destroyed bool
	// ReachedPins are the net pins whose SINK survived, in arena order.
	ReachedPins []int
	// PrunedPins are the net pins whose SINK was removed.
	PrunedPins []int
	// ClearedSinks are the flagged SINK rr-nodes that were removed; their
	// forced-reroute flags are consumed.
	ClearedSinks []int
}

// Prune removes every subtree whose root is congested, and every SINK whose
// connection is flagged for forced reroute, then drops non-SINK nodes left
// without children. The root always survives. Either predicate may be nil.
// R, C and Tdel are recomputed afterwards.
// Complexity: O(n).
func (t *Tree) Prune(congested func(inode int) bool, forced func(sinkInode int) bool) PruneResult {
	var res PruneResult
	n := len(t.nodes)
	force := make([]bool, n)
	keep := make([]bool, n)

	// 1) Top-down: a congested node condemns its whole subtree.
	for id := range t.nodes {
		nd := &t.nodes[id]
		if nd.Parent != NoParent {
			force[id] = force[nd.Parent]
		}
		if congested != nil && congested(nd.Inode) {
			force[id] = true
		}
	}

	// 2) Bottom-up: SINKs decide, inner nodes survive through a kept child.
	for id := n - 1; id >= 0; id-- {
		nd := &t.nodes[id]
		if t.g.Node(nd.Inode).Type == rrgraph.Sink {
			flagged := forced != nil && forced(nd.Inode)
			if flagged {
				res.ClearedSinks = append(res.ClearedSinks, nd.Inode)
			}
			keep[id] = !force[id] && !flagged
			continue
		}
		if id == 0 {
			keep[id] = true
			continue
		}
		for _, c := range nd.Children {
			if keep[c] {
				keep[id] = true
				break
			}
		}
	}

	// 3) Compact the arena, preserving order.
	remap := make([]int, n)
	nodes := make([]Node, 0, n)
	for id := range t.nodes {
		if !keep[id] {
			remap[id] = -1
			continue
		}
		remap[id] = len(nodes)
		nodes = append(nodes, t.nodes[id])
	}
	t.index = make(map[int]int, len(nodes))
	for id := range nodes {
		nd := &nodes[id]
		if nd.Parent != NoParent {
			nd.Parent = remap[nd.Parent]
		}
		kids := nd.Children[:0:0]
		for _, c := range nd.Children {
			if remap[c] >= 0 {
				kids = append(kids, remap[c])
			}
		}
		nd.Children = kids
		if t.g.Node(nd.Inode).Type == rrgraph.Sink {
			res.ReachedPins = append(res.ReachedPins, nd.Pin)
		} else {
			t.index[nd.Inode] = id
		}
	}
	for id := range t.nodes {
		if !keep[id] && t.g.Node(t.nodes[id].Inode).Type == rrgraph.Sink {
			res.PrunedPins = append(res.PrunedPins, t.nodes[id].Pin)
		}
	}
	t.nodes = nodes
	res.Destroyed = len(t.nodes[0].Children) == 0
	t.Reload()

	return res
}
