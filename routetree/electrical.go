package routetree

// Arena order is topological: every child has a larger index than its parent.
// Reload relies on it to sweep C upwards and R downwards without recursion.

// rUpstream computes R_upstream of id from its parent's value.
func (t *Tree) rUpstream(id int) float64 {
	n := &t.nodes[id]
	r := t.g.Node(n.Inode).R
	if n.Parent == NoParent {
		return r
	}
	sw := t.g.Switch(n.ParentSwitch)
	if !sw.Buffered {
		r += t.nodes[n.Parent].RUpstream
	}

	return r + sw.R
}

// cDownstream computes C_downstream of id from its children's values.
func (t *Tree) cDownstream(id int) float64 {
	n := &t.nodes[id]
	c := t.g.Node(n.Inode).C
	for _, child := range n.Children {
		sw := t.g.Switch(t.nodes[child].ParentSwitch)
		c += sw.Cinternal
		if !sw.Buffered {
			c += t.nodes[child].CDownstream
		}
	}

	return c
}

// propagateC refreshes C_downstream from the parent of first upwards, stopping
// above the first buffered link, and returns the highest node it touched.
func (t *Tree) propagateC(first int) int {
	id := t.nodes[first].Parent
	t.nodes[id].CDownstream = t.cDownstream(id)
	for {
		n := &t.nodes[id]
		if n.Parent == NoParent || t.g.Switch(n.ParentSwitch).Buffered {
			return id
		}
		id = n.Parent
		t.nodes[id].CDownstream = t.cDownstream(id)
	}
}

// arrival returns the time the signal reaches id, given its parent's Tdel.
func (t *Tree) arrival(id int) float64 {
	n := &t.nodes[id]
	if n.Parent == NoParent {
		return 0
	}
	sw := t.g.Switch(n.ParentSwitch)

	return t.nodes[n.Parent].Tdel + sw.R*n.CDownstream + sw.Tdel
}

// LoadTdel sets Tdel for the subtree rooted at id, which the signal reaches
// at time arrival.
func (t *Tree) LoadTdel(id int, arrival float64) {
	type frame struct {
		id      int
		arrival float64
	}
	stack := []frame{{id, arrival}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[f.id]
		n.Tdel = f.arrival + 0.5*n.CDownstream*t.g.Node(n.Inode).R
		for _, c := range n.Children {
			sw := t.g.Switch(t.nodes[c].ParentSwitch)
			stack = append(stack, frame{c, n.Tdel + sw.R*t.nodes[c].CDownstream + sw.Tdel})
		}
	}
}

// Reload recomputes R_upstream, C_downstream and Tdel for the whole tree.
// Complexity: O(n).
func (t *Tree) Reload() {
	for id := len(t.nodes) - 1; id >= 0; id-- {
		t.nodes[id].CDownstream = t.cDownstream(id)
	}
	for id := range t.nodes {
		t.nodes[id].RUpstream = t.rUpstream(id)
	}
	t.LoadTdel(0, 0)
}
