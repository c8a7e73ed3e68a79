package router

// reserveLocallyUsedOPins claims, for every reservation, the cheapest output
// pins of its SOURCE. With ripUp the pins held since the previous iteration
// are released first, so the choice follows congestion.
func (c *Context) reserveLocallyUsedOPins(ripUp bool) {
	if ripUp {
		for _, held := range c.opins {
			for _, inode := range held {
				c.cong.AdjustOccupancy(inode, -1, c.presFac, c.opts.AccFac)
			}
		}
	}

	for r, res := range c.nl.Reservations {
		c.opins[r] = c.opins[r][:0]
		if res.Count == 0 {
			continue
		}
		for _, e := range c.g.Node(res.Source).Edges {
			ent := c.heap.Alloc()
			ent.Node, ent.Cost = e.To, c.congCost(e.To)
			c.heap.Push(ent)
		}
		for k := 0; k < res.Count; k++ {
			ent, ok := c.heap.PopMin()
			if !ok {
				break
			}
			c.cong.AdjustOccupancy(ent.Node, +1, c.presFac, c.opts.AccFac)
			c.opins[r] = append(c.opins[r], ent.Node)
			c.heap.Release(ent)
		}
		c.heap.Empty()
	}
}
