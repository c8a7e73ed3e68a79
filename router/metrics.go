package router

import (
	"time"

	"github.com/katalvlaran/lvroute/congestion"
)

// WirelengthInfo compares the wire used by routed nets with the wire the
// device offers. Lengths are in logic-block pitches.
type WirelengthInfo struct {
	Available int
	Used      int
}

// UsedRatio returns Used / Available, or 0 on a device without wires.
func (w WirelengthInfo) UsedRatio() float64 {
	if w.Available == 0 {
		return 0
	}

	return float64(w.Used) / float64(w.Available)
}

// IterationStats is one row of the routing progress table.
type IterationStats struct {
	Iteration           int
	Elapsed             time.Duration
	PresFac             float64
	Overuse             congestion.OveruseInfo
	Wirelength          WirelengthInfo
	CPD                 float64 // critical path delay, 0 when routing for wirelength
	EstSuccessIteration float64 // NaN until the predictor has enough history
}

// wirelength measures channel usage of every non-global net with sinks.
// A wire spanning k blocks counts k; a track of capacity c counts c.
func (c *Context) wirelength() WirelengthInfo {
	var wl WirelengthInfo
	nodes := c.g.Nodes()
	for i := range nodes {
		n := &nodes[i]
		if n.Type.IsChannel() {
			wl.Available += n.Capacity + n.XHigh - n.XLow + n.YHigh - n.YLow
		}
	}
	for inet := range c.nl.Nets {
		net := &c.nl.Nets[inet]
		if net.Global || net.NumSinks() == 0 {
			continue
		}
		c.traces[inet].Walk(c.g, func(inode int) {
			n := c.g.Node(inode)
			if n.Type.IsChannel() {
				wl.Used += 1 + n.XHigh - n.XLow + n.YHigh - n.YLow
			}
		})
	}

	return wl
}
