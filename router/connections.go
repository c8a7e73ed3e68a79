package router

import (
	"slices"

	"github.com/katalvlaran/lvroute/netlist"
)

// Tolerances of connection-based forced rerouting.
const (
	criticalPathGrowthTolerance     = 1.001
	connectionCriticalityTolerance  = 0.9
	connectionDelayOptimalTolerance = 1.1
)

// connections tracks per-connection state across iterations: which pin each
// SINK serves, the best delay seen for every connection, and the connections
// flagged to be ripped up even though they are legal.
type connections struct {
	nl         *netlist.Netlist
	sinkPins   []map[int][]int // net → SINK rr-node → pins, ascending
	lowerBound [][]float64     // net → pin → best delay; nil until iteration 1 ends
	forced     []map[int]bool  // net → SINK rr-node → flag
	stableCPD  float64
}

func newConnections(nl *netlist.Netlist) *connections {
	c := &connections{
		nl:         nl,
		sinkPins:   make([]map[int][]int, nl.Len()),
		lowerBound: make([][]float64, nl.Len()),
		forced:     make([]map[int]bool, nl.Len()),
	}
	for i := range nl.Nets {
		net := &nl.Nets[i]
		c.sinkPins[i] = make(map[int][]int, net.NumSinks())
		c.forced[i] = make(map[int]bool, net.NumSinks())
		for p := 1; p <= net.NumSinks(); p++ {
			c.sinkPins[i][net.Pin(p)] = append(c.sinkPins[i][net.Pin(p)], p)
		}
	}

	return c
}

// pinDispenser maps SINK rr-nodes met in a traceback back to pins, handing
// out each pin of a repeated SINK once.
func (c *connections) pinDispenser(inet int) func(int) int {
	next := make(map[int]int, len(c.sinkPins[inet]))

	return func(sink int) int {
		pins := c.sinkPins[inet][sink]
		k := next[sink]
		next[sink]++
		if k < len(pins) {
			return pins[k]
		}
		if len(pins) > 0 {
			return pins[len(pins)-1]
		}

		return 0
	}
}

// shouldForce reports whether the connection to sink is flagged.
func (c *connections) shouldForce(inet, sink int) bool {
	return c.forced[inet][sink]
}

// clear drops the flag of one connection and reports whether one was set.
func (c *connections) clear(inet, sink int) bool {
	if !c.forced[inet][sink] {
		return false
	}
	c.forced[inet][sink] = false

	return true
}

// clearNet drops every flag of net inet and returns how many were set.
func (c *connections) clearNet(inet int) int {
	n := 0
	for sink, on := range c.forced[inet] {
		if on {
			c.forced[inet][sink] = false
			n++
		}
	}

	return n
}

// setLowerBounds records the delays of the delay-only first iteration.
func (c *connections) setLowerBounds(netDelay [][]float64) {
	for i := range netDelay {
		c.lowerBound[i] = slices.Clone(netDelay[i])
	}
}

// grewSignificantly reports whether cpd exceeds the last stable critical path
// by more than the growth tolerance.
func (c *connections) grewSignificantly(cpd float64) bool {
	return cpd > c.stableCPD*criticalPathGrowthTolerance
}

// setStable records cpd as the critical path of a stable configuration.
func (c *connections) setStable(cpd float64) { c.stableCPD = cpd }

// forciblyReroute flags every critical connection whose delay is well above
// its lower bound. Lower bounds improve as better delays are observed.
// It returns the flagged (net, pin) pairs; none means the configuration is
// stable.
func (c *connections) forciblyReroute(maxCrit float64, timing TimingAnalyzer, netDelay [][]float64) [][2]int {
	var flagged [][2]int
	for i := range c.nl.Nets {
		lb := c.lowerBound[i]
		if lb == nil {
			continue
		}
		net := &c.nl.Nets[i]
		for p := 1; p <= net.NumSinks(); p++ {
			// SOURCE→OPIN→IPIN→SINK inside one block has no delay to improve.
			if lb[p] == 0 {
				continue
			}
			if netDelay[i][p] < lb[p] {
				lb[p] = netDelay[i][p]
				continue
			}
			if timing.Criticality(i, p) < maxCrit*connectionCriticalityTolerance {
				continue
			}
			if netDelay[i][p] < lb[p]*connectionDelayOptimalTolerance {
				continue
			}
			c.forced[i][net.Pin(p)] = true
			flagged = append(flagged, [2]int{i, p})
		}
	}

	return flagged
}
