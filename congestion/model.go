package congestion

import (
	"fmt"

	"github.com/katalvlaran/lvroute/rrgraph"
)

// NodeState is the PathFinder state of one node.
type NodeState struct {
	Occupancy int
	PresCost  float64
	AccCost   float64
}

// OveruseInfo summarizes capacity violations across the graph.
type OveruseInfo struct {
	TotalNodes    int
	OverusedNodes int
	TotalOveruse  int
	WorstOveruse  int
}

// OverusedRatio returns OverusedNodes / TotalNodes.
func (o OveruseInfo) OverusedRatio() float64 {
	if o.TotalNodes == 0 {
		return 0
	}

	return float64(o.OverusedNodes) / float64(o.TotalNodes)
}

// Model holds occupancy and congestion costs for every node of one graph.
type Model struct {
	g     *rrgraph.Graph
	state []NodeState
}

// New returns a model with zero occupancy and unit costs.
func New(g *rrgraph.Graph) *Model {
	m := &Model{g: g, state: make([]NodeState, g.NumNodes())}
	m.Reset()

	return m
}

// Reset clears occupancy and restores unit costs.
func (m *Model) Reset() {
	for i := range m.state {
		m.state[i] = NodeState{PresCost: 1, AccCost: 1}
	}
}

// State returns a copy of the state of inode.
func (m *Model) State(inode int) NodeState { return m.state[inode] }

// Occupancy returns the number of nets using inode.
func (m *Model) Occupancy(inode int) int { return m.state[inode].Occupancy }

// Overused reports whether inode holds more nets than its capacity.
func (m *Model) Overused(inode int) bool {
	return m.state[inode].Occupancy > m.g.Node(inode).Capacity
}

// CongCost returns baseCost × acc_cost × pres_cost for inode.
func (m *Model) CongCost(inode int, baseCost float64) float64 {
	s := &m.state[inode]

	return baseCost * s.AccCost * s.PresCost
}

// UpdateNode adds delta (+1 commit, −1 rip-up) to the occupancy of inode and
// recomputes its present cost with presFac.
func (m *Model) UpdateNode(inode, delta int, presFac float64) {
	s := &m.state[inode]
	s.Occupancy += delta
	if s.Occupancy < 0 {
		panic(fmt.Sprintf("congestion: negative occupancy %d on node %d %s",
			s.Occupancy, inode, m.g.Node(inode)))
	}
	capacity := m.g.Node(inode).Capacity
	if s.Occupancy < capacity {
		s.PresCost = 1
	} else {
		s.PresCost = 1 + float64(s.Occupancy+1-capacity)*presFac
	}
}

// AdjustOccupancy is UpdateNode for resources claimed outside the normal
// route commit (reserved output pins): when adding to a full node it also
// charges the historical cost immediately.
func (m *Model) AdjustOccupancy(inode, delta int, presFac, accFac float64) {
	s := &m.state[inode]
	s.Occupancy += delta
	if s.Occupancy < 0 {
		panic(fmt.Sprintf("congestion: negative occupancy %d on node %d %s",
			s.Occupancy, inode, m.g.Node(inode)))
	}
	capacity := m.g.Node(inode).Capacity
	if s.Occupancy < capacity {
		s.PresCost = 1
		return
	}
	s.PresCost = 1 + float64(s.Occupancy+1-capacity)*presFac
	if delta == 1 {
		s.AccCost += float64(s.Occupancy-capacity) * accFac
	}
}

// UpdateCost is the once-per-iteration global update: over-used nodes gain
// historical cost and every full or over-used node gets its present cost
// recomputed with the new presFac.
// Complexity: O(V).
func (m *Model) UpdateCost(presFac, accFac float64) {
	nodes := m.g.Nodes()
	for i := range m.state {
		s := &m.state[i]
		capacity := nodes[i].Capacity
		switch {
		case s.Occupancy > capacity:
			s.AccCost += float64(s.Occupancy-capacity) * accFac
			s.PresCost = 1 + float64(s.Occupancy+1-capacity)*presFac
		case s.Occupancy == capacity:
			s.PresCost = 1 + presFac
		}
	}
}

// Feasible reports whether no node is over capacity.
// Complexity: O(V).
func (m *Model) Feasible() bool {
	nodes := m.g.Nodes()
	for i := range m.state {
		if m.state[i].Occupancy > nodes[i].Capacity {
			return false
		}
	}

	return true
}

// Overuse scans the graph and summarizes capacity violations.
func (m *Model) Overuse() OveruseInfo {
	nodes := m.g.Nodes()
	info := OveruseInfo{TotalNodes: len(nodes)}
	for i := range m.state {
		over := m.state[i].Occupancy - nodes[i].Capacity
		if over > 0 {
			info.OverusedNodes++
			info.TotalOveruse += over
			info.WorstOveruse = max(info.WorstOveruse, over)
		}
	}

	return info
}

// OverusedNodes lists the indices of every over-capacity node.
func (m *Model) OverusedNodes() []int {
	var out []int
	nodes := m.g.Nodes()
	for i := range m.state {
		if m.state[i].Occupancy > nodes[i].Capacity {
			out = append(out, i)
		}
	}

	return out
}
