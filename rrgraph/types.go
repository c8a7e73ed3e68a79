package rrgraph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for graph construction and validation.
var (
	// ErrBadGridSize indicates a grid dimension below one logic block.
	ErrBadGridSize = errors.New("rrgraph: grid dimensions must be at least 1x1")

	// ErrNodeIndex indicates a reference to a node that does not exist.
	ErrNodeIndex = errors.New("rrgraph: node index out of range")

	// ErrSwitchIndex indicates a reference to a switch that does not exist.
	ErrSwitchIndex = errors.New("rrgraph: switch index out of range")

	// ErrCostIndex indicates a reference to a cost index that does not exist.
	ErrCostIndex = errors.New("rrgraph: cost index out of range")

	// ErrBadCapacity indicates a negative node capacity.
	ErrBadCapacity = errors.New("rrgraph: node capacity must be non-negative")

	// ErrOutOfGrid indicates a node extent outside the device.
	ErrOutOfGrid = errors.New("rrgraph: node extent outside device grid")

	// ErrBadNodeType indicates an unknown node type name.
	ErrBadNodeType = errors.New("rrgraph: unknown node type")

	// ErrBadIslandOption indicates an invalid BuildIsland parameter.
	ErrBadIslandOption = errors.New("rrgraph: island dimensions must be positive")
)

// Reserved cost indices. Channel segment types start at ChanXCostIndexStart.
const (
	SourceCostIndex     = 0
	SinkCostIndex       = 1
	OPinCostIndex       = 2
	IPinCostIndex       = 3
	ChanXCostIndexStart = 4
)

// NoSwitch marks the absence of a switch (the edge out of a SINK in a traceback).
const NoSwitch = -1

// NodeType enumerates the kinds of routing resources.
type NodeType uint8

const (
	// Source is the logical driver terminal of a block output class.
	Source NodeType = iota
	// Sink is the logical receiver terminal of a block input class.
	Sink
	// OPin is a physical block output pin.
	OPin
	// IPin is a physical block input pin.
	IPin
	// ChanX is a horizontal wire segment.
	ChanX
	// ChanY is a vertical wire segment.
	ChanY
)

var nodeTypeNames = [...]string{"SOURCE", "SINK", "OPIN", "IPIN", "CHANX", "CHANY"}

// String returns the conventional upper-case name of t.
func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}

	return fmt.Sprintf("NodeType(%d)", uint8(t))
}

// IsChannel reports whether t is a wire segment.
func (t NodeType) IsChannel() bool { return t == ChanX || t == ChanY }

// ParseNodeType converts a case-insensitive type name into a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	for i, name := range nodeTypeNames {
		if strings.EqualFold(s, name) {
			return NodeType(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrBadNodeType, s)
}

// Edge is a directed connection to node To through switch Switch.
type Edge struct {
	To     int
	Switch int
}

// Node is one routing resource.
type Node struct {
	Type                     NodeType
	XLow, YLow, XHigh, YHigh int
	Capacity                 int
	CostIndex                int
	R, C                     float64
	PTC                      int // pin/track/class number within its location
	Edges                    []Edge
}

// String renders the node type and extent, e.g. "CHANX (1,0)-(2,0) ptc 3".
func (n *Node) String() string {
	if n.XLow == n.XHigh && n.YLow == n.YHigh {
		return fmt.Sprintf("%s (%d,%d) ptc %d", n.Type, n.XLow, n.YLow, n.PTC)
	}

	return fmt.Sprintf("%s (%d,%d)-(%d,%d) ptc %d", n.Type, n.XLow, n.YLow, n.XHigh, n.YHigh, n.PTC)
}

// Switch describes the electrical behavior of a programmable connection.
type Switch struct {
	Name      string
	R         float64 // resistance through the switch
	Cinternal float64 // capacitance seen by the upstream net when the switch is used
	Tdel      float64 // intrinsic delay
	Buffered  bool
}

// CostIndexData holds the cost and delay model coefficients shared by all nodes
// with the same cost index.
type CostIndexData struct {
	BaseCost       float64
	SavedBaseCost  float64
	OrthoCostIndex int
	InvLength      float64 // 1 / segment length in logic blocks
	TLinear        float64
	TQuadratic     float64
	CLoad          float64
}
