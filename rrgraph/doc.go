// Package rrgraph models the routing-resource graph of an FPGA: the directed graph
// whose nodes are wire segments, pins and logical source/sink terminals, and whose
// edges are programmable switches.
//
// What:
//
//   - Node carries type, geometric extent, capacity, cost index and the wire R/C.
//   - Switch carries resistance, internal capacitance, intrinsic delay and whether
//     it is buffered (buffers isolate upstream resistance and downstream capacitance).
//   - CostIndexData is the indexed cost table shared by nodes of one kind: base
//     congestion cost plus the linear/quadratic delay coefficients used by the
//     router lookahead.
//   - Graph owns the three tables. It is built once and is read-only during
//     routing; per-attempt mutable state (occupancy, path costs) lives elsewhere so
//     a single Graph can back many independent routing attempts.
//   - BuildIsland synthesizes a small island-style fabric (nx×ny logic blocks with
//     unit-length wires in channels of width W) for experiments and tests.
//
// Cost-index layout:
//
//	0 SOURCE, 1 SINK, 2 OPIN, 3 IPIN, 4.. channel segment types
//
// Errors:
//
//   - ErrBadGridSize     if nx or ny < 1.
//   - ErrNodeIndex       if an edge or lookup references a missing node.
//   - ErrSwitchIndex     if an edge references a missing switch.
//   - ErrCostIndex       if a node or ortho reference names a missing cost index.
//   - ErrBadCapacity     if a node capacity is negative.
//   - ErrOutOfGrid       if a node extent lies outside [0,nx+1]×[0,ny+1].
//   - ErrBadNodeType     if a type name cannot be parsed.
//   - ErrBadIslandOption if BuildIsland receives a non-positive dimension.
package rrgraph
