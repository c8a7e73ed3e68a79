// Package timing provides criticality sources for the timing-driven router.
//
// The router only needs three things from a timer: accept the latest per-pin
// net delays, report a criticality in [0,1] for each connection, and report the
// critical-path delay. Two implementations are provided:
//
//   - Constant: the same criticality everywhere. Criticality 1 makes the router
//     optimize delay only, 0 makes it purely congestion-driven.
//   - Analyzer: a small static timing analyzer over a net-level timing graph.
//     Nets are vertices; a Link says "sink pin p of net A feeds the driver of
//     net B through a block delay". Arrival times propagate forward in
//     topological order, required times propagate backward from the critical
//     path delay, and criticality = 1 − slack / critical path delay.
//
// Complexity: Update is O(pins + links).
//
// Errors:
//
//   - ErrBadLink          when a link names a net or pin that does not exist.
//   - ErrCombinationalLoop when links form a cycle.
package timing
