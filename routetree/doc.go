// Package routetree holds the two representations of one net's routing.
//
// Traceback is the flat, committed form: SOURCE … SINK, then for every further
// sink a branch-point element (a node already in the routing) followed by the
// new nodes down to that SINK. Each element records the switch used to reach
// the next element; SINK elements carry rrgraph.NoSwitch. Walking a traceback
// and skipping the element that follows each SINK visits every routed node
// exactly once, which is how occupancy is added or removed.
//
// Tree is the explicit parent/child form used while a net is being routed.
// Nodes live in an arena and refer to each other by index; index 0 is always the
// SOURCE root. Each node carries the Elmore quantities the router needs:
//
//	R_upstream(n)   = (parent link unbuffered ? R_upstream(parent) : 0) + sw.R + R(n)
//	C_downstream(n) = C(n) + Σ_children (sw.Cinternal + (unbuffered ? C_downstream(child) : 0))
//	Tdel(n)         = T_arrival(n) + 0.5 × C_downstream(n) × R(n)
//	T_arrival(child) = Tdel(n) + sw.R × C_downstream(child) + sw.Tdel
//
// Buffered switches isolate resistance upstream and capacitance downstream.
//
// Operations:
//
//   - New: a tree holding only the SOURCE.
//   - FromTraceback: rebuild the tree from last iteration's traceback, O(len).
//   - AddPath: graft one newly found branch and update only the affected part:
//     R_upstream along the branch, C_downstream up to the first buffered
//     ancestor, Tdel below that ancestor.
//   - Prune: drop every subtree rooted at a congested node or leading to a sink
//     whose connection is flagged for forced reroute; the root is never removed.
//   - Traceback: emit the flat form again.
//
// Errors:
//
//   - ErrEmptyTraceback    when building from an empty traceback.
//   - ErrBadBranch         when a path does not start on the tree or a
//     traceback segment revisits a node.
//   - ErrDisconnectedEdge  when Validate finds a parent/child pair with no
//     matching rr-graph edge.
package routetree
