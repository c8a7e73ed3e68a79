// Package core is a small thread-safe directed multigraph keyed by string IDs.
//
// lvroute uses it for graphs whose size is the netlist, not the fabric: the
// timing graph (nets as vertices, sink-to-driver links as edges) is built here
// and ordered by dfs.TopologicalSort. The routing-resource graph itself lives
// in rrgraph, which is index-addressed and read-only during routing.
//
// Edges are always directed. Parallel edges are kept, since two sink pins of
// one net may feed the same downstream net; self-loops are kept so that
// traversals can report them as cycles.
//
// Vertices returns IDs in sorted order and Neighbors returns edges in
// insertion order, so every traversal over a Graph is deterministic.
//
// Complexity:
//
//   - AddVertex, HasVertex: O(1)
//   - AddEdge:              O(1) amortized
//   - Neighbors:            O(deg)
//   - Vertices:             O(V log V)
//
// Errors:
//
//	ErrEmptyVertexID  - vertex ID is the empty string.
//	ErrVertexNotFound - requested vertex does not exist.
package core
