// Package dfs provides depth-first algorithms over core.Graph.
//
// TopologicalSort orders the vertices of a directed graph so that every
// edge u→v has u before v. The timing analyzer uses it to propagate arrival
// times through the net-level timing graph.
//
// Complexity:
//
//   - Time:   O(V + E) (each vertex and edge visited once)
//   - Memory: O(V)     (recursion stack and state map)
//
// Errors:
//
//	ErrGraphNil       - nil graph.
//	ErrCycleDetected  - the graph has a directed cycle (self-loops included).
//	ErrNeighborFetch  - neighbor lookup failed.
package dfs

import "errors"

// Visitation states of a vertex.
const (
	White = iota // not visited yet
	Gray         // on the recursion stack
	Black        // fully explored
)

var (
	// ErrGraphNil is returned when a nil *core.Graph is passed.
	ErrGraphNil = errors.New("dfs: graph is nil")

	// ErrCycleDetected indicates that a cycle was met during TopologicalSort.
	ErrCycleDetected = errors.New("dfs: cycle detected")

	// ErrNeighborFetch indicates a failure to retrieve neighbors from the graph.
	ErrNeighborFetch = errors.New("dfs: failed to fetch neighbors")
)
