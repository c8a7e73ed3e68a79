package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyVertexID indicates that the provided vertex ID is empty.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")
)

// Edge is a directed connection From→To.
//
// ID is unique within its Graph and increases with insertion order.
// Weight is caller-defined; the timing graph stores a block delay in it.
type Edge struct {
	ID     int
	From   string
	To     string
	Weight float64
}

// Graph is the core in-memory directed multigraph.
//
// mu guards vertices, out and edges.
type Graph struct {
	mu sync.RWMutex

	vertices map[string]struct{}
	out      map[string][]*Edge // from → outgoing edges, insertion order
	edges    int
}

// NewGraph creates an empty Graph.
// Complexity: O(1)
func NewGraph() *Graph {
	return &Graph{
		vertices: make(map[string]struct{}),
		out:      make(map[string][]*Edge),
	}
}
