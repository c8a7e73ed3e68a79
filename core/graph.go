package core

import (
	"fmt"
	"sort"
)

// AddVertex inserts id. Adding an existing vertex is a no-op.
// Complexity: O(1)
func (g *Graph) AddVertex(id string) error {
	if id == "" {
		return ErrEmptyVertexID
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vertices[id] = struct{}{}

	return nil
}

// HasVertex reports whether id exists.
func (g *Graph) HasVertex(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.vertices[id]

	return ok
}

// AddEdge appends a directed edge from→to, creating missing endpoints.
// It returns the new edge.
// Complexity: O(1) amortized
func (g *Graph) AddEdge(from, to string, weight float64) (*Edge, error) {
	if from == "" || to == "" {
		return nil, ErrEmptyVertexID
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	// 1. Ensure both endpoints exist.
	g.vertices[from] = struct{}{}
	g.vertices[to] = struct{}{}

	// 2. Record the edge under its source.
	e := &Edge{ID: g.edges, From: from, To: to, Weight: weight}
	g.out[from] = append(g.out[from], e)
	g.edges++

	return e, nil
}

// Neighbors returns the outgoing edges of id in insertion order. The slice
// is a copy; the edges are shared.
// Complexity: O(deg(id))
func (g *Graph) Neighbors(id string) ([]*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, id)
	}
	out := make([]*Edge, len(g.out[id]))
	copy(out, g.out[id])

	return out, nil
}

// Vertices returns all vertex IDs in sorted order.
// Complexity: O(V log V)
func (g *Graph) Vertices() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.vertices)
}

// EdgeCount returns the number of edges, parallel edges counted separately.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edges
}
