package dfs

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvroute/core"
)

// TopoOption configures optional behavior for TopologicalSort.
type TopoOption func(*topoOptions)

type topoOptions struct {
	ctx context.Context
}

func defaultTopoOptions() topoOptions {
	return topoOptions{ctx: context.Background()}
}

// WithCancelContext sets the cancellation context. A nil context has no effect.
func WithCancelContext(ctx context.Context) TopoOption {
	return func(o *topoOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// topoSorter holds the state of one sort.
type topoSorter struct {
	graph *core.Graph
	opts  topoOptions
	state map[string]int
	order []string // post-order
	path  []string // Gray vertices, for the cycle report
}

// TopologicalSort computes a topological ordering of all vertices in g.
// Roots are tried in sorted ID order, so the result is deterministic.
// A cycle yields an error wrapping ErrCycleDetected that names the cycle.
func TopologicalSort(g *core.Graph, options ...TopoOption) ([]string, error) {
	// 1. Validate graph pointer
	if g == nil {
		return nil, ErrGraphNil
	}
	// 2. Apply optional settings
	opts := defaultTopoOptions()
	for _, opt := range options {
		opt(&opts)
	}
	// 3. Drive DFS from every unvisited vertex
	verts := g.Vertices()
	s := &topoSorter{
		graph: g,
		opts:  opts,
		state: make(map[string]int, len(verts)),
		order: make([]string, 0, len(verts)),
	}
	for _, v := range verts {
		if s.state[v] == White {
			if err := s.visit(v); err != nil {
				return nil, err
			}
		}
	}
	// 4. Reverse post-order
	for i, j := 0, len(s.order)-1; i < j; i, j = i+1, j-1 {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}

	return s.order, nil
}

func (s *topoSorter) visit(id string) error {
	select {
	case <-s.opts.ctx.Done():
		return s.opts.ctx.Err()
	default:
	}
	switch s.state[id] {
	case Gray:
		return s.cycleError(id)
	case Black:
		return nil
	}
	s.state[id] = Gray
	s.path = append(s.path, id)

	nbrs, err := s.graph.Neighbors(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNeighborFetch, err)
	}
	for _, e := range nbrs {
		if err = s.visit(e.To); err != nil {
			return err
		}
	}

	s.path = s.path[:len(s.path)-1]
	s.state[id] = Black
	s.order = append(s.order, id)

	return nil
}

// cycleError reports the Gray path from the first visit of id back to id.
func (s *topoSorter) cycleError(id string) error {
	start := len(s.path) - 1
	for start > 0 && s.path[start] != id {
		start--
	}
	cycle := append(append([]string(nil), s.path[start:]...), id)

	return fmt.Errorf("%w: %v", ErrCycleDetected, cycle)
}
