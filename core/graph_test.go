package core_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvroute/core"
)

func TestAddVertex(t *testing.T) {
	g := core.NewGraph()
	require.ErrorIs(t, g.AddVertex(""), core.ErrEmptyVertexID)
	require.NoError(t, g.AddVertex("b"))
	require.NoError(t, g.AddVertex("a"))
	require.NoError(t, g.AddVertex("a"))

	assert.True(t, g.HasVertex("a"))
	assert.False(t, g.HasVertex("c"))
	assert.Equal(t, []string{"a", "b"}, g.Vertices())
	assert.Equal(t, 2, g.VertexCount())
}

func TestAddEdge_ParallelAndLoops(t *testing.T) {
	g := core.NewGraph()
	e1, err := g.AddEdge("a", "b", 1.5)
	require.NoError(t, err)
	e2, err := g.AddEdge("a", "b", 2.5)
	require.NoError(t, err)
	_, err = g.AddEdge("b", "b", 0)
	require.NoError(t, err)
	_, err = g.AddEdge("", "b", 0)
	require.ErrorIs(t, err, core.ErrEmptyVertexID)

	assert.NotEqual(t, e1.ID, e2.ID)
	assert.Equal(t, 3, g.EdgeCount())
	assert.True(t, g.HasVertex("b"), "endpoints are created")

	nbrs, err := g.Neighbors("a")
	require.NoError(t, err)
	require.Len(t, nbrs, 2)
	assert.Equal(t, 1.5, nbrs[0].Weight)
	assert.Equal(t, 2.5, nbrs[1].Weight)

	_, err = g.Neighbors("zz")
	require.ErrorIs(t, err, core.ErrVertexNotFound)
}

func TestGraph_ConcurrentAdd(t *testing.T) {
	g := core.NewGraph()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _ = g.AddEdge("src", "dst", float64(i))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, g.EdgeCount())
	assert.Equal(t, 2, g.VertexCount())
}
