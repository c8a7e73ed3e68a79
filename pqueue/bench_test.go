package pqueue_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvroute/pqueue"
)

// BenchmarkPushPop measures one search-sized burst of pushes followed by a drain.
func BenchmarkPushPop(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	costs := make([]float64, 4096)
	for i := range costs {
		costs[i] = rng.Float64()
	}
	h := pqueue.New(len(costs))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for n, c := range costs {
			e := h.Alloc()
			e.Node, e.Cost = n, c
			h.Push(e)
		}
		for {
			e, ok := h.PopMin()
			if !ok {
				break
			}
			h.Release(e)
		}
	}
}

// BenchmarkBuild measures bulk seeding with PushBack + Build.
func BenchmarkBuild(b *testing.B) {
	rng := rand.New(rand.NewSource(2))
	costs := make([]float64, 4096)
	for i := range costs {
		costs[i] = rng.Float64()
	}
	h := pqueue.New(len(costs))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for n, c := range costs {
			e := h.Alloc()
			e.Node, e.Cost = n, c
			h.PushBack(e)
		}
		h.Build()
		h.Empty()
	}
}
