package router

import (
	"fmt"
	"io"
	"sync"
)

// Observer receives profiling events from a routing run. Implementations
// must be cheap; they run inside the routing loop.
type Observer interface {
	NetRerouted(net int)
	RouteTreePruned(net int)
	RouteTreePreserved(net int)
	ForcedRerouteMarked(net, pin int)
	ForcedReroutePerformed(net, count int)
	SinkRouted(net, pin int, criticality float64)
	IterationDone(stats IterationStats)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) NetRerouted(int)                 {}
func (NopObserver) RouteTreePruned(int)             {}
func (NopObserver) RouteTreePreserved(int)          {}
func (NopObserver) ForcedRerouteMarked(int, int)    {}
func (NopObserver) ForcedReroutePerformed(int, int) {}
func (NopObserver) SinkRouted(int, int, float64)    {}
func (NopObserver) IterationDone(IterationStats)    {}

// critBuckets splits [0,1] criticality into tenths.
const critBuckets = 10

// Profile counts routing events. It is safe for concurrent use so one
// Profile can aggregate several runs.
type Profile struct {
	mu sync.Mutex

	NetsRerouted       int
	TreesPruned        int
	TreesPreserved     int
	ForcedMarked       int
	ForcedPerformed    int
	SinksRouted        int
	SinksByCriticality [critBuckets]int
	Iterations         int
}

func (p *Profile) NetRerouted(int) {
	p.mu.Lock()
	p.NetsRerouted++
	p.mu.Unlock()
}

func (p *Profile) RouteTreePruned(int) {
	p.mu.Lock()
	p.TreesPruned++
	p.mu.Unlock()
}

func (p *Profile) RouteTreePreserved(int) {
	p.mu.Lock()
	p.TreesPreserved++
	p.mu.Unlock()
}

func (p *Profile) ForcedRerouteMarked(int, int) {
	p.mu.Lock()
	p.ForcedMarked++
	p.mu.Unlock()
}

func (p *Profile) ForcedReroutePerformed(_ int, count int) {
	p.mu.Lock()
	p.ForcedPerformed += count
	p.mu.Unlock()
}

func (p *Profile) SinkRouted(_ int, _ int, crit float64) {
	b := min(max(int(crit*critBuckets), 0), critBuckets-1)
	p.mu.Lock()
	p.SinksRouted++
	p.SinksByCriticality[b]++
	p.mu.Unlock()
}

func (p *Profile) IterationDone(IterationStats) {
	p.mu.Lock()
	p.Iterations++
	p.mu.Unlock()
}

// WriteTo prints the counters.
func (p *Profile) WriteTo(w io.Writer) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var total int64
	write := func(format string, args ...any) error {
		n, err := fmt.Fprintf(w, format, args...)
		total += int64(n)
		return err
	}
	if err := write("iterations %d, nets rerouted %d, trees pruned %d, trees preserved %d\n",
		p.Iterations, p.NetsRerouted, p.TreesPruned, p.TreesPreserved); err != nil {
		return total, err
	}
	if err := write("forced reroutes marked %d, performed %d, sinks routed %d\n",
		p.ForcedMarked, p.ForcedPerformed, p.SinksRouted); err != nil {
		return total, err
	}
	for b, n := range p.SinksByCriticality {
		if err := write("  crit %.1f-%.1f: %d\n", float64(b)/critBuckets, float64(b+1)/critBuckets, n); err != nil {
			return total, err
		}
	}

	return total, nil
}
