package timing

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/dfs"
	"github.com/katalvlaran/lvroute/netlist"
)

var (
	// ErrBadLink indicates a link that references a missing net or pin.
	ErrBadLink = errors.New("timing: link references unknown net or pin")

	// ErrCombinationalLoop indicates links that form a cycle.
	ErrCombinationalLoop = errors.New("timing: links form a combinational loop")
)

// Constant reports the same criticality for every connection.
type Constant float64

// Update is a no-op.
func (Constant) Update([][]float64) {}

// Criticality returns c.
func (c Constant) Criticality(int, int) float64 { return float64(c) }

// CriticalPathDelay returns 0.
func (Constant) CriticalPathDelay() float64 { return 0 }

// Link connects sink pin Pin of net From to the driver of net To through a
// block delay.
type Link struct {
	From  int
	Pin   int
	To    int
	Delay float64
}

// Analyzer is a static timing analyzer over a net-level timing graph.
type Analyzer struct {
	sinks    []int    // sinks per net
	out      [][]Link // outgoing links per net
	order    []int    // topological order of nets
	arrival  []float64
	reqSrc   []float64
	delays   [][]float64
	required [][]float64
	cpd      float64
}

// New builds an analyzer for nl with the given links.
func New(nl *netlist.Netlist, links ...Link) (*Analyzer, error) {
	n := nl.Len()
	a := &Analyzer{
		sinks:    make([]int, n),
		out:      make([][]Link, n),
		arrival:  make([]float64, n),
		reqSrc:   make([]float64, n),
		delays:   make([][]float64, n),
		required: make([][]float64, n),
	}
	for i, net := range nl.Nets {
		a.sinks[i] = net.NumSinks()
		a.delays[i] = make([]float64, a.sinks[i]+1)
		a.required[i] = make([]float64, a.sinks[i]+1)
	}
	// Nets are vertices of the timing graph, keyed by index.
	tg := core.NewGraph()
	for i := 0; i < n; i++ {
		_ = tg.AddVertex(strconv.Itoa(i))
	}
	for _, l := range links {
		if l.From < 0 || l.From >= n || l.To < 0 || l.To >= n || l.Pin < 1 || l.Pin > a.sinks[l.From] {
			return nil, fmt.Errorf("%w: %+v", ErrBadLink, l)
		}
		a.out[l.From] = append(a.out[l.From], l)
		if _, err := tg.AddEdge(strconv.Itoa(l.From), strconv.Itoa(l.To), l.Delay); err != nil {
			return nil, err
		}
	}

	order, err := dfs.TopologicalSort(tg)
	if errors.Is(err, dfs.ErrCycleDetected) {
		return nil, fmt.Errorf("%w: %w", ErrCombinationalLoop, err)
	}
	if err != nil {
		return nil, err
	}
	a.order = make([]int, len(order))
	for k, id := range order {
		a.order[k], _ = strconv.Atoi(id)
	}

	return a, nil
}

// Update recomputes arrival and required times from per-pin net delays,
// indexed [net][pin] with pin 0 unused. Missing entries count as zero.
func (a *Analyzer) Update(delays [][]float64) {
	for i := range a.delays {
		for p := range a.delays[i] {
			a.delays[i][p] = 0
			if i < len(delays) && p < len(delays[i]) {
				a.delays[i][p] = delays[i][p]
			}
		}
		a.arrival[i] = 0
	}

	// 1) Forward: arrival at each net driver, and the critical path delay.
	a.cpd = 0
	for _, u := range a.order {
		for p := 1; p <= a.sinks[u]; p++ {
			a.cpd = max(a.cpd, a.arrival[u]+a.delays[u][p])
		}
		for _, l := range a.out[u] {
			a.arrival[l.To] = max(a.arrival[l.To], a.arrival[u]+a.delays[u][l.Pin]+l.Delay)
		}
	}

	// 2) Backward: required time at every pin.
	for k := len(a.order) - 1; k >= 0; k-- {
		u := a.order[k]
		for p := 1; p <= a.sinks[u]; p++ {
			a.required[u][p] = a.cpd
		}
		for _, l := range a.out[u] {
			a.required[u][l.Pin] = min(a.required[u][l.Pin], a.reqSrc[l.To]-l.Delay)
		}
		a.reqSrc[u] = a.cpd
		for p := 1; p <= a.sinks[u]; p++ {
			a.reqSrc[u] = min(a.reqSrc[u], a.required[u][p]-a.delays[u][p])
		}
	}
}

// Slack returns required − arrival at sink pin of net.
func (a *Analyzer) Slack(net, pin int) float64 {
	return a.required[net][pin] - (a.arrival[net] + a.delays[net][pin])
}

// Criticality returns 1 − slack / critical path delay, clamped to [0,1].
// Before the first Update, or with all delays zero, it returns 0.
func (a *Analyzer) Criticality(net, pin int) float64 {
	if a.cpd <= 0 {
		return 0
	}
	c := 1 - a.Slack(net, pin)/a.cpd

	return min(max(c, 0), 1)
}

// CriticalPathDelay returns the longest arrival time seen by the last Update.
func (a *Analyzer) CriticalPathDelay() float64 { return a.cpd }

// Arrival returns the arrival time at the driver of net.
func (a *Analyzer) Arrival(net int) float64 { return a.arrival[net] }
