package pqueue

// Open marks "no node" / "no edge" in predecessor fields.
const Open = -1

// Entry is one partial path: reaching Node with total estimated Cost, arriving
// from PrevNode through its edge PrevEdge.
type Entry struct {
	Node         int
	Cost         float64 // BackwardCost + astar_fac × lookahead
	PrevNode     int
	PrevEdge     int
	BackwardCost float64
	RUpstream    float64

	valid    bool
	released bool
	epoch    uint64
}

// Valid reports whether the entry is still live (not invalidated).
func (e *Entry) Valid() bool { return e.valid }

// Invalidate cancels the entry; PopMin will discard it.
func (e *Entry) Invalidate() { e.valid = false }

// Stats counts heap traffic since construction.
type Stats struct {
	Pushes      uint64
	Pops        uint64
	Invalidated uint64
	Allocs      uint64 // entries created (pool misses)
	Reuses      uint64 // entries served from the pool
}

// entryQueue satisfies container/heap.Interface over *Entry, ordered by Cost.
type entryQueue []*Entry

func (q entryQueue) Len() int { return len(q) }

func (q entryQueue) Less(i, j int) bool { return q[i].Cost < q[j].Cost }

func (q entryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *entryQueue) Push(x interface{}) { *q = append(*q, x.(*Entry)) }

func (q *entryQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]

	return item
}
