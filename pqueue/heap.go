package pqueue

import (
	"container/heap"
	"fmt"
)

// Heap is a pooled binary min-heap of *Entry. The zero value is not usable;
// call New.
type Heap struct {
	items entryQueue
	free  []*Entry
	epoch uint64
	live  int
	stats Stats
}

// New returns an empty heap with room for capacity entries.
func New(capacity int) *Heap {
	if capacity < 1 {
		capacity = 1
	}

	return &Heap{items: make(entryQueue, 0, capacity), epoch: 1}
}

// Alloc returns a zeroed, valid entry from the pool. Predecessor fields start
// as Open.
func (h *Heap) Alloc() *Entry {
	var e *Entry
	if n := len(h.free); n > 0 {
		e = h.free[n-1]
		h.free = h.free[:n-1]
		h.stats.Reuses++
	} else {
		e = new(Entry)
		h.stats.Allocs++
	}
	*e = Entry{PrevNode: Open, PrevEdge: Open, valid: true, epoch: h.epoch}
	h.live++

	return e
}

// Release returns e to the pool. Releasing an entry twice is a programming
// error and panics.
func (h *Heap) Release(e *Entry) {
	if e == nil {
		return
	}
	if e.released {
		panic(fmt.Sprintf("pqueue: entry for node %d released twice", e.Node))
	}
	e.released = true
	h.live--
	h.free = append(h.free, e)
}

// Push inserts e and restores the heap property (sift-up).
func (h *Heap) Push(e *Entry) {
	heap.Push(&h.items, e)
	h.stats.Pushes++
}

// PushBack appends e without restoring the heap property. Call Build before
// the next PopMin.
func (h *Heap) PushBack(e *Entry) {
	h.items = append(h.items, e)
	h.stats.Pushes++
}

// Build heapifies the backing storage in O(n) by sifting down from the middle
// outward.
func (h *Heap) Build() {
	heap.Init(&h.items)
}

// PopMin removes and returns the cheapest valid entry. Invalidated entries
// reached on the way are released. It returns (nil, false) once the heap holds
// no valid entry.
func (h *Heap) PopMin() (*Entry, bool) {
	for h.items.Len() > 0 {
		e := heap.Pop(&h.items).(*Entry)
		if !e.valid {
			h.Release(e)
			continue
		}
		h.stats.Pops++

		return e, true
	}

	return nil, false
}

// Len returns the number of queued entries, including invalidated ones.
func (h *Heap) Len() int { return h.items.Len() }

// Invalidate marks every queued entry for which match returns true and reports
// how many were marked.
func (h *Heap) Invalidate(match func(*Entry) bool) int {
	n := 0
	for _, e := range h.items {
		if e.valid && match(e) {
			e.Invalidate()
			n++
		}
	}
	h.stats.Invalidated += uint64(n)

	return n
}

// Empty releases every queued entry and starts a new epoch.
func (h *Heap) Empty() {
	for i, e := range h.items {
		h.Release(e)
		h.items[i] = nil
	}
	h.items = h.items[:0]
	h.epoch++
}

// Outstanding returns the number of entries handed out by Alloc and not yet
// released.
func (h *Heap) Outstanding() int { return h.live }

// Stats returns the traffic counters.
func (h *Heap) Stats() Stats { return h.stats }

// IsValid reports whether the heap property holds for every parent/child pair
// and every queued entry belongs to the current epoch.
func (h *Heap) IsValid() bool {
	n := len(h.items)
	for i := 0; i < n; i++ {
		if h.items[i].epoch != h.epoch || h.items[i].released {
			return false
		}
		for _, c := range [2]int{2*i + 1, 2*i + 2} {
			if c < n && h.items[c].Cost < h.items[i].Cost {
				return false
			}
		}
	}

	return true
}
