// Package pqueue implements the binary min-heap that drives the maze search.
//
// The heap stores *Entry partial-path records ordered by Entry.Cost (the known
// backward cost plus the weighted lookahead). It is built on container/heap and
// adds what a label-correcting router needs on top of a plain priority queue:
//
//   - PushBack + Build: O(n) bulk seeding. The whole route tree is re-pushed
//     before every sink search; appending n entries and heapifying once is
//     cheaper than n sift-ups.
//   - Lazy invalidation: Invalidate marks matching entries instead of removing
//     them from the middle of the heap; PopMin discards them when they surface.
//   - Pooling: entries come from Alloc and go back through Release or Empty. The
//     heap is drained between searches; Outstanding reports entries that were
//     allocated but never returned, which must be zero at that point.
//
// Ties are broken by structural position only.
//
// Complexity:
//
//   - Push, PopMin: O(log n)
//   - PushBack:     O(1) amortized
//   - Build:        O(n)
//   - Invalidate:   O(n)
//   - Empty:        O(n)
//
// PopMin on an empty heap returns (nil, false); it is never an error.
package pqueue
