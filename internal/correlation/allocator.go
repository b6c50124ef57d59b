package correlation

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// recycleRetryDelay is how long Allocate blocks before retrying the free
// list when it is exhausted during recycle-phase.
const recycleRetryDelay = 500 * time.Millisecond

// Allocation is the (flagID2, slot) pair handed out by the Index Allocator,
// together with the index it composes to.
type Allocation struct {
	FlagID2 int
	Slot    int
	Index   int32
}

// Allocator issues correlation indices. It starts in monotonic-phase,
// walking flagID2/slot forward from their initial values; once a full
// sweep completes it switches to recycle-phase, drawing exclusively from a
// LIFO free list fed by released indices.
type Allocator struct {
	mu sync.Mutex

	flagID2   int
	slot      int
	monotonic bool

	freeList []Allocation
}

// NewAllocator creates an Index Allocator in its initial monotonic-phase
// state.
func NewAllocator() *Allocator {
	return &Allocator{
		flagID2:   0,
		slot:      startSlot,
		monotonic: true,
	}
}

// Allocate returns the next correlation index. In recycle-phase, if the
// free list is empty it blocks in recycleRetryDelay increments until an
// index is released or ctx is done.
func (a *Allocator) Allocate(ctx context.Context) (Allocation, error) {
	for {
		alloc, ok := a.tryAllocate()
		if ok {
			return alloc, nil
		}
		select {
		case <-ctx.Done():
			return Allocation{}, ctx.Err()
		case <-time.After(recycleRetryDelay):
		}
	}
}

func (a *Allocator) tryAllocate() (Allocation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.monotonic {
		alloc := Allocation{FlagID2: a.flagID2, Slot: a.slot}
		alloc.Index = Index(alloc.FlagID2, alloc.Slot)

		a.slot++
		if a.slot >= maxSlot {
			a.flagID2++
			a.slot = startSlot
		}
		if a.flagID2 > maxFlagID2 {
			a.monotonic = false
		}
		return alloc, true
	}

	n := len(a.freeList)
	if n == 0 {
		return Allocation{}, false
	}
	alloc := a.freeList[n-1]
	a.freeList = a.freeList[:n-1]
	return alloc, true
}

// Release pushes index back onto the free list for reuse. Excess pushes
// beyond freeListCap are silently dropped; the allocator relies on natural
// wraparound rather than an unbounded list.
func (a *Allocator) Release(alloc Allocation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.freeList) >= freeListCap {
		return
	}
	a.freeList = append(a.freeList, alloc)
}

// NewFlagID chooses the scan-wide tag uniformly at random from [400, 655).
func NewFlagID() int {
	return minFlagID + rand.Intn(maxFlagID-minFlagID) //nolint:gosec // non-cryptographic tag selection
}
