package correlation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastForwardToRecycle pushes an allocator directly into recycle-phase
// without walking the full monotonic sweep, which spans roughly five
// million (flagID2, slot) pairs.
func fastForwardToRecycle(a *Allocator) {
	a.mu.Lock()
	a.monotonic = false
	a.mu.Unlock()
}

func TestAllocator_RecycleReusesReleasedIndex(t *testing.T) {
	a := NewAllocator()
	fastForwardToRecycle(a)

	released := Allocation{FlagID2: 3, Slot: 12000, Index: Index(3, 12000)}
	a.Release(released)

	got, err := a.Allocate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, released, got)
}

func TestAllocator_RecycleBlocksUntilReleaseArrives(t *testing.T) {
	a := NewAllocator()
	fastForwardToRecycle(a)

	released := Allocation{FlagID2: 1, Slot: 11000, Index: Index(1, 11000)}
	go func() {
		time.Sleep(20 * time.Millisecond)
		a.Release(released)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := a.Allocate(ctx)
	require.NoError(t, err)
	assert.Equal(t, released, got)
}

func TestAllocator_RecycleBlocksThenCtxDone(t *testing.T) {
	a := NewAllocator()
	fastForwardToRecycle(a)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := a.Allocate(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAllocator_ReleaseBoundedByFreeListCap(t *testing.T) {
	a := NewAllocator()
	for i := 0; i < freeListCap+10; i++ {
		a.Release(Allocation{Slot: i})
	}
	assert.Len(t, a.freeList, freeListCap)
}
