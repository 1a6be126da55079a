package vmm

import (
	"aoscore/kernel"
	"aoscore/kernel/sync"
)

// nodeIndex is a stable small-integer handle to a regionNode, used in
// place of a pointer so the region list can be a plain array-backed
// structure without reference-counted ownership or cycles.
type nodeIndex int32

const nilIndex nodeIndex = -1

// RefillFunc grows an Arena's backing storage. It must not itself
// allocate virtual address space through the paging manager that owns
// the arena being refilled — doing so would re-enter map_fixed while the
// region list is mid-mutation. A refill implementation instead obtains a
// frame and grows the arena directly via GrowBy.
type RefillFunc func(a *Arena) *kernel.Error

// defaultRefillSize mirrors the original's slab_init buffer of 64 nodes.
const defaultRefillSize = 64

// Arena is a fixed-element-size free list of regionNodes. Its refill
// hook lets a paging manager grow it on demand while guaranteeing the
// refill path itself never recurses into the paging manager.
type Arena struct {
	lock sync.Spinlock

	nodes    []regionNode
	freeList []nodeIndex

	refilling bool
	refill    RefillFunc
}

// NewArena returns an empty Arena with no nodes and no refill hook
// installed. A caller must either call GrowBy directly or SetRefillFunc
// before the first Allocate.
func NewArena() *Arena {
	return &Arena{}
}

// SetRefillFunc installs the hook invoked automatically whenever
// FreeCount drops below the refill threshold. A nil fn disables automatic
// refill; MaybeRefill then becomes a no-op.
func (a *Arena) SetRefillFunc(fn RefillFunc) {
	a.refill = fn
}

// FreeCount returns the number of nodes immediately available to
// Allocate without a refill.
func (a *Arena) FreeCount() int {
	a.lock.Acquire()
	defer a.lock.Release()
	return len(a.freeList)
}

// needsRefill mirrors the original's should_refill_slabs: low on free
// nodes and not already mid-refill.
func (a *Arena) needsRefill() bool {
	return len(a.freeList) < slabRefillThreshold && !a.refilling
}

// MaybeRefill invokes the installed refill hook iff the arena is low on
// free nodes and a refill is not already in progress. The refilling flag
// guarantees at most one level of refill recursion is ever attempted —
// an implementation whose refill hook itself triggers another refill
// will find this call a no-op on the inner attempt.
func (a *Arena) MaybeRefill() *kernel.Error {
	if a.refill == nil || !a.needsRefill() {
		return nil
	}
	a.refilling = true
	err := a.refill(a)
	a.refilling = false
	if err != nil {
		return err.Push("vmm", "slab refill failed")
	}
	return nil
}

// GrowBy appends n zero-value nodes to the arena's free list. It is the
// only way new storage enters the arena; refill hooks call it after
// obtaining backing memory through a path that bypasses the paging
// manager (see RefillFunc).
func (a *Arena) GrowBy(n int) {
	a.lock.Acquire()
	defer a.lock.Release()
	start := nodeIndex(len(a.nodes))
	a.nodes = append(a.nodes, make([]regionNode, n)...)
	for i := 0; i < n; i++ {
		a.freeList = append(a.freeList, start+nodeIndex(i))
	}
}

// allocate pops a free node index, refilling first if necessary. It
// returns nilIndex if the arena is exhausted and no refill hook is
// installed (or the refill hook failed to produce free capacity).
func (a *Arena) allocate() (nodeIndex, *kernel.Error) {
	if err := a.MaybeRefill(); err != nil {
		return nilIndex, err
	}

	a.lock.Acquire()
	defer a.lock.Release()
	if len(a.freeList) == 0 {
		return nilIndex, nil
	}
	last := len(a.freeList) - 1
	idx := a.freeList[last]
	a.freeList = a.freeList[:last]
	return idx, nil
}

// free returns idx to the free list and clears its contents.
func (a *Arena) free(idx nodeIndex) {
	a.lock.Acquire()
	defer a.lock.Release()
	a.nodes[idx] = regionNode{}
	a.freeList = append(a.freeList, idx)
}

func (a *Arena) at(idx nodeIndex) *regionNode {
	return &a.nodes[idx]
}
