package vmm

import "aoscore/kernel"

// regionKind tags how a regionNode's backing virtual address range is
// currently used.
type regionKind int

const (
	// Free ranges are available for reservation.
	Free regionKind = iota
	// Claimed ranges have been reserved by Reserve but have no frame
	// installed yet.
	Claimed
	// Allocated ranges are backed by an installed frame.
	Allocated
)

func (k regionKind) String() string {
	switch k {
	case Free:
		return "Free"
	case Claimed:
		return "Claimed"
	case Allocated:
		return "Allocated"
	default:
		return "invalid"
	}
}

// regionNode is one entry of the address-sorted region list. base/size
// are always page-aligned; the list as a whole is totally ordered by
// base and every pair of adjacent nodes is contiguous.
type regionNode struct {
	base uint32
	size uint32
	kind regionKind
	prev nodeIndex
	next nodeIndex
}

// regionList is the sorted doubly-linked list of virtual address
// regions tracking a domain's address space. It is backed by an Arena
// so that node storage can be grown without allocating Go heap memory
// on every split.
type regionList struct {
	arena *Arena
	head  nodeIndex
}

// newRegionList creates a regionList with a single Free node spanning
// [startVaddr, 2^32). startVaddr must be page-aligned.
func newRegionList(arena *Arena, startVaddr uint32) (*regionList, *kernel.Error) {
	rl := &regionList{arena: arena, head: nilIndex}

	idx, err := arena.allocate()
	if err != nil {
		return nil, err
	}
	if idx == nilIndex {
		return nil, ErrMMUAwareInit.Push("vmm", "arena exhausted during init_state")
	}

	n := arena.at(idx)
	n.base = startVaddr
	n.size = 0 - startVaddr // 2^32 - startVaddr, computed mod 2^32
	n.kind = Free
	n.prev = nilIndex
	n.next = nilIndex

	rl.head = idx
	return rl, nil
}

// insertAfter links newIdx into the list immediately after atIdx.
func (rl *regionList) insertAfter(atIdx, newIdx nodeIndex) {
	at := rl.arena.at(atIdx)
	newNode := rl.arena.at(newIdx)

	newNode.prev = atIdx
	newNode.next = at.next
	if at.next != nilIndex {
		rl.arena.at(at.next).prev = newIdx
	}
	at.next = newIdx
}

// insertBefore links newIdx into the list immediately before atIdx,
// updating the head if atIdx was the head.
func (rl *regionList) insertBefore(atIdx, newIdx nodeIndex) {
	at := rl.arena.at(atIdx)
	newNode := rl.arena.at(newIdx)

	newNode.next = atIdx
	newNode.prev = at.prev
	if at.prev != nilIndex {
		rl.arena.at(at.prev).next = newIdx
	} else {
		rl.head = newIdx
	}
	at.prev = newIdx
}

// splitRight carves off the trailing [node.base+size, node.base+node.size)
// portion of node into a new Free node, shrinking node to size bytes.
// node must have size strictly greater than size.
func (rl *regionList) splitRight(idx nodeIndex, size uint32) *kernel.Error {
	newIdx, err := rl.arena.allocate()
	if err != nil {
		return err
	}
	if newIdx == nilIndex {
		return ErrMMUAwareNoSpace.Push("vmm", "arena exhausted during split")
	}

	// allocate may have refilled the arena and reallocated its backing
	// slice, so node must be fetched after the call, never before it.
	node := rl.arena.at(idx)
	right := rl.arena.at(newIdx)
	right.base = node.base + size
	right.size = node.size - size
	right.kind = Free

	node.size = size
	rl.insertAfter(idx, newIdx)
	return nil
}

// splitLeft carves off the leading [node.base, addr) portion of node into
// a new Free node preceding it, shrinking node to start at addr. node
// must have node.base strictly less than addr.
func (rl *regionList) splitLeft(idx nodeIndex, addr uint32) *kernel.Error {
	newIdx, err := rl.arena.allocate()
	if err != nil {
		return err
	}
	if newIdx == nilIndex {
		return ErrMMUAwareNoSpace.Push("vmm", "arena exhausted during split")
	}

	// allocate may have refilled the arena and reallocated its backing
	// slice, so node must be fetched after the call, never before it.
	node := rl.arena.at(idx)
	left := rl.arena.at(newIdx)
	left.base = node.base
	left.size = addr - node.base
	left.kind = Free

	node.size -= left.size
	node.base = addr
	rl.insertBefore(idx, newIdx)
	return nil
}

// reserve performs a first-fit search for a Free node with size >= size,
// splitting off any excess to the right, and marks the result Claimed.
// It returns ErrRegionNotFound if no Free node is large enough.
func (rl *regionList) reserve(size uint32) (nodeIndex, *kernel.Error) {
	for idx := rl.head; idx != nilIndex; idx = rl.arena.at(idx).next {
		node := rl.arena.at(idx)
		if node.kind != Free || node.size < size {
			continue
		}

		if node.size > size {
			if err := rl.splitRight(idx, size); err != nil {
				return nilIndex, err
			}
		}
		rl.arena.at(idx).kind = Claimed
		return idx, nil
	}
	return nilIndex, ErrRegionNotFound
}

// reserveAt finds the node covering [addr, addr+size), splitting off any
// leading and trailing excess, and marks the result Allocated. It fails
// with ErrRegionMap if the covering node is already Allocated or if no
// single node covers the full requested range.
func (rl *regionList) reserveAt(addr, size uint32) (nodeIndex, *kernel.Error) {
	for idx := rl.head; idx != nilIndex; idx = rl.arena.at(idx).next {
		node := rl.arena.at(idx)
		// Ends are compared in 64 bits: the last node ends at 2^32, which
		// wraps to 0 in uint32.
		nodeEnd := uint64(node.base) + uint64(node.size)
		reqEnd := uint64(addr) + uint64(size)
		if node.base > addr || nodeEnd < reqEnd {
			continue
		}
		if node.kind == Allocated {
			return nilIndex, ErrRegionMap.Push("vmm", "region already allocated")
		}

		if nodeEnd > reqEnd {
			if err := rl.splitRight(idx, addr+size-node.base); err != nil {
				return nilIndex, err
			}
		}
		if rl.arena.at(idx).base < addr {
			if err := rl.splitLeft(idx, addr); err != nil {
				return nilIndex, err
			}
		}

		rl.arena.at(idx).kind = Allocated
		return idx, nil
	}
	return nilIndex, ErrRegionMap.Push("vmm", "no region covers requested range")
}

// release is the unmap stub: region release/coalesce is not
// implemented, carrying the original's "unmap/coalesce" stub forward
// unchanged.
func (rl *regionList) release(addr uint32) *kernel.Error {
	return nil
}
