package vmm

import (
	"aoscore/capref"
	"aoscore/capsys"
	"aoscore/kernel"
	"aoscore/kernel/sync"
)

// State is the paging manager's public contract: it composes the slab
// arena, region list and L2 table cache into reserve/map operations
// over a single domain's virtual address space.
type State struct {
	lock sync.Spinlock

	sys       capsys.Syscalls
	slotAlloc SlotAllocator

	l1 capref.CapRef

	regions *regionList
	l2s     *l2Cache
	arena   *Arena

	mappingCB MappingCallback
}

// InitState initializes a fresh paging state. startVaddr must be
// page-aligned; l1 must be a fresh, empty L1 vnode capability — or the
// zero-value capref.CapRef{} placeholder used while a child's real L1
// capability has not been created yet. Callers that pass the
// placeholder must follow up with SetL1 once the real capability exists;
// InitState never dereferences l1 itself.
func InitState(sys capsys.Syscalls, slotAlloc SlotAllocator, startVaddr uint32, l1 capref.CapRef) (*State, *kernel.Error) {
	if startVaddr%BasePageSize != 0 {
		return nil, ErrMMUAwareInit.Push("vmm", "start_vaddr is not page-aligned")
	}

	arena := NewArena()
	arena.GrowBy(defaultRefillSize)

	regions, err := newRegionList(arena, startVaddr)
	if err != nil {
		return nil, err.Push("vmm", "init_state: could not build region list")
	}

	s := &State{
		sys:       sys,
		slotAlloc: slotAlloc,
		l1:        l1,
		regions:   regions,
		l2s:       newL2Cache(),
		arena:     arena,
	}

	arena.SetRefillFunc(s.refillSlabs)
	return s, nil
}

// SetL1 assigns the paging state's L1 capability. It exists to support
// the original spawn sequencing: a child's L1 vnode capability is
// created after InitState is called with a placeholder, then assigned
// here.
func (s *State) SetL1(l1 capref.CapRef) {
	s.lock.Acquire()
	defer s.lock.Release()
	s.l1 = l1
}

// SetMappingCallback installs the observer invoked after every new L1-
// to-L2 and L2-to-frame mapping capability is created. Spawning code
// wires this so every mapping made while building a child's vspace is
// also cloned into the child's cspace.
func (s *State) SetMappingCallback(cb MappingCallback) {
	s.lock.Acquire()
	defer s.lock.Release()
	s.mappingCB = cb
}

// refillSlabs is the default slab refill hook: it obtains a fresh frame
// directly through the syscall layer (never through Alloc/MapFixed,
// which would re-enter this same State mid-mutation) and grows the
// arena. In this model the arena's nodes live in Go-allocated storage
// (GrowBy) and the frame is not used for them; it is requested here only
// to account for the physical memory that backing the slab takes.
func (s *State) refillSlabs(a *Arena) *kernel.Error {
	if _, _, err := s.sys.FrameAlloc(defaultRefillSize * BasePageSize / L2Entries); err != nil {
		return wrapSyscallErr(err, "slab refill: frame_alloc failed")
	}
	a.GrowBy(defaultRefillSize)
	return nil
}

// Alloc reserves size bytes of address space without installing any
// frame. size is rounded up to a page boundary.
func (s *State) Alloc(size uint32) (uint32, *kernel.Error) {
	s.lock.Acquire()
	defer s.lock.Release()

	size = pageRoundUp(size)
	idx, err := s.regions.reserve(size)
	if err != nil {
		return 0, err
	}
	return s.regions.arena.at(idx).base, nil
}

// MapFrame composes a slab refill check, Alloc and MapFixed into a
// single convenience call.
func (s *State) MapFrame(size uint32, frame capref.CapRef, flags capsys.MapFlags) (uint32, *kernel.Error) {
	if err := s.arena.MaybeRefill(); err != nil {
		return 0, err
	}

	buf, err := s.Alloc(size)
	if err != nil {
		return 0, err
	}
	if err := s.MapFixed(buf, frame, size, flags); err != nil {
		return 0, err
	}
	return buf, nil
}

// MapFixed is the paging manager's core operation: it finds (splitting
// as needed) the region covering [vaddr, vaddr+size),
// fails if that region is already Allocated, then walks the range one L2
// table at a time, creating missing L2 tables via the L2 cache and
// issuing one vnode-map invocation per L2 table touched.
func (s *State) MapFixed(vaddr uint32, frame capref.CapRef, size uint32, flags capsys.MapFlags) *kernel.Error {
	s.lock.Acquire()
	defer s.lock.Release()

	size = pageRoundUp(size)
	if _, err := s.regions.reserveAt(vaddr, size); err != nil {
		return err
	}

	mappedBytes := uint32(0)
	for mappedBytes < size {
		cur := vaddr + mappedBytes
		l1idx := l1Index(cur)
		l2idx := l2Index(cur)

		l2vnode, err := s.l2s.ensure(s.sys, s.slotAlloc, s.l1, l1idx, s.mappingCB)
		if err != nil {
			return err
		}

		entriesLeftInL2 := uint32(L2Entries) - l2idx
		remainingPages := (size - mappedBytes) / BasePageSize
		pagesThisCall := remainingPages
		if entriesLeftInL2 < pagesThisCall {
			pagesThisCall = entriesLeftInL2
		}

		mappingCap, aerr := s.slotAlloc.Alloc()
		if aerr != nil {
			return wrapSyscallErr(aerr, "could not allocate mapping capability")
		}

		offsetInPages := mappedBytes / BasePageSize
		if serr := s.sys.VNodeMap(l2vnode, frame, l2idx, flags, offsetInPages, pagesThisCall, mappingCap); serr != nil {
			return wrapSyscallErr(serr, "map_fixed: vnode_map failed")
		}
		if s.mappingCB != nil {
			s.mappingCB(mappingCap)
		}

		mappedBytes += pagesThisCall * BasePageSize
	}

	return nil
}

// Unmap is the unmap/release stub: region release and page-table
// teardown are not implemented.
func (s *State) Unmap(vaddr uint32) *kernel.Error {
	s.lock.Acquire()
	defer s.lock.Release()
	return s.regions.release(vaddr)
}
