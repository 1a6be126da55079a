package vmm

import (
	"aoscore/capref"
	"aoscore/capsys"
	"aoscore/kernel"
)

// l2Slot is one entry of the L2 table cache. It transitions Initialized
// exactly once over the lifetime of the paging state that owns it;
// there is no teardown.
type l2Slot struct {
	initialized bool
	cap         capref.CapRef
}

// l2Cache holds one l2Slot per L1 entry, lazily populated as map_fixed
// walks across L1 indices that have not yet needed a second-level table.
type l2Cache struct {
	slots [L1Entries]l2Slot
}

func newL2Cache() *l2Cache {
	return &l2Cache{}
}

// SlotAllocator hands out fresh capability slots. It is an external
// collaborator; the paging manager draws both the capability slots
// backing L2 vnodes and their L1 mapping capabilities from it.
type SlotAllocator interface {
	Alloc() (capref.CapRef, error)
}

// MappingCallback is invoked after every new L1-to-L2 or L2-to-frame
// mapping capability is created, letting a parent clone the mapping into
// a child cspace during spawn.
type MappingCallback func(mappingCap capref.CapRef)

// ensure returns the L2 vnode capability for L1 index idx, creating it
// if this is the first time idx has been touched: allocate a capability
// slot, create an L2 vnode into it, map that vnode into the L1
// directory at idx using a mapping capability
// drawn from slotAlloc, then invoke cb (if non-nil) with the mapping
// capability.
func (c *l2Cache) ensure(sys capsys.Syscalls, slotAlloc SlotAllocator, l1 capref.CapRef, idx uint32, cb MappingCallback) (capref.CapRef, *kernel.Error) {
	slot := &c.slots[idx]
	if slot.initialized {
		return slot.cap, nil
	}

	vnodeSlot, err := slotAlloc.Alloc()
	if err != nil {
		return capref.CapRef{}, wrapSyscallErr(err, "could not allocate slot for L2 vnode")
	}

	if err := sys.VNodeCreate(vnodeSlot, capsys.ObjTypeVNodeARML2); err != nil {
		return capref.CapRef{}, wrapSyscallErr(err, "could not create L2 vnode")
	}

	mappingCap, err := slotAlloc.Alloc()
	if err != nil {
		return capref.CapRef{}, wrapSyscallErr(err, "could not allocate slot for L1 mapping capability")
	}

	if err := sys.VNodeMap(l1, vnodeSlot, idx, 0, 0, 1, mappingCap); err != nil {
		return capref.CapRef{}, wrapSyscallErr(err, "could not map L2 vnode into L1")
	}

	if cb != nil {
		cb(mappingCap)
	}

	slot.initialized = true
	slot.cap = vnodeSlot
	return vnodeSlot, nil
}

func wrapSyscallErr(err error, msg string) *kernel.Error {
	if ke, ok := err.(*kernel.Error); ok {
		return ke.Push("vmm", msg)
	}
	return (&kernel.Error{Module: "capsys", Message: err.Error()}).Push("vmm", msg)
}
