package spawn

import (
	"aoscore/capref"
	"aoscore/capsys"
	"aoscore/kernel"
	"aoscore/vmm"
)

// loadImage drives the ELF image loader against image, allocating and
// dual-mapping a frame per allocatable section, and records the
// resulting entry point and GOT base into info.
func loadImage(sys capsys.Syscalls, parentPaging *vmm.State, loader ELFLoader, image []byte, info *Info) *kernel.Error {
	cb := func(vaddr, size uint32, flags capsys.MapFlags) ([]byte, *kernel.Error) {
		frame, actualSize, err := sys.FrameAlloc(uintptr(size))
		if err != nil {
			return nil, wrap(err, "elf section: frame_alloc failed")
		}

		// Map the frame into the parent for writing: the ELF loader
		// needs a host-addressable buffer to copy section bytes into,
		// independent of the child's requested permission flags.
		parentVaddr, perr := parentPaging.MapFrame(size, frame, capsys.MapRead|capsys.MapWrite)
		if perr != nil {
			return nil, perr.Push("spawn", "elf section: could not map frame into parent")
		}

		childFrame, err := info.ChildSlotAlloc.Alloc()
		if err != nil {
			return nil, wrap(err, "elf section: could not allocate child slot for frame")
		}
		if err := sys.CapCopy(childFrame, frame); err != nil {
			return nil, wrap(err, "elf section: could not copy frame cap into child")
		}

		if err := info.Paging.MapFixed(vaddr, childFrame, size, flags); err != nil {
			return nil, err.Push("spawn", "elf section: could not map frame into child")
		}

		// The parent-side buffer the loader copies section bytes into:
		// a live window over the frame just mapped at parentVaddr, not a
		// disconnected buffer, so the bytes the loader writes actually
		// land in memory the child's mapping shares. actualSize may
		// exceed the requested size due to allocator granularity; only
		// the requested portion is ever written.
		_ = actualSize
		return hostWindow(parentVaddr, size), nil
	}

	entry, gotAddr, err := loader.Load(image, cb)
	if err != nil {
		return err
	}

	info.EntryPoint = entry
	info.GOTBase = gotAddr
	return nil
}

// setupVspace builds the child's paging state skeleton: InitState is
// called with a zero-value placeholder capref before the real L1 vnode
// capability exists, which is assigned
// afterwards via SetL1, preserving the original's sequencing exactly.
// It also installs the mapping callback before any mapping calls are
// issued against the child's vspace, so every L1-to-L2 and L2-to-frame
// mapping capability created while building the child is also cloned
// into the parent's cspace, where the parent can later revoke them.
func setupVspace(sys capsys.Syscalls, parentSlotAlloc, childSlotAlloc vmm.SlotAllocator, startVaddr uint32, info *Info) *kernel.Error {
	state, err := vmm.InitState(sys, childSlotAlloc, startVaddr, capref.CapRef{})
	if err != nil {
		return err.Push("spawn", "setup_vspace: init_state failed")
	}
	state.SetMappingCallback(func(mappingCap capref.CapRef) {
		parentSlot, err := parentSlotAlloc.Alloc()
		if err != nil {
			return
		}
		if err := sys.CapCopy(parentSlot, mappingCap); err != nil {
			return
		}
		info.MappingCaps = append(info.MappingCaps, parentSlot)
	})

	// The L1 page directory vnode is a distinct object from the L1
	// CNode built by setupCspace (one addresses page-table structure,
	// the other capability storage); it is created only now, after
	// InitState has already recorded the placeholder.
	pdir, aerr := childSlotAlloc.Alloc()
	if aerr != nil {
		return wrap(aerr, "setup_vspace: could not allocate slot for L1 page directory")
	}
	if serr := sys.VNodeCreate(pdir, capsys.ObjTypeVNodeARML1); serr != nil {
		return wrap(serr, "setup_vspace: could not create child L1 vnode")
	}

	info.L1PDir = pdir
	state.SetL1(pdir)
	info.Paging = state
	info.ChildSlotAlloc = childSlotAlloc
	return nil
}
