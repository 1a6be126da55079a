package spawn

import (
	"aoscore/capref"
	"aoscore/vmm"
)

// Info is the spawn info entity: the full set of resources a spawn
// accumulates while building a child domain. It is created zeroed and
// populated in order by cspace, vspace, image-load, dispatcher and
// args-page construction; any failure along the way leaves it partially
// populated and the caller is expected to discard it without attempting
// to unwind prior allocations.
type Info struct {
	// L1CNode is the child's root CNode capability (capability storage,
	// distinct from L1PDir's page-directory vnode).
	L1CNode capref.CapRef

	// L1PDir is the child's L1 page-directory vnode capability, created
	// during vspace setup after InitState has recorded a placeholder.
	L1PDir capref.CapRef

	// ChildSlotAlloc is the child's private capability slot allocator,
	// used both by the child's own paging state and for placing
	// additional capabilities (ELF section frames, the args page) into
	// the child's capability space during spawn.
	ChildSlotAlloc vmm.SlotAllocator

	// TaskCN, PageCN, BasePageCN, SlotAlloc0/1/2 are the child's
	// standard L2 CNodes, at the ABI-fixed root CNode slots.
	TaskCN     capref.CapRef
	PageCN     capref.CapRef
	BasePageCN capref.CapRef
	SlotAlloc0 capref.CapRef
	SlotAlloc1 capref.CapRef
	SlotAlloc2 capref.CapRef

	// Dispatcher is the child's dispatcher object capability, held at
	// TaskCN[TaskCNSlotDispatcher].
	Dispatcher capref.CapRef

	// SelfEndpoint is a direct endpoint capability to the child,
	// retyped from the freshly created dispatcher.
	SelfEndpoint capref.CapRef

	// DispFrame is the dispatcher frame capability, held in the child
	// at TaskCN[TaskCNSlotDispFrame] and mapped in both parent and
	// child vspaces.
	DispFrame capref.CapRef
	// DispFrameParentVaddr is the parent-side virtual address the
	// dispatcher frame is mapped at, used to fill in the register save
	// areas before the child runs.
	DispFrameParentVaddr uint32
	// DispFrameChildVaddr is the child-side virtual address of the same
	// frame, recorded in the generic view's udisp field.
	DispFrameChildVaddr uint32

	// DispatcherView holds the fields written across the dispatcher
	// frame's generic, disabled, enabled and ARM-specific views.
	DispatcherView DispatcherFrame

	// ArgsPage is the argument frame capability, held in the child at
	// TaskCN[TaskCNSlotArgsPage].
	ArgsPage capref.CapRef
	// ArgsFrameParentVaddr and ArgsFrameChildVaddr are the parent- and
	// child-side virtual addresses the args frame is mapped at.
	ArgsFrameParentVaddr uint32
	ArgsFrameChildVaddr  uint32

	// Paging is the child's paging state, built against a private slot
	// allocator scoped to the child's own capability space.
	Paging *vmm.State

	// MappingCaps holds the parent-cspace clone of every L1-to-L2 and
	// L2-to-frame mapping capability created while building the child's
	// vspace, populated by the mapping callback installed in
	// setupVspace. The parent needs these to later revoke a child's
	// mappings; a clone that failed to copy is simply absent rather than
	// failing the spawn outright.
	MappingCaps []capref.CapRef

	// EntryPoint and GOTBase are virtual addresses in the child's
	// address space, recorded by the image loader and consumed by the
	// dispatcher primer.
	EntryPoint uint32
	GOTBase    uint32

	// BinaryName is the module's name, used for debugging and for the
	// dispatcher's name field, truncated to DispNameLen.
	BinaryName string
}
