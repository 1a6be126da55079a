// Package capsys defines the capability syscall surface that the paging
// manager and spawner are built against. The kernel, the physical RAM
// allocator, and the slot allocator behind these calls are external
// collaborators; this package exists so that code in vmm, spawn, and
// bootstrap can be written and tested against a fake implementation
// without ever importing a real kernel.
package capsys

import "aoscore/capref"

// ObjType names the kind of kernel object a vnode_create invocation
// should instantiate.
type ObjType int

const (
	ObjTypeVNodeARML1 ObjType = iota
	ObjTypeVNodeARML2
	ObjTypeDispatcher
	ObjTypeL1CNode
	ObjTypeL2CNode
	ObjTypeEndpoint
)

// MapFlags mirrors the permission/attribute bits accepted by vnode_map.
type MapFlags uint32

const (
	MapRead MapFlags = 1 << iota
	MapWrite
	MapExec
	MapCacheable
)

// FrameInfo is the result of frame_identify: the physical base and actual
// allocated size of a frame capability, which may be larger than the size
// requested from frame_alloc due to allocator granularity.
type FrameInfo struct {
	Base  uintptr
	Bytes uintptr
}

// Syscalls is the full set of capability syscalls this module consumes.
// A production binary backs this with real kernel invocations; tests
// back it with an in-memory fake that tracks created objects.
type Syscalls interface {
	// CNodeCreateL1 creates a fresh root CNode capability.
	CNodeCreateL1() (capref.CapRef, error)

	// CNodeCreateForeignL2 creates an L2 CNode and installs it in the L1
	// CNode dest at the given slot, returning a reference to it.
	CNodeCreateForeignL2(dest capref.CapRef, slot uint32) (capref.CapRef, error)

	// DispatcherCreate creates a fresh dispatcher object capability into
	// dest.
	DispatcherCreate(dest capref.CapRef) error

	// CapCopy copies the capability at src into the slot named by dest.
	CapCopy(dest, src capref.CapRef) error

	// CapRetype retypes src (e.g. a dispatcher) into a new capability of
	// newType, written into dest.
	CapRetype(dest, src capref.CapRef, newType ObjType) error

	// CapRevoke revokes all copies/descendants of the capability at c.
	CapRevoke(c capref.CapRef) error

	// CapDelete deletes the capability at c.
	CapDelete(c capref.CapRef) error

	// VNodeCreate creates a page-table (vnode) capability of the given
	// type into dest.
	VNodeCreate(dest capref.CapRef, objType ObjType) error

	// VNodeMap installs capToMap into destVnode at slot, covering
	// pteCount page-table entries starting offsetInPages into capToMap,
	// with the given flags. mappingCap receives the resulting mapping
	// capability (used by paging's mapping callback to clone the mapping
	// into a child cspace).
	VNodeMap(destVnode, capToMap capref.CapRef, slot uint32, flags MapFlags, offsetInPages, pteCount uint32, mappingCap capref.CapRef) error

	// FrameAlloc allocates a frame of at least size bytes, returning the
	// capability and the actual (possibly larger) size allocated.
	FrameAlloc(size uintptr) (capref.CapRef, uintptr, error)

	// FrameIdentify returns the physical base and size backing cap.
	FrameIdentify(cap capref.CapRef) (FrameInfo, error)

	// InvokeDispatcher makes disp runnable with the given endpoint,
	// root CNode, L1 page directory and dispatcher frame.
	InvokeDispatcher(disp, endpoint, rootCN, l1PDir, dispFrame capref.CapRef, run bool) error

	// SysPrint writes buf directly through the kernel's debug console.
	SysPrint(buf []byte) error
}
