package vmm

import "aoscore/kernel"

func errVMM(msg string) *kernel.Error {
	return &kernel.Error{Module: "vmm", Message: msg}
}

var (
	// ErrRegionNotFound is returned when no Free region satisfies a
	// reserve request.
	ErrRegionNotFound = errVMM("VREGION_NOT_FOUND")
	// ErrRegionMap is returned when map_fixed cannot install a mapping
	// into the chosen region, e.g. because it is already Allocated.
	ErrRegionMap = errVMM("VREGION_MAP")
	// ErrMMUAwareInit is returned when paging state initialization
	// fails.
	ErrMMUAwareInit = errVMM("VSPACE_MMU_AWARE_INIT")
	// ErrMMUAwareMap is returned when the underlying capability
	// invocations behind a mapping fail.
	ErrMMUAwareMap = errVMM("VSPACE_MMU_AWARE_MAP")
	// ErrMMUAwareNoSpace is returned when a region split needs a node
	// and the arena has none left, even after a refill attempt. A
	// request that no Free region can hold fails with ErrRegionNotFound.
	ErrMMUAwareNoSpace = errVMM("VSPACE_MMU_AWARE_NO_SPACE")
)
