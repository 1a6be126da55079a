package bootstrap

import "aoscore/kernel"

func errBootstrap(msg string) *kernel.Error {
	return &kernel.Error{Module: "bootstrap", Message: msg}
}

var (
	// ErrRamAllocSet mirrors LIB_ERR_RAM_ALLOC_SET: the RAM allocator
	// could not be set to its fixed (init domain) or default policy.
	ErrRamAllocSet = errBootstrap("LIB_ERR_RAM_ALLOC_SET")
	// ErrMorecoreInit mirrors LIB_ERR_MORECORE_INIT.
	ErrMorecoreInit = errBootstrap("LIB_ERR_MORECORE_INIT")
	// ErrVspaceInit mirrors LIB_ERR_VSPACE_INIT.
	ErrVspaceInit = errBootstrap("LIB_ERR_VSPACE_INIT")
	// ErrSlotAllocInit mirrors LIB_ERR_SLOT_ALLOC_INIT.
	ErrSlotAllocInit = errBootstrap("LIB_ERR_SLOT_ALLOC_INIT")
	// ErrRPCInit is returned when establishing the channel to init fails.
	ErrRPCInit = errBootstrap("BOOTSTRAP_ERR_RPC_INIT")
)

// wrap pushes msg onto err, accepting either a *kernel.Error from a
// dependency of this module or a bare error from an external
// collaborator (RamAllocator, Morecore, ...).
func wrap(err error, msg string) *kernel.Error {
	if ke, ok := err.(*kernel.Error); ok {
		return ke.Push("bootstrap", msg)
	}
	return (&kernel.Error{Module: "external", Message: err.Error()}).Push("bootstrap", msg)
}
