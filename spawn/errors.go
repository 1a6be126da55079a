package spawn

import "aoscore/kernel"

func errSpawn(msg string) *kernel.Error {
	return &kernel.Error{Module: "spawn", Message: msg}
}

var (
	// ErrFindModule is returned when the named boot module cannot be
	// located in the multiboot registry.
	ErrFindModule = errSpawn("SPAWN_ERR_FIND_MODULE")
	// ErrLoad is returned for failures while constructing a child
	// domain: cspace/vspace setup, image loading, dispatcher or args
	// page construction, or argc exceeding MaxCmdlineArgs.
	ErrLoad = errSpawn("SPAWN_ERR_LOAD")
	// ErrELFHeader is returned when the module image fails ELF header
	// validation (not an ELF file, wrong machine type, and so on).
	ErrELFHeader = errSpawn("ELF_ERR_HEADER")
)

// wrap pushes msg onto err, which may be either a *kernel.Error from one
// of this module's own dependencies (vmm, capsys fakes) or a bare error
// from an external collaborator.
func wrap(err error, msg string) *kernel.Error {
	if ke, ok := err.(*kernel.Error); ok {
		return ke.Push("spawn", msg)
	}
	return (&kernel.Error{Module: "external", Message: err.Error()}).Push("spawn", msg)
}
