package spawn

import (
	"encoding/binary"
	"unsafe"

	"aoscore/capsys"
	"aoscore/kernel"
	"aoscore/vmm"
)

// argsHeaderSize is the byte size of the spawn_domain_params header:
// argc, then MaxCmdlineArgs argv pointers, then MaxEnvironVars envp
// pointers, all 4-byte child-vaddr-sized fields.
const argsHeaderSize = 4 + 4*MaxCmdlineArgs + 4*MaxEnvironVars

// setupArgs allocates the argument page, dual-maps it, and packs argv
// into it: a spawn_domain_params header at offset 0 followed by
// NUL-terminated argument strings aligned to a 4-byte boundary, with
// argv[i] pointers expressed as child-vaddr offsets. It fails with
// ErrLoad if argc exceeds MaxCmdlineArgs. The envp facility is reserved
// space in the header but left unpopulated.
func setupArgs(sys capsys.Syscalls, parentPaging *vmm.State, info *Info, argv []string, argc int) *kernel.Error {
	if argc > MaxCmdlineArgs {
		return ErrLoad.Push("spawn", "argc exceeds MAX_CMDLINE_ARGS")
	}

	buf := make([]byte, vmm.BasePageSize)
	kernel.Memset(uintptr(unsafe.Pointer(&buf[0])), 0, uintptr(len(buf)))

	frame, _, err := sys.FrameAlloc(uintptr(len(buf)))
	if err != nil {
		return wrap(err, "setup_args: frame_alloc failed")
	}
	parentVaddr, perr := parentPaging.MapFrame(uint32(len(buf)), frame, capsys.MapRead|capsys.MapWrite)
	if perr != nil {
		return perr.Push("spawn", "setup_args: could not map args frame into parent")
	}
	if err := sys.CapCopy(info.ArgsPage, frame); err != nil {
		return wrap(err, "setup_args: could not copy args frame cap into child")
	}
	childBase, cerr := info.Paging.MapFrame(uint32(len(buf)), info.ArgsPage, capsys.MapRead|capsys.MapWrite)
	if cerr != nil {
		return cerr.Push("spawn", "setup_args: could not map args frame into child")
	}

	binary.LittleEndian.PutUint32(buf[0:4], uint32(argc))

	offset := argsHeaderSize
	for i := 0; i < argc; i++ {
		s := argv[i]
		strOffset := offset
		copy(buf[strOffset:], s)
		buf[strOffset+len(s)] = 0 // NUL terminator
		offset = roundUp4(strOffset + len(s) + 1)

		ptrFieldOffset := 4 + i*4
		binary.LittleEndian.PutUint32(buf[ptrFieldOffset:], childBase+uint32(strOffset))
	}
	// Trailing NUL past the last string, mirroring the original's extra
	// terminator byte.
	if offset < len(buf) {
		buf[offset] = 0
	}

	// buf was assembled entirely in Go-allocated memory; it must still be
	// written into the frame now mapped at parentVaddr (shared with the
	// child's own mapping of the same frame), or the packed argv never
	// reaches the domain that reads it.
	copy(hostWindow(parentVaddr, uint32(len(buf))), buf)

	info.ArgsFrameChildVaddr = childBase
	info.ArgsFrameParentVaddr = parentVaddr
	return nil
}

func roundUp4(v int) int {
	return (v + 3) &^ 3
}
