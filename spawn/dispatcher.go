package spawn

import (
	"aoscore/capsys"
	"aoscore/kernel"
	"aoscore/vmm"

	"golang.org/x/arch/arm/armasm"
)

// ARM CPSR bits used when priming a dispatcher's register save areas.
const (
	cpsrModeUSR = 0x10
	cpsrFMask   = 0x40

	// cpsrUserFIQMasked is the mode/flag combination both save areas are
	// primed with: user mode, FIQ masked.
	cpsrUserFIQMasked = cpsrModeUSR | cpsrFMask
)

// DispatcherFrame is the set of fields the dispatcher primer fills
// across the generic, disabled, enabled and ARM-specific views of the
// dispatcher frame. It stands in for the raw
// frame contents a real implementation would write through the mapped
// virtual address recorded in DispFrameParentVaddr.
type DispatcherFrame struct {
	// Generic view.
	CoreID   uint32
	UDisp    uint32
	Disabled bool
	FPUTrap  bool
	Name     [DispNameLen]byte

	// Disabled save area.
	DisabledPC   uint32
	DisabledCPSR uint32
	DisabledPIC  uint32

	// Enabled save area.
	EnabledCPSR uint32
	EnabledPIC  uint32

	// ARM-specific view.
	GOTBase uint32
}

// setupDispatcher allocates the dispatcher frame, dual-maps it into the
// parent and child vspaces, and fills its register save areas.
// info.EntryPoint and info.GOTBase must already be populated by
// loadImage.
func setupDispatcher(sys capsys.Syscalls, parentPaging *vmm.State, info *Info) *kernel.Error {
	size := uint32(1) << DispatcherFrameBits

	frame, _, err := sys.FrameAlloc(uintptr(size))
	if err != nil {
		return wrap(err, "setup_dispatcher: frame_alloc failed")
	}

	parentVaddr, perr := parentPaging.MapFrame(size, frame, capsys.MapRead|capsys.MapWrite)
	if perr != nil {
		return perr.Push("spawn", "setup_dispatcher: could not map frame into parent")
	}

	if err := sys.CapCopy(info.DispFrame, frame); err != nil {
		return wrap(err, "setup_dispatcher: could not copy frame cap into child")
	}

	childVaddr, cerr := info.Paging.MapFrame(size, info.DispFrame, capsys.MapRead|capsys.MapWrite)
	if cerr != nil {
		return cerr.Push("spawn", "setup_dispatcher: could not map frame into child")
	}

	var name [DispNameLen]byte
	copy(name[:DispNameLen-1], info.BinaryName)

	info.DispatcherView = DispatcherFrame{
		CoreID:   0,
		UDisp:    childVaddr,
		Disabled: true,
		FPUTrap:  true,
		Name:     name,

		DisabledPC:   info.EntryPoint,
		DisabledCPSR: cpsrUserFIQMasked,
		DisabledPIC:  info.GOTBase,

		EnabledCPSR: cpsrUserFIQMasked,
		EnabledPIC:  info.GOTBase,

		GOTBase: info.GOTBase,
	}
	info.DispFrameParentVaddr = parentVaddr
	info.DispFrameChildVaddr = childVaddr

	return nil
}

// DumpEntryInstructions disassembles up to count instructions from code,
// which should be the bytes of the child's text section starting at its
// entry point. It exists purely as a debugging aid for spawn failures —
// tracing why a child never reaches its dispatcher loop often starts
// with "what did we actually load at the entry point."
func DumpEntryInstructions(code []byte, count int) ([]string, error) {
	var out []string
	offset := 0
	for i := 0; i < count && offset < len(code); i++ {
		inst, err := armasm.Decode(code[offset:], armasm.ModeARM)
		if err != nil {
			return out, err
		}
		out = append(out, inst.String())
		offset += inst.Len
	}
	return out, nil
}
