package spawn

import (
	"aoscore/capsys"
	"aoscore/kernel"
	"aoscore/multiboot"
	"aoscore/vmm"
)

// ModuleReader resolves a located boot module to its raw image bytes.
// The module's frame is already mapped into a well-known CNode slot by
// boot-time code; this is the interface the spawner needs once that
// slot has been identified.
type ModuleReader interface {
	ReadModule(mod multiboot.Module) ([]byte, *kernel.Error)
}

// Load is the spawner's orchestrator: it resolves name to a boot
// module, builds the child's cspace and vspace, loads the ELF image,
// primes the dispatcher, packs the argument page, and finally asks the
// kernel to make the dispatcher runnable. Any failure in stage N leaves
// stages <N's allocations in place — spawning does not roll back a
// partially built child on failure — and returns without invoking the
// dispatcher.
func Load(
	sys capsys.Syscalls,
	registry multiboot.Registry,
	reader ModuleReader,
	loader ELFLoader,
	parentPaging *vmm.State,
	parentSlotAlloc vmm.SlotAllocator,
	childSlotAlloc vmm.SlotAllocator,
	childStartVaddr uint32,
	name string,
) (*Info, *kernel.Error) {
	mod, err := registry.FindModule(name)
	if err != nil {
		return nil, wrap(err, "spawn_load_by_name: could not find module "+name)
	}

	image, rerr := reader.ReadModule(mod)
	if rerr != nil {
		return nil, rerr.Push("spawn", "spawn_load_by_name: could not read module image")
	}

	info := &Info{BinaryName: truncateName(name)}

	if err := setupCspace(sys, parentSlotAlloc, info); err != nil {
		return nil, err
	}
	if err := setupVspace(sys, parentSlotAlloc, childSlotAlloc, childStartVaddr, info); err != nil {
		return nil, err
	}
	if err := loadImage(sys, parentPaging, loader, image, info); err != nil {
		return nil, err
	}
	if err := setupDispatcher(sys, parentPaging, info); err != nil {
		return nil, err
	}

	argv, argc := Tokenize(mod.Opts, MaxCmdlineArgs)
	if err := setupArgs(sys, parentPaging, info, argv, argc); err != nil {
		return nil, err
	}

	if serr := sys.InvokeDispatcher(info.Dispatcher, info.SelfEndpoint, info.L1CNode, info.L1PDir, info.DispFrame, true); serr != nil {
		return nil, wrap(serr, "spawn_load_by_name: invoke_dispatcher failed")
	}

	return info, nil
}

func truncateName(name string) string {
	if len(name) >= DispNameLen {
		return name[:DispNameLen-1]
	}
	return name
}
