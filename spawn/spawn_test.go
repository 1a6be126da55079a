package spawn

import (
	"testing"

	"aoscore/kernel"
	"aoscore/multiboot"
)

type fakeModuleReader struct {
	image []byte
}

func (r *fakeModuleReader) ReadModule(mod multiboot.Module) ([]byte, *kernel.Error) {
	return r.image, nil
}

func TestSpawnLoadHappyPath(t *testing.T) {
	sys := newFakeSyscalls()
	parentSlots := &fakeSlotAllocator{}
	childSlots := &fakeSlotAllocator{}

	parentPaging, err := newParentPagingForTest(sys, parentSlots)
	if err != nil {
		t.Fatalf("could not build parent paging state: %v", err)
	}

	registry := multiboot.NewTagRegistry()
	registry.AddModule("hello", multiboot.Module{Opts: "hello arg1 arg2"})

	text := []byte{0xde, 0xad, 0xbe, 0xef}
	img := buildMinimalELF(t, 0x0040_0000, 0x0040_0000, text, 0x0040_1000)
	reader := &fakeModuleReader{image: img}

	info, lerr := Load(sys, registry, reader, DebugELFLoader{}, parentPaging, parentSlots, childSlots, 0x0000_0000, "hello")
	if lerr != nil {
		t.Fatalf("Load() error: %v", lerr)
	}

	if !info.DispatcherView.Disabled {
		t.Error("expected dispatcher to start disabled")
	}
	if info.DispatcherView.DisabledPC != 0x0040_0000 {
		t.Errorf("DisabledPC = %#x; want 0x400000", info.DispatcherView.DisabledPC)
	}
	if info.DispatcherView.GOTBase != 0x0040_1000 {
		t.Errorf("GOTBase = %#x; want 0x401000", info.DispatcherView.GOTBase)
	}
	wantName := "hello\x00"
	if string(info.DispatcherView.Name[:len(wantName)]) != wantName {
		t.Errorf("dispatcher name = %q; want prefix %q", info.DispatcherView.Name[:len(wantName)], wantName)
	}
	if !sys.invokedRun {
		t.Error("expected invoke_dispatcher to be called with run=true")
	}
}

func TestSpawnLoadMissingModule(t *testing.T) {
	sys := newFakeSyscalls()
	parentSlots := &fakeSlotAllocator{}
	childSlots := &fakeSlotAllocator{}
	parentPaging, err := newParentPagingForTest(sys, parentSlots)
	if err != nil {
		t.Fatalf("could not build parent paging state: %v", err)
	}

	registry := multiboot.NewTagRegistry()
	reader := &fakeModuleReader{}

	_, lerr := Load(sys, registry, reader, DebugELFLoader{}, parentPaging, parentSlots, childSlots, 0, "missing")
	if lerr == nil || !lerr.Is(findModuleSentinel()) {
		t.Fatalf("expected an error wrapping multiboot.ErrModuleNotFound, got %v", lerr)
	}
}

func findModuleSentinel() *kernel.Error {
	return multiboot.ErrModuleNotFound
}
