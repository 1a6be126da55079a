package spawn

import (
	"testing"

	"aoscore/capsys"
	"aoscore/kernel"
)

type fakeLoader struct {
	sections []struct {
		vaddr, size uint32
		flags       capsys.MapFlags
		data        []byte
	}
	entry, got uint32
}

func (f *fakeLoader) Load(image []byte, cb SectionCallback) (uint32, uint32, *kernel.Error) {
	for _, s := range f.sections {
		dest, err := cb(s.vaddr, s.size, s.flags)
		if err != nil {
			return 0, 0, err
		}
		if s.data != nil {
			copy(dest, s.data)
		}
	}
	return f.entry, f.got, nil
}

func newTestSpawnInfo(t *testing.T) (*Info, *fakeSyscalls) {
	t.Helper()
	sys := newFakeSyscalls()
	parentSlots := &fakeSlotAllocator{}
	childSlots := &fakeSlotAllocator{}

	info := &Info{}
	if err := setupCspace(sys, parentSlots, info); err != nil {
		t.Fatalf("setupCspace() error: %v", err)
	}
	if err := setupVspace(sys, parentSlots, childSlots, 0x0010_0000, info); err != nil {
		t.Fatalf("setupVspace() error: %v", err)
	}
	return info, sys
}

func TestSetupVspacePreservesPdirSequencing(t *testing.T) {
	info, _ := newTestSpawnInfo(t)
	if info.L1PDir.IsZero() {
		t.Fatal("expected L1PDir to be assigned after setupVspace")
	}
	if info.Paging == nil {
		t.Fatal("expected Paging to be set")
	}
}

func TestLoadImageMapsSections(t *testing.T) {
	info, sys := newTestSpawnInfo(t)

	parentSlots := &fakeSlotAllocator{}
	parentPaging, err := newParentPagingForTest(sys, parentSlots)
	if err != nil {
		t.Fatalf("could not build parent paging state: %v", err)
	}

	sectionBytes := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	loader := &fakeLoader{
		sections: []struct {
			vaddr, size uint32
			flags       capsys.MapFlags
			data        []byte
		}{
			{vaddr: 0x0040_0000, size: 0x1000, flags: capsys.MapRead | capsys.MapExec, data: sectionBytes},
		},
		entry: 0x0040_0000,
		got:   0x0040_1000,
	}

	if err := loadImage(sys, parentPaging, loader, nil, info); err != nil {
		t.Fatalf("loadImage() error: %v", err)
	}
	if info.EntryPoint != 0x0040_0000 {
		t.Errorf("EntryPoint = %#x; want 0x400000", info.EntryPoint)
	}
	if info.GOTBase != 0x0040_1000 {
		t.Errorf("GOTBase = %#x; want 0x401000", info.GOTBase)
	}
	if sys.frameAllocsCount() == 0 {
		t.Error("expected at least one frame_alloc for the section")
	}

	// The section's first frame is mapped at the parent paging state's
	// start address; the loader must have copied the real section bytes
	// there, not into a disconnected throwaway buffer.
	window := fakeWindows[0x8000_0000]
	if len(window) < len(sectionBytes) {
		t.Fatalf("no window recorded at parent base address")
	}
	for i, b := range sectionBytes {
		if window[i] != b {
			t.Fatalf("window[%d] = %#x; want %#x (section bytes did not land in mapped memory)", i, window[i], b)
		}
	}

	if len(info.MappingCaps) == 0 {
		t.Error("expected mapping capabilities created while loading the image to be cloned into the parent")
	}
}
