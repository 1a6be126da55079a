package spawn

import (
	"aoscore/capref"
	"aoscore/capsys"
	"aoscore/vmm"
)

// fakeSyscalls is a minimal in-memory stand-in for capsys.Syscalls used
// by this package's tests.
type fakeSyscalls struct {
	nextSlot      uint32
	dispsCreated  int
	retypes       []capsys.ObjType
	copies        int
	frames        map[uint32]uintptr
	maps          []fakeMap
	printed       [][]byte
	invokedRun    bool
	revokeErr     error
	deleteErr     error
}

type fakeMap struct {
	dest, cap     capref.CapRef
	slot          uint32
	offset, count uint32
}

func newFakeSyscalls() *fakeSyscalls {
	return &fakeSyscalls{frames: map[uint32]uintptr{}}
}

func (f *fakeSyscalls) freshSlot() capref.CapRef {
	f.nextSlot++
	return capref.RootCNode(0).In(f.nextSlot)
}

func (f *fakeSyscalls) CNodeCreateL1() (capref.CapRef, error) { return f.freshSlot(), nil }
func (f *fakeSyscalls) CNodeCreateForeignL2(dest capref.CapRef, slot uint32) (capref.CapRef, error) {
	return f.freshSlot(), nil
}
func (f *fakeSyscalls) DispatcherCreate(dest capref.CapRef) error {
	f.dispsCreated++
	return nil
}
func (f *fakeSyscalls) CapCopy(dest, src capref.CapRef) error { f.copies++; return nil }
func (f *fakeSyscalls) CapRetype(dest, src capref.CapRef, newType capsys.ObjType) error {
	f.retypes = append(f.retypes, newType)
	return nil
}
func (f *fakeSyscalls) CapRevoke(c capref.CapRef) error { return f.revokeErr }
func (f *fakeSyscalls) CapDelete(c capref.CapRef) error { return f.deleteErr }
func (f *fakeSyscalls) VNodeCreate(dest capref.CapRef, objType capsys.ObjType) error { return nil }
func (f *fakeSyscalls) VNodeMap(destVnode, capToMap capref.CapRef, slot uint32, flags capsys.MapFlags, offsetInPages, pteCount uint32, mappingCap capref.CapRef) error {
	f.maps = append(f.maps, fakeMap{destVnode, capToMap, slot, offsetInPages, pteCount})
	return nil
}
func (f *fakeSyscalls) FrameAlloc(size uintptr) (capref.CapRef, uintptr, error) {
	slot := f.freshSlot()
	f.frames[slot.Slot] = size
	return slot, size, nil
}
func (f *fakeSyscalls) FrameIdentify(cap capref.CapRef) (capsys.FrameInfo, error) {
	return capsys.FrameInfo{Bytes: uintptr(f.frames[cap.Slot])}, nil
}
func (f *fakeSyscalls) InvokeDispatcher(disp, endpoint, rootCN, l1PDir, dispFrame capref.CapRef, run bool) error {
	f.invokedRun = run
	return nil
}
func (f *fakeSyscalls) SysPrint(buf []byte) error {
	cp := append([]byte(nil), buf...)
	f.printed = append(f.printed, cp)
	return nil
}

// fakeWindows backs hostWindow in tests with real Go-allocated buffers
// keyed by vaddr instead of dereferencing a fabricated address. Each
// vaddr keeps growing the same backing buffer so a test can map-then-
// read the exact bytes production code wrote.
var fakeWindows = map[uint32][]byte{}

func fakeHostWindow(vaddr uint32, size uint32) []byte {
	buf, ok := fakeWindows[vaddr]
	if !ok || uint32(len(buf)) < size {
		buf = make([]byte, size)
		fakeWindows[vaddr] = buf
	}
	return buf[:size]
}

func init() {
	hostWindow = fakeHostWindow
}

// fakeSlotAllocator hands out strictly increasing slot indices from a
// dedicated CNode, distinct from fakeSyscalls' own slot numbering.
type fakeSlotAllocator struct {
	next uint32
}

func (a *fakeSlotAllocator) Alloc() (capref.CapRef, error) {
	a.next++
	return capref.RootCNode(9).In(a.next), nil
}

func (f *fakeSyscalls) frameAllocsCount() int {
	return len(f.frames)
}

// newParentPagingForTest builds a vmm.State standing in for the caller's
// own (already-initialized) vspace, used by tests that exercise spawn
// operations which map frames into the parent for writing.
func newParentPagingForTest(sys capsys.Syscalls, slots *fakeSlotAllocator) (*vmm.State, error) {
	state, err := vmm.InitState(sys, slots, 0x8000_0000, capref.RootCNode(0).In(1))
	if err != nil {
		return nil, err
	}
	return state, nil
}


