package vmm

import (
	"aoscore/capref"
	"aoscore/capsys"
)

// fakeSyscalls is a minimal in-memory stand-in for capsys.Syscalls,
// sufficient to exercise the L2 cache and paging manager without a real
// kernel underneath them.
type fakeSyscalls struct {
	nextSlot    uint32
	vnodesMade  int
	mapsMade    []fakeMap
	frameAllocs int
}

type fakeMap struct {
	dest, cap     capref.CapRef
	slot          uint32
	flags         capsys.MapFlags
	offset, count uint32
}

func newFakeSyscalls() *fakeSyscalls { return &fakeSyscalls{} }

func (f *fakeSyscalls) freshSlot() capref.CapRef {
	f.nextSlot++
	return capref.RootCNode(0).In(f.nextSlot)
}

func (f *fakeSyscalls) CNodeCreateL1() (capref.CapRef, error) { return f.freshSlot(), nil }
func (f *fakeSyscalls) CNodeCreateForeignL2(dest capref.CapRef, slot uint32) (capref.CapRef, error) {
	return f.freshSlot(), nil
}
func (f *fakeSyscalls) DispatcherCreate(dest capref.CapRef) error { return nil }
func (f *fakeSyscalls) CapCopy(dest, src capref.CapRef) error     { return nil }
func (f *fakeSyscalls) CapRetype(dest, src capref.CapRef, newType capsys.ObjType) error {
	return nil
}
func (f *fakeSyscalls) CapRevoke(c capref.CapRef) error { return nil }
func (f *fakeSyscalls) CapDelete(c capref.CapRef) error { return nil }
func (f *fakeSyscalls) VNodeCreate(dest capref.CapRef, objType capsys.ObjType) error {
	f.vnodesMade++
	return nil
}
func (f *fakeSyscalls) VNodeMap(destVnode, capToMap capref.CapRef, slot uint32, flags capsys.MapFlags, offsetInPages, pteCount uint32, mappingCap capref.CapRef) error {
	f.mapsMade = append(f.mapsMade, fakeMap{destVnode, capToMap, slot, flags, offsetInPages, pteCount})
	return nil
}
func (f *fakeSyscalls) FrameAlloc(size uintptr) (capref.CapRef, uintptr, error) {
	f.frameAllocs++
	return f.freshSlot(), size, nil
}
func (f *fakeSyscalls) FrameIdentify(cap capref.CapRef) (capsys.FrameInfo, error) {
	return capsys.FrameInfo{}, nil
}
func (f *fakeSyscalls) InvokeDispatcher(disp, endpoint, rootCN, l1PDir, dispFrame capref.CapRef, run bool) error {
	return nil
}
func (f *fakeSyscalls) SysPrint(buf []byte) error { return nil }

// fakeSlotAllocator hands out strictly increasing slot indices.
type fakeSlotAllocator struct {
	next uint32
}

func (a *fakeSlotAllocator) Alloc() (capref.CapRef, error) {
	a.next++
	return capref.RootCNode(1).In(a.next), nil
}
