package bootstrap

import (
	"errors"

	"aoscore/capref"
	"aoscore/capsys"
	"aoscore/vmm"
)

type fakeSyscalls struct {
	capsys.Syscalls
	printed     [][]byte
	revokeErr   error
	deleteErr   error
	revokedCaps []capref.CapRef
	deletedCaps []capref.CapRef
}

func (f *fakeSyscalls) SysPrint(buf []byte) error {
	cp := append([]byte(nil), buf...)
	f.printed = append(f.printed, cp)
	return nil
}

func (f *fakeSyscalls) CapRevoke(c capref.CapRef) error {
	f.revokedCaps = append(f.revokedCaps, c)
	return f.revokeErr
}

func (f *fakeSyscalls) CapDelete(c capref.CapRef) error {
	f.deletedCaps = append(f.deletedCaps, c)
	return f.deleteErr
}

type fakeRamAlloc struct {
	calledWithInit bool
	err            error
}

func (f *fakeRamAlloc) Init(isInitDomain bool) error {
	f.calledWithInit = isInitDomain
	return f.err
}

type fakeMorecore struct {
	gotPaging *vmm.State
	err       error
}

func (f *fakeMorecore) Init(p *vmm.State) error {
	f.gotPaging = p
	return f.err
}

type fakeWaitSet struct {
	initialized bool
	err         error
}

func (f *fakeWaitSet) InitDefault() error {
	f.initialized = true
	return f.err
}

type fakeRPCChannel struct {
	sent []string
	err  error
}

func (f *fakeRPCChannel) SendString(s string) error {
	f.sent = append(f.sent, s)
	return f.err
}

func (f *fakeRPCChannel) Init(sys capsys.Syscalls) error {
	return nil
}

type fakeSlotAllocator struct{}

func (fakeSlotAllocator) Alloc() (capref.CapRef, error) {
	return capref.CapRef{}, nil
}

var errFakeCollaborator = errors.New("fake collaborator failure")
