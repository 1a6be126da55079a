package spawn

import (
	"aoscore/capsys"
	"aoscore/kernel"
	"aoscore/vmm"
)

// setupCspace builds a child domain's root CNode and the standard L2
// CNodes it expects. All slot assignments use the ABI-fixed constants
// in slots.go; the kernel and the child's own bootstrap code depend on
// capabilities living at exactly these indices.
func setupCspace(sys capsys.Syscalls, slotAlloc vmm.SlotAllocator, info *Info) *kernel.Error {
	l1, err := sys.CNodeCreateL1()
	if err != nil {
		return wrap(err, "could not create child L1 CNode")
	}
	info.L1CNode = l1

	taskCN, err := sys.CNodeCreateForeignL2(l1, RootCNSlotTaskCN)
	if err != nil {
		return wrap(err, "could not create TASKCN")
	}
	info.TaskCN = taskCN

	if info.PageCN, err = sys.CNodeCreateForeignL2(l1, RootCNSlotPageCN); err != nil {
		return wrap(err, "could not create PAGECN")
	}
	if info.BasePageCN, err = sys.CNodeCreateForeignL2(l1, RootCNSlotBasePageCN); err != nil {
		return wrap(err, "could not create BASE_PAGE_CN")
	}
	if info.SlotAlloc0, err = sys.CNodeCreateForeignL2(l1, RootCNSlotSlotAlloc0); err != nil {
		return wrap(err, "could not create SLOT_ALLOC0")
	}
	if info.SlotAlloc1, err = sys.CNodeCreateForeignL2(l1, RootCNSlotSlotAlloc1); err != nil {
		return wrap(err, "could not create SLOT_ALLOC1")
	}
	if info.SlotAlloc2, err = sys.CNodeCreateForeignL2(l1, RootCNSlotSlotAlloc2); err != nil {
		return wrap(err, "could not create SLOT_ALLOC2")
	}

	taskCNNode := taskCN.AsCNode(2)
	dispSlot := taskCNNode.In(TaskCNSlotDispatcher)
	if err := sys.DispatcherCreate(dispSlot); err != nil {
		return wrap(err, "could not create dispatcher")
	}
	info.Dispatcher = dispSlot

	rootcnSlot := taskCNNode.In(TaskCNSlotRootCN)
	if err := sys.CapCopy(rootcnSlot, l1); err != nil {
		return wrap(err, "could not wire TASKCN[ROOTCN]")
	}

	// Reserve slot names for the dispatcher frame and args page; they
	// are populated by setupDispatcher and setupArgs respectively.
	info.DispFrame = taskCNNode.In(TaskCNSlotDispFrame)
	info.ArgsPage = taskCNNode.In(TaskCNSlotArgsPage)

	// Retype the freshly created dispatcher into a direct endpoint
	// capability, giving the parent a channel to the child.
	endpointSlot, err := slotAlloc.Alloc()
	if err != nil {
		return wrap(err, "could not allocate slot for self endpoint")
	}
	if err := sys.CapRetype(endpointSlot, dispSlot, capsys.ObjTypeEndpoint); err != nil {
		return wrap(err, "could not retype self endpoint")
	}
	info.SelfEndpoint = endpointSlot

	return nil
}
