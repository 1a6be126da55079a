package spawn

import "testing"

func TestSetupCspaceWiresFixedSlots(t *testing.T) {
	sys := newFakeSyscalls()
	slots := &fakeSlotAllocator{}
	info := &Info{}

	if err := setupCspace(sys, slots, info); err != nil {
		t.Fatalf("setupCspace() error: %v", err)
	}

	if info.L1CNode.IsZero() {
		t.Error("expected L1CNode to be assigned")
	}
	if info.TaskCN.IsZero() || info.PageCN.IsZero() || info.BasePageCN.IsZero() {
		t.Error("expected TASKCN/PAGECN/BASE_PAGE_CN to be assigned")
	}
	if info.SlotAlloc0.IsZero() || info.SlotAlloc1.IsZero() || info.SlotAlloc2.IsZero() {
		t.Error("expected the three slot-alloc scratch CNodes to be assigned")
	}
	if info.Dispatcher.Slot != TaskCNSlotDispatcher {
		t.Errorf("dispatcher slot = %d; want %d", info.Dispatcher.Slot, TaskCNSlotDispatcher)
	}
	if info.DispFrame.Slot != TaskCNSlotDispFrame {
		t.Errorf("dispframe slot = %d; want %d", info.DispFrame.Slot, TaskCNSlotDispFrame)
	}
	if info.ArgsPage.Slot != TaskCNSlotArgsPage {
		t.Errorf("argspage slot = %d; want %d", info.ArgsPage.Slot, TaskCNSlotArgsPage)
	}
	if sys.dispsCreated != 1 {
		t.Errorf("expected exactly one dispatcher created, got %d", sys.dispsCreated)
	}
	if info.SelfEndpoint.IsZero() {
		t.Error("expected a self endpoint capability to be retyped")
	}
	if len(sys.retypes) != 1 {
		t.Errorf("expected exactly one cap_retype call, got %d", len(sys.retypes))
	}
}
