// Package spawn implements the domain spawner: building a child's
// capability namespace and address space, loading its ELF image,
// priming its dispatcher, and packing its argument frame.
package spawn

// Root CNode slot indices. These are ABI-fixed and shared with the
// kernel and with a domain's own runtime bootstrap — the capability-space
// builder MUST place capabilities at exactly these indices so a child's
// own code can find them.
const (
	RootCNSlotTaskCN = iota
	RootCNSlotPageCN
	RootCNSlotBasePageCN
	RootCNSlotSlotAlloc0
	RootCNSlotSlotAlloc1
	RootCNSlotSlotAlloc2
)

// TASKCN slot indices.
const (
	TaskCNSlotDispatcher = iota
	TaskCNSlotRootCN
	TaskCNSlotDispFrame
	TaskCNSlotArgsPage
)

// DispNameLen is the maximum length, including the terminating NUL, of a
// dispatcher's recorded name — mirroring the original's DISP_NAME_LEN,
// carried into the diagnostic format supplemented from init.c.
const DispNameLen = 16

// MaxCmdlineArgs bounds the number of argv entries the argument page
// builder will pack.
const MaxCmdlineArgs = 32

// MaxEnvironVars bounds the number of envp entries the argument page
// builder reserves space for, even though envp packing itself may be
// omitted by a first implementation.
const MaxEnvironVars = 32

// DispatcherFrameBits is log2 of the dispatcher frame's size.
const DispatcherFrameBits = 12
