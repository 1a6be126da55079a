package bootstrap

import (
	"aoscore/capsys"
	"aoscore/kernel"
	"aoscore/kernel/kfmt"
	"aoscore/vmm"
)

// Deps bundles the external collaborators InitOnThread wires together.
// Grouping them lets test code substitute fakes for exactly the
// sub-systems a given test cares about, one function at a time.
type Deps struct {
	Sys      capsys.Syscalls
	RamAlloc RamAllocator
	Morecore Morecore
	WaitSet  WaitSet

	// PagingInit builds this domain's own paging state. The caller
	// supplies it as a closure over whatever L1 page directory
	// capability and slot allocator the dispatcher frame recorded,
	// mirroring paging_init()'s reliance on per-domain bootstrap data
	// the original reads out of global state set up by the kernel.
	PagingInit func() (*vmm.State, *kernel.Error)

	// SlotAllocInit builds the domain's own capability slot allocator,
	// scoped to the slots the spawner reserved for it in SLOT_ALLOC0/1/2.
	SlotAllocInit func() (vmm.SlotAllocator, *kernel.Error)

	// RPCInit establishes the channel to init. It is only called for
	// non-init domains; the init domain has no channel to itself.
	RPCInit func() (RPCChannel, *kernel.Error)
}

// InitDisabled runs on the dispatcher's own stack before any thread
// exists: it records whether this domain is init and nothing else,
// since capability invocations and thread operations are unavailable
// this early. It corresponds to barrelfish_init_disabled, minus the
// disp_init_disabled/thread_init_disabled calls into collaborators this
// module does not own.
func InitDisabled(isInit bool) *kernel.Error {
	return setIsInitDomain(isInit)
}

// InitOnThread runs on a thread in every domain, after the dispatcher is
// set up but before any domain-specific entry point runs. It follows
// barrelfish_init_onthread's steps in this order: waitset, RAM allocator
// policy, paging, morecore (which is handed the new paging state), slot
// allocator, then — for every domain but init — the RPC channel to init.
func InitOnThread(deps Deps, params *Params) *kernel.Error {
	if params != nil && len(params.Environ) > 0 {
		setEnviron(params.Environ)
	}

	if err := deps.WaitSet.InitDefault(); err != nil {
		return wrap(err, "InitOnThread: waitset_init failed")
	}

	if err := deps.RamAlloc.Init(IsInitDomain()); err != nil {
		return ErrRamAllocSet.Push("bootstrap", "InitOnThread: ram_alloc_set failed: "+err.Error())
	}

	paging, perr := deps.PagingInit()
	if perr != nil {
		return ErrVspaceInit.Push("bootstrap", "InitOnThread: paging_init failed: "+perr.Error())
	}
	setPaging(paging)

	if err := deps.Morecore.Init(paging); err != nil {
		return ErrMorecoreInit.Push("bootstrap", "InitOnThread: morecore_init failed: "+err.Error())
	}

	slotAlloc, serr := deps.SlotAllocInit()
	if serr != nil {
		return ErrSlotAllocInit.Push("bootstrap", "InitOnThread: slot_alloc_init failed: "+serr.Error())
	}
	setSlotAlloc(slotAlloc)

	if IsInitDomain() {
		installOutputSink(deps.Sys)
		return nil
	}

	rpc, rerr := deps.RPCInit()
	if rerr != nil {
		return ErrRPCInit.Push("bootstrap", "InitOnThread: aos_rpc_init failed: "+rerr.Error())
	}
	setInitRPC(rpc)

	installOutputSink(deps.Sys)
	return nil
}

// installOutputSink redirects kfmt's Printf output through the domain's
// own terminal-write hook, flushing whatever earlier Printf calls (made
// before any write path existed) had accumulated in kfmt's ring buffer.
// It is a no-op if sys is nil, which test Deps that do not care about
// formatted output are free to leave unset.
func installOutputSink(sys capsys.Syscalls) {
	if sys == nil {
		return
	}
	kfmt.SetOutputSink(&kfmt.PrefixWriter{
		Sink:   outputWriter{sys: sys},
		Prefix: []byte("[domain] "),
	})
}
