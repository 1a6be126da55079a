package bootstrap

import (
	"aoscore/kernel"
	ksync "aoscore/kernel/sync"
	"aoscore/vmm"
)

// domainState holds the process-wide globals a domain's runtime carries
// across its two init phases: whether this is the init domain (decided
// once, in the disabled phase, and read from then on), the domain's own
// paging state, and its channel to init. The original keeps init_domain
// as a bare global written exactly once; this supplements that with an
// explicit guard so a second write — a programming error, never a
// spec'd scenario — fails loudly instead of silently overwriting
// process-wide state.
type domainState struct {
	lock ksync.Spinlock

	isInitSet bool
	isInit    bool

	paging    *vmm.State
	slotAlloc vmm.SlotAllocator
	environ   []string

	rpc RPCChannel
}

var global domainState

// ErrDoubleInit is returned when disabled-phase state is written a
// second time.
var ErrDoubleInit = errBootstrap("BOOTSTRAP_ERR_DOUBLE_INIT")

// setIsInitDomain records whether this domain is init. Only the
// disabled-phase entry point may call this, and only once.
func setIsInitDomain(isInit bool) *kernel.Error {
	global.lock.Acquire()
	defer global.lock.Release()

	if global.isInitSet {
		return ErrDoubleInit.Push("bootstrap", "setIsInitDomain: already set")
	}
	global.isInitSet = true
	global.isInit = isInit
	return nil
}

// IsInitDomain reports whether this domain is init. It is a bug to call
// this before the disabled phase has run.
func IsInitDomain() bool {
	global.lock.Acquire()
	defer global.lock.Release()
	return global.isInit
}

// setPaging records the domain's own paging state, built during the
// enabled phase.
func setPaging(p *vmm.State) {
	global.lock.Acquire()
	defer global.lock.Release()
	global.paging = p
}

// CurrentPaging returns the domain's paging state, or nil before the
// enabled phase has run.
func CurrentPaging() *vmm.State {
	global.lock.Acquire()
	defer global.lock.Release()
	return global.paging
}

// setSlotAlloc records the domain's own capability slot allocator,
// built during the enabled phase (slot_alloc_init).
func setSlotAlloc(a vmm.SlotAllocator) {
	global.lock.Acquire()
	defer global.lock.Release()
	global.slotAlloc = a
}

// CurrentSlotAlloc returns the domain's own slot allocator, or nil
// before the enabled phase has run.
func CurrentSlotAlloc() vmm.SlotAllocator {
	global.lock.Acquire()
	defer global.lock.Release()
	return global.slotAlloc
}

// setEnviron records the environment handed to this domain via
// spawn_domain_params, when the spawner populated one.
func setEnviron(envp []string) {
	global.lock.Acquire()
	defer global.lock.Release()
	global.environ = envp
}

// Environ returns the environment recorded by setEnviron, or nil if the
// domain was spawned without one.
func Environ() []string {
	global.lock.Acquire()
	defer global.lock.Release()
	return global.environ
}

// setInitRPC records the channel to init, established by non-init
// domains during the enabled phase.
func setInitRPC(rpc RPCChannel) {
	global.lock.Acquire()
	defer global.lock.Release()
	global.rpc = rpc
}

// InitRPC returns the channel to init, or nil for the init domain itself
// or before the enabled phase has run.
func InitRPC() RPCChannel {
	global.lock.Acquire()
	defer global.lock.Release()
	return global.rpc
}

// resetForTest clears all process-wide state. It exists only so tests in
// this package can run in isolation from one another; production code
// never calls it.
func resetForTest() {
	global.lock.Acquire()
	defer global.lock.Release()
	global = domainState{}
}
