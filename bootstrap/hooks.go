package bootstrap

import (
	"bytes"

	"aoscore/capref"
	"aoscore/capsys"
	"aoscore/kernel"
	"aoscore/kernel/kfmt"
	"aoscore/spawn"
)

// haltFunc is invoked by Exit once it has given up making forward
// progress. Production code spins forever, matching the original's
// "while (1) {}"; tests substitute a function that just records the
// call instead of hanging the test binary.
var haltFunc = func() {
	for {
	}
}

// TerminalWrite is the libc hook installed during the enabled phase
// (barrelfish_libc_glue_init): the init domain writes straight through
// the kernel's debug console, every other domain relays the bytes over
// its RPC channel to init.
func TerminalWrite(sys capsys.Syscalls, buf []byte) (int, *kernel.Error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if IsInitDomain() {
		if err := sys.SysPrint(buf); err != nil {
			return 0, wrap(err, "TerminalWrite: sys_print failed")
		}
		return len(buf), nil
	}

	rpc := InitRPC()
	if rpc == nil {
		return 0, ErrRPCInit.Push("bootstrap", "TerminalWrite: no channel to init")
	}
	if err := rpc.SendString(string(buf)); err != nil {
		return 0, wrap(err, "TerminalWrite: aos_rpc_send_string failed")
	}
	return len(buf), nil
}

// TerminalRead is the libc hook for stdin. Name-service-backed terminal
// I/O is out of scope; it reports the requested length as read without
// producing any bytes, matching the original's dummy_terminal_read.
func TerminalRead(buf []byte) int {
	kfmt.Printf("terminal read NYI! returning %d characters read\n", len(buf))
	return len(buf)
}

// Assert reproduces the original's libc_assert diagnostic field order
// and truncation exactly: core id, DispNameLen-truncated dispatcher
// name, the failed expression, the function, file and line.
func Assert(sys capsys.Syscalls, coreID int, dispName, expression, function, file string, line int) {
	name := dispName
	if len(name) > spawn.DispNameLen {
		name = name[:spawn.DispNameLen]
	}
	var buf bytes.Buffer
	kfmt.Fprintf(&buf, "Assertion failed on core %d in %s: %s, function %s, file %s, line %d.\n",
		coreID, name, expression, function, file, line)
	_ = sys.SysPrint(buf.Bytes())
}

// Exit implements the corrected exit contract: it revokes then deletes
// the domain's own dispatcher capability, and
// spins and prints a diagnostic only if either call fails. The success
// path is silent; the original prints and spins unconditionally after
// the pair regardless of outcome, a documented latent bug this module
// does not carry forward.
func Exit(sys capsys.Syscalls, dispatcherCap capref.CapRef) {
	if err := sys.CapRevoke(dispatcherCap); err != nil {
		_ = sys.SysPrint([]byte("revoking dispatcher failed in _Exit, spinning!"))
		haltFunc()
		return
	}
	if err := sys.CapDelete(dispatcherCap); err != nil {
		_ = sys.SysPrint([]byte("deleting dispatcher failed in _Exit, spinning!"))
		haltFunc()
		return
	}
}
