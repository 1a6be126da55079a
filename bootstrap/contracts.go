// Package bootstrap implements the two-phase early per-domain runtime
// bootstrap: the disabled-mode initialization that runs before any
// thread exists, and the
// enabled-mode initialization that wires a domain's libc hooks to
// either direct kernel syscalls (the init domain) or a message channel
// to init (every other domain).
package bootstrap

import (
	"aoscore/capsys"
	"aoscore/vmm"
)

// RamAllocator is the external physical RAM allocator collaborator.
// Init installs the domain's allocation policy: the init domain gets a
// fixed backing region, every other domain defers to the allocator's
// own default (RPC-backed) policy.
type RamAllocator interface {
	Init(isInitDomain bool) error
}

// Morecore is the external heap-growth collaborator that the Go runtime
// analogue of a C allocator would call into; modeled narrowly as an
// initialization hook since this module never implements an allocator
// itself.
type Morecore interface {
	Init(paging *vmm.State) error
}

// WaitSet is the domain's event/continuation queue, used by asynchronous
// channels (GLOSSARY). Only its existence is this module's concern.
type WaitSet interface {
	InitDefault() error
}

// RPCChannel is the message channel to the init domain that every
// non-init domain establishes during enabled-phase bootstrap.
type RPCChannel interface {
	SendString(s string) error
	Init(sys capsys.Syscalls) error
}

// Params mirrors spawn_domain_params as seen by the child: argc/argv,
// decoded by the bootstrap from the frame the spawner packed, plus
// whatever environment the kernel attaches.
type Params struct {
	Argv    []string
	Environ []string
}

// outputWriter adapts TerminalWrite to io.Writer so kfmt's formatted
// output can be redirected through the domain's libc hook once it is
// established, draining whatever earlier Printf calls had buffered into
// kfmt's ring buffer.
type outputWriter struct {
	sys capsys.Syscalls
}

func (w outputWriter) Write(p []byte) (int, error) {
	n, err := TerminalWrite(w.sys, p)
	if err != nil {
		return n, err
	}
	return n, nil
}
