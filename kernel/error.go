package kernel

// Error describes a kernel-level error. All errors surfaced by this module
// are defined as package-level *Error values so that callers can compare
// them with ==, mirroring the style of the capability syscalls they wrap.
//
// Propagation never discards context: Push stacks a higher-level error on
// top of a lower-level cause, and Unwrap/Is walk the resulting list. No
// local recovery or retry is attempted anywhere in this module; every
// fallible call either returns its error (possibly pushed onto a new one) or
// succeeds.
type Error struct {
	// Module is the subsystem that raised the error.
	Module string

	// Message describes what went wrong.
	Message string

	// Cause is the lower-level error this one was pushed onto, if any.
	Cause *Error
}

// Error implements the error interface. It reports this error's message
// together with the full causal chain, innermost cause last.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return "[" + e.Module + "] " + e.Message
	}
	return "[" + e.Module + "] " + e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the cause of this error, or nil if it is the root.
func (e *Error) Unwrap() *Error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Push wraps the receiver with a higher-level error, preserving the chain.
// It is the Go analogue of Barrelfish's err_push: the returned error reports
// both what failed, in module terms the caller cares about, and why.
func (e *Error) Push(module, message string) *Error {
	return &Error{Module: module, Message: message, Cause: e}
}

// Is reports whether target appears anywhere in e's causal chain.
func (e *Error) Is(target *Error) bool {
	for cur := e; cur != nil; cur = cur.Cause {
		if cur == target {
			return true
		}
	}
	return false
}
