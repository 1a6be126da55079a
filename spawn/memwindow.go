package spawn

import (
	"reflect"
	"unsafe"
)

// hostWindow overlays a byte slice directly on top of a mapped virtual
// address, the same raw-address technique kernel.Memset and
// kernel.Memcopy use to reach memory outside the Go allocator. A domain
// runs at the addresses it maps into its own vspace, so once
// MapFrame/MapFixed has returned, vaddr is real, writable memory; there
// is no separate "host" copy to flush it into. Tests replace this var
// with a buffer-backed fake instead of dereferencing a fabricated
// address.
var hostWindow = func(vaddr uint32, size uint32) []byte {
	return *(*[]byte)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  int(size),
		Cap:  int(size),
		Data: uintptr(vaddr),
	}))
}
