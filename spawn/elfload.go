package spawn

import (
	"bytes"
	"debug/elf"

	"aoscore/capsys"
	"aoscore/kernel"
)

// SectionCallback is invoked once per allocatable ELF section. It must
// allocate a frame covering size bytes, map it into the parent for
// writing, copy the frame capability into the child cspace, map it into
// the child vspace at vaddr with flags, and return a buffer the loader
// can copy the section's file contents into (the parent-side mapping).
// Zero-size sections are never passed to the callback.
type SectionCallback func(vaddr, size uint32, flags capsys.MapFlags) ([]byte, *kernel.Error)

// ELFLoader is the external elf_load collaborator, narrowed to the one
// operation this module needs.
type ELFLoader interface {
	// Load parses image, invokes cb for every allocatable, non-empty
	// section, and returns the image's entry point and the virtual
	// address of its .got section (0 if absent).
	Load(image []byte, cb SectionCallback) (entry uint32, gotAddr uint32, err *kernel.Error)
}

// DebugELFLoader implements ELFLoader on top of the standard library's
// debug/elf package — the idiom this corpus itself uses for ELF parsing
// outside of a kernel runtime (see DESIGN.md's grounding on
// biscuit/src/kernel/chentry.go).
type DebugELFLoader struct{}

// Load implements ELFLoader.
func (DebugELFLoader) Load(image []byte, cb SectionCallback) (uint32, uint32, *kernel.Error) {
	f, err := elf.NewFile(bytes.NewReader(image))
	if err != nil {
		return 0, 0, ErrELFHeader.Push("spawn", "not a valid ELF image: "+err.Error())
	}
	if f.Machine != elf.EM_ARM {
		return 0, 0, ErrELFHeader.Push("spawn", "ELF image is not EM_ARM")
	}
	if f.Class != elf.ELFCLASS32 {
		return 0, 0, ErrELFHeader.Push("spawn", "ELF image is not 32-bit")
	}

	for _, sec := range f.Sections {
		if sec.Flags&elf.SHF_ALLOC == 0 || sec.Size == 0 {
			continue
		}

		dest, cerr := cb(uint32(sec.Addr), uint32(sec.Size), sectionFlags(sec.Flags))
		if cerr != nil {
			return 0, 0, cerr
		}

		if sec.Type == elf.SHT_NOBITS {
			continue // .bss-like: no file contents to copy
		}
		data, rerr := sec.Data()
		if rerr != nil {
			return 0, 0, ErrELFHeader.Push("spawn", "could not read section "+sec.Name+": "+rerr.Error())
		}
		copy(dest, data)
	}

	var gotAddr uint32
	if got := f.Section(".got"); got != nil {
		gotAddr = uint32(got.Addr)
	}

	return uint32(f.Entry), gotAddr, nil
}

// sectionFlags translates ELF section flags into the mapping flags the
// paging manager understands. Sections are always at least readable.
func sectionFlags(f elf.SectionFlag) capsys.MapFlags {
	flags := capsys.MapRead
	if f&elf.SHF_WRITE != 0 {
		flags |= capsys.MapWrite
	}
	if f&elf.SHF_EXECINSTR != 0 {
		flags |= capsys.MapExec
	}
	return flags
}
