// Package capref defines the capability reference value type used
// throughout the paging manager and spawner. A capability reference names
// a slot in some CNode; it carries no authority of its own beyond naming
// where that authority is stored, mirroring how the kernel itself treats
// capability references as opaque {cnode, slot} pairs.
package capref

// CapRef names a single capability slot: the CNode it lives in and the
// slot index within that CNode. The zero value names slot 0 of the
// zero-value CNode and is used as an explicit "not yet assigned"
// placeholder (see vmm.State.SetL1 for why this matters during child
// vspace setup).
type CapRef struct {
	CNode CNodeRef
	Slot  uint32
}

// CNodeRef names a CNode capability. CNodes nest: an L2 CNode is itself
// addressed by a slot in some L1 CNode. A nil Root denotes the implicit
// root CNode of the calling domain.
type CNodeRef struct {
	Root  *CapRef
	Level uint8
}

// IsZero reports whether c is the zero-value CapRef, used as the
// "unassigned" placeholder.
func (c CapRef) IsZero() bool {
	return c.CNode == CNodeRef{} && c.Slot == 0
}

// RootCNode returns a CNodeRef naming the calling domain's implicit root
// CNode at the given level.
func RootCNode(level uint8) CNodeRef {
	return CNodeRef{Root: nil, Level: level}
}

// In returns a CapRef naming slot within cn.
func (cn CNodeRef) In(slot uint32) CapRef {
	return CapRef{CNode: cn, Slot: slot}
}

// AsCNode treats c itself as a CNode capability, returning a CNodeRef
// that addresses slots stored inside it. This is how a freshly created
// L1 or L2 CNode capability is turned into something further
// capabilities can be placed into.
func (c CapRef) AsCNode(level uint8) CNodeRef {
	root := c
	return CNodeRef{Root: &root, Level: level}
}
