// File: ring/view.go
// Author: momentics <momentics@gmail.com>
//
// View is the ring-slot accessor: a fixed array of (buffer index, length,
// flags) descriptors plus the head/cur/tail cursors a netmap-style NIC
// exposes per ring. Swap is the zero-copy primitive: it exchanges a ring
// slot's buffer index with one supplied by the caller (typically from the
// frame pool), transferring ownership without touching the frame bytes.

package ring

// FlagBufChanged marks a slot whose buffer index was swapped since the
// last sync call, telling the NIC driver to pick up the new mapping.
const FlagBufChanged uint16 = 1 << 0

// Slot is one ring descriptor. The trailing reserved field matches
// netmap_slot's ptr field so the Linux backend can reinterpret a mmap'd
// ring's slot array directly as []Slot without copying; the loopback
// backend leaves it zero.
type Slot struct {
	BufIdx uint32
	Len    uint16
	Flags  uint16
	_      uint64
}

// View is a live accessor over one TX or RX descriptor ring.
type View struct {
	slots []Slot
	Head  uint32
	Cur   uint32
	Tail  uint32
}

// NewView wraps slots as a ring view. head/cur/tail are the NIC's current
// cursor values for this ring.
func NewView(slots []Slot, head, cur, tail uint32) *View {
	return &View{slots: slots, Head: head, Cur: cur, Tail: tail}
}

// NumSlots returns the fixed slot count of the ring.
func (v *View) NumSlots() uint32 { return uint32(len(v.slots)) }

// IsEmpty reports whether there are no slots between Cur and Tail: for an
// RX ring, no unread frames; for a TX ring (filled at Tail by the engine,
// drained from Cur by TxSync), no frames queued for transmission.
func (v *View) IsEmpty() bool { return v.Cur == v.Tail }

// Next returns the ring index following i, wrapping at NumSlots.
func (v *View) Next(i uint32) uint32 {
	n := v.NumSlots()
	if n == 0 {
		return 0
	}
	return (i + 1) % n
}

// Slot returns a pointer to descriptor i for direct inspection.
func (v *View) Slot(i uint32) *Slot { return &v.slots[i] }

// Swap exchanges the buffer index held by ring slot i with bufIdx,
// returning the index the ring previously held there (now owned by the
// caller) and marking the slot BUF_CHANGED so the next sync call picks up
// the new mapping.
func (v *View) Swap(i uint32, bufIdx uint32) uint32 {
	s := &v.slots[i]
	old := s.BufIdx
	s.BufIdx = bufIdx
	s.Flags |= FlagBufChanged
	return old
}

// Advance moves Cur to the next slot after consuming/filling slot Cur.
func (v *View) Advance() {
	v.Cur = v.Next(v.Cur)
}
