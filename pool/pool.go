// Package pool implements the frame buffer pool: a LIFO free list (an
// index slice used as a stack) over a fixed-size FrameRegion, handing out the dense
// unsigned integer indices that the ring, socket queues, and application
// pass around to move frame ownership without copying.
//
// Grounded on the generic RingBuffer[T] (pool/ring.go) and
// base_bufferpool.go Get/Put shape, adapted from a channel-backed FIFO
// to an index-slice LIFO stack: allocation order must be last-freed-
// first-reused, and the engine's single-threaded access model removes
// the need for atomic head/tail bookkeeping.
//
// Author: momentics <momentics@gmail.com>
package pool

import (
	"encoding/binary"
	"math"

	"github.com/momentics/warpnet/api"
)

// EncodeNICFreelist rewrites the first four bytes of every frame named in
// free as a next-index link, the on-wire encoding a netmap-style NIC
// expects when extra buffers are handed back at teardown, terminated by
// 0 (original_source/lib/backend_netmap.c's backend_cleanup: `*buf =
// bufs[n+1].idx` for every entry but the last, `*buf = 0` for the last;
// buffer index 0 is reserved and never a real allocatable frame in
// netmap's own ABI). Returns the head of the chain, or 0 if free is
// empty. Does not mutate free or any Pool's internal state.
func EncodeNICFreelist(region api.FrameRegion, free []uint32) uint32 {
	n := len(free)
	if n == 0 {
		return 0
	}
	for i := 0; i < n-1; i++ {
		binary.LittleEndian.PutUint32(region.Frame(free[i])[:4], free[i+1])
	}
	binary.LittleEndian.PutUint32(region.Frame(free[n-1])[:4], 0)
	return free[0]
}

// Invalid is returned by Get when the pool is exhausted; Alloc reports
// exhaustion through its ok result instead.
const Invalid uint32 = math.MaxUint32

// Pool is a LIFO stack of free frame indices over a shared FrameRegion.
type Pool struct {
	region api.FrameRegion
	free   []uint32
}

// NewPool constructs a pool over region, seeded with the given initially
// free indices (typically the NIC's extra-buffer free list at Init).
func NewPool(region api.FrameRegion, initial []uint32) *Pool {
	free := make([]uint32, len(initial))
	copy(free, initial)
	return &Pool{region: region, free: free}
}

// Alloc removes and returns one index from the top of the free stack.
func (p *Pool) Alloc() (uint32, bool) {
	n := len(p.free)
	if n == 0 {
		return 0, false
	}
	idx := p.free[n-1]
	p.free = p.free[:n-1]
	return idx, true
}

// AllocN allocates k indices atomically: either all k are returned, or
// none are removed from the free stack and ok is false.
func (p *Pool) AllocN(k int) (idxs []uint32, ok bool) {
	if k <= 0 {
		return nil, true
	}
	n := len(p.free)
	if n < k {
		return nil, false
	}
	out := make([]uint32, k)
	copy(out, p.free[n-k:])
	p.free = p.free[:n-k]
	return out, true
}

// Release returns one or more indices to the top of the free stack.
func (p *Pool) Release(idxs ...uint32) {
	p.free = append(p.free, idxs...)
}

// Len reports the number of currently free indices.
func (p *Pool) Len() int { return len(p.free) }

// Get implements api.ObjectPool[uint32], returning Invalid on exhaustion.
func (p *Pool) Get() uint32 {
	idx, ok := p.Alloc()
	if !ok {
		return Invalid
	}
	return idx
}

// Put implements api.ObjectPool[uint32].
func (p *Pool) Put(idx uint32) { p.Release(idx) }

// ToNICFreelist encodes the pool's current free stack via
// EncodeNICFreelist and empties the stack; the NIC now owns the chain.
func (p *Pool) ToNICFreelist() uint32 {
	head := EncodeNICFreelist(p.region, p.free)
	p.free = p.free[:0]
	return head
}

// Drain removes and returns every currently free index, leaving the pool
// empty. Used at teardown so the NIC backend reconstructs its freelist
// from the pool's actual current state rather than a stale snapshot
// captured at Init.
func (p *Pool) Drain() []uint32 {
	out := p.free
	p.free = nil
	return out
}
