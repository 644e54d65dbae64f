// Package ring implements the memory-mapped NIC descriptor ring view and
// the FrameRegion backing it: a NIC contract (ring.NIC) that the engine
// drives directly, bypassing the host's protocol stack.
//
// Grounded on transport_linux_uring.go's mmap/unsafe-pointer ring-view
// construction, and on original_source/lib/backend_netmap.c and
// original_source/warpcore.c for the netmap registration and rx/tx-sync
// sequence this package's Linux backend follows.
//
// Author: momentics <momentics@gmail.com>
package ring

// memRegion implements api.FrameRegion over a single flat byte slice,
// sliced into fixed-size frames. Used by every backend: the Linux backend
// slices it out of mmap'd NIC memory, the loopback backend out of a plain
// Go allocation.
type memRegion struct {
	buf       []byte
	frameSize int
}

func newMemRegion(buf []byte, frameSize int) *memRegion {
	return &memRegion{buf: buf, frameSize: frameSize}
}

func (r *memRegion) FrameSize() int { return r.frameSize }

func (r *memRegion) NumFrames() int {
	if r.frameSize == 0 {
		return 0
	}
	return len(r.buf) / r.frameSize
}

func (r *memRegion) Frame(idx uint32) []byte {
	off := int(idx) * r.frameSize
	if off < 0 || off+r.frameSize > len(r.buf) {
		return nil
	}
	return r.buf[off : off+r.frameSize]
}
