// File: api/buffer.go
// Package api defines the shared frame-memory and buffer contracts.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// FrameRegion is the flat, fixed-stride memory region shared without copy
// between a NIC's descriptor rings, the frame pool, and the application.
// A region index addresses one frame's bytes directly; no allocation or
// copy is involved in moving ownership of an index between the ring, the
// pool, and a socket's receive queue.
type FrameRegion interface {
	// FrameSize returns the fixed byte size of every frame in the region.
	FrameSize() int
	// NumFrames returns the number of addressable frames.
	NumFrames() int
	// Frame returns the full backing slice for frame idx. Callers slice
	// it down to the portion actually in use.
	Frame(idx uint32) []byte
}

// Releaser decouples a Buffer from a concrete pool implementation.
type Releaser interface {
	Release(idx uint32)
}

// Buffer is an index-addressed view onto one frame of a FrameRegion.
// It carries no copy of the frame's contents; Data() always reflects the
// current bytes at Index within the owning region.
type Buffer struct {
	Index  uint32
	Off    int
	Length int
	Region FrameRegion
	Pool   Releaser
}

// NewBuffer builds a Buffer view over region at idx, starting at byte
// offset off and running for length bytes.
func NewBuffer(region FrameRegion, idx uint32, off, length int) Buffer {
	return Buffer{Index: idx, Off: off, Length: length, Region: region}
}

// Data returns the in-use bytes of the frame, [Off : Off+Length).
func (b Buffer) Data() []byte {
	if b.Region == nil {
		return nil
	}
	full := b.Region.Frame(b.Index)
	end := b.Off + b.Length
	if end > len(full) {
		end = len(full)
	}
	if b.Off > end {
		return nil
	}
	return full[b.Off:end]
}

// Raw returns the entire backing frame, ignoring Off/Length.
func (b Buffer) Raw() []byte {
	if b.Region == nil {
		return nil
	}
	return b.Region.Frame(b.Index)
}

// SetLen adjusts the number of in-use bytes starting at Off.
func (b Buffer) SetLen(n int) Buffer {
	b.Length = n
	return b
}

// WithOffset returns a view shifted forward by delta bytes, shrinking
// Length by the same amount. Used when a layer consumes its header and
// hands the remainder to the next layer up.
func (b Buffer) WithOffset(delta int) Buffer {
	b.Off += delta
	b.Length -= delta
	if b.Length < 0 {
		b.Length = 0
	}
	return b
}

// Release returns the frame index to its pool, if one is attached.
func (b Buffer) Release() {
	if b.Pool != nil {
		b.Pool.Release(b.Index)
	}
}
