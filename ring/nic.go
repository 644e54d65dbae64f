// File: ring/nic.go
// Author: momentics <momentics@gmail.com>
//
// NIC is the external interface the engine drives directly: a shared
// frame-memory region, a set of TX/RX descriptor ring views, the initial
// free-buffer list handed over at registration, and the sync calls that
// tell the driver to publish/consume ring state.

package ring

import "github.com/momentics/warpnet/api"

// NIC is the external contract the engine's ring package implements
// against either the host's real netmap-mode adapter (Linux) or an
// in-memory loopback pair used for tests and local engine-to-engine
// traffic.
type NIC interface {
	// Region returns the shared frame memory every index addresses.
	Region() api.FrameRegion

	// TXRings and RXRings return the live descriptor ring views.
	TXRings() []*View
	RXRings() []*View

	// ExtraBufs returns the indices of frames not backing any ring slot,
	// handed to the frame pool as its initial free list.
	ExtraBufs() []uint32

	// RxSync tells the driver to publish consumed RX slots and pick up
	// newly arrived frames; TxSync tells it to transmit filled TX slots.
	RxSync() error
	TxSync() error

	// FD returns a descriptor the host can multiplex (e.g. via epoll)
	// to learn when new RX frames are available.
	FD() uintptr

	Name() string
	LocalMAC() [6]byte
	LocalIP() [4]byte
	Netmask() [4]byte
	Broadcast() [4]byte

	// Close releases the NIC. freeList is the frame pool's full set of
	// currently free indices, handed back so the backend can reconstruct
	// the NIC's own teardown encoding from the pool's actual state rather
	// than a snapshot captured at Init.
	Close(freeList []uint32) error
}
