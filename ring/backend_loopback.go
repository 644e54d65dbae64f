// File: ring/backend_loopback.go
// Author: momentics <momentics@gmail.com>
//
// Always-built, pure-Go NIC pair used by tests and by any two engines
// running in the same process: a virtual wire that transfers frame
// ownership between two rings by index swap, with zero payload copying.
// Grounded on the stub-backend pattern in
// internal/transport/dpdk_transport.go ("succeeds without real binding")
// carried over to the ring.NIC contract instead of api.Transport.

package ring

import "github.com/momentics/warpnet/api"

// Endpoint describes one side of a loopback pair.
type Endpoint struct {
	Name       string
	MAC        [6]byte
	IP         [4]byte
	Netmask    [4]byte
	Broadcast  [4]byte
}

type loopbackNIC struct {
	ep        Endpoint
	region    *memRegion
	tx        *View
	rx        *View
	peer      *loopbackNIC
	extraBufs []uint32
	notify    chan struct{}
}

// NewLoopbackPair builds two wired-together NICs sharing one frame
// region: frames sent on A's TX ring appear on B's RX ring and vice
// versa. ringSize is the slot count per ring; extraBufs is the number of
// spare frames each side's pool starts with.
func NewLoopbackPair(a, b Endpoint, ringSize, extraBufs, frameSize int) (NIC, NIC) {
	total := ringSize*4 + extraBufs*2
	buf := make([]byte, total*frameSize)
	region := newMemRegion(buf, frameSize)

	next := uint32(0)
	alloc := func(n int) []uint32 {
		out := make([]uint32, n)
		for i := 0; i < n; i++ {
			out[i] = next
			next++
		}
		return out
	}

	txAIdx := alloc(ringSize)
	rxAIdx := alloc(ringSize)
	txBIdx := alloc(ringSize)
	rxBIdx := alloc(ringSize)
	extraA := alloc(extraBufs)
	extraB := alloc(extraBufs)

	mkSlots := func(idxs []uint32) []Slot {
		s := make([]Slot, len(idxs))
		for i, idx := range idxs {
			s[i] = Slot{BufIdx: idx}
		}
		return s
	}

	nicA := &loopbackNIC{
		ep:        a,
		region:    region,
		tx:        NewView(mkSlots(txAIdx), 0, 0, 0),
		rx:        NewView(mkSlots(rxAIdx), 0, 0, 0),
		extraBufs: extraA,
		notify:    make(chan struct{}, 1),
	}
	nicB := &loopbackNIC{
		ep:        b,
		region:    region,
		tx:        NewView(mkSlots(txBIdx), 0, 0, 0),
		rx:        NewView(mkSlots(rxBIdx), 0, 0, 0),
		extraBufs: extraB,
		notify:    make(chan struct{}, 1),
	}
	nicA.peer = nicB
	nicB.peer = nicA
	return nicA, nicB
}

func (n *loopbackNIC) Region() api.FrameRegion { return n.region }
func (n *loopbackNIC) TXRings() []*View        { return []*View{n.tx} }
func (n *loopbackNIC) RXRings() []*View        { return []*View{n.rx} }
func (n *loopbackNIC) ExtraBufs() []uint32     { return n.extraBufs }
func (n *loopbackNIC) Name() string            { return n.ep.Name }
func (n *loopbackNIC) LocalMAC() [6]byte       { return n.ep.MAC }
func (n *loopbackNIC) LocalIP() [4]byte        { return n.ep.IP }
func (n *loopbackNIC) Netmask() [4]byte        { return n.ep.Netmask }
func (n *loopbackNIC) Broadcast() [4]byte      { return n.ep.Broadcast }

// FD returns 0: loopback has no pollable descriptor. Callers should use
// Ready() instead of a host poller when driving a loopback NIC.
func (n *loopbackNIC) FD() uintptr { return 0 }

// Ready exposes the arrival notification channel for callers that cannot
// poll an FD (every loopback user).
func (n *loopbackNIC) Ready() <-chan struct{} { return n.notify }

// TxSync delivers every frame queued between Cur and Tail on the TX ring
// directly into the peer's RX ring by index swap, then frees the
// consumed TX slots by advancing Cur to Tail.
func (n *loopbackNIC) TxSync() error {
	for n.tx.Cur != n.tx.Tail {
		src := n.tx.Slot(n.tx.Cur)
		dst := n.peer.rx.Slot(n.peer.rx.Tail)
		src.BufIdx, dst.BufIdx = dst.BufIdx, src.BufIdx
		dst.Len = src.Len
		dst.Flags |= FlagBufChanged
		n.peer.rx.Tail = n.peer.rx.Next(n.peer.rx.Tail)
		n.tx.Cur = n.tx.Next(n.tx.Cur)
	}
	select {
	case n.peer.notify <- struct{}{}:
	default:
	}
	return nil
}

// RxSync is a no-op: arrivals are already reflected by the peer's TxSync
// advancing this ring's Tail.
func (n *loopbackNIC) RxSync() error { return nil }

// Close is a no-op: there is no real NIC on the other end of a loopback
// pair to hand freeList's encoding back to.
func (n *loopbackNIC) Close(freeList []uint32) error { return nil }
