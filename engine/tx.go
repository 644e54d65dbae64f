// File: engine/tx.go
// Author: momentics <momentics@gmail.com>
//
// Outbound path: builds a UDP/IPv4/Ethernet frame into a pool buffer and
// queues it on TX ring 0. Tx requires the destination to already be
// ARP-resolved; call Connect first.

package engine

import (
	"fmt"

	"github.com/momentics/warpnet/ethernet"
	"github.com/momentics/warpnet/ipv4"
	"github.com/momentics/warpnet/udp"
)

// ErrPayloadTooLarge is returned when a datagram would not fit in a
// single frame buffer. Multi-buffer payload chaining is not implemented.
var ErrPayloadTooLarge = fmt.Errorf("engine: payload too large for a single frame")

// Tx builds and queues a UDP datagram addressed to dstIP:dstPort, sent
// from srcPort. The destination must already be present in the ARP
// cache (resolved by a prior Connect) or Tx returns an error.
func (e *Engine) Tx(dstIP [4]byte, dstPort, srcPort uint16, payload []byte) error {
	nextHop := ipv4.NextHop(dstIP, e.localIP, e.netmask, e.gateway)
	dstMAC, ok := e.arpCache.Lookup(nextHop)
	if !ok {
		return fmt.Errorf("engine: %v is not ARP-resolved, call Connect first", nextHop)
	}

	bufIdx, ok := e.pool.Alloc()
	if !ok {
		return fmt.Errorf("engine: frame pool exhausted")
	}
	frame := e.nic.Region().Frame(bufIdx)

	headerLen := ethernet.HeaderSize + ipv4.HeaderSize + udp.HeaderSize
	if headerLen+len(payload) > len(frame) {
		e.pool.Release(bufIdx)
		return ErrPayloadTooLarge
	}

	udpLen := udp.Build(frame[ethernet.HeaderSize+ipv4.HeaderSize:], e.localIP, dstIP, srcPort, dstPort, payload)

	ipHeader := ipv4.Header{
		ID:       e.nextIPID(),
		TTL:      64,
		Protocol: ipv4.ProtoUDP,
		SrcIP:    e.localIP,
		DstIP:    dstIP,
	}
	ipv4.Build(frame[ethernet.HeaderSize:], ipHeader, udpLen)
	ethernet.BuildHeader(frame, ethernet.Header{Dst: dstMAC, Src: e.localMAC, Type: ethernet.TypeIPv4})

	e.transmit(bufIdx, headerLen+len(payload))
	return nil
}

// NicRx asks the NIC driver to publish newly arrived frames and reclaim
// consumed RX slots.
func (e *Engine) NicRx() error { return e.nic.RxSync() }

// NicTx asks the NIC driver to transmit every frame queued on the TX
// rings since the last call.
func (e *Engine) NicTx() error { return e.nic.TxSync() }
