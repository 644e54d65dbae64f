// File: engine/rx.go
// Author: momentics <momentics@gmail.com>
//
// Inbound pipeline: drain each RX ring, refill the consumed slot from the
// frame pool, and dispatch the received frame's buffer to the Ethernet
// layer. Every path through handleFrame either releases the buffer back
// to the pool, hands it to a socket's receive queue, or reuses it in
// place to build and transmit a reply: the buffer always has exactly
// one owner.

package engine

import (
	"github.com/momentics/warpnet/arp"
	"github.com/momentics/warpnet/ethernet"
	"github.com/momentics/warpnet/icmp"
	"github.com/momentics/warpnet/ipv4"
	"github.com/momentics/warpnet/ring"
	"github.com/momentics/warpnet/socket"
	"github.com/momentics/warpnet/udp"
)

// globalBroadcast is the all-networks IPv4 broadcast address.
var globalBroadcast = [4]byte{255, 255, 255, 255}

// Rx drains every RX ring, dispatching each arrived frame. It does not
// itself ask the driver to publish new arrivals; call NicRx first.
func (e *Engine) Rx() {
	for _, v := range e.nic.RXRings() {
		e.drainRing(v)
	}
}

func (e *Engine) drainRing(v *ring.View) {
	for !v.IsEmpty() {
		i := v.Cur
		slot := v.Slot(i)
		bufIdx := slot.BufIdx
		length := int(slot.Len)

		fresh, ok := e.pool.Alloc()
		if !ok {
			// No spare buffer to swap in: drop the frame and hand the slot,
			// still holding its buffer, back to the ring so it cannot stall.
			e.log.Warn("frame pool exhausted, dropping rx frame")
			e.incr("rx.dropped_pool_exhausted")
			v.Advance()
			continue
		}
		v.Swap(i, fresh)
		v.Advance()

		e.handleFrame(bufIdx, length)
	}
}

// handleFrame takes ownership of bufIdx and routes it through the
// Ethernet dispatcher, reclaiming it itself if nothing downstream
// consumed it (wrong destination MAC, or an EtherType this engine does
// not speak).
func (e *Engine) handleFrame(bufIdx uint32, length int) {
	frame := e.nic.Region().Frame(bufIdx)[:length]
	e.rxBufIdx = bufIdx
	if !e.dispatcher.Handle(frame) {
		e.pool.Release(bufIdx)
	}
}

func (e *Engine) onARP(payload []byte, _ [6]byte) {
	bufIdx := e.rxBufIdx
	p, ok := arp.Parse(payload)
	if !ok {
		e.pool.Release(bufIdx)
		return
	}
	e.arpCache.Learn(p.SenderIP, p.SenderMAC)

	if p.Opcode != arp.OpRequest || p.TargetIP != e.localIP {
		e.pool.Release(bufIdx)
		return
	}

	reply := arp.Packet{
		Opcode:    arp.OpReply,
		SenderMAC: e.localMAC,
		SenderIP:  e.localIP,
		TargetMAC: p.SenderMAC,
		TargetIP:  p.SenderIP,
	}
	frame := e.nic.Region().Frame(bufIdx)
	arp.Build(frame[ethernet.HeaderSize:], reply)
	ethernet.BuildHeader(frame, ethernet.Header{Dst: p.SenderMAC, Src: e.localMAC, Type: ethernet.TypeARP})
	e.transmit(bufIdx, ethernet.HeaderSize+arp.WireSize)
}

func (e *Engine) onIPv4(payload []byte, srcMAC [6]byte) {
	bufIdx := e.rxBufIdx
	h, ok := ipv4.Parse(payload)
	if !ok || !ipv4.VerifyChecksum(payload) {
		e.incr("ipv4.dropped_invalid")
		e.pool.Release(bufIdx)
		return
	}
	if h.IsFragment() {
		e.incr("ipv4.dropped_fragment")
		e.pool.Release(bufIdx)
		return
	}
	if h.DstIP != e.localIP && h.DstIP != e.nic.Broadcast() && h.DstIP != globalBroadcast {
		e.pool.Release(bufIdx)
		return
	}
	if int(h.TotalLength) > len(payload) {
		e.pool.Release(bufIdx)
		return
	}
	datagram := payload[:h.TotalLength]
	body := datagram[ipv4.HeaderSize:]

	switch h.Protocol {
	case ipv4.ProtoICMP:
		e.handleICMP(bufIdx, h, body, srcMAC)
	case ipv4.ProtoUDP:
		e.handleUDP(bufIdx, h, body, datagram, srcMAC)
	default:
		e.pool.Release(bufIdx)
	}
}

func (e *Engine) handleICMP(bufIdx uint32, ih ipv4.Header, body []byte, srcMAC [6]byte) {
	typ, _, _, ok := icmp.Parse(body)
	if !ok || !icmp.VerifyChecksum(body) {
		e.pool.Release(bufIdx)
		return
	}
	switch typ {
	case icmp.TypeEcho:
		icmp.TransformEchoToReply(body)
		e.replyIPv4(bufIdx, ih, ipv4.ProtoICMP, len(body), srcMAC)
	default:
		e.log.Debug("dropping unhandled icmp type", "type", typ)
		e.pool.Release(bufIdx)
	}
}

func (e *Engine) handleUDP(bufIdx uint32, ih ipv4.Header, body, fullDatagram []byte, srcMAC [6]byte) {
	if !udp.VerifyChecksum(ih.SrcIP, ih.DstIP, body) {
		e.pool.Release(bufIdx)
		return
	}
	uh, ok := udp.Parse(body)
	if !ok {
		e.pool.Release(bufIdx)
		return
	}
	if int(uh.Length) < udp.HeaderSize || int(uh.Length) > len(body) {
		e.incr("udp.dropped_bad_length")
		e.pool.Release(bufIdx)
		return
	}

	q, found := e.sockets.Lookup(uh.DstPort)
	if !found {
		e.sendPortUnreachable(bufIdx, ih, fullDatagram, srcMAC)
		return
	}

	off := ethernet.HeaderSize + ipv4.HeaderSize + udp.HeaderSize
	payloadLen := int(uh.Length) - udp.HeaderSize
	q.Enqueue(socket.Datagram{
		BufIdx:  bufIdx,
		Off:     off,
		Len:     payloadLen,
		SrcIP:   ih.SrcIP,
		SrcPort: uh.SrcPort,
	})
}

func (e *Engine) sendPortUnreachable(bufIdx uint32, ih ipv4.Header, offendingDatagram []byte, srcMAC [6]byte) {
	// Build the ICMP message into a fresh buffer: the offending frame's
	// buffer is itself the payload source and cannot be overwritten
	// before it has been copied from.
	fresh, ok := e.pool.Alloc()
	if !ok {
		e.pool.Release(bufIdx)
		return
	}
	frame := e.nic.Region().Frame(fresh)
	icmpBody := frame[ethernet.HeaderSize+ipv4.HeaderSize:]
	n := icmp.BuildDestUnreachable(icmpBody, icmp.CodePortUnreachable, offendingDatagram)

	newIP := ipv4.Header{
		TTL:      64,
		Protocol: ipv4.ProtoICMP,
		ID:       e.nextIPID(),
		SrcIP:    e.localIP,
		DstIP:    ih.SrcIP,
	}
	ipv4.Build(frame[ethernet.HeaderSize:], newIP, n)
	ethernet.BuildHeader(frame, ethernet.Header{Dst: srcMAC, Src: e.localMAC, Type: ethernet.TypeIPv4})

	e.pool.Release(bufIdx)
	e.transmit(fresh, ethernet.HeaderSize+ipv4.HeaderSize+n)
}

// replyIPv4 rebuilds bufIdx's frame in place as a reply to ih, reusing
// the already-transformed body, and queues it for transmission.
func (e *Engine) replyIPv4(bufIdx uint32, ih ipv4.Header, proto uint8, bodyLen int, dstMAC [6]byte) {
	frame := e.nic.Region().Frame(bufIdx)
	newIP := ipv4.Header{
		TOS:      ih.TOS,
		ID:       e.nextIPID(),
		TTL:      64,
		Protocol: proto,
		SrcIP:    e.localIP,
		DstIP:    ih.SrcIP,
	}
	ipv4.Build(frame[ethernet.HeaderSize:], newIP, bodyLen)
	ethernet.BuildHeader(frame, ethernet.Header{Dst: dstMAC, Src: e.localMAC, Type: ethernet.TypeIPv4})
	e.transmit(bufIdx, ethernet.HeaderSize+ipv4.HeaderSize+bodyLen)
}

// transmit queues bufIdx (already containing a fully built Ethernet
// frame of length bytes) onto TX ring 0. It does not itself call TxSync;
// callers (or the next NicTx) flush the ring.
func (e *Engine) transmit(bufIdx uint32, length int) {
	v := e.nic.TXRings()[0]
	i := v.Tail
	old := v.Swap(i, bufIdx)
	v.Slot(i).Len = uint16(length)
	v.Tail = v.Next(i)
	e.pool.Release(old)
}
