// Package ethernet implements Ethernet II framing: header parse/build,
// EtherType demultiplexing, and destination-MAC filtering.
//
// Author: momentics <momentics@gmail.com>
package ethernet

import "encoding/binary"

// HeaderSize is the fixed Ethernet II header length (no 802.1Q tag).
const HeaderSize = 14

// EtherType identifies the payload protocol carried by a frame.
type EtherType uint16

const (
	TypeIPv4 EtherType = 0x0800
	TypeARP  EtherType = 0x0806
)

// Broadcast is the all-ones Ethernet destination address.
var Broadcast = [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// Header is a decoded Ethernet II header.
type Header struct {
	Dst  [6]byte
	Src  [6]byte
	Type EtherType
}

// ParseHeader decodes the first HeaderSize bytes of frame.
func ParseHeader(frame []byte) (Header, bool) {
	if len(frame) < HeaderSize {
		return Header{}, false
	}
	var h Header
	copy(h.Dst[:], frame[0:6])
	copy(h.Src[:], frame[6:12])
	h.Type = EtherType(binary.BigEndian.Uint16(frame[12:14]))
	return h, true
}

// BuildHeader writes h into the first HeaderSize bytes of dst.
func BuildHeader(dst []byte, h Header) {
	copy(dst[0:6], h.Dst[:])
	copy(dst[6:12], h.Src[:])
	binary.BigEndian.PutUint16(dst[12:14], uint16(h.Type))
}

// AcceptsDestination reports whether a frame addressed to dst should be
// processed by an interface with address localMAC.
func AcceptsDestination(localMAC, dst [6]byte, promiscuous bool) bool {
	if promiscuous || dst == Broadcast || dst == localMAC {
		return true
	}
	return false
}

// Dispatcher demultiplexes inbound frames by EtherType after applying
// destination-address filtering.
type Dispatcher struct {
	LocalMAC    [6]byte
	Promiscuous bool
	OnARP       func(payload []byte, src [6]byte)
	OnIPv4      func(payload []byte, src [6]byte)
}

// Handle parses frame and routes its payload to the registered callback
// for its EtherType, dropping anything addressed to another host (unless
// Promiscuous) or carrying an EtherType with no registered handler.
// Reports whether a callback ran and so took ownership of the frame's
// buffer; callers must reclaim the buffer themselves when it returns
// false.
func (d *Dispatcher) Handle(frame []byte) (handled bool) {
	h, ok := ParseHeader(frame)
	if !ok || !AcceptsDestination(d.LocalMAC, h.Dst, d.Promiscuous) {
		return false
	}
	payload := frame[HeaderSize:]
	switch h.Type {
	case TypeARP:
		if d.OnARP != nil {
			d.OnARP(payload, h.Src)
			return true
		}
	case TypeIPv4:
		if d.OnIPv4 != nil {
			d.OnIPv4(payload, h.Src)
			return true
		}
	}
	return false
}
