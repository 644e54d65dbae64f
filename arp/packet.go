// File: arp/packet.go
// Author: momentics <momentics@gmail.com>
//
// Wire-format encode/decode for ARP over Ethernet/IPv4 (RFC 826).

package arp

import "encoding/binary"

// WireSize is the fixed encoded length of an Ethernet/IPv4 ARP packet.
const WireSize = 28

const (
	OpRequest uint16 = 1
	OpReply   uint16 = 2
)

const (
	hwTypeEthernet  = 1
	protoTypeIPv4   = 0x0800
	hwAddrLen       = 6
	protoAddrLen    = 4
)

// Packet is the decoded form of an ARP message.
type Packet struct {
	Opcode    uint16
	SenderMAC [6]byte
	SenderIP  [4]byte
	TargetMAC [6]byte
	TargetIP  [4]byte
}

// Parse decodes an Ethernet/IPv4 ARP packet, rejecting any other
// hardware/protocol address family.
func Parse(b []byte) (Packet, bool) {
	if len(b) < WireSize {
		return Packet{}, false
	}
	if binary.BigEndian.Uint16(b[0:2]) != hwTypeEthernet ||
		binary.BigEndian.Uint16(b[2:4]) != protoTypeIPv4 ||
		b[4] != hwAddrLen || b[5] != protoAddrLen {
		return Packet{}, false
	}
	var p Packet
	p.Opcode = binary.BigEndian.Uint16(b[6:8])
	copy(p.SenderMAC[:], b[8:14])
	copy(p.SenderIP[:], b[14:18])
	copy(p.TargetMAC[:], b[18:24])
	copy(p.TargetIP[:], b[24:28])
	return p, true
}

// Build encodes p into dst, which must be at least WireSize bytes, and
// returns the number of bytes written.
func Build(dst []byte, p Packet) int {
	binary.BigEndian.PutUint16(dst[0:2], hwTypeEthernet)
	binary.BigEndian.PutUint16(dst[2:4], protoTypeIPv4)
	dst[4] = hwAddrLen
	dst[5] = protoAddrLen
	binary.BigEndian.PutUint16(dst[6:8], p.Opcode)
	copy(dst[8:14], p.SenderMAC[:])
	copy(dst[14:18], p.SenderIP[:])
	copy(dst[18:24], p.TargetMAC[:])
	copy(dst[24:28], p.TargetIP[:])
	return WireSize
}
