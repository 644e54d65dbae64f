// Package ipv4 implements IPv4 header parse/build (RFC 791, no options),
// next-hop selection, and fragmentation detection.
//
// Author: momentics <momentics@gmail.com>
package ipv4

import (
	"encoding/binary"

	"github.com/momentics/warpnet/checksum"
)

// HeaderSize is the fixed IPv4 header length this engine emits and
// requires on receive; datagrams carrying IP options are rejected.
const HeaderSize = 20

const (
	ProtoICMP = 1
	ProtoUDP  = 17
)

const (
	flagMoreFragments uint16 = 1 << 13
	fragOffsetMask    uint16 = 0x1FFF
)

// Header is a decoded IPv4 header.
type Header struct {
	TOS             uint8
	TotalLength     uint16
	ID              uint16
	FlagsFragOffset uint16
	TTL             uint8
	Protocol        uint8
	Checksum        uint16
	SrcIP           [4]byte
	DstIP           [4]byte
}

// Parse decodes a fixed 20-byte IPv4 header. Datagrams with IHL > 5 (IP
// options present) are rejected; this engine has no use for them.
func Parse(b []byte) (Header, bool) {
	if len(b) < HeaderSize {
		return Header{}, false
	}
	verIHL := b[0]
	if verIHL>>4 != 4 || verIHL&0x0F != 5 {
		return Header{}, false
	}
	var h Header
	h.TOS = b[1]
	h.TotalLength = binary.BigEndian.Uint16(b[2:4])
	h.ID = binary.BigEndian.Uint16(b[4:6])
	h.FlagsFragOffset = binary.BigEndian.Uint16(b[6:8])
	h.TTL = b[8]
	h.Protocol = b[9]
	h.Checksum = binary.BigEndian.Uint16(b[10:12])
	copy(h.SrcIP[:], b[12:16])
	copy(h.DstIP[:], b[16:20])
	return h, true
}

// IsFragment reports whether this datagram is part of a fragmented
// transmission (MF set, or a nonzero fragment offset).
func (h Header) IsFragment() bool {
	return h.FlagsFragOffset&(flagMoreFragments|fragOffsetMask) != 0
}

// Build encodes h into dst (at least HeaderSize bytes), stamping the
// checksum over the header only, and returns HeaderSize.
func Build(dst []byte, h Header, payloadLen int) int {
	dst[0] = 0x45
	dst[1] = h.TOS
	binary.BigEndian.PutUint16(dst[2:4], uint16(HeaderSize+payloadLen))
	binary.BigEndian.PutUint16(dst[4:6], h.ID)
	binary.BigEndian.PutUint16(dst[6:8], h.FlagsFragOffset)
	dst[8] = h.TTL
	dst[9] = h.Protocol
	binary.BigEndian.PutUint16(dst[10:12], 0)
	copy(dst[12:16], h.SrcIP[:])
	copy(dst[16:20], h.DstIP[:])
	cs := checksum.Internet(dst[:HeaderSize])
	binary.BigEndian.PutUint16(dst[10:12], cs)
	return HeaderSize
}

// VerifyChecksum reports whether the stored header checksum matches its
// contents.
func VerifyChecksum(header []byte) bool {
	if len(header) < HeaderSize {
		return false
	}
	return checksum.Verify(header[:HeaderSize])
}

// NextHop returns dstIP unchanged when it lies on the local subnet
// (per localIP/netmask), or gateway otherwise.
func NextHop(dstIP, localIP, netmask, gateway [4]byte) [4]byte {
	for i := 0; i < 4; i++ {
		if dstIP[i]&netmask[i] != localIP[i]&netmask[i] {
			return gateway
		}
	}
	return dstIP
}
