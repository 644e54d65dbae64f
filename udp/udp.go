// Package udp implements UDP header parse/build and pseudo-header
// checksum validation (RFC 768).
//
// Author: momentics <momentics@gmail.com>
package udp

import (
	"encoding/binary"

	"github.com/momentics/warpnet/checksum"
)

// HeaderSize is the fixed UDP header length.
const HeaderSize = 8

// Header is a decoded UDP header.
type Header struct {
	SrcPort  uint16
	DstPort  uint16
	Length   uint16
	Checksum uint16
}

// Parse decodes the first HeaderSize bytes of b.
func Parse(b []byte) (Header, bool) {
	if len(b) < HeaderSize {
		return Header{}, false
	}
	var h Header
	h.SrcPort = binary.BigEndian.Uint16(b[0:2])
	h.DstPort = binary.BigEndian.Uint16(b[2:4])
	h.Length = binary.BigEndian.Uint16(b[4:6])
	h.Checksum = binary.BigEndian.Uint16(b[6:8])
	return h, true
}

// Build writes a UDP header and payload into dst (header immediately
// followed by payload), stamps the pseudo-header checksum, and returns
// the total length written.
func Build(dst []byte, srcIP, dstIP [4]byte, srcPort, dstPort uint16, payload []byte) int {
	n := HeaderSize + len(payload)
	binary.BigEndian.PutUint16(dst[0:2], srcPort)
	binary.BigEndian.PutUint16(dst[2:4], dstPort)
	binary.BigEndian.PutUint16(dst[4:6], uint16(n))
	binary.BigEndian.PutUint16(dst[6:8], 0)
	copy(dst[HeaderSize:n], payload)
	cs := checksum.UDP(srcIP, dstIP, dst[:n])
	binary.BigEndian.PutUint16(dst[6:8], cs)
	return n
}

// VerifyChecksum reports whether a received UDP header+payload carries a
// valid pseudo-header checksum, accepting a zero stored checksum as
// "not computed" per RFC 768.
func VerifyChecksum(srcIP, dstIP [4]byte, headerAndPayload []byte) bool {
	return checksum.VerifyUDP(srcIP, dstIP, headerAndPayload)
}
