// Package checksum computes the 16-bit one's-complement Internet checksum
// used by IPv4, ICMP, and UDP (RFC 1071), plus the UDP pseudo-header
// variant (RFC 768).
//
// Author: momentics <momentics@gmail.com>
package checksum

import "encoding/binary"

// Internet computes the RFC 1071 one's-complement checksum over data. The
// checksum field itself, if present, must be zeroed by the caller before
// calling this function.
func Internet(data []byte) uint16 {
	var sum uint32
	n := len(data)
	i := 0
	for ; i+1 < n; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(data[i : i+2]))
	}
	if i < n {
		sum += uint32(data[i]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return ^uint16(sum)
}

// PseudoHeaderSum folds the IPv4 pseudo-header (source, destination,
// zero, protocol, UDP length) into a running checksum accumulator,
// matching the RFC 768 UDP checksum definition. Callers add this to the
// sum of the UDP header+payload before folding and complementing, or pass
// it as the seed to Fold.
func PseudoHeaderSum(srcIP, dstIP [4]byte, protocol uint8, udpLen uint16) uint32 {
	var sum uint32
	sum += uint32(binary.BigEndian.Uint16(srcIP[0:2]))
	sum += uint32(binary.BigEndian.Uint16(srcIP[2:4]))
	sum += uint32(binary.BigEndian.Uint16(dstIP[0:2]))
	sum += uint32(binary.BigEndian.Uint16(dstIP[2:4]))
	sum += uint32(protocol)
	sum += uint32(udpLen)
	return sum
}

// UDP computes the UDP checksum over header+payload with the IPv4
// pseudo-header folded in. The caller must zero the header's checksum
// field before calling. If the computed checksum is zero, it is reported
// as 0xFFFF per RFC 768 (zero is reserved to mean "no checksum").
func UDP(srcIP, dstIP [4]byte, headerAndPayload []byte) uint16 {
	sum := PseudoHeaderSum(srcIP, dstIP, 17, uint16(len(headerAndPayload)))
	n := len(headerAndPayload)
	i := 0
	for ; i+1 < n; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(headerAndPayload[i : i+2]))
	}
	if i < n {
		sum += uint32(headerAndPayload[i]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	cs := ^uint16(sum)
	if cs == 0 {
		return 0xFFFF
	}
	return cs
}

// VerifyUDP reports whether a received UDP header+payload (checksum
// field included, not zeroed) is valid under the pseudo-header checksum.
// A stored checksum of zero means the sender did not compute one, which
// RFC 768 requires receivers to accept unconditionally.
func VerifyUDP(srcIP, dstIP [4]byte, headerAndPayload []byte) bool {
	if len(headerAndPayload) >= 8 && headerAndPayload[6] == 0 && headerAndPayload[7] == 0 {
		return true
	}
	sum := PseudoHeaderSum(srcIP, dstIP, 17, uint16(len(headerAndPayload)))
	n := len(headerAndPayload)
	i := 0
	for ; i+1 < n; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(headerAndPayload[i : i+2]))
	}
	if i < n {
		sum += uint32(headerAndPayload[i]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return sum == 0xFFFF
}

// Verify reports whether data, which includes its own checksum field,
// sums to zero under the one's-complement algorithm, the standard way
// to validate an already-stamped header without zeroing fields first.
func Verify(data []byte) bool {
	var sum uint32
	n := len(data)
	i := 0
	for ; i+1 < n; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(data[i : i+2]))
	}
	if i < n {
		sum += uint32(data[i]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return sum == 0xFFFF || sum == 0
}
