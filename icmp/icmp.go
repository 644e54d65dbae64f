// Package icmp implements the subset of ICMP this engine speaks: Echo
// Request/Reply in-place transformation and Destination Unreachable
// generation. Any other ICMP type is logged at debug level and dropped.
//
// Grounded on original_source/icmp.c's icmp_rx (validate checksum,
// Echo -> EchoReply in place) and icmp_tx_unreach (IP header plus
// offending payload embedded as the unreachable message's body); the
// embedded-payload length here is the 8-byte RFC 792 minimum rather
// than the reference C implementation's 64-byte copy.
//
// Author: momentics <momentics@gmail.com>
package icmp

import (
	"encoding/binary"

	"github.com/momentics/warpnet/checksum"
	"github.com/momentics/warpnet/ipv4"
)

// HeaderSize is the fixed ICMP header length (type, code, checksum, and
// the 4-byte "rest of header" field Echo uses for identifier+sequence).
const HeaderSize = 8

const (
	TypeEchoReply       uint8 = 0
	TypeDestUnreachable uint8 = 3
	TypeEcho            uint8 = 8
)

// CodePortUnreachable is the Destination Unreachable code this engine
// generates when a UDP datagram targets a closed port.
const CodePortUnreachable uint8 = 3

// unreachablePayload is the number of bytes of the offending datagram's
// payload carried in a Destination Unreachable message, per RFC 792.
const unreachablePayload = 8

// Parse reads the type, code, and rest-of-header fields.
func Parse(b []byte) (typ, code uint8, rest [4]byte, ok bool) {
	if len(b) < HeaderSize {
		return 0, 0, [4]byte{}, false
	}
	typ = b[0]
	code = b[1]
	copy(rest[:], b[4:8])
	return typ, code, rest, true
}

// VerifyChecksum validates an ICMP message's stored checksum.
func VerifyChecksum(b []byte) bool {
	return checksum.Verify(b)
}

// TransformEchoToReply mutates an Echo Request message in place into an
// Echo Reply, preserving identifier, sequence, and payload, and
// recomputes the checksum.
func TransformEchoToReply(b []byte) {
	b[0] = TypeEchoReply
	binary.BigEndian.PutUint16(b[2:4], 0)
	cs := checksum.Internet(b)
	binary.BigEndian.PutUint16(b[2:4], cs)
}

// BuildDestUnreachable writes a Destination Unreachable message into dst,
// carrying the offending datagram's IP header plus up to its first 8
// payload bytes, and returns the total message length.
func BuildDestUnreachable(dst []byte, code uint8, offendingIPHeaderAndPayload []byte) int {
	dst[0] = TypeDestUnreachable
	dst[1] = code
	binary.BigEndian.PutUint16(dst[2:4], 0)
	binary.BigEndian.PutUint32(dst[4:8], 0)

	n := len(offendingIPHeaderAndPayload)
	max := ipv4.HeaderSize + unreachablePayload
	if n > max {
		n = max
	}
	copy(dst[HeaderSize:HeaderSize+n], offendingIPHeaderAndPayload[:n])

	total := HeaderSize + n
	cs := checksum.Internet(dst[:total])
	binary.BigEndian.PutUint16(dst[2:4], cs)
	return total
}
