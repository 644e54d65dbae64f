package icmp

import (
	"encoding/binary"
	"testing"

	"github.com/momentics/warpnet/checksum"
	"github.com/momentics/warpnet/ipv4"
)

func TestTransformEchoToReply(t *testing.T) {
	buf := make([]byte, HeaderSize+4)
	buf[0] = TypeEcho
	copy(buf[8:], []byte{1, 2, 3, 4})
	cs := checksum.Internet(buf)
	binary.BigEndian.PutUint16(buf[2:4], cs)

	TransformEchoToReply(buf)

	typ, _, _, ok := Parse(buf)
	if !ok || typ != TypeEchoReply {
		t.Fatalf("expected type EchoReply after transform, got %d ok=%v", typ, ok)
	}
	if !VerifyChecksum(buf) {
		t.Fatalf("expected recomputed checksum to verify")
	}
}

func TestBuildDestUnreachableEmbedsOffendingHeader(t *testing.T) {
	offending := make([]byte, ipv4.HeaderSize+20)
	for i := range offending {
		offending[i] = byte(i)
	}

	dst := make([]byte, HeaderSize+ipv4.HeaderSize+unreachablePayload)
	n := BuildDestUnreachable(dst, CodePortUnreachable, offending)

	wantLen := HeaderSize + ipv4.HeaderSize + unreachablePayload
	if n != wantLen {
		t.Fatalf("expected message length %d, got %d", wantLen, n)
	}
	if dst[0] != TypeDestUnreachable || dst[1] != CodePortUnreachable {
		t.Fatalf("unexpected type/code: %d/%d", dst[0], dst[1])
	}
	if !VerifyChecksum(dst[:n]) {
		t.Fatalf("expected stamped checksum to verify")
	}
	embedded := dst[HeaderSize:n]
	for i, b := range embedded {
		if b != offending[i] {
			t.Fatalf("embedded payload mismatch at %d: got %d want %d", i, b, offending[i])
		}
	}
}

func TestBuildDestUnreachableTruncatesShortOffendingData(t *testing.T) {
	offending := make([]byte, 5)
	dst := make([]byte, HeaderSize+5)
	n := BuildDestUnreachable(dst, CodePortUnreachable, offending)
	if n != HeaderSize+5 {
		t.Fatalf("expected message to carry only the %d available bytes, got length %d", len(offending), n)
	}
}
