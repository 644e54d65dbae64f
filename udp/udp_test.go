package udp

import "testing"

func TestBuildParseRoundTrip(t *testing.T) {
	src := [4]byte{10, 0, 0, 1}
	dst := [4]byte{10, 0, 0, 2}
	payload := []byte("hello, warpnet")

	buf := make([]byte, HeaderSize+len(payload))
	n := Build(buf, src, dst, 12345, 53, payload)
	if n != len(buf) {
		t.Fatalf("expected Build to write %d bytes, got %d", len(buf), n)
	}

	h, ok := Parse(buf)
	if !ok {
		t.Fatalf("expected Parse to accept a well-formed header")
	}
	if h.SrcPort != 12345 || h.DstPort != 53 {
		t.Fatalf("unexpected ports: %+v", h)
	}
	if int(h.Length) != len(buf) {
		t.Fatalf("expected length field %d, got %d", len(buf), h.Length)
	}
	if !VerifyChecksum(src, dst, buf) {
		t.Fatalf("expected a freshly stamped datagram to verify")
	}
}

func TestVerifyChecksumDetectsCorruption(t *testing.T) {
	src := [4]byte{10, 0, 0, 1}
	dst := [4]byte{10, 0, 0, 2}
	payload := []byte("payload")
	buf := make([]byte, HeaderSize+len(payload))
	Build(buf, src, dst, 1, 2, payload)

	buf[len(buf)-1] ^= 0xFF
	if VerifyChecksum(src, dst, buf) {
		t.Fatalf("expected corrupted payload to fail checksum verification")
	}
}

func TestParseRejectsShortBuffer(t *testing.T) {
	if _, ok := Parse(make([]byte, HeaderSize-1)); ok {
		t.Fatalf("expected short buffer to be rejected")
	}
}
