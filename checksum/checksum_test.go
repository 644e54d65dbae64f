package checksum

import "testing"

func TestInternetChecksumRoundTrip(t *testing.T) {
	data := []byte{0x45, 0x00, 0x00, 0x1c, 0x00, 0x01, 0x00, 0x00, 0x40, 0x01, 0x00, 0x00, 10, 0, 0, 1, 10, 0, 0, 2}
	cs := Internet(data)
	withChecksum := make([]byte, len(data))
	copy(withChecksum, data)
	withChecksum[10] = byte(cs >> 8)
	withChecksum[11] = byte(cs)

	if !Verify(withChecksum) {
		t.Fatalf("expected stamped header to verify")
	}
	withChecksum[0] ^= 0xFF
	if Verify(withChecksum) {
		t.Fatalf("expected corrupted header to fail verification")
	}
}

func TestUDPChecksumZeroBecomesAllOnes(t *testing.T) {
	src := [4]byte{10, 0, 0, 1}
	dst := [4]byte{10, 0, 0, 2}
	// The pseudo-header sums to 0x141C for these addresses and an 8-byte
	// length; a source port of 0xEBE3 brings the total to 0xFFFF, whose
	// complement is zero.
	hdr := make([]byte, 8)
	hdr[0], hdr[1] = 0xEB, 0xE3
	cs := UDP(src, dst, hdr)
	if cs != 0xFFFF {
		t.Fatalf("checksum of zero must be reported as 0xFFFF, got %#04x", cs)
	}
}

func TestVerifyUDPAcceptsZeroChecksum(t *testing.T) {
	src := [4]byte{10, 0, 0, 1}
	dst := [4]byte{10, 0, 0, 2}
	data := make([]byte, 8+4)
	if !VerifyUDP(src, dst, data) {
		t.Fatalf("a stored checksum of zero must always verify per RFC 768")
	}
}

func TestVerifyUDPDetectsCorruption(t *testing.T) {
	src := [4]byte{10, 0, 0, 1}
	dst := [4]byte{10, 0, 0, 2}
	payload := []byte("hello")
	data := make([]byte, 8+len(payload))
	copy(data[8:], payload)
	data[4] = 0
	data[5] = byte(len(data))
	cs := UDP(src, dst, data)
	data[6] = byte(cs >> 8)
	data[7] = byte(cs)

	if !VerifyUDP(src, dst, data) {
		t.Fatalf("expected valid checksum to verify")
	}
	data[8] ^= 0xFF
	if VerifyUDP(src, dst, data) {
		t.Fatalf("expected corrupted payload to fail verification")
	}
}
