package ethernet

import "testing"

func TestBuildParseHeaderRoundTrip(t *testing.T) {
	h := Header{
		Dst:  [6]byte{1, 2, 3, 4, 5, 6},
		Src:  [6]byte{6, 5, 4, 3, 2, 1},
		Type: TypeIPv4,
	}
	buf := make([]byte, HeaderSize)
	BuildHeader(buf, h)
	got, ok := ParseHeader(buf)
	if !ok || got != h {
		t.Fatalf("round-trip mismatch: got %+v ok=%v, want %+v", got, ok, h)
	}
}

func TestAcceptsDestination(t *testing.T) {
	local := [6]byte{1, 1, 1, 1, 1, 1}
	other := [6]byte{2, 2, 2, 2, 2, 2}

	if !AcceptsDestination(local, local, false) {
		t.Fatalf("expected unicast-to-self to be accepted")
	}
	if !AcceptsDestination(local, Broadcast, false) {
		t.Fatalf("expected broadcast to be accepted")
	}
	if AcceptsDestination(local, other, false) {
		t.Fatalf("expected foreign unicast to be rejected outside promiscuous mode")
	}
	if !AcceptsDestination(local, other, true) {
		t.Fatalf("expected promiscuous mode to accept any destination")
	}
}

func TestDispatcherRoutesByType(t *testing.T) {
	local := [6]byte{1, 1, 1, 1, 1, 1}
	var gotARP, gotIPv4 bool
	d := &Dispatcher{
		LocalMAC: local,
		OnARP:    func(payload []byte, src [6]byte) { gotARP = true },
		OnIPv4:   func(payload []byte, src [6]byte) { gotIPv4 = true },
	}

	frame := make([]byte, HeaderSize+4)
	BuildHeader(frame, Header{Dst: local, Src: [6]byte{9, 9, 9, 9, 9, 9}, Type: TypeARP})
	if handled := d.Handle(frame); !handled {
		t.Fatalf("expected ARP frame to be handled")
	}
	if !gotARP || gotIPv4 {
		t.Fatalf("expected only the ARP callback to fire")
	}

	BuildHeader(frame, Header{Dst: local, Src: [6]byte{9, 9, 9, 9, 9, 9}, Type: TypeIPv4})
	if handled := d.Handle(frame); !handled {
		t.Fatalf("expected IPv4 frame to be handled")
	}
	if !gotIPv4 {
		t.Fatalf("expected the IPv4 callback to fire")
	}
}

func TestDispatcherDropsForeignUnicast(t *testing.T) {
	local := [6]byte{1, 1, 1, 1, 1, 1}
	called := false
	d := &Dispatcher{
		LocalMAC: local,
		OnIPv4:   func(payload []byte, src [6]byte) { called = true },
	}
	frame := make([]byte, HeaderSize)
	BuildHeader(frame, Header{Dst: [6]byte{2, 2, 2, 2, 2, 2}, Type: TypeIPv4})
	if handled := d.Handle(frame); handled {
		t.Fatalf("expected frame addressed to another host to be dropped")
	}
	if called {
		t.Fatalf("callback must not fire for a dropped frame")
	}
}
