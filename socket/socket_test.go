package socket

import "testing"

func TestBindLookupAndClose(t *testing.T) {
	tbl := NewTable()
	q, err := tbl.Bind(PortLo)
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	d := Datagram{BufIdx: 7, Off: 0, Len: 10, SrcIP: [4]byte{10, 0, 0, 1}, SrcPort: 9999}
	q.Enqueue(d)

	got, ok := tbl.Lookup(PortLo)
	if !ok {
		t.Fatalf("expected the bound port to be found")
	}
	out, ok := got.Dequeue()
	if !ok || out != d {
		t.Fatalf("dequeue mismatch: got %+v ok=%v, want %+v", out, ok, d)
	}

	tbl.Close(PortLo)
	if _, ok := tbl.Lookup(PortLo); ok {
		t.Fatalf("expected lookup to fail after Close")
	}
}

func TestCloseDrainsQueuedDatagrams(t *testing.T) {
	tbl := NewTable()
	q, err := tbl.Bind(PortLo)
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	q.Enqueue(Datagram{BufIdx: 3, Off: 0, Len: 4, SrcIP: [4]byte{10, 0, 0, 1}, SrcPort: 1})
	q.Enqueue(Datagram{BufIdx: 5, Off: 0, Len: 4, SrcIP: [4]byte{10, 0, 0, 1}, SrcPort: 1})

	drained := tbl.Close(PortLo)
	if len(drained) != 2 {
		t.Fatalf("expected 2 drained datagrams, got %d", len(drained))
	}
	if drained[0].BufIdx != 3 || drained[1].BufIdx != 5 {
		t.Fatalf("expected drained buffers [3 5], got [%d %d]", drained[0].BufIdx, drained[1].BufIdx)
	}
	if _, ok := tbl.Lookup(PortLo); ok {
		t.Fatalf("expected lookup to fail after Close")
	}
}

func TestCloseOnUnboundPortDrainsNothing(t *testing.T) {
	tbl := NewTable()
	if drained := tbl.Close(PortLo); drained != nil {
		t.Fatalf("expected nil drain result for an unbound port, got %v", drained)
	}
}

func TestBindConflict(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.Bind(PortLo); err != nil {
		t.Fatalf("unexpected error on first bind: %v", err)
	}
	if _, err := tbl.Bind(PortLo); err != ErrBindConflict {
		t.Fatalf("expected ErrBindConflict on rebind, got %v", err)
	}
}

func TestBindRejectsOutOfRangePort(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.Bind(PortLo - 1); err == nil {
		t.Fatalf("expected a port below PortLo to be rejected")
	}
}

func TestLookupMissOnUnboundPort(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.Lookup(PortLo + 1); ok {
		t.Fatalf("expected lookup on an unbound port to miss")
	}
}
