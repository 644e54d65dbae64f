package pool

import "testing"

type fakeRegion struct {
	frames [][]byte
}

func newFakeRegion(n, size int) *fakeRegion {
	r := &fakeRegion{frames: make([][]byte, n)}
	for i := range r.frames {
		r.frames[i] = make([]byte, size)
	}
	return r
}

func (r *fakeRegion) FrameSize() int  { return len(r.frames[0]) }
func (r *fakeRegion) NumFrames() int  { return len(r.frames) }
func (r *fakeRegion) Frame(idx uint32) []byte { return r.frames[idx] }

func TestAllocReleaseIsLIFO(t *testing.T) {
	region := newFakeRegion(4, 64)
	p := NewPool(region, []uint32{0, 1, 2, 3})

	a, _ := p.Alloc()
	if a != 3 {
		t.Fatalf("expected LIFO order to hand back 3 first, got %d", a)
	}
	p.Release(a)
	b, _ := p.Alloc()
	if b != 3 {
		t.Fatalf("expected last-released index to be reallocated first, got %d", b)
	}
}

func TestAllocExhaustion(t *testing.T) {
	region := newFakeRegion(1, 64)
	p := NewPool(region, []uint32{0})
	if _, ok := p.Alloc(); !ok {
		t.Fatalf("expected first alloc to succeed")
	}
	if _, ok := p.Alloc(); ok {
		t.Fatalf("expected pool exhaustion to report ok=false")
	}
}

func TestAllocNAllOrNothing(t *testing.T) {
	region := newFakeRegion(3, 64)
	p := NewPool(region, []uint32{0, 1, 2})
	if _, ok := p.AllocN(4); ok {
		t.Fatalf("expected AllocN to refuse more than available")
	}
	if p.Len() != 3 {
		t.Fatalf("failed AllocN must not remove any indices, len=%d", p.Len())
	}
	idxs, ok := p.AllocN(2)
	if !ok || len(idxs) != 2 {
		t.Fatalf("expected AllocN(2) to succeed")
	}
	if p.Len() != 1 {
		t.Fatalf("expected 1 remaining free index, got %d", p.Len())
	}
}

// walkTeardownChain follows a 0-terminated on-wire freelist chain built
// by EncodeNICFreelist/ToNICFreelist, returning every index visited.
func walkTeardownChain(t *testing.T, region *fakeRegion, head uint32) []uint32 {
	t.Helper()
	var seen []uint32
	visited := map[uint32]bool{}
	cur := head
	for cur != 0 {
		if visited[cur] {
			t.Fatalf("cycle detected in teardown freelist at index %d", cur)
		}
		visited[cur] = true
		seen = append(seen, cur)
		buf := region.Frame(cur)
		cur = uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	}
	return seen
}

func TestToNICFreelistEncodesLinks(t *testing.T) {
	// Index 0 is reserved as the chain terminator and is never a real
	// allocatable buffer, so the fixture starts numbering at 1.
	region := newFakeRegion(4, 64)
	p := NewPool(region, []uint32{1, 2, 3})
	head := p.ToNICFreelist()
	if head == 0 {
		t.Fatalf("expected a valid nonzero head index")
	}
	if p.Len() != 0 {
		t.Fatalf("expected pool's free stack to be empty after teardown encoding")
	}
	seen := walkTeardownChain(t, region, head)
	if len(seen) != 3 {
		t.Fatalf("expected teardown freelist to cover all 3 buffers, saw %d", len(seen))
	}
}

func TestEncodeNICFreelistEmptyReturnsZero(t *testing.T) {
	region := newFakeRegion(1, 64)
	if head := EncodeNICFreelist(region, nil); head != 0 {
		t.Fatalf("expected 0 for an empty free list, got %d", head)
	}
}

func TestDrainEmptiesPoolWithoutEncoding(t *testing.T) {
	region := newFakeRegion(4, 64)
	p := NewPool(region, []uint32{1, 2, 3})
	drained := p.Drain()
	if len(drained) != 3 {
		t.Fatalf("expected 3 drained indices, got %d", len(drained))
	}
	if p.Len() != 0 {
		t.Fatalf("expected pool to be empty after Drain")
	}
	head := EncodeNICFreelist(region, drained)
	seen := walkTeardownChain(t, region, head)
	if len(seen) != 3 {
		t.Fatalf("expected encoded chain to cover all 3 drained buffers, saw %d", len(seen))
	}
}

func TestObjectPoolAdapter(t *testing.T) {
	region := newFakeRegion(1, 64)
	p := NewPool(region, []uint32{0})
	if got := p.Get(); got != 0 {
		t.Fatalf("expected Get() to return 0, got %d", got)
	}
	if got := p.Get(); got != Invalid {
		t.Fatalf("expected exhausted Get() to return Invalid, got %d", got)
	}
	p.Put(0)
	if got := p.Get(); got != 0 {
		t.Fatalf("expected Put then Get to recycle index 0, got %d", got)
	}
}
