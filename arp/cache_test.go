package arp

import "testing"

func TestLookupMissOnEmptyCache(t *testing.T) {
	c := NewCache()
	if _, ok := c.Lookup([4]byte{10, 0, 0, 1}); ok {
		t.Fatalf("expected empty cache to miss")
	}
}

func TestEnsurePendingThenResolveUnblocks(t *testing.T) {
	c := NewCache()
	ip := [4]byte{10, 0, 0, 1}
	mac := [6]byte{1, 2, 3, 4, 5, 6}

	_, resolved, done := c.EnsurePending(ip)
	if resolved {
		t.Fatalf("expected an unresolved entry")
	}

	select {
	case <-done:
		t.Fatalf("done channel should not be closed before Resolve")
	default:
	}

	c.Resolve(ip, mac)

	select {
	case <-done:
	default:
		t.Fatalf("expected done channel to close after Resolve")
	}

	got, ok := c.Lookup(ip)
	if !ok || got != mac {
		t.Fatalf("expected resolved MAC %v, got %v ok=%v", mac, got, ok)
	}
}

func TestEnsurePendingReusesExistingWaiter(t *testing.T) {
	c := NewCache()
	ip := [4]byte{10, 0, 0, 1}
	_, _, done1 := c.EnsurePending(ip)
	_, _, done2 := c.EnsurePending(ip)
	if done1 != done2 {
		t.Fatalf("expected repeated EnsurePending on the same pending ip to share one done channel")
	}
}

func TestLearnIsOpportunistic(t *testing.T) {
	c := NewCache()
	ip := [4]byte{10, 0, 0, 5}
	mac := [6]byte{9, 9, 9, 9, 9, 9}
	c.Learn(ip, mac)
	got, ok := c.Lookup(ip)
	if !ok || got != mac {
		t.Fatalf("expected Learn to populate the cache without a pending wait")
	}
}

func TestAbandonUnblocksWaitersAndRemovesEntry(t *testing.T) {
	c := NewCache()
	ip := [4]byte{10, 0, 0, 9}
	_, _, done := c.EnsurePending(ip)
	c.Abandon(ip)

	select {
	case <-done:
	default:
		t.Fatalf("expected Abandon to close the pending done channel")
	}
	if _, ok := c.Lookup(ip); ok {
		t.Fatalf("expected Abandon to remove the entry")
	}
}
