package control

import "testing"

func TestMetricsRegistrySetAndSnapshot(t *testing.T) {
	reg := NewMetricsRegistry()
	reg.Set("foo.count", int64(42))
	reg.Set("bar.status", "ok")

	snap := reg.GetSnapshot()
	if snap["foo.count"] != int64(42) {
		t.Fatalf("expected foo.count=42, got %v", snap["foo.count"])
	}
	if snap["bar.status"] != "ok" {
		t.Fatalf("expected bar.status=ok, got %v", snap["bar.status"])
	}
}

func TestMetricsRegistrySnapshotIsolation(t *testing.T) {
	reg := NewMetricsRegistry()
	reg.Set("k", int64(1))
	snap := reg.GetSnapshot()
	snap["k"] = int64(999)
	if got := reg.GetSnapshot()["k"]; got != int64(1) {
		t.Fatalf("expected snapshot mutation to not affect the registry, got %v", got)
	}
}
