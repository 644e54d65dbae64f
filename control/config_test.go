package control

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NumBufs != 1024 {
		t.Fatalf("expected NumBufs=1024, got %d", cfg.NumBufs)
	}
	if cfg.FrameSize != 2048 {
		t.Fatalf("expected FrameSize=2048, got %d", cfg.FrameSize)
	}
	if cfg.ARPRetries != 3 {
		t.Fatalf("expected ARPRetries=3, got %d", cfg.ARPRetries)
	}
	if cfg.CPUAffinity != -1 {
		t.Fatalf("expected CPUAffinity=-1 (unpinned), got %d", cfg.CPUAffinity)
	}
	if !cfg.EnableMetrics || !cfg.EnableDebug {
		t.Fatalf("expected metrics and debug to be enabled by default")
	}
}
