package control

import "testing"

func TestDebugProbesRegisterAndDump(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("answer", func() any { return 42 })

	state := dp.DumpState()
	if state["answer"] != 42 {
		t.Fatalf("expected probe answer=42, got %v", state["answer"])
	}
}

func TestDebugProbesOverwriteByName(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("v", func() any { return 1 })
	dp.RegisterProbe("v", func() any { return 2 })
	if got := dp.DumpState()["v"]; got != 2 {
		t.Fatalf("expected re-registering a probe name to replace it, got %v", got)
	}
}
