//go:build !linux
// +build !linux

// control/platform_stub.go
// Author: momentics <momentics@gmail.com>
//
// Non-Linux platforms register no platform-specific debug probes.

package control

// RegisterPlatformProbes is a no-op outside Linux.
func RegisterPlatformProbes(dp *DebugProbes) {}
