// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Typed, immutable engine configuration.

package control

import "time"

// Config holds every tunable the engine needs to attach to a NIC and run
// the protocol stack. It is read once at Init and never mutated, so no
// locking is required around it.
type Config struct {
	// Iface is the host network interface name to attach to (e.g. "eth0").
	Iface string

	// LocalIP and Netmask override the interface's configured address
	// when non-zero. Zero means "read from the host interface".
	LocalIP [4]byte
	Netmask [4]byte
	Gateway [4]byte

	// NumBufs is the number of extra frame buffers requested from the
	// NIC beyond the ones backing the descriptor rings themselves.
	NumBufs int

	// FrameSize is the fixed byte size of every frame in the pool.
	FrameSize int

	// ARPRetries is the number of ARP requests sent before Connect gives
	// up and returns a timeout error.
	ARPRetries int

	// ARPRetryInterval is how long Connect waits for a reply to one ARP
	// request before retransmitting.
	ARPRetryInterval time.Duration

	// Promiscuous, when true, disables MAC-address filtering on
	// incoming Ethernet frames.
	Promiscuous bool

	// EnableMetrics turns on counter collection in a control.MetricsRegistry.
	EnableMetrics bool

	// EnableDebug registers the engine's debug probes.
	EnableDebug bool

	// CPUAffinity pins the engine's poll loop to a core when >= 0.
	CPUAffinity int
}

// DefaultConfig returns sane defaults matching the reference netmap-backed
// engine: 1024 extra buffers, 2048-byte frames, three ARP retries one
// second apart.
func DefaultConfig() *Config {
	return &Config{
		NumBufs:          1024,
		FrameSize:        2048,
		ARPRetries:       3,
		ARPRetryInterval: time.Second,
		Promiscuous:      false,
		EnableMetrics:    true,
		EnableDebug:      true,
		CPUAffinity:      -1,
	}
}
