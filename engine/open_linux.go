//go:build linux
// +build linux

// File: engine/open_linux.go
// Author: momentics <momentics@gmail.com>
//
// Open attaches the engine directly to a netmap-mode interface by name,
// the common entry point outside of tests (which construct a ring.NIC,
// typically the loopback pair, and call Init directly).

package engine

import (
	"fmt"

	"github.com/momentics/warpnet/control"
	"github.com/momentics/warpnet/ring"
)

// Open registers cfg.Iface in netmap mode and initializes an Engine over
// it. cfg must name an interface and may be nil only if the caller
// intends to fall back to control.DefaultConfig()'s zero Iface, which
// Open rejects outright.
func Open(cfg *control.Config) (*Engine, error) {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	if cfg.Iface == "" {
		return nil, fmt.Errorf("engine: Config.Iface is required")
	}
	nic, err := ring.Open(cfg.Iface, cfg.NumBufs, cfg.FrameSize)
	if err != nil {
		return nil, err
	}
	return Init(cfg, nic)
}
