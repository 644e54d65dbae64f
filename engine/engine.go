// Package engine aggregates the frame pool, ring view, ARP cache, and
// protocol layers into the single public entry point applications drive:
// Init attaches to a NIC, Bind/Close manage UDP sockets, Connect blocks
// until a peer's MAC is resolved, Tx/Rx move datagrams, and NicRx/NicTx
// drive the underlying descriptor ring's sync calls.
//
// Grounded on facade/hioload.go: a Config+DefaultConfig pair, a
// mutex-guarded aggregator struct wiring every subsystem, and a
// constructor that fails fast if any dependency cannot be built. The
// Connect/NicRx/NicTx split follows original_source/lib/backend_netmap.c's
// backend_connect (bounded poll-with-timeout loop around w_nic_rx/w_rx).
//
// Author: momentics <momentics@gmail.com>
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/momentics/warpnet/affinity"
	"github.com/momentics/warpnet/api"
	"github.com/momentics/warpnet/arp"
	"github.com/momentics/warpnet/control"
	"github.com/momentics/warpnet/ethernet"
	"github.com/momentics/warpnet/pool"
	"github.com/momentics/warpnet/reactor"
	"github.com/momentics/warpnet/ring"
	"github.com/momentics/warpnet/socket"
)

// Engine is one attachment to a NIC and its associated protocol state.
type Engine struct {
	cfg *control.Config
	nic ring.NIC

	pool     *pool.Pool
	sockets  *socket.Table
	arpCache *arp.Cache

	localMAC [6]byte
	localIP  [4]byte
	netmask  [4]byte
	gateway  [4]byte

	ipID       uint16
	dispatcher *ethernet.Dispatcher
	rxBufIdx   uint32

	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
	log     *slog.Logger

	poller api.Poller

	mu     sync.Mutex
	closed bool
}

// Init attaches the engine to nic. cfg may be nil, in which case
// control.DefaultConfig is used. Zero-valued LocalIP/Netmask in cfg fall
// back to the NIC's own configured address.
func Init(cfg *control.Config, nic ring.NIC) (*Engine, error) {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	if nic == nil {
		return nil, fmt.Errorf("engine: nic is required")
	}

	localIP := cfg.LocalIP
	if localIP == ([4]byte{}) {
		localIP = nic.LocalIP()
	}
	netmask := cfg.Netmask
	if netmask == ([4]byte{}) {
		netmask = nic.Netmask()
	}

	e := &Engine{
		cfg:      cfg,
		nic:      nic,
		pool:     pool.NewPool(nic.Region(), nic.ExtraBufs()),
		sockets:  socket.NewTable(),
		arpCache: arp.NewCache(),
		localMAC: nic.LocalMAC(),
		localIP:  localIP,
		netmask:  netmask,
		gateway:  cfg.Gateway,
		log:      control.NewLogger(os.Stderr, slog.LevelInfo, "engine"),
	}

	e.dispatcher = &ethernet.Dispatcher{
		LocalMAC:    e.localMAC,
		Promiscuous: cfg.Promiscuous,
		OnARP:       e.onARP,
		OnIPv4:      e.onIPv4,
	}

	if cfg.EnableMetrics {
		e.metrics = control.NewMetricsRegistry()
	}
	if cfg.EnableDebug {
		e.debug = control.NewDebugProbes()
		e.debug.RegisterProbe("engine.backend", func() any { return nic.Name() })
		e.debug.RegisterProbe("engine.pool_free", func() any { return e.pool.Len() })
		e.debug.RegisterProbe("engine.local_ip", func() any { return e.localIP })
		control.RegisterPlatformProbes(e.debug)
	}
	if cfg.CPUAffinity >= 0 {
		if err := affinity.SetAffinity(cfg.CPUAffinity); err != nil {
			e.log.Warn("cpu affinity pin failed", "cpu", cfg.CPUAffinity, "error", err)
		}
	}
	if fd := nic.FD(); fd != 0 {
		if pl, err := reactor.New(); err == nil {
			if err := pl.Register(fd); err == nil {
				e.poller = pl
			} else {
				pl.Close()
			}
		}
	}

	return e, nil
}

// Cleanup releases every resource the engine holds: the poller, if any,
// and the underlying NIC (which, for the Linux backend, reconstructs the
// extra-buffer free list before unmapping memory).
func (e *Engine) Cleanup() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.poller != nil {
		e.poller.Close()
	}
	return e.nic.Close(e.pool.Drain())
}

// Shutdown implements api.GracefulShutdown.
func (e *Engine) Shutdown() error { return e.Cleanup() }

var _ api.GracefulShutdown = (*Engine)(nil)

// Bind reserves port for UDP receive and returns its datagram queue.
func (e *Engine) Bind(port uint16) (api.Ring[socket.Datagram], error) {
	return e.sockets.Bind(port)
}

// Close releases a previously bound port, returning any buffers still
// in its receive queue to the frame pool.
func (e *Engine) Close(port uint16) {
	for _, d := range e.sockets.Close(port) {
		e.pool.Release(d.BufIdx)
	}
}

// Fd returns the NIC's pollable descriptor (0 for backends with no host
// file descriptor, e.g. the loopback pair).
func (e *Engine) Fd() uintptr { return e.nic.FD() }

// Pin pins the calling OS thread to cpuID.
func (e *Engine) Pin(cpuID int) error { return affinity.SetAffinity(cpuID) }

// Backend returns the NIC backend's name (interface name, or the
// loopback endpoint name).
func (e *Engine) Backend() string { return e.nic.Name() }

// DebugSnapshot returns the current value of every registered debug
// probe, or nil if cfg.EnableDebug was false.
func (e *Engine) DebugSnapshot() map[string]any {
	if e.debug == nil {
		return nil
	}
	return e.debug.DumpState()
}

// Metrics returns a snapshot of every collected counter, or nil if
// cfg.EnableMetrics was false.
func (e *Engine) Metrics() map[string]any {
	if e.metrics == nil {
		return nil
	}
	return e.metrics.GetSnapshot()
}

func (e *Engine) nextIPID() uint16 {
	e.ipID++
	return e.ipID
}

func (e *Engine) incr(key string) {
	if e.metrics == nil {
		return
	}
	cur, _ := e.metrics.GetSnapshot()[key].(int64)
	e.metrics.Set(key, cur+1)
}
