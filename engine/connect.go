// File: engine/connect.go
// Author: momentics <momentics@gmail.com>
//
// Connect is the engine's one blocking operation: it resolves an IPv4
// next hop to an Ethernet address, retransmitting an ARP request up to
// cfg.ARPRetries times, waiting cfg.ARPRetryInterval between attempts and
// draining the RX ring while it waits so an incoming reply is actually
// seen. Grounded on original_source/lib/backend_netmap.c's
// backend_connect: a bounded poll-with-timeout loop wrapped around
// w_nic_rx/w_rx, here NicRx/Rx.

package engine

import (
	"fmt"
	"time"

	"github.com/momentics/warpnet/arp"
	"github.com/momentics/warpnet/ethernet"
	"github.com/momentics/warpnet/ipv4"
)

// Connect blocks until dstIP's next hop is ARP-resolved, or returns a
// timeout error after cfg.ARPRetries unanswered requests.
func (e *Engine) Connect(dstIP [4]byte) error {
	nextHop := ipv4.NextHop(dstIP, e.localIP, e.netmask, e.gateway)
	if _, ok := e.arpCache.Lookup(nextHop); ok {
		return nil
	}
	_, _, done := e.arpCache.EnsurePending(nextHop)

	for attempt := 0; attempt < e.cfg.ARPRetries; attempt++ {
		if err := e.sendARPRequest(nextHop); err != nil {
			return err
		}
		deadline := time.Now().Add(e.cfg.ARPRetryInterval)
		for time.Now().Before(deadline) {
			e.waitForTraffic(time.Until(deadline))
			e.NicRx()
			e.Rx()
			select {
			case <-done:
				return nil
			default:
			}
		}
	}

	e.arpCache.Abandon(nextHop)
	return fmt.Errorf("engine: ARP resolution of %v timed out after %d attempts", nextHop, e.cfg.ARPRetries)
}

func (e *Engine) sendARPRequest(targetIP [4]byte) error {
	bufIdx, ok := e.pool.Alloc()
	if !ok {
		return fmt.Errorf("engine: frame pool exhausted")
	}
	frame := e.nic.Region().Frame(bufIdx)
	req := arp.Packet{
		Opcode:    arp.OpRequest,
		SenderMAC: e.localMAC,
		SenderIP:  e.localIP,
		TargetIP:  targetIP,
	}
	arp.Build(frame[ethernet.HeaderSize:], req)
	ethernet.BuildHeader(frame, ethernet.Header{Dst: ethernet.Broadcast, Src: e.localMAC, Type: ethernet.TypeARP})
	e.transmit(bufIdx, ethernet.HeaderSize+arp.WireSize)
	return e.nic.TxSync()
}

// waitForTraffic blocks for up to timeout, returning early if the NIC
// signals arrival: via the registered epoll poller when the NIC exposes
// a real file descriptor, or via the loopback backend's Ready channel
// when it does not.
func (e *Engine) waitForTraffic(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	if e.poller != nil {
		e.poller.Wait(int(timeout / time.Millisecond))
		return
	}
	if notifier, ok := e.nic.(interface{ Ready() <-chan struct{} }); ok {
		select {
		case <-notifier.Ready():
		case <-time.After(timeout):
		}
		return
	}
	time.Sleep(timeout)
}
