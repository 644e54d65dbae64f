// Package arp implements the ARP resolution cache: the absent -> pending
// -> resolved state machine that backs Connect's blocking IP-to-MAC
// resolution, plus opportunistic learning from any observed ARP traffic.
//
// The pending-entry unblock-on-resolution pattern is grounded on the
// sharded session manager in internal/session/cancel.go and
// internal/session/session.go, adapted from a done-channel-per-session
// to a done-channel-per-pending-IP; the single-threaded-per-engine model
// removes the need for shard-count/RWMutex bookkeeping.
//
// Author: momentics <momentics@gmail.com>
package arp

// state is an entry's position in the absent -> pending -> resolved
// lifecycle.
type state int

const (
	stateAbsent state = iota
	statePending
	stateResolved
)

type entry struct {
	state state
	mac   [6]byte
	done  chan struct{}
}

// Cache maps an IPv4 address to its resolved Ethernet address.
type Cache struct {
	entries map[[4]byte]*entry
}

// NewCache returns an empty ARP cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[[4]byte]*entry)}
}

// Lookup returns the resolved MAC for ip, if any.
func (c *Cache) Lookup(ip [4]byte) ([6]byte, bool) {
	e, ok := c.entries[ip]
	if !ok || e.state != stateResolved {
		return [6]byte{}, false
	}
	return e.mac, true
}

// EnsurePending returns the resolved MAC if ip is already known. Otherwise
// it creates (or reuses) a pending entry and returns its done channel,
// which closes when the entry transitions to resolved or is abandoned.
func (c *Cache) EnsurePending(ip [4]byte) (mac [6]byte, resolved bool, done <-chan struct{}) {
	e, ok := c.entries[ip]
	if ok {
		if e.state == stateResolved {
			return e.mac, true, nil
		}
		return [6]byte{}, false, e.done
	}
	e = &entry{state: statePending, done: make(chan struct{})}
	c.entries[ip] = e
	return [6]byte{}, false, e.done
}

// Resolve records ip -> mac and unblocks anyone waiting on a pending
// entry for ip.
func (c *Cache) Resolve(ip [4]byte, mac [6]byte) {
	e, ok := c.entries[ip]
	if !ok {
		e = &entry{}
		c.entries[ip] = e
	}
	wasPending := e.state == statePending
	e.state = stateResolved
	e.mac = mac
	if wasPending && e.done != nil {
		close(e.done)
		e.done = nil
	}
}

// Learn opportunistically records a mapping observed in any ARP packet
// (request or reply), regardless of whether it was solicited.
func (c *Cache) Learn(ip [4]byte, mac [6]byte) {
	c.Resolve(ip, mac)
}

// Abandon removes a pending entry after retries are exhausted, unblocking
// any waiter with a closed channel so Connect can report a timeout.
func (c *Cache) Abandon(ip [4]byte) {
	e, ok := c.entries[ip]
	if !ok {
		return
	}
	if e.state == statePending && e.done != nil {
		close(e.done)
	}
	delete(c.entries, ip)
}

// Len reports the number of cache entries, resolved or pending.
func (c *Cache) Len() int { return len(c.entries) }
