// File: engine/datagram.go
// Author: momentics <momentics@gmail.com>
//
// Helpers for applications draining a bound socket's receive queue: read
// a datagram's payload bytes directly out of the shared frame region, then
// release its buffer back to the pool once consumed.

package engine

import "github.com/momentics/warpnet/socket"

// Payload returns the received bytes for d, a zero-copy view into the
// shared frame region.
func (e *Engine) Payload(d socket.Datagram) []byte {
	frame := e.nic.Region().Frame(d.BufIdx)
	return frame[d.Off : d.Off+d.Len]
}

// ReleaseDatagram returns d's buffer to the frame pool. Applications must
// call this exactly once per datagram they read off a bound queue, after
// they are done with its Payload.
func (e *Engine) ReleaseDatagram(d socket.Datagram) {
	e.pool.Release(d.BufIdx)
}
