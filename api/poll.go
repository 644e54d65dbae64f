// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Poller narrows the host's readiness-notification mechanism to the single
// contract the engine needs: wait for one file descriptor to become
// readable, with a bounded timeout.

package api

// Poller waits for a single registered descriptor to become readable.
type Poller interface {
	// Register associates fd with this poller. Must be called once
	// before the first Wait.
	Register(fd uintptr) error
	// Wait blocks until fd is readable or timeoutMs elapses (<0 blocks
	// forever). Returns true if the descriptor became ready.
	Wait(timeoutMs int) (ready bool, err error)
	// Close releases the underlying poll backend.
	Close() error
}
