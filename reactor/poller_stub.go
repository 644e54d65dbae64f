//go:build !linux
// +build !linux

// File: reactor/poller_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub poller for platforms without an epoll-equivalent wired up.

package reactor

import (
	"errors"

	"github.com/momentics/warpnet/api"
)

type stubPoller struct{}

// New returns an error; no non-Linux backend is implemented.
func New() (api.Poller, error) {
	return nil, errors.New("reactor: this platform is not supported")
}

func (stubPoller) Register(fd uintptr) error        { return errors.New("reactor: not supported") }
func (stubPoller) Wait(timeoutMs int) (bool, error) { return false, errors.New("reactor: not supported") }
func (stubPoller) Close() error                      { return nil }
