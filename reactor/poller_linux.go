//go:build linux
// +build linux

// File: reactor/poller_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based single-descriptor poller.

package reactor

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/warpnet/api"
)

// epollPoller waits on exactly one registered descriptor.
type epollPoller struct {
	epfd int
	fd   int
}

// New constructs the Linux epoll-backed poller.
func New() (api.Poller, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, fmt.Errorf("reactor: epoll_create1: %w", err)
	}
	return &epollPoller{epfd: epfd, fd: -1}, nil
}

// Register adds fd to the epoll instance, watching for read readiness.
func (p *epollPoller) Register(fd uintptr) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, int(fd), &ev); err != nil {
		return fmt.Errorf("reactor: epoll_ctl add: %w", err)
	}
	p.fd = int(fd)
	return nil
}

// Wait blocks until the registered descriptor is readable or timeoutMs
// elapses. A negative timeout blocks indefinitely.
func (p *epollPoller) Wait(timeoutMs int) (bool, error) {
	var events [1]unix.EpollEvent
	for {
		n, err := unix.EpollWait(p.epfd, events[:], timeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return false, fmt.Errorf("reactor: epoll_wait: %w", err)
		}
		return n > 0, nil
	}
}

// Close releases the epoll file descriptor.
func (p *epollPoller) Close() error {
	return unix.Close(p.epfd)
}
