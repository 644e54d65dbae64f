// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides a single-descriptor readiness poller used by
// the engine's blocking operations (Connect's ARP wait, and host-loop
// integration via Fd). Real backends use epoll on Linux; other platforms
// get a stub that reports "not supported".
package reactor
