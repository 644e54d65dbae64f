// Package socket implements the UDP socket table: a direct-mapped array
// indexed by port - PortLo, each bound entry holding an unbounded receive
// queue of arrived datagrams. A TCP branch is reserved by PortLo/PortHi
// range planning but not implemented; stream transport is out of scope.
//
// The receive queue is grounded on internal/concurrency/executor.go's
// use of github.com/eapache/queue as its task FIFO, adapted here to hold
// Datagram records and exposed through the api.Ring[T] contract so
// callers needn't depend on the concrete queue type.
//
// Author: momentics <momentics@gmail.com>
package socket

import (
	"fmt"

	"github.com/eapache/queue"

	"github.com/momentics/warpnet/api"
)

// PortLo and PortHi bound the range of ports this table can bind.
const (
	PortLo = 1024
	PortHi = 65535

	tableSize = PortHi - PortLo + 1
)

// Datagram is one arrived UDP payload, referenced by frame pool index
// rather than a copy of its bytes.
type Datagram struct {
	BufIdx  uint32
	Off     int
	Len     int
	SrcIP   [4]byte
	SrcPort uint16
}

// ErrBindConflict is returned when a port is already bound.
var ErrBindConflict = fmt.Errorf("socket: port already bound")

// recvQueue adapts github.com/eapache/queue to api.Ring[Datagram].
type recvQueue struct {
	q *queue.Queue
}

func newRecvQueue() *recvQueue { return &recvQueue{q: queue.New()} }

func (r *recvQueue) Enqueue(d Datagram) bool {
	r.q.Add(d)
	return true
}

func (r *recvQueue) Dequeue() (Datagram, bool) {
	if r.q.Length() == 0 {
		return Datagram{}, false
	}
	v := r.q.Peek()
	r.q.Remove()
	d, _ := v.(Datagram)
	return d, true
}

func (r *recvQueue) Len() int { return r.q.Length() }

// Cap reports -1: the underlying queue grows without a fixed bound.
func (r *recvQueue) Cap() int { return -1 }

var _ api.Ring[Datagram] = (*recvQueue)(nil)

type entry struct {
	port uint16
	recv *recvQueue
}

// Table is the direct-mapped UDP socket table.
type Table struct {
	entries [tableSize]*entry
}

// NewTable returns an empty socket table.
func NewTable() *Table { return &Table{} }

// Bind reserves port and returns its receive queue, or ErrBindConflict
// if the port is already bound.
func (t *Table) Bind(port uint16) (api.Ring[Datagram], error) {
	idx, err := t.index(port)
	if err != nil {
		return nil, err
	}
	if t.entries[idx] != nil {
		return nil, ErrBindConflict
	}
	e := &entry{port: port, recv: newRecvQueue()}
	t.entries[idx] = e
	return e.recv, nil
}

// Close releases port and returns every datagram still in its receive
// queue, so the caller can return their buffers to the pool.
func (t *Table) Close(port uint16) []Datagram {
	idx, err := t.index(port)
	if err != nil {
		return nil
	}
	e := t.entries[idx]
	if e == nil {
		return nil
	}
	t.entries[idx] = nil
	var drained []Datagram
	for {
		d, ok := e.recv.Dequeue()
		if !ok {
			break
		}
		drained = append(drained, d)
	}
	return drained
}

// Lookup returns the receive queue bound to port, if any.
func (t *Table) Lookup(port uint16) (api.Ring[Datagram], bool) {
	idx, err := t.index(port)
	if err != nil {
		return nil, false
	}
	e := t.entries[idx]
	if e == nil {
		return nil, false
	}
	return e.recv, true
}

func (t *Table) index(port uint16) (int, error) {
	if port < PortLo {
		return 0, fmt.Errorf("socket: port %d below %d", port, PortLo)
	}
	idx := int(port) - PortLo
	if idx >= len(t.entries) {
		return 0, fmt.Errorf("socket: port %d out of range", port)
	}
	return idx, nil
}
