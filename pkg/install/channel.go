// SPDX-License-Identifier: Apache-2.0
package install

import (
	"slices"
	"sync"
)

// Sender is the producing end of an event stream. Send never blocks and
// never fails; events sent to a detached consumer are dropped.
type Sender interface {
	Send(Event)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(Event)

func (f SenderFunc) Send(e Event) { f(e) }

// Channel is an unbounded FIFO queue of events with one producer and one
// consumer. The consumer polls it with Drain or TryRecv and never waits.
type Channel struct {
	mu     sync.Mutex
	buf    []Event
	closed bool
}

func NewChannel() *Channel {
	return &Channel{}
}

// Send appends e. After Close it is a no-op.
func (c *Channel) Send(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.buf = append(c.buf, e)
}

// TryRecv removes and returns the oldest event, if any.
func (c *Channel) TryRecv() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.buf) == 0 {
		return nil, false
	}
	e := c.buf[0]
	c.buf[0] = nil
	c.buf = c.buf[1:]
	return e, true
}

// Drain removes and returns every queued event in emission order.
func (c *Channel) Drain() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.buf
	c.buf = nil
	return out
}

// Close detaches the consumer: queued events are discarded and later sends
// are ignored. Closing twice is harmless.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.buf = nil
}

func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Len is the number of queued events.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

// Collector records every event it is sent. It is the simplest consumer and
// what the headless mode and tests use.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) Send(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of everything sent so far.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

var (
	_ Sender = (*Channel)(nil)
	_ Sender = (*Collector)(nil)
	_ Sender = SenderFunc(nil)
)
