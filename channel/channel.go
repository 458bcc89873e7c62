// Package channel implements the inter-process value queue that connects
// Intcode processes together: a buffered, introspectable,
// single-producer/single-consumer FIFO of int64 values, with a blocking or
// polling receive policy fixed at construction.
//
// The buffer is the payload carrier; an internal notifier channel of
// capacity notifierCapacity is used purely as a signal, separating storage
// (the buffer, a plain slice) from synchronization (the notifier, a native
// Go channel used only for its select/close semantics).
package channel

import (
	"errors"
	"sync"
)

// notifierCapacity is the minimum notifier queue depth: at least this many
// sends can outrun the receiver before Send starts blocking.
const notifierCapacity = 32

// ErrClosed is returned by Sender.Send once all Senders have been
// dropped. Receiver.Recv reports the same condition as StatusClosed.
var ErrClosed = errors.New("channel: closed")

// Status distinguishes the three outcomes of a Receiver.Recv call.
type Status int

const (
	// StatusOK indicates Recv returned a genuine value.
	StatusOK Status = iota
	// StatusClosed indicates the channel is closed and empty.
	StatusClosed
	// StatusEmpty indicates a polling-mode Recv found nothing pending.
	StatusEmpty
)

// core is the shared state behind one Channel: the FIFO buffer and the
// notifier. A single mutex guards the buffer; it is held only across one
// push, pop, or snapshot copy, never across a suspension point.
type core struct {
	mu     sync.Mutex
	buffer []int64

	notify chan struct{} // capacity notifierCapacity; one token per pending value

	blocking bool // the Receiver's fixed policy, chosen at construction

	closeOnce sync.Once
	senders   int32
	sendersMu sync.Mutex
}

// Handle exposes a read-only snapshot of a Channel's buffer, for tooling.
type Handle struct {
	c *core
}

// Sender is the write endpoint of a Channel. Cloning a Sender (via Clone)
// gives several Senders feeding one Receiver.
type Sender struct {
	c *core
}

// Receiver is the read endpoint of a Channel, with the blocking policy
// fixed at construction time.
type Receiver struct {
	c *core
}

// New returns a Channel's observable Handle together with its one Sender
// and one Receiver. blockOnRecv selects the Receiver's policy: true for a
// Recv that suspends until a value or closure, false for a Recv that
// polls and returns StatusEmpty immediately when nothing is pending.
func New(blockOnRecv bool) (*Handle, Sender, Receiver) {
	c := &core{
		notify:   make(chan struct{}, notifierCapacity),
		blocking: blockOnRecv,
		senders:  1,
	}
	return &Handle{c: c}, Sender{c: c}, Receiver{c: c}
}

// NewPipe is a convenience wrapper for tests and simple drivers that just
// need a blocking input/output pair without wiring a full orchestrator
// topology.
func NewPipe() (Sender, Receiver) {
	_, snd, rcv := New(true)
	return snd, rcv
}

// Clone returns a second Sender over the same Channel, incrementing the
// live-sender count so the Channel is not considered closed until every
// clone is also dropped. This allows a fan-in topology: several Senders
// feeding one Receiver.
func (s Sender) Clone() Sender {
	s.c.sendersMu.Lock()
	s.c.senders++
	s.c.sendersMu.Unlock()
	return Sender{c: s.c}
}

// Drop releases this Sender. Once every Sender obtained from New/Clone has
// been dropped, the Channel is closed: a blocking Recv with nothing
// pending returns StatusClosed.
func (s Sender) Drop() {
	s.c.sendersMu.Lock()
	s.c.senders--
	remaining := s.c.senders
	s.c.sendersMu.Unlock()

	if remaining <= 0 {
		s.c.closeOnce.Do(func() { close(s.c.notify) })
	}
}

// Send appends v to the buffer and enqueues one notification. It returns
// ErrClosed if the notifier has already been closed (all senders
// dropped) — sending past closure is a caller error, not a normal path,
// but the core never panics on it.
func (s Sender) Send(v int64) (err error) {
	s.c.mu.Lock()
	s.c.buffer = append(s.c.buffer, v)
	s.c.mu.Unlock()

	defer func() {
		// A send racing a concurrent close can attempt to write to a
		// closed notifier; surface that as ErrClosed rather than a
		// panic, matching recv's own closed-channel handling.
		if recover() != nil {
			err = ErrClosed
		}
	}()
	s.c.notify <- struct{}{}
	return nil
}

// Recv removes and returns the head of the buffer, honoring the
// Receiver's fixed blocking policy.
func (r Receiver) Recv() (int64, Status) {
	if r.c.blocking {
		_, ok := <-r.c.notify
		if !ok {
			return r.takeIfAny()
		}
		return r.pop()
	}

	select {
	case _, ok := <-r.c.notify:
		if !ok {
			return r.takeIfAny()
		}
		return r.pop()
	default:
		return 0, StatusEmpty
	}
}

// takeIfAny handles the race between a final buffered value and the
// notifier closing: if a value is still sitting in the buffer, it wins
// over reporting closed.
func (r Receiver) takeIfAny() (int64, Status) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if len(r.c.buffer) == 0 {
		return 0, StatusClosed
	}
	v := r.c.buffer[0]
	r.c.buffer = r.c.buffer[1:]
	return v, StatusOK
}

func (r Receiver) pop() (int64, Status) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if len(r.c.buffer) == 0 {
		// Notifier fired ahead of the buffer append on another
		// goroutine's Send; this cannot persist since Send enqueues
		// the notification only after the append completes under
		// the same mutex, but guard defensively rather than index
		// out of range.
		return 0, StatusEmpty
	}
	v := r.c.buffer[0]
	r.c.buffer = r.c.buffer[1:]
	return v, StatusOK
}

// Snapshot returns a copy of the buffer's current contents without
// disturbing it.
func (h *Handle) Snapshot() []int64 {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	out := make([]int64, len(h.c.buffer))
	copy(out, h.c.buffer)
	return out
}
