package chanbench

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// Chan is a bounded multi-producer multi-consumer FIFO queue.
//
// Producers and consumers hold reference-counted handles (Sender and
// Receiver). The channel closes for receivers when the last Sender is
// released and its buffer is drained; it disconnects for senders when
// the last Receiver is released.
//
// All synchronization is internal: one mutex protects the ring buffer
// and both reference counts, and two condition variables park blocked
// senders and receivers.
type Chan[T any] struct {
	mu       sync.Mutex
	notEmpty sync.Cond
	notFull  sync.Cond

	buf      *queue.Queue
	capacity int

	senders   int
	receivers int

	metrics MetricsPolicy
}

// Sender is a producer handle of a Chan.
type Sender[T any] struct {
	c        *Chan[T]
	released atomic.Bool
}

// Receiver is a consumer handle of a Chan.
type Receiver[T any] struct {
	c        *Chan[T]
	released atomic.Bool
}

// NewChan creates a channel holding at most capacity items and returns
// its first sender and receiver handles. A nil metrics disables metrics.
func NewChan[T any](capacity int, metrics MetricsPolicy) (*Sender[T], *Receiver[T], error) {
	if capacity < 1 {
		return nil, nil, fmt.Errorf("chan: capacity must be >= 1, got %d", capacity)
	}
	if metrics == nil {
		metrics = &NoopMetrics{}
	}
	c := &Chan[T]{
		buf:       queue.New(),
		capacity:  capacity,
		senders:   1,
		receivers: 1,
		metrics:   metrics,
	}
	c.notEmpty.L = &c.mu
	c.notFull.L = &c.mu
	return &Sender[T]{c: c}, &Receiver[T]{c: c}, nil
}

// Cap returns the fixed capacity.
func (c *Chan[T]) Cap() int { return c.capacity }

// Len returns the number of buffered items.
func (c *Chan[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Length()
}

func (c *Chan[T]) push(v T) {
	c.buf.Add(v)
	c.metrics.IncSent()
	c.notEmpty.Signal()
}

func (c *Chan[T]) pop() T {
	v := c.buf.Remove().(T)
	c.metrics.IncReceived()
	c.notFull.Signal()
	return v
}

//------------- Sender ---------------------------------------

// Chan returns the channel the handle belongs to.
func (s *Sender[T]) Chan() *Chan[T] { return s.c }

// Send enqueues v, blocking while the channel is full.
// It fails with ErrDisconnected once no receiver remains.
func (s *Sender[T]) Send(v T) error {
	if s.released.Load() {
		return ErrReleased
	}
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.receivers > 0 && c.buf.Length() >= c.capacity {
		c.metrics.IncSendBlocked()
		for c.receivers > 0 && c.buf.Length() >= c.capacity {
			c.notFull.Wait()
		}
	}
	if c.receivers == 0 {
		return ErrDisconnected
	}
	c.push(v)
	return nil
}

// TrySend enqueues v without blocking.
func (s *Sender[T]) TrySend(v T) error {
	if s.released.Load() {
		return ErrReleased
	}
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.receivers == 0 {
		return ErrDisconnected
	}
	if c.buf.Length() >= c.capacity {
		return ErrFull
	}
	c.push(v)
	return nil
}

// Clone registers another producer reference.
func (s *Sender[T]) Clone() *Sender[T] {
	c := s.c
	c.mu.Lock()
	c.senders++
	c.mu.Unlock()
	return &Sender[T]{c: c}
}

// Close releases the producer reference. Releasing the last one wakes
// every blocked receiver so it can drain and observe closure.
// Close is idempotent.
func (s *Sender[T]) Close() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}
	c := s.c
	c.mu.Lock()
	c.senders--
	if c.senders == 0 {
		c.notEmpty.Broadcast()
	}
	c.mu.Unlock()
}

//------------- Receiver -------------------------------------

// Chan returns the channel the handle belongs to.
func (r *Receiver[T]) Chan() *Chan[T] { return r.c }

// Recv returns the next item, blocking while the channel is empty.
// Once every sender is released and the buffer is drained it returns
// ErrClosed immediately, on this and every later call.
func (r *Receiver[T]) Recv() (T, error) {
	var zero T
	if r.released.Load() {
		return zero, ErrReleased
	}
	c := r.c
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.buf.Length() == 0 {
		if c.senders == 0 {
			return zero, ErrClosed
		}
		c.notEmpty.Wait()
	}
	return c.pop(), nil
}

// TryRecv returns the next item without blocking.
func (r *Receiver[T]) TryRecv() (T, error) {
	var zero T
	if r.released.Load() {
		return zero, ErrReleased
	}
	c := r.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buf.Length() == 0 {
		if c.senders == 0 {
			return zero, ErrClosed
		}
		return zero, ErrEmpty
	}
	return c.pop(), nil
}

// Clone registers another consumer reference.
func (r *Receiver[T]) Clone() *Receiver[T] {
	c := r.c
	c.mu.Lock()
	c.receivers++
	c.mu.Unlock()
	return &Receiver[T]{c: c}
}

// Close releases the consumer reference. Releasing the last one wakes
// every blocked sender so it can fail with ErrDisconnected.
// Close is idempotent.
func (r *Receiver[T]) Close() {
	if !r.released.CompareAndSwap(false, true) {
		return
	}
	c := r.c
	c.mu.Lock()
	c.receivers--
	if c.receivers == 0 {
		c.notFull.Broadcast()
	}
	c.mu.Unlock()
}
