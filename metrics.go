package chanbench

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// MetricsPolicy defines hooks used by a channel to report
// send and receive activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncSent increments the delivered-to-buffer counter.
	IncSent()

	// IncReceived increments the taken-from-buffer counter.
	IncReceived()

	// IncSendBlocked records a send that found the channel full
	// and had to wait for a consumer to free capacity.
	IncSendBlocked()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	sent atomic.Uint64
	_    cpu.CacheLinePad

	received atomic.Uint64
	_        cpu.CacheLinePad

	sendBlocked atomic.Uint64
}

// Sent returns the number of items accepted by the channel.
func (m *AtomicMetrics) Sent() uint64 { return m.sent.Load() }

// Received returns the number of items handed to receivers.
func (m *AtomicMetrics) Received() uint64 { return m.received.Load() }

// SendBlocked returns how many sends had to wait for capacity.
func (m *AtomicMetrics) SendBlocked() uint64 { return m.sendBlocked.Load() }

func (m *AtomicMetrics) IncSent()        { m.sent.Add(1) }
func (m *AtomicMetrics) IncReceived()    { m.received.Add(1) }
func (m *AtomicMetrics) IncSendBlocked() { m.sendBlocked.Add(1) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSent()        {}
func (m *NoopMetrics) IncReceived()    {}
func (m *NoopMetrics) IncSendBlocked() {}
