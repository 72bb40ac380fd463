// Package chanbench measures throughput and contention of a bounded
// many-producer many-consumer channel shared by CPU-pinned workers.
//
// Protocol
//
// A driver pinned to a reserved core generates a fixed workload of
// arithmetic work items and pushes them into one bounded work channel.
// A pool of workers, each pinned to its own core, contend for the
// items. Every worker computes the outcome of each item it receives,
// verifies it against an independent recomputation and acknowledges it
// with a token on a completion channel. The driver releases its
// producer handle after the last item, waits for exactly one token per
// item and joins the workers.
//
// Worker models
//
// Two models share the same worker loop and differ only in their
// WaitStrategy:
//
//   - Blocking: the worker's OS thread sleeps inside the channel
//     until an item, room or closure is available.
//   - Cooperative: the worker runs as the single task of an EventLoop
//     and suspends between non-blocking channel attempts, yielding
//     first and then sleeping with jittered exponential backoff.
//
// The cooperative task never waits for a wakeup from another thread,
// so a loop cannot stall on a notification that is never delivered.
//
// Channel
//
// Chan is a bounded FIFO with reference-counted Sender and Receiver
// handles. Releasing the last Sender closes the channel for receivers
// once the buffer is drained; releasing the last Receiver makes every
// send fail. Capacity may be smaller than the workload, in which case
// the driver's sends block until a worker frees room.
//
// Error handling
//
// Every failure is an invariant violation: a thread that cannot be
// pinned (BindError), a channel whose peer disappeared (ChannelError)
// or an outcome that does not re-verify (VerificationError). Errors
// are never retried. They go to Options.OnFatal, which by default logs
// them and terminates the process.
//
// CPU pinning
//
// On Linux, AffinityBinder restricts each locked OS thread to a single
// core. NoopBinder leaves affinity untouched and makes the pool usable
// on any platform and in tests.
package chanbench
