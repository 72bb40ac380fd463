package chanbench

import (
	"context"
	"errors"

	lg "github.com/Andrej220/go-utils/zlog"
)

// WorkerReport is what a worker hands back when it is joined.
type WorkerReport struct {
	ID     int
	Core   int
	Solved uint64
	Err    error
}

// worker is the state of one consumer. It is owned by the worker's
// thread; nothing in it is shared.
type worker struct {
	id       int
	core     int
	progress uint64

	wait    WaitStrategy
	compute func(WorkItem) (Outcome, error)

	rx  *Receiver[WorkItem]
	ack *Sender[Token]

	solved uint64
}

func newWorker(id, core int, opts *Options, rx *Receiver[WorkItem], ack *Sender[Token]) *worker {
	w := &worker{
		id:      id,
		core:    core,
		wait:    opts.Model.newWait(opts.Park),
		compute: WorkItem.Compute,
		rx:      rx,
		ack:     ack,
	}
	if opts.ProgressEvery > 0 {
		w.progress = uint64(opts.ProgressEvery)
	}
	return w
}

// run consumes items until the work channel is closed and drained.
// It must be called on the worker's already pinned thread. Handles are
// released on return, whatever the outcome.
func (w *worker) run(ctx context.Context) WorkerReport {
	defer w.release()
	logger := lg.FromContext(ctx).With(lg.Int("worker", w.id), lg.Int("core", w.core))
	logger.Info("worker bound")
	logger.Info("worker entering main loop")

	report := WorkerReport{ID: w.id, Core: w.core}
	for {
		item, err := w.wait.Recv(w.rx)
		if errors.Is(err, ErrClosed) {
			break
		}
		if err != nil {
			report.Err = &ChannelError{Op: "receive work", Err: err}
			break
		}
		if err := w.process(item); err != nil {
			report.Err = err
			break
		}
		if w.progress > 0 && w.solved%w.progress == 0 {
			logger.Info("worker progress", lg.Any("solved", w.solved))
		}
		if err := w.wait.Ack(w.ack); err != nil {
			report.Err = &ChannelError{Op: "send completion", Err: err}
			break
		}
	}
	report.Solved = w.solved

	if report.Err != nil {
		logger.Error("worker failed", lg.Any("solved", w.solved), lg.Any("error", report.Err))
		return report
	}
	logger.Info("worker complete", lg.Any("solved", w.solved))
	return report
}

// process computes, verifies and counts one item.
func (w *worker) process(item WorkItem) error {
	got, err := w.compute(item)
	if err != nil {
		return &VerificationError{Item: item, Got: got, Err: err}
	}
	if err := item.Verify(got); err != nil {
		return err
	}
	w.solved++
	return nil
}

func (w *worker) release() {
	w.rx.Close()
	w.ack.Close()
}
