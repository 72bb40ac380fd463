package chanbench

import (
	"context"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"go.uber.org/multierr"
)

// Bench drives one benchmark configuration. A Bench may be run
// several times; each run builds fresh channels and workers.
type Bench struct {
	opts Options
}

// Result summarizes a completed run.
type Result struct {
	Model     Model
	Items     int
	Completed int
	Workers   []WorkerReport
	Elapsed   time.Duration
}

// Solved returns the sum of every worker's solved count.
func (r Result) Solved() uint64 {
	var n uint64
	for _, w := range r.Workers {
		n += w.Solved
	}
	return n
}

// Throughput returns items per second.
func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Items) / r.Elapsed.Seconds()
}

// New validates opts after filling defaults.
func New(opts Options) (*Bench, error) {
	opts.FillDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Bench{opts: opts}, nil
}

// Options returns the effective options.
func (b *Bench) Options() Options { return b.opts }

// Run executes the protocol: pin the driver, start the workers, send
// every item, release the producer handle, wait for one completion
// token per item and join the workers.
//
// Run locks the calling goroutine to its OS thread for the driver's
// core binding and leaves it locked. ctx only carries the logger. A
// run is never cancelled: if a worker stalls, Run blocks. Any error is
// handed to Options.OnFatal first; Run returns it only if that handler
// returns.
func (b *Bench) Run(ctx context.Context) (Result, error) {
	opts := &b.opts
	logger := lg.FromContext(ctx).With(lg.String("model", opts.Model.String()))
	res := Result{Model: opts.Model, Items: opts.Items}

	if err := pinThread(opts.Binder, opts.DriverCore); err != nil {
		b.reportFatal(ctx, err)
		return res, err
	}
	logger.Info("driver bound", lg.Int("core", opts.DriverCore))

	tx, rx, err := NewChan[WorkItem](opts.Capacity, opts.Metrics)
	if err != nil {
		return res, err
	}
	ackTx, ackRx, err := NewChan[Token](opts.CompletionCapacity, nil)
	if err != nil {
		return res, err
	}

	start := time.Now()
	pool := StartPool(ctx, opts, rx, ackTx)
	rx.Close()
	ackTx.Close()
	barrier := StartBarrier(ctx, ackRx, opts.Items)

	logger.Info("driver sending jobs", lg.Int("items", opts.Items), lg.Int("capacity", opts.Capacity))
	var sendErr error
	for i := range uint64(opts.Items) {
		if err := tx.Send(Generate(i)); err != nil {
			sendErr = &ChannelError{Op: "send work", Err: err}
			b.reportFatal(ctx, sendErr)
			break
		}
	}
	tx.Close()
	logger.Info("driver released producer")

	logger.Info("driver awaiting completions")
	completed, barrierErr := barrier.Wait()
	res.Completed = completed
	if barrierErr == nil {
		logger.Info("driver received all completions", lg.Int("completed", completed))
	} else {
		b.reportFatal(ctx, barrierErr)
	}

	res.Workers = pool.Join()
	res.Elapsed = time.Since(start)
	logger.Info("driver joined all workers",
		lg.String("elapsed", res.Elapsed.String()),
		lg.Any("items_per_sec", res.Throughput()))

	err = multierr.Combine(sendErr, barrierErr)
	for _, w := range res.Workers {
		err = multierr.Append(err, w.Err)
	}
	return res, err
}
