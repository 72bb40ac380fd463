package chanbench

import (
	"context"
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Pool is a fixed set of core-pinned workers contending for items on
// one work channel and acknowledging each on one completion channel.
type Pool struct {
	opts    *Options
	reports []WorkerReport
	wg      sync.WaitGroup
}

// StartPool starts opts.Workers workers. Every worker receives its own
// clone of rx and ack; the caller keeps, and must eventually release,
// the handles it passed in.
func StartPool(ctx context.Context, opts *Options, rx *Receiver[WorkItem], ack *Sender[Token]) *Pool {
	p := &Pool{
		opts:    opts,
		reports: make([]WorkerReport, opts.Workers),
	}
	for id := range opts.Workers {
		core := opts.Cores[id]
		w := newWorker(id, core, opts, rx.Clone(), ack.Clone())
		lg.FromContext(ctx).Info("worker init",
			lg.Int("worker", id), lg.String("model", opts.Model.String()))

		p.wg.Add(1)
		switch opts.Model {
		case Cooperative:
			loop := NewEventLoop(core, opts.Binder)
			loop.Spawn(func(ctx context.Context) {
				p.reports[id] = w.run(ctx)
			})
			loop.Start(ctx)
			go func() {
				defer p.wg.Done()
				if err := loop.Wait(); err != nil {
					p.abort(ctx, w, err)
					return
				}
				p.reportFatal(ctx, p.reports[id].Err)
			}()
		default:
			go func() {
				defer p.wg.Done()
				if err := pinThread(opts.Binder, core); err != nil {
					p.abort(ctx, w, err)
					return
				}
				p.reports[id] = w.run(ctx)
				p.reportFatal(ctx, p.reports[id].Err)
			}()
		}
	}
	return p
}

// abort records a worker that never entered its loop.
func (p *Pool) abort(ctx context.Context, w *worker, err error) {
	w.release()
	p.reports[w.id] = WorkerReport{ID: w.id, Core: w.core, Err: err}
	p.reportFatal(ctx, err)
}

// Join waits for every worker to exit and returns their reports,
// indexed by worker id.
func (p *Pool) Join() []WorkerReport {
	p.wg.Wait()
	return p.reports
}
