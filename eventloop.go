package chanbench

import (
	"context"
	"runtime"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Task is a unit of work hosted by a pinned thread.
type Task func(ctx context.Context)

// pinThread locks the calling goroutine to its OS thread and binds
// that thread to core. The lock is never released: the thread exits
// together with the goroutine.
func pinThread(binder Binder, core int) error {
	runtime.LockOSThread()
	if err := binder.Bind(core); err != nil {
		return &BindError{Core: core, Err: err}
	}
	return nil
}

// EventLoop is a single-threaded cooperative runtime pinned to one core.
//
// Tasks spawned before Start run one after another on the loop's
// thread; nothing else ever runs there. With one task per loop, the
// loop only adds a suspension point at channel waits, which keeps it
// directly comparable to a plain blocking thread.
type EventLoop struct {
	core   int
	binder Binder
	tasks  []Task
	done   chan struct{}
	err    error
}

func NewEventLoop(core int, binder Binder) *EventLoop {
	if binder == nil {
		binder = NoopBinder{}
	}
	return &EventLoop{core: core, binder: binder, done: make(chan struct{})}
}

// Spawn queues a task. It must be called before Start.
func (l *EventLoop) Spawn(t Task) {
	l.tasks = append(l.tasks, t)
}

// Start runs the loop on a new pinned thread.
func (l *EventLoop) Start(ctx context.Context) {
	go l.run(ctx)
}

func (l *EventLoop) run(ctx context.Context) {
	defer close(l.done)
	if err := pinThread(l.binder, l.core); err != nil {
		l.err = err
		return
	}
	lg.FromContext(ctx).Info("event loop entered",
		lg.Int("core", l.core), lg.Int("tasks", len(l.tasks)))

	for len(l.tasks) > 0 {
		t := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		t(ctx)
	}
}

// Wait blocks until every task returned. It reports a BindError if the
// loop could not be pinned, in which case no task ran.
func (l *EventLoop) Wait() error {
	<-l.done
	return l.err
}
