package chanbench

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/multierr"
)

// Model defines how a worker waits on the shared channels.
type Model int

const (
	// Blocking workers park their OS thread inside the channel.
	Blocking Model = iota

	// Cooperative workers run a single task inside a core-pinned
	// event loop and park with backoff between receive attempts.
	Cooperative
)

const (
	DefaultItems         = 100_000_000
	DefaultProgressEvery = 1_000_000
)

func (m Model) String() string {
	switch m {
	case Blocking:
		return "blocking"
	case Cooperative:
		return "cooperative"
	default:
		return "unknown"
	}
}

// ParseModel parses the String form of a Model.
func ParseModel(s string) (Model, error) {
	switch s {
	case "blocking", "sync":
		return Blocking, nil
	case "cooperative", "async":
		return Cooperative, nil
	default:
		return 0, fmt.Errorf("unknown model %q", s)
	}
}

// Options configure a benchmark run.
//
// Zero values are replaced with defaults in FillDefaults; a negative
// value is never replaced and fails Validate.
type Options struct {
	Model Model

	// Items is the number of work items the driver enqueues.
	// Zero is a valid, empty run.
	Items int

	// Workers is the number of consumers.
	Workers int

	// Capacity bounds the work channel. By default it holds the
	// whole workload, which removes backpressure.
	Capacity int

	// CompletionCapacity bounds the completion channel.
	// Defaults to Capacity.
	CompletionCapacity int

	// Cores assigns a core to every worker; DriverCore is the
	// core reserved for the driver. When Cores is nil, workers get
	// the first allowed cores (0..Workers-1 with a NoopBinder) and a
	// zero DriverCore becomes the next one.
	Cores      []int
	DriverCore int

	// Binder pins threads. Defaults to AffinityBinder.
	Binder Binder

	// ProgressEvery logs a progress line each time a worker has
	// solved a multiple of it. Zero selects DefaultProgressEvery,
	// a negative value disables progress lines.
	ProgressEvery int

	// Park tunes the cooperative model's idle backoff.
	Park ParkPolicy

	// Metrics observes the work channel. Defaults to NoopMetrics.
	Metrics MetricsPolicy

	// OnFatal receives every fatal error. The default logs the
	// error and exits the process.
	OnFatal func(ctx context.Context, err error)
}

func (o *Options) FillDefaults() {
	if o.Workers == 0 {
		o.Workers = max(runtime.GOMAXPROCS(0)-1, 1)
	}
	if o.Capacity == 0 {
		o.Capacity = max(o.Items, 1)
	}
	if o.CompletionCapacity == 0 {
		o.CompletionCapacity = o.Capacity
	}
	if o.Binder == nil {
		o.Binder = AffinityBinder{}
	}
	if o.Cores == nil && o.Workers > 0 {
		cm := DefaultCoreMap(o.Workers)
		if _, pinned := o.Binder.(AffinityBinder); pinned {
			cm = CoreMapFor(o.Workers, AvailableCPUs())
		}
		o.Cores = cm.Workers
		if o.DriverCore == 0 {
			o.DriverCore = cm.Driver
		}
	}
	if o.ProgressEvery == 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	o.Park.fillDefaults()
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	if o.OnFatal == nil {
		o.OnFatal = exitOnFatal
	}
}

// Validate reports every invalid field at once.
func (o *Options) Validate() error {
	var err error
	if o.Model != Blocking && o.Model != Cooperative {
		err = multierr.Append(err, fmt.Errorf("unknown model %d", o.Model))
	}
	if o.Items < 0 {
		err = multierr.Append(err, fmt.Errorf("items must be >= 0, got %d", o.Items))
	}
	if o.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("workers must be >= 1, got %d", o.Workers))
	}
	if o.Capacity < 1 {
		err = multierr.Append(err, fmt.Errorf("capacity must be >= 1, got %d", o.Capacity))
	}
	if o.CompletionCapacity < 1 {
		err = multierr.Append(err, fmt.Errorf("completion capacity must be >= 1, got %d", o.CompletionCapacity))
	}
	if len(o.Cores) != o.Workers {
		err = multierr.Append(err, fmt.Errorf("%d cores assigned to %d workers", len(o.Cores), o.Workers))
	}
	if o.DriverCore < 0 {
		err = multierr.Append(err, fmt.Errorf("driver core must be >= 0, got %d", o.DriverCore))
	}
	_, noop := o.Binder.(NoopBinder)
	seen := make(map[int]bool, len(o.Cores)+1)
	if !noop {
		seen[o.DriverCore] = true
	}
	for id, core := range o.Cores {
		if core < 0 {
			err = multierr.Append(err, fmt.Errorf("worker %d: core must be >= 0, got %d", id, core))
			continue
		}
		if noop {
			continue
		}
		if seen[core] {
			err = multierr.Append(err, fmt.Errorf("worker %d: core %d already assigned", id, core))
		}
		seen[core] = true
	}
	err = multierr.Append(err, o.Park.validate())
	return err
}
