// Command chanbench runs the channel contention benchmark once and
// prints a summary.
//
// Usage:
//
//	chanbench -model blocking -items 100000000 -workers 4
//	chanbench -model cooperative -workers 3 -capacity 1024
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	lg "github.com/Andrej220/go-utils/zlog"
	cb "github.com/azargarov/chanbench"
)

func main() {
	model := flag.String("model", "blocking", "worker model: blocking or cooperative")
	items := flag.Int("items", cb.DefaultItems, "number of work items")
	workers := flag.Int("workers", 0, "number of workers (default GOMAXPROCS-1)")
	capacity := flag.Int("capacity", 0, "work channel capacity (default: items)")
	completion := flag.Int("completion-capacity", 0, "completion channel capacity (default: capacity)")
	driverCore := flag.Int("driver-core", 0, "core reserved for the driver (default: workers)")
	progress := flag.Int("progress", cb.DefaultProgressEvery, "log progress every N solved items, negative disables")
	noPin := flag.Bool("no-pin", false, "do not pin threads to cores")
	flag.Parse()

	m, err := cb.ParseModel(*model)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	opts := cb.Options{
		Model:              m,
		Items:              *items,
		Workers:            *workers,
		Capacity:           *capacity,
		CompletionCapacity: *completion,
		DriverCore:         *driverCore,
		ProgressEvery:      *progress,
	}
	if *noPin {
		opts.Binder = cb.NoopBinder{}
	}

	bench, err := cb.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	res, err := bench.Run(ctx)
	if err != nil {
		lg.FromContext(ctx).Error("run failed", lg.Any("error", err))
		os.Exit(1)
	}

	fmt.Printf("model=%s items=%d elapsed=%s throughput=%.0f items/s\n",
		res.Model, res.Items, res.Elapsed, res.Throughput())
	for _, w := range res.Workers {
		fmt.Printf("  worker %d core %d solved %d\n", w.ID, w.Core, w.Solved)
	}
}
