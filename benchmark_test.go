package chanbench_test

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"testing"

	cb "github.com/azargarov/chanbench"
)

// BenchmarkRun measures a whole protocol run per iteration.
// WORKERS, CAPACITY and ITEMS override the defaults; PINNED=1 pins
// threads to cores.
func BenchmarkRun(b *testing.B) {
	workers := getenvInt("WORKERS", max(runtime.GOMAXPROCS(0)-1, 1))
	items := getenvInt("ITEMS", 100_000)
	capacity := getenvInt("CAPACITY", items)
	pinned := getenvInt("PINNED", 0) > 0

	for _, m := range models {
		b.Run(m.String(), func(b *testing.B) {
			opts := cb.Options{
				Model:         m,
				Items:         items,
				Workers:       workers,
				Capacity:      capacity,
				ProgressEvery: -1,
				OnFatal: func(_ context.Context, err error) {
					b.Errorf("fatal: %v", err)
				},
			}
			if !pinned {
				opts.Binder = cb.NoopBinder{}
			}
			bench, err := cb.New(opts)
			if err != nil {
				b.Fatalf("new bench: %v", err)
			}

			b.ResetTimer()
			var total float64
			for range b.N {
				res, err := bench.Run(context.Background())
				if err != nil {
					b.Fatalf("run: %v", err)
				}
				total += res.Throughput()
			}
			b.ReportMetric(math.Round(total/float64(b.N)/1e3), "kitems/s")
		})
	}
}

func BenchmarkChan_Contended(b *testing.B) {
	for _, consumers := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("consumers=%d", consumers), func(b *testing.B) {
			tx, rx, _ := cb.NewChan[cb.WorkItem](1024, nil)

			var wg sync.WaitGroup
			for range consumers {
				r := rx.Clone()
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer r.Close()
					for {
						if _, err := r.Recv(); err != nil {
							return
						}
					}
				}()
			}
			rx.Close()

			b.ReportAllocs()
			b.ResetTimer()
			for i := range uint64(b.N) {
				if err := tx.Send(cb.Generate(i)); err != nil {
					b.Fatalf("send: %v", err)
				}
			}
			tx.Close()
			wg.Wait()
		})
	}
}
