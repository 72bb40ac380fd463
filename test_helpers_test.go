package chanbench_test

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	cb "github.com/azargarov/chanbench"
)

var models = []cb.Model{
	cb.Blocking,
	cb.Cooperative,
}

// fatalRecorder collects errors handed to Options.OnFatal.
type fatalRecorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *fatalRecorder) record(_ context.Context, err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *fatalRecorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func newTestOptions(t *testing.T, model cb.Model, workers, capacity, items int) cb.Options {
	t.Helper()
	return cb.Options{
		Model:         model,
		Items:         items,
		Workers:       workers,
		Capacity:      capacity,
		Binder:        cb.NoopBinder{},
		ProgressEvery: -1,
		OnFatal: func(_ context.Context, err error) {
			t.Errorf("unexpected fatal error: %v", err)
		},
	}
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

// within runs fn and fails the test if it does not return in time.
func within(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("operation did not return in time")
	}
}

func getenvInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
