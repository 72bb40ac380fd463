package chanbench_test

import (
	"context"
	"errors"
	"testing"
	"time"

	cb "github.com/azargarov/chanbench"
)

func TestEventLoop_RunsTasksInOrder(t *testing.T) {
	loop := cb.NewEventLoop(0, cb.NoopBinder{})

	var order []int
	for i := range 3 {
		loop.Spawn(func(context.Context) { order = append(order, i) })
	}
	loop.Start(context.Background())

	within(t, time.Second, func() {
		if err := loop.Wait(); err != nil {
			t.Errorf("wait: %v", err)
		}
	})
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("order = %v; want [0 1 2]", order)
	}
}

func TestEventLoop_BindFailure(t *testing.T) {
	boom := errors.New("boom")
	loop := cb.NewEventLoop(5, cb.BinderFunc(func(int) error { return boom }))

	ran := false
	loop.Spawn(func(context.Context) { ran = true })
	loop.Start(context.Background())

	err := loop.Wait()
	if !errors.Is(err, cb.ErrBind) || !errors.Is(err, boom) {
		t.Fatalf("expected bind error wrapping boom; got %v", err)
	}
	var berr *cb.BindError
	if !errors.As(err, &berr) || berr.Core != 5 {
		t.Fatalf("expected *BindError for core 5; got %v", err)
	}
	if ran {
		t.Fatal("task ran on an unpinned loop")
	}
}
