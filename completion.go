package chanbench

import (
	"context"
	"errors"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Token acknowledges one finished work item.
type Token = struct{}

// Barrier waits until an exact number of completion tokens arrived.
//
// Draining runs on its own goroutine so that workers never stall on a
// full completion channel while the driver is still sending.
type Barrier struct {
	want     int
	received int
	err      error
	done     chan struct{}
}

// StartBarrier starts draining want tokens from rx and takes ownership
// of rx. There is no timeout: if tokens stop arriving while a sender is
// still alive, Wait blocks forever.
func StartBarrier(ctx context.Context, rx *Receiver[Token], want int) *Barrier {
	b := &Barrier{want: want, done: make(chan struct{})}
	go b.drain(ctx, rx)
	return b
}

func (b *Barrier) drain(ctx context.Context, rx *Receiver[Token]) {
	defer close(b.done)
	defer rx.Close()
	for b.received < b.want {
		if _, err := rx.Recv(); err != nil {
			if errors.Is(err, ErrClosed) {
				lg.FromContext(ctx).Error("completion channel closed early",
					lg.Int("received", b.received), lg.Int("want", b.want))
			}
			b.err = &ChannelError{Op: "receive completion", Err: err}
			return
		}
		b.received++
	}
}

// Wait blocks until all tokens arrived and returns how many did.
func (b *Barrier) Wait() (int, error) {
	<-b.done
	return b.received, b.err
}
