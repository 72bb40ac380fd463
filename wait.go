package chanbench

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	"go.uber.org/multierr"
)

// WaitStrategy is the only thing that differs between the two worker
// models: how a worker waits for the next item and how it waits for room
// to acknowledge one. The surrounding loop is shared.
type WaitStrategy interface {
	// Recv returns the next work item, or ErrClosed once the work
	// channel is closed and drained.
	Recv(rx *Receiver[WorkItem]) (WorkItem, error)

	// Ack delivers one completion token.
	Ack(tx *Sender[Token]) error
}

// BlockingWait parks the worker's OS thread inside the channel.
type BlockingWait struct{}

func (BlockingWait) Recv(rx *Receiver[WorkItem]) (WorkItem, error) { return rx.Recv() }

func (BlockingWait) Ack(tx *Sender[Token]) error { return tx.Send(Token{}) }

const (
	defaultParkSpins   = 64
	defaultParkInitial = 2 * time.Microsecond
	defaultParkMax     = time.Millisecond
)

// ParkPolicy describes how a cooperative task suspends while the
// channel it waits on is not ready. Zero values are replaced with
// defaults.
type ParkPolicy struct {
	// Spins is how many times the task yields the processor before
	// it starts sleeping.
	Spins int

	// Initial is the first sleep duration.
	Initial time.Duration

	// Max caps the sleep duration, and so bounds how late a parked
	// task notices a new item or closure.
	Max time.Duration
}

func (p *ParkPolicy) fillDefaults() {
	if p.Spins == 0 {
		p.Spins = defaultParkSpins
	}
	if p.Initial == 0 {
		p.Initial = defaultParkInitial
	}
	if p.Max == 0 {
		p.Max = defaultParkMax
	}
}

func (p ParkPolicy) validate() error {
	var err error
	if p.Spins < 0 {
		err = multierr.Append(err, fmt.Errorf("park spins must be >= 0, got %d", p.Spins))
	}
	if p.Initial <= 0 || p.Max <= 0 {
		err = multierr.Append(err, fmt.Errorf("park durations must be > 0, got %s..%s", p.Initial, p.Max))
	} else if p.Initial > p.Max {
		err = multierr.Append(err, fmt.Errorf("park initial %s exceeds max %s", p.Initial, p.Max))
	}
	return err
}

// CooperativeWait suspends a single cooperative task between
// non-blocking channel attempts. It never depends on a wakeup from
// another thread: a parked task re-polls after at most ParkPolicy.Max.
//
// A CooperativeWait belongs to one task and is not safe for concurrent use.
type CooperativeWait struct {
	park ParkPolicy
	idle int
	next func() time.Duration

	// Parks counts suspensions, for tests and diagnostics.
	Parks uint64
}

func NewCooperativeWait(park ParkPolicy) *CooperativeWait {
	park.fillDefaults()
	return &CooperativeWait{park: park}
}

func (w *CooperativeWait) Recv(rx *Receiver[WorkItem]) (WorkItem, error) {
	for {
		item, err := rx.TryRecv()
		if !errors.Is(err, ErrEmpty) {
			w.reset()
			return item, err
		}
		w.suspend()
	}
}

func (w *CooperativeWait) Ack(tx *Sender[Token]) error {
	for {
		err := tx.TrySend(Token{})
		if !errors.Is(err, ErrFull) {
			w.reset()
			return err
		}
		w.suspend()
	}
}

func (w *CooperativeWait) suspend() {
	w.Parks++
	if w.idle < w.park.Spins {
		w.idle++
		runtime.Gosched()
		return
	}
	if w.next == nil {
		bo := boff.New(w.park.Initial, w.park.Max, time.Now().UnixNano())
		w.next = bo.Next
	}
	time.Sleep(min(w.next(), w.park.Max))
}

func (w *CooperativeWait) reset() {
	w.idle = 0
	w.next = nil
}

func (m Model) newWait(park ParkPolicy) WaitStrategy {
	if m == Cooperative {
		return NewCooperativeWait(park)
	}
	return BlockingWait{}
}
