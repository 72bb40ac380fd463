package chanbench

import (
	"errors"
	"fmt"
)

var (
	// ErrBind is the kind of every BindError.
	ErrBind = errors.New("chanbench: cpu binding failed")

	// ErrChannel is the kind of every ChannelError.
	ErrChannel = errors.New("chanbench: channel protocol violation")

	// ErrVerification is the kind of every VerificationError.
	ErrVerification = errors.New("chanbench: outcome verification failed")

	// ErrDivideByZero is returned for a Div item whose divisor is zero.
	ErrDivideByZero = errors.New("chanbench: division by zero")

	// ErrClosed is returned by a receive once every sender has been
	// released and the buffer is drained.
	ErrClosed = errors.New("chan: closed and empty")

	// ErrDisconnected is returned by a send once every receiver has
	// been released.
	ErrDisconnected = errors.New("chan: no receivers")

	// ErrFull is returned by TrySend when the channel is at capacity.
	ErrFull = errors.New("chan: full")

	// ErrEmpty is returned by TryRecv when nothing is buffered yet.
	ErrEmpty = errors.New("chan: empty")

	// ErrReleased is returned when a released handle is used.
	ErrReleased = errors.New("chan: handle released")
)

// BindError reports that a thread could not be pinned to its core.
type BindError struct {
	Core int
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("chanbench: bind to core %d: %v", e.Core, e.Err)
}

func (e *BindError) Unwrap() []error { return []error{ErrBind, e.Err} }

// ChannelError reports a send or receive that failed because the
// required peer vanished unexpectedly.
type ChannelError struct {
	Op  string
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("chanbench: %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() []error { return []error{ErrChannel, e.Err} }

// VerificationError reports an outcome that does not match the
// recomputation of its item.
type VerificationError struct {
	Item WorkItem
	Got  Outcome
	Want Outcome
	Err  error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chanbench: verify %s: %v", e.Item, e.Err)
	}
	return fmt.Sprintf("chanbench: verify %s: got %d, want %d", e.Item, e.Got, e.Want)
}

func (e *VerificationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrVerification, e.Err}
	}
	return []error{ErrVerification}
}
