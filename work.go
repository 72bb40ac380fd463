package chanbench

import (
	"fmt"
	"math/bits"
)

// Op is the operation tag of a WorkItem. The set is closed.
type Op uint8

const (
	Add Op = iota
	Sub
	Mul
	Div

	numOps = 4
)

func (op Op) String() string {
	switch op {
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mul"
	case Div:
		return "Div"
	default:
		return "Unknown"
	}
}

// Outcome is the result of applying a WorkItem's operation to its operands.
type Outcome uint64

// WorkItem is a self-describing unit of computation: an operation tag
// and two operands. It is a value type and cannot be changed after
// construction.
type WorkItem struct {
	op   Op
	a, b uint64
}

// NewWorkItem builds a WorkItem. A Div with a zero divisor and unknown
// operations are rejected.
func NewWorkItem(op Op, a, b uint64) (WorkItem, error) {
	if op >= numOps {
		return WorkItem{}, fmt.Errorf("chanbench: unknown op %d", op)
	}
	if op == Div && b == 0 {
		return WorkItem{}, ErrDivideByZero
	}
	return WorkItem{op: op, a: a, b: b}, nil
}

// Generate returns the i-th item of the benchmark workload:
// the operation cycles Add, Sub, Mul, Div by i mod 4 and the
// operands are (i, i/2). Div only occurs for i ≡ 3 (mod 4),
// so its divisor is never zero.
func Generate(i uint64) WorkItem {
	return WorkItem{op: Op(i % numOps), a: i, b: i / 2}
}

func (w WorkItem) Op() Op { return w.op }

func (w WorkItem) Operands() (uint64, uint64) { return w.a, w.b }

func (w WorkItem) String() string {
	return fmt.Sprintf("%s(%d, %d)", w.op, w.a, w.b)
}

// Compute applies the operation with wraparound arithmetic.
func (w WorkItem) Compute() (Outcome, error) {
	switch w.op {
	case Add:
		return Outcome(w.a + w.b), nil
	case Sub:
		return Outcome(w.a - w.b), nil
	case Mul:
		return Outcome(w.a * w.b), nil
	case Div:
		if w.b == 0 {
			return 0, ErrDivideByZero
		}
		return Outcome(w.a / w.b), nil
	default:
		return 0, fmt.Errorf("chanbench: unknown op %d", w.op)
	}
}

// Verify recomputes the operation through math/bits and reports a
// VerificationError if got differs.
func (w WorkItem) Verify(got Outcome) error {
	var want uint64
	switch w.op {
	case Add:
		want, _ = bits.Add64(w.a, w.b, 0)
	case Sub:
		want, _ = bits.Sub64(w.a, w.b, 0)
	case Mul:
		_, want = bits.Mul64(w.a, w.b)
	case Div:
		if w.b == 0 {
			return &VerificationError{Item: w, Got: got, Err: ErrDivideByZero}
		}
		want, _ = bits.Div64(0, w.a, w.b)
	default:
		return &VerificationError{Item: w, Got: got, Err: fmt.Errorf("unknown op %d", w.op)}
	}
	if Outcome(want) != got {
		return &VerificationError{Item: w, Got: got, Want: Outcome(want)}
	}
	return nil
}
