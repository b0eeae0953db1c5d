package variational

import (
	"fmt"

	"github.com/notargets/goform/geometry"
	"gonum.org/v1/gonum/mat"
)

// Boolean expressions are scalars valued 1 (true) or 0 (false), so they multiply other
// expressions as indicator functions.

func boolValue(b bool) *mat.Dense {
	if b {
		return scalarValue(1)
	}
	return scalarValue(0)
}

// IsTrue evaluates a boolean expression
func IsTrue(f Function, p *geometry.Point) bool {
	return ScalarAt(f, p) != 0
}

type BooleanFunc struct {
	trace
	fn func(p *geometry.Point) bool
}

func NewBooleanFunc(fn func(p *geometry.Point) bool) *BooleanFunc { return &BooleanFunc{fn: fn} }

func (f *BooleanFunc) RangeShape() RangeShape             { return ScalarShape() }
func (f *BooleanFunc) Value(p *geometry.Point) *mat.Dense { return boolValue(f.fn(p)) }
func (f *BooleanFunc) Copy() Function                     { return &BooleanFunc{trace: f.copyTrace(), fn: f.fn} }

type comparisonOp uint8

const (
	opLT comparisonOp = iota
	opGT
	opLEQ
	opGEQ
	opAnd
	opOr
)

func (op comparisonOp) String() string {
	names := [...]string{"LT", "GT", "LEQ", "GEQ", "And", "Or"}
	if int(op) >= len(names) {
		return fmt.Sprintf("comparisonOp(%d)", op)
	}
	return names[op]
}

// Comparison compares two scalar expressions or combines two boolean ones
type Comparison struct {
	binary
	op comparisonOp
}

func newComparison(op comparisonOp, a, b Function) *Comparison {
	assertType(op.String(), a.RangeShape(), Scalar)
	assertType(op.String(), b.RangeShape(), Scalar)
	return &Comparison{binary: binary{a: a.Copy(), b: b.Copy()}, op: op}
}

func LT(a, b Function) *Comparison  { return newComparison(opLT, a, b) }
func GT(a, b Function) *Comparison  { return newComparison(opGT, a, b) }
func LEQ(a, b Function) *Comparison { return newComparison(opLEQ, a, b) }
func GEQ(a, b Function) *Comparison { return newComparison(opGEQ, a, b) }
func And(a, b Function) *Comparison { return newComparison(opAnd, a, b) }
func Or(a, b Function) *Comparison  { return newComparison(opOr, a, b) }

func (n *Comparison) RangeShape() RangeShape { return ScalarShape() }
func (n *Comparison) Value(p *geometry.Point) *mat.Dense {
	a, b := n.a.Value(p).At(0, 0), n.b.Value(p).At(0, 0)
	switch n.op {
	case opLT:
		return boolValue(a < b)
	case opGT:
		return boolValue(a > b)
	case opLEQ:
		return boolValue(a <= b)
	case opGEQ:
		return boolValue(a >= b)
	case opAnd:
		return boolValue(a != 0 && b != 0)
	}
	return boolValue(a != 0 || b != 0)
}
func (n *Comparison) Copy() Function { return &Comparison{binary: n.copyBinary(), op: n.op} }
