package variational

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RangeType is the algebraic kind of the value of an expression at a point
type RangeType uint8

const (
	Scalar RangeType = iota
	Vector
	Matrix
)

func (r RangeType) String() string {
	names := [...]string{"Scalar", "Vector", "Matrix"}
	if int(r) >= len(names) {
		return fmt.Sprintf("RangeType(%d)", r)
	}
	return names[r]
}

// RangeShape is the rows x cols shape of the value of an expression at a point. Scalars are
// 1x1 and vectors are columns.
type RangeShape struct {
	Rows, Cols int
}

func ScalarShape() RangeShape         { return RangeShape{1, 1} }
func VectorShape(n int) RangeShape    { return RangeShape{n, 1} }
func MatrixShape(r, c int) RangeShape { return RangeShape{r, c} }

func (s RangeShape) Type() RangeType {
	switch {
	case s.Rows == 1 && s.Cols == 1:
		return Scalar
	case s.Cols == 1:
		return Vector
	}
	return Matrix
}

func (s RangeShape) Transpose() RangeShape { return RangeShape{s.Cols, s.Rows} }

func (s RangeShape) String() string { return fmt.Sprintf("%dx%d", s.Rows, s.Cols) }

// RangeShapeMismatchError is the panic payload of expressions whose operands have
// incompatible shapes
type RangeShapeMismatchError struct {
	Op          string
	Left, Right RangeShape
}

func (e RangeShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: incompatible range shapes %v and %v", e.Op, e.Left, e.Right)
}

func assertSameShape(op string, a, b RangeShape) {
	if a != b {
		panic(RangeShapeMismatchError{Op: op, Left: a, Right: b})
	}
}

func assertType(op string, s RangeShape, t RangeType) {
	if s.Type() != t {
		panic(fmt.Errorf("%s: expected a %v operand, got range shape %v", op, t, s))
	}
}

func scalarValue(v float64) *mat.Dense {
	return mat.NewDense(1, 1, []float64{v})
}

// frobenius is the sum of the entrywise product of two equally shaped values
func frobenius(a, b mat.Matrix) (sum float64) {
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += a.At(i, j) * b.At(i, j)
		}
	}
	return
}

// product multiplies values whose shapes are given, scaling when either side is a scalar
func product(as, bs RangeShape, a, b *mat.Dense) (c *mat.Dense) {
	c = new(mat.Dense)
	switch {
	case as.Type() == Scalar:
		c.Scale(a.At(0, 0), b)
	case bs.Type() == Scalar:
		c.Scale(b.At(0, 0), a)
	default:
		c.Mul(a, b)
	}
	return
}

func productShape(op string, a, b RangeShape) RangeShape {
	switch {
	case a.Type() == Scalar:
		return b
	case b.Type() == Scalar:
		return a
	case a.Cols == b.Rows:
		return RangeShape{a.Rows, b.Cols}
	}
	panic(RangeShapeMismatchError{Op: op, Left: a, Right: b})
}
