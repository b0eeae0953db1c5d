package variational

import (
	"fmt"
	"math"

	"github.com/notargets/goform/geometry"
	"gonum.org/v1/gonum/mat"
)

type unary struct {
	trace
	f Function
}

func (n *unary) Operand() Function { return n.f }

func (n *unary) SetTraceDomain(attrs geometry.AttributeSet) {
	n.trace.SetTraceDomain(attrs)
	n.f.SetTraceDomain(attrs)
}

func (n *unary) copyUnary() unary { return unary{n.copyTrace(), n.f.Copy()} }

type binary struct {
	trace
	a, b Function
}

func (n *binary) Left() Function  { return n.a }
func (n *binary) Right() Function { return n.b }

func (n *binary) SetTraceDomain(attrs geometry.AttributeSet) {
	n.trace.SetTraceDomain(attrs)
	n.a.SetTraceDomain(attrs)
	n.b.SetTraceDomain(attrs)
}

func (n *binary) copyBinary() binary { return binary{n.copyTrace(), n.a.Copy(), n.b.Copy()} }

// Sum is a + b for equally shaped operands
type Sum struct{ binary }

func NewSum(a, b Function) *Sum {
	assertSameShape("Sum", a.RangeShape(), b.RangeShape())
	return &Sum{binary{a: a.Copy(), b: b.Copy()}}
}

func (n *Sum) RangeShape() RangeShape { return n.a.RangeShape() }
func (n *Sum) Value(p *geometry.Point) *mat.Dense {
	v := n.a.Value(p)
	v.Add(v, n.b.Value(p))
	return v
}
func (n *Sum) Copy() Function { return &Sum{n.copyBinary()} }

// Minus is a - b for equally shaped operands
type Minus struct{ binary }

func NewMinus(a, b Function) *Minus {
	assertSameShape("Minus", a.RangeShape(), b.RangeShape())
	return &Minus{binary{a: a.Copy(), b: b.Copy()}}
}

func (n *Minus) RangeShape() RangeShape { return n.a.RangeShape() }
func (n *Minus) Value(p *geometry.Point) *mat.Dense {
	v := n.a.Value(p)
	v.Sub(v, n.b.Value(p))
	return v
}
func (n *Minus) Copy() Function { return &Minus{n.copyBinary()} }

type UnaryMinus struct{ unary }

func NewUnaryMinus(f Function) *UnaryMinus { return &UnaryMinus{unary{f: f.Copy()}} }

func (n *UnaryMinus) RangeShape() RangeShape { return n.f.RangeShape() }
func (n *UnaryMinus) Value(p *geometry.Point) *mat.Dense {
	v := n.f.Value(p)
	v.Scale(-1, v)
	return v
}
func (n *UnaryMinus) Copy() Function { return &UnaryMinus{n.copyUnary()} }

// Mult scales when either operand is a scalar, otherwise it is the matrix product
type Mult struct{ binary }

func NewMult(a, b Function) *Mult {
	productShape("Mult", a.RangeShape(), b.RangeShape())
	return &Mult{binary{a: a.Copy(), b: b.Copy()}}
}

func (n *Mult) RangeShape() RangeShape {
	return productShape("Mult", n.a.RangeShape(), n.b.RangeShape())
}
func (n *Mult) Value(p *geometry.Point) *mat.Dense {
	return product(n.a.RangeShape(), n.b.RangeShape(), n.a.Value(p), n.b.Value(p))
}
func (n *Mult) Copy() Function { return &Mult{n.copyBinary()} }

// Division divides any expression by a scalar one
type Division struct{ binary }

func NewDivision(a, b Function) *Division {
	assertType("Division", b.RangeShape(), Scalar)
	return &Division{binary{a: a.Copy(), b: b.Copy()}}
}

func (n *Division) RangeShape() RangeShape { return n.a.RangeShape() }
func (n *Division) Value(p *geometry.Point) *mat.Dense {
	v := n.a.Value(p)
	v.Scale(1/n.b.Value(p).At(0, 0), v)
	return v
}
func (n *Division) Copy() Function { return &Division{n.copyBinary()} }

// Dot is the Frobenius inner product of two equally shaped operands
type Dot struct{ binary }

func NewDot(a, b Function) *Dot {
	assertSameShape("Dot", a.RangeShape(), b.RangeShape())
	return &Dot{binary{a: a.Copy(), b: b.Copy()}}
}

func (n *Dot) RangeShape() RangeShape { return ScalarShape() }

// OperandShape is the common shape of both operands
func (n *Dot) OperandShape() RangeShape { return n.a.RangeShape() }
func (n *Dot) Value(p *geometry.Point) *mat.Dense {
	return scalarValue(frobenius(n.a.Value(p), n.b.Value(p)))
}
func (n *Dot) Copy() Function { return &Dot{n.copyBinary()} }

type Transpose struct{ unary }

func NewTranspose(f Function) *Transpose { return &Transpose{unary{f: f.Copy()}} }

func (n *Transpose) RangeShape() RangeShape { return n.f.RangeShape().Transpose() }
func (n *Transpose) Value(p *geometry.Point) *mat.Dense {
	return mat.DenseCopyOf(n.f.Value(p).T())
}
func (n *Transpose) Copy() Function { return &Transpose{n.copyUnary()} }

// Component extracts entry (i, j) of a vector or matrix expression
type Component struct {
	unary
	i, j int
}

func NewComponent(f Function, i int) *Component {
	assertType("Component", f.RangeShape(), Vector)
	return NewMatrixComponent(f, i, 0)
}

func NewMatrixComponent(f Function, i, j int) *Component {
	s := f.RangeShape()
	if i < 0 || i >= s.Rows || j < 0 || j >= s.Cols {
		panic(fmt.Errorf("component (%d, %d) out of range for shape %v", i, j, s))
	}
	return &Component{unary: unary{f: f.Copy()}, i: i, j: j}
}

func (n *Component) RangeShape() RangeShape { return ScalarShape() }
func (n *Component) Value(p *geometry.Point) *mat.Dense {
	return scalarValue(n.f.Value(p).At(n.i, n.j))
}
func (n *Component) Copy() Function { return &Component{unary: n.copyUnary(), i: n.i, j: n.j} }

// Composition applies a real function to a scalar expression
type Composition struct {
	unary
	fn func(float64) float64
}

func NewComposition(fn func(float64) float64, f Function) *Composition {
	assertType("Composition", f.RangeShape(), Scalar)
	return &Composition{unary: unary{f: f.Copy()}, fn: fn}
}

func (n *Composition) RangeShape() RangeShape { return ScalarShape() }
func (n *Composition) Value(p *geometry.Point) *mat.Dense {
	return scalarValue(n.fn(n.f.Value(p).At(0, 0)))
}
func (n *Composition) Copy() Function { return &Composition{unary: n.copyUnary(), fn: n.fn} }

type Pow struct {
	unary
	exponent float64
}

func NewPow(f Function, exponent float64) *Pow {
	assertType("Pow", f.RangeShape(), Scalar)
	return &Pow{unary: unary{f: f.Copy()}, exponent: exponent}
}

func (n *Pow) RangeShape() RangeShape { return ScalarShape() }
func (n *Pow) Value(p *geometry.Point) *mat.Dense {
	return scalarValue(math.Pow(n.f.Value(p).At(0, 0), n.exponent))
}
func (n *Pow) Copy() Function { return &Pow{unary: n.copyUnary(), exponent: n.exponent} }

type Min struct{ binary }

func NewMin(a, b Function) *Min {
	assertType("Min", a.RangeShape(), Scalar)
	assertType("Min", b.RangeShape(), Scalar)
	return &Min{binary{a: a.Copy(), b: b.Copy()}}
}

func (n *Min) RangeShape() RangeShape { return ScalarShape() }
func (n *Min) Value(p *geometry.Point) *mat.Dense {
	return scalarValue(math.Min(n.a.Value(p).At(0, 0), n.b.Value(p).At(0, 0)))
}
func (n *Min) Copy() Function { return &Min{n.copyBinary()} }

type Max struct{ binary }

func NewMax(a, b Function) *Max {
	assertType("Max", a.RangeShape(), Scalar)
	assertType("Max", b.RangeShape(), Scalar)
	return &Max{binary{a: a.Copy(), b: b.Copy()}}
}

func (n *Max) RangeShape() RangeShape { return ScalarShape() }
func (n *Max) Value(p *geometry.Point) *mat.Dense {
	return scalarValue(math.Max(n.a.Value(p).At(0, 0), n.b.Value(p).At(0, 0)))
}
func (n *Max) Copy() Function { return &Max{n.copyBinary()} }

// Trace is the trace of a square matrix expression
type Trace struct{ unary }

func NewTrace(f Function) *Trace {
	if s := f.RangeShape(); s.Rows != s.Cols {
		panic(fmt.Errorf("Trace: expected a square operand, got range shape %v", s))
	}
	return &Trace{unary{f: f.Copy()}}
}

func (n *Trace) RangeShape() RangeShape { return ScalarShape() }
func (n *Trace) Value(p *geometry.Point) *mat.Dense {
	return scalarValue(mat.Trace(n.f.Value(p)))
}
func (n *Trace) Copy() Function { return &Trace{n.copyUnary()} }

// Frobenius is the Frobenius norm of any expression
type Frobenius struct{ unary }

func NewFrobenius(f Function) *Frobenius { return &Frobenius{unary{f: f.Copy()}} }

func (n *Frobenius) RangeShape() RangeShape { return ScalarShape() }
func (n *Frobenius) Value(p *geometry.Point) *mat.Dense {
	return scalarValue(mat.Norm(n.f.Value(p), 2))
}
func (n *Frobenius) Copy() Function { return &Frobenius{n.copyUnary()} }
