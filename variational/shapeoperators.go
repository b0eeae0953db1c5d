package variational

import (
	"fmt"

	"github.com/notargets/goform/geometry"
	"gonum.org/v1/gonum/mat"
)

func assertSameLeaf[S ShapeSpace](op string, a, b ShapeFunction[S]) {
	if a.Leaf().FiniteElementSpace() != b.Leaf().FiniteElementSpace() {
		panic(fmt.Errorf("%s: operands belong to different spaces %v and %v", op,
			a.Leaf().FiniteElementSpace(), b.Leaf().FiniteElementSpace()))
	}
}

// ShapeSum adds two shape functions of the same space
type ShapeSum[S ShapeSpace] struct {
	a, b ShapeFunction[S]
}

func NewShapeSum[S ShapeSpace](a, b ShapeFunction[S]) *ShapeSum[S] {
	assertSameShape("ShapeSum", a.RangeShape(), b.RangeShape())
	assertSameLeaf("ShapeSum", a, b)
	return &ShapeSum[S]{a: a.Copy(), b: b.Copy()}
}

func (n *ShapeSum[S]) RangeShape() RangeShape { return n.a.RangeShape() }
func (n *ShapeSum[S]) Leaf() *Argument[S]     { return n.a.Leaf() }
func (n *ShapeSum[S]) Order(s *geometry.Simplex) int {
	return max(n.a.Order(s), n.b.Order(s))
}
func (n *ShapeSum[S]) Basis(p *geometry.Point) *TensorBasis {
	ba, bb := n.a.Basis(p), n.b.Basis(p)
	for i := 0; i < ba.DOFs(); i++ {
		ba.At(i).Add(ba.At(i), bb.At(i))
	}
	return ba
}
func (n *ShapeSum[S]) SetTraceDomain(attrs geometry.AttributeSet) {
	n.a.SetTraceDomain(attrs)
	n.b.SetTraceDomain(attrs)
}
func (n *ShapeSum[S]) Copy() ShapeFunction[S] { return &ShapeSum[S]{a: n.a.Copy(), b: n.b.Copy()} }

type ShapeUnaryMinus[S ShapeSpace] struct {
	u ShapeFunction[S]
}

func NewShapeUnaryMinus[S ShapeSpace](u ShapeFunction[S]) *ShapeUnaryMinus[S] {
	return &ShapeUnaryMinus[S]{u: u.Copy()}
}

func (n *ShapeUnaryMinus[S]) RangeShape() RangeShape        { return n.u.RangeShape() }
func (n *ShapeUnaryMinus[S]) Leaf() *Argument[S]            { return n.u.Leaf() }
func (n *ShapeUnaryMinus[S]) Order(s *geometry.Simplex) int { return n.u.Order(s) }
func (n *ShapeUnaryMinus[S]) Basis(p *geometry.Point) *TensorBasis {
	b := n.u.Basis(p)
	for i := 0; i < b.DOFs(); i++ {
		b.At(i).Scale(-1, b.At(i))
	}
	return b
}
func (n *ShapeUnaryMinus[S]) SetTraceDomain(attrs geometry.AttributeSet) { n.u.SetTraceDomain(attrs) }
func (n *ShapeUnaryMinus[S]) Copy() ShapeFunction[S] {
	return &ShapeUnaryMinus[S]{u: n.u.Copy()}
}

// ShapeMult multiplies a shape function on the left by a coefficient, a scalar scaling or a
// matrix product
type ShapeMult[S ShapeSpace] struct {
	f Function
	u ShapeFunction[S]
}

func NewShapeMult[S ShapeSpace](f Function, u ShapeFunction[S]) *ShapeMult[S] {
	if f.RangeShape().Type() != Scalar && f.RangeShape().Cols != u.RangeShape().Rows {
		panic(RangeShapeMismatchError{Op: "ShapeMult", Left: f.RangeShape(), Right: u.RangeShape()})
	}
	return &ShapeMult[S]{f: f.Copy(), u: u.Copy()}
}

func (n *ShapeMult[S]) Coefficient() Function     { return n.f }
func (n *ShapeMult[S]) Operand() ShapeFunction[S] { return n.u }
func (n *ShapeMult[S]) RangeShape() RangeShape {
	if n.f.RangeShape().Type() == Scalar {
		return n.u.RangeShape()
	}
	return RangeShape{n.f.RangeShape().Rows, n.u.RangeShape().Cols}
}
func (n *ShapeMult[S]) Leaf() *Argument[S]            { return n.u.Leaf() }
func (n *ShapeMult[S]) Order(s *geometry.Simplex) int { return n.u.Order(s) }
func (n *ShapeMult[S]) Basis(p *geometry.Point) *TensorBasis {
	var (
		fv = n.f.Value(p)
		ub = n.u.Basis(p)
	)
	if n.f.RangeShape().Type() == Scalar {
		for i := 0; i < ub.DOFs(); i++ {
			ub.At(i).Scale(fv.At(0, 0), ub.At(i))
		}
		return ub
	}
	b := &TensorBasis{shape: n.RangeShape(), values: make([]*mat.Dense, ub.DOFs())}
	for i := range b.values {
		b.values[i] = new(mat.Dense)
		b.values[i].Mul(fv, ub.At(i))
	}
	return b
}
func (n *ShapeMult[S]) SetTraceDomain(attrs geometry.AttributeSet) {
	n.f.SetTraceDomain(attrs)
	n.u.SetTraceDomain(attrs)
}
func (n *ShapeMult[S]) Copy() ShapeFunction[S] { return &ShapeMult[S]{f: n.f.Copy(), u: n.u.Copy()} }

// ShapeDot is the Frobenius product of a coefficient with an equally shaped shape function
type ShapeDot[S ShapeSpace] struct {
	f Function
	u ShapeFunction[S]
}

func NewShapeDot[S ShapeSpace](f Function, u ShapeFunction[S]) *ShapeDot[S] {
	assertSameShape("ShapeDot", f.RangeShape(), u.RangeShape())
	return &ShapeDot[S]{f: f.Copy(), u: u.Copy()}
}

func (n *ShapeDot[S]) RangeShape() RangeShape        { return ScalarShape() }
func (n *ShapeDot[S]) Leaf() *Argument[S]            { return n.u.Leaf() }
func (n *ShapeDot[S]) Order(s *geometry.Simplex) int { return n.u.Order(s) }
func (n *ShapeDot[S]) Basis(p *geometry.Point) *TensorBasis {
	var (
		fv = n.f.Value(p)
		ub = n.u.Basis(p)
		b  = NewTensorBasis(ub.DOFs(), ScalarShape())
	)
	for i := 0; i < ub.DOFs(); i++ {
		b.At(i).Set(0, 0, frobenius(fv, ub.At(i)))
	}
	return b
}
func (n *ShapeDot[S]) SetTraceDomain(attrs geometry.AttributeSet) {
	n.f.SetTraceDomain(attrs)
	n.u.SetTraceDomain(attrs)
}
func (n *ShapeDot[S]) Copy() ShapeFunction[S] { return &ShapeDot[S]{f: n.f.Copy(), u: n.u.Copy()} }

type ShapeTranspose[S ShapeSpace] struct {
	u ShapeFunction[S]
}

func NewShapeTranspose[S ShapeSpace](u ShapeFunction[S]) *ShapeTranspose[S] {
	return &ShapeTranspose[S]{u: u.Copy()}
}

func (n *ShapeTranspose[S]) RangeShape() RangeShape        { return n.u.RangeShape().Transpose() }
func (n *ShapeTranspose[S]) Leaf() *Argument[S]            { return n.u.Leaf() }
func (n *ShapeTranspose[S]) Order(s *geometry.Simplex) int { return n.u.Order(s) }
func (n *ShapeTranspose[S]) Basis(p *geometry.Point) *TensorBasis {
	ub := n.u.Basis(p)
	b := &TensorBasis{shape: n.RangeShape(), values: make([]*mat.Dense, ub.DOFs())}
	for i := range b.values {
		b.values[i] = mat.DenseCopyOf(ub.At(i).T())
	}
	return b
}
func (n *ShapeTranspose[S]) SetTraceDomain(attrs geometry.AttributeSet) { n.u.SetTraceDomain(attrs) }
func (n *ShapeTranspose[S]) Copy() ShapeFunction[S] {
	return &ShapeTranspose[S]{u: n.u.Copy()}
}

// ShapeComponent extracts component i of a vector shape function
type ShapeComponent[S ShapeSpace] struct {
	u ShapeFunction[S]
	i int
}

func NewShapeComponent[S ShapeSpace](u ShapeFunction[S], i int) *ShapeComponent[S] {
	assertType("ShapeComponent", u.RangeShape(), Vector)
	if i < 0 || i >= u.RangeShape().Rows {
		panic(fmt.Errorf("component %d out of range for shape %v", i, u.RangeShape()))
	}
	return &ShapeComponent[S]{u: u.Copy(), i: i}
}

func (n *ShapeComponent[S]) RangeShape() RangeShape        { return ScalarShape() }
func (n *ShapeComponent[S]) Leaf() *Argument[S]            { return n.u.Leaf() }
func (n *ShapeComponent[S]) Order(s *geometry.Simplex) int { return n.u.Order(s) }
func (n *ShapeComponent[S]) Basis(p *geometry.Point) *TensorBasis {
	ub := n.u.Basis(p)
	b := NewTensorBasis(ub.DOFs(), ScalarShape())
	for k := 0; k < ub.DOFs(); k++ {
		b.At(k).Set(0, 0, ub.At(k).At(n.i, 0))
	}
	return b
}
func (n *ShapeComponent[S]) SetTraceDomain(attrs geometry.AttributeSet) { n.u.SetTraceDomain(attrs) }
func (n *ShapeComponent[S]) Copy() ShapeFunction[S] {
	return &ShapeComponent[S]{u: n.u.Copy(), i: n.i}
}
