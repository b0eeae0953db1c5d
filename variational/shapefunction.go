package variational

import (
	"fmt"

	"github.com/notargets/goform/fem"
	"github.com/notargets/goform/geometry"
	"gonum.org/v1/gonum/mat"
)

// Trial and Test tag the space a shape function belongs to. Pairing two trial (or two test)
// operands in a bilinear integrand does not compile.
type (
	Trial struct{}
	Test  struct{}
)

type ShapeSpace interface {
	Trial | Test
}

// TensorBasis holds the value of an expression for every local DOF of a simplex at one point
type TensorBasis struct {
	shape  RangeShape
	values []*mat.Dense
}

func NewTensorBasis(dofs int, shape RangeShape) (b *TensorBasis) {
	b = &TensorBasis{shape: shape, values: make([]*mat.Dense, dofs)}
	for i := range b.values {
		b.values[i] = mat.NewDense(shape.Rows, shape.Cols, nil)
	}
	return
}

func (b *TensorBasis) DOFs() int              { return len(b.values) }
func (b *TensorBasis) RangeShape() RangeShape { return b.shape }
func (b *TensorBasis) At(i int) *mat.Dense    { return b.values[i] }

// ShapeFunction is a node of an expression tree that is linear in the basis functions of one
// finite element space
type ShapeFunction[S ShapeSpace] interface {
	RangeShape() RangeShape
	// Leaf is the trial or test function the expression is built on
	Leaf() *Argument[S]
	// Basis evaluates the expression for every local DOF of the point's simplex
	Basis(p *geometry.Point) *TensorBasis
	// Order estimates the polynomial degree of the expression on a simplex
	Order(s *geometry.Simplex) int
	SetTraceDomain(attrs geometry.AttributeSet)
	Copy() ShapeFunction[S]
}

// ShapeTraceOf returns a copy of u whose coefficients are restricted to the traces of the
// elements carrying attrs
func ShapeTraceOf[S ShapeSpace](u ShapeFunction[S], attrs ...int) ShapeFunction[S] {
	c := u.Copy()
	c.SetTraceDomain(geometry.NewAttributeSet(attrs...))
	return c
}

// Argument is a trial or test function of a finite element space
type Argument[S ShapeSpace] struct {
	fes *fem.Space
}

type (
	TrialFunction = Argument[Trial]
	TestFunction  = Argument[Test]
)

func NewTrialFunction(fes *fem.Space) *TrialFunction { return &TrialFunction{fes: fes} }
func NewTestFunction(fes *fem.Space) *TestFunction   { return &TestFunction{fes: fes} }

func (a *Argument[S]) FiniteElementSpace() *fem.Space             { return a.fes }
func (a *Argument[S]) Leaf() *Argument[S]                         { return a }
func (a *Argument[S]) DOFs(s *geometry.Simplex) []int             { return a.fes.DOFs(s) }
func (a *Argument[S]) Order(s *geometry.Simplex) int              { return a.fes.Order() }
func (a *Argument[S]) SetTraceDomain(attrs geometry.AttributeSet) {}
func (a *Argument[S]) Copy() ShapeFunction[S]                     { return &Argument[S]{fes: a.fes} }

func (a *Argument[S]) RangeShape() RangeShape {
	if a.fes.VectorDimension() == 1 {
		return ScalarShape()
	}
	return VectorShape(a.fes.VectorDimension())
}

func (a *Argument[S]) Basis(p *geometry.Point) *TensorBasis {
	var (
		s    = p.Simplex()
		phi  = a.fes.FiniteElement(s).Basis(p.Reference())
		ns   = len(phi)
		vdim = a.fes.VectorDimension()
		b    = NewTensorBasis(vdim*ns, a.RangeShape())
	)
	for c := 0; c < vdim; c++ {
		for d, v := range phi {
			b.At(c*ns+d).Set(c, 0, v)
		}
	}
	return b
}

func (a *Argument[S]) assertH1(op string) {
	if a.fes.Family() != fem.H1 {
		panic(fmt.Errorf("%s of a shape function is only defined on H1 spaces, got %v", op, a.fes))
	}
}

// Grad is the physical gradient of a scalar shape function
func (a *Argument[S]) Grad() *ShapeGrad[S] {
	a.assertH1("Grad")
	assertType("Grad", a.RangeShape(), Scalar)
	return &ShapeGrad[S]{derivative[S]{a.Leaf()}}
}

// Jacobian of a shape function, J(i, c) = d u_c / d x_i
func (a *Argument[S]) Jacobian() *ShapeJacobian[S] {
	a.assertH1("Jacobian")
	return &ShapeJacobian[S]{derivative[S]{a.Leaf()}}
}

func (a *Argument[S]) Div() *ShapeDiv[S] {
	a.assertH1("Div")
	if a.fes.VectorDimension() != a.fes.Mesh().SpaceDim {
		panic(fmt.Errorf("Div needs %d components, space has %d", a.fes.Mesh().SpaceDim, a.fes.VectorDimension()))
	}
	return &ShapeDiv[S]{derivative[S]{a.Leaf()}}
}

type derivative[S ShapeSpace] struct {
	arg *Argument[S]
}

func (d *derivative[S]) Leaf() *Argument[S]                         { return d.arg }
func (d *derivative[S]) SetTraceDomain(attrs geometry.AttributeSet) {}
func (d *derivative[S]) Order(s *geometry.Simplex) int {
	return max(d.arg.fes.Order()-1, 0)
}

// gradients returns the scalar basis physical gradients at p, one row per scalar DOF
func (d *derivative[S]) gradients(p *geometry.Point) *mat.Dense {
	return d.arg.fes.PhysicalGradient(p.Simplex(), p.Reference())
}

type ShapeGrad[S ShapeSpace] struct{ derivative[S] }

func (n *ShapeGrad[S]) RangeShape() RangeShape {
	return VectorShape(n.arg.fes.Mesh().SpaceDim)
}
func (n *ShapeGrad[S]) Basis(p *geometry.Point) *TensorBasis {
	G := n.gradients(p)
	ns, sdim := G.Dims()
	b := NewTensorBasis(ns, n.RangeShape())
	for d := 0; d < ns; d++ {
		for i := 0; i < sdim; i++ {
			b.At(d).Set(i, 0, G.At(d, i))
		}
	}
	return b
}
func (n *ShapeGrad[S]) Copy() ShapeFunction[S] { return &ShapeGrad[S]{n.derivative} }

type ShapeJacobian[S ShapeSpace] struct{ derivative[S] }

func (n *ShapeJacobian[S]) RangeShape() RangeShape {
	return RangeShape{n.arg.fes.Mesh().SpaceDim, n.arg.fes.VectorDimension()}
}
func (n *ShapeJacobian[S]) Basis(p *geometry.Point) *TensorBasis {
	var (
		G        = n.gradients(p)
		ns, sdim = G.Dims()
		vdim     = n.arg.fes.VectorDimension()
		b        = NewTensorBasis(vdim*ns, n.RangeShape())
	)
	for c := 0; c < vdim; c++ {
		for d := 0; d < ns; d++ {
			for i := 0; i < sdim; i++ {
				b.At(c*ns+d).Set(i, c, G.At(d, i))
			}
		}
	}
	return b
}
func (n *ShapeJacobian[S]) Copy() ShapeFunction[S] { return &ShapeJacobian[S]{n.derivative} }

type ShapeDiv[S ShapeSpace] struct{ derivative[S] }

func (n *ShapeDiv[S]) RangeShape() RangeShape { return ScalarShape() }
func (n *ShapeDiv[S]) Basis(p *geometry.Point) *TensorBasis {
	var (
		G     = n.gradients(p)
		ns, _ = G.Dims()
		vdim  = n.arg.fes.VectorDimension()
		b     = NewTensorBasis(vdim*ns, ScalarShape())
	)
	for c := 0; c < vdim; c++ {
		for d := 0; d < ns; d++ {
			b.At(c*ns+d).Set(0, 0, G.At(d, c))
		}
	}
	return b
}
func (n *ShapeDiv[S]) Copy() ShapeFunction[S] { return &ShapeDiv[S]{n.derivative} }
