package variational

import (
	"fmt"

	"github.com/notargets/goform/fem"
	"github.com/notargets/goform/geometry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GridFunction is a finite element function: a coefficient vector over a space. Copies share
// the coefficient storage and carry their own trace domain.
type GridFunction struct {
	trace
	fes  *fem.Space
	data *mat.VecDense
}

func NewGridFunction(fes *fem.Space) *GridFunction {
	return &GridFunction{fes: fes, data: mat.NewVecDense(fes.Size(), nil)}
}

func (gf *GridFunction) FiniteElementSpace() *fem.Space { return gf.fes }
func (gf *GridFunction) Data() *mat.VecDense            { return gf.data }

func (gf *GridFunction) SetData(x []float64) *GridFunction {
	if len(x) != gf.fes.Size() {
		panic(fmt.Errorf("grid function of size %d given %d values", gf.fes.Size(), len(x)))
	}
	copy(gf.data.RawVector().Data, x)
	return gf
}

func (gf *GridFunction) RangeShape() RangeShape {
	if gf.fes.VectorDimension() == 1 {
		return ScalarShape()
	}
	return VectorShape(gf.fes.VectorDimension())
}

func (gf *GridFunction) Copy() Function {
	return &GridFunction{trace: gf.copyTrace(), fes: gf.fes, data: gf.data}
}

func (gf *GridFunction) Max() float64 { return floats.Max(gf.data.RawVector().Data) }
func (gf *GridFunction) Min() float64 { return floats.Min(gf.data.RawVector().Data) }

func (gf *GridFunction) Scale(c float64) *GridFunction {
	gf.data.ScaleVec(c, gf.data)
	return gf
}

func (gf *GridFunction) AddScalar(c float64) *GridFunction {
	floats.AddConst(c, gf.data.RawVector().Data)
	return gf
}

func (gf *GridFunction) Add(o *GridFunction) *GridFunction {
	if o.fes != gf.fes {
		panic(fmt.Errorf("adding grid functions of different spaces %v and %v", gf.fes, o.fes))
	}
	gf.data.AddVec(gf.data, o.data)
	return gf
}

// Project interpolates f at the nodes of every element
func (gf *GridFunction) Project(f Function) *GridFunction {
	assertSameShape("Project", gf.RangeShape(), f.RangeShape())
	m := gf.fes.Mesh()
	for it := m.ElementIter(); !it.End(); it.Next() {
		gf.projectOn(f, it.Simplex())
	}
	return gf
}

// ProjectOnBoundary interpolates f at the nodes of the boundary faces carrying one of attrs,
// every boundary face if none given. Other coefficients are left untouched.
func (gf *GridFunction) ProjectOnBoundary(f Function, attrs ...int) *GridFunction {
	assertSameShape("ProjectOnBoundary", gf.RangeShape(), f.RangeShape())
	// Discontinuous spaces carry no DOFs on faces
	if gf.fes.Family() == fem.L2 {
		return gf
	}
	filter := geometry.NewAttributeSet(attrs...)
	for it := gf.fes.Mesh().BoundaryIter(); !it.End(); it.Next() {
		if s := it.Simplex(); filter.Matches(s.Attribute()) {
			gf.projectOn(f, s)
		}
	}
	return gf
}

func (gf *GridFunction) projectOn(f Function, s *geometry.Simplex) {
	var (
		fe   = gf.fes.FiniteElement(s)
		sd   = gf.fes.ScalarDOFs(s)
		ns   = gf.fes.ScalarSize()
		vdim = gf.fes.VectorDimension()
		x    = gf.data.RawVector().Data
	)
	for a, node := range fe.Nodes() {
		v := f.Value(geometry.NewPoint(s, node))
		for c := 0; c < vdim; c++ {
			x[c*ns+sd[a]] = v.At(c, 0)
		}
	}
}

// locate finds the element and reference coordinates used to evaluate at p. On faces the
// element is the incident one whose attribute is in the trace domain, or the only incident
// element of a boundary face.
func (gf *GridFunction) locate(p *geometry.Point) (*geometry.Simplex, []float64) {
	var (
		s = p.Simplex()
		m = gf.fes.Mesh()
	)
	if s.Mesh() != m {
		panic(fmt.Errorf("point on a %d-simplex of another mesh given to a grid function", s.Dimension()))
	}
	if s.IsElement() {
		return s, p.Reference()
	}
	chosen := -1
	if !gf.domain.Empty() {
		for _, e := range s.Incident() {
			if gf.domain.Contains(m.ElementAttributes[e]) {
				chosen = e
				break
			}
		}
	}
	if chosen < 0 {
		if !s.IsBoundary() {
			panic(fmt.Errorf("evaluation on interface face %d needs a trace domain matching one of its elements, have %v",
				s.Index(), gf.domain))
		}
		chosen = s.Incident()[0]
	}
	el := m.Element(chosen)
	return el, el.Transformation().Inverse(p.Coordinates())
}

func (gf *GridFunction) Value(p *geometry.Point) *mat.Dense {
	var (
		el, ref = gf.locate(p)
		phi     = gf.fes.FiniteElement(el).Basis(ref)
		sd      = gf.fes.ScalarDOFs(el)
		ns      = gf.fes.ScalarSize()
		vdim    = gf.fes.VectorDimension()
		x       = gf.data.RawVector().Data
	)
	v := mat.NewDense(vdim, 1, nil)
	for c := 0; c < vdim; c++ {
		var sum float64
		for a, d := range sd {
			sum += x[c*ns+d] * phi[a]
		}
		v.Set(c, 0, sum)
	}
	return v
}

// jacobian returns J(i, c) = d u_c / d x_i at p
func (gf *GridFunction) jacobian(p *geometry.Point) *mat.Dense {
	var (
		el, ref = gf.locate(p)
		G       = gf.fes.PhysicalGradient(el, ref)
		sd      = gf.fes.ScalarDOFs(el)
		ns      = gf.fes.ScalarSize()
		vdim    = gf.fes.VectorDimension()
		sdim    = gf.fes.Mesh().SpaceDim
		x       = gf.data.RawVector().Data
	)
	J := mat.NewDense(sdim, vdim, nil)
	for c := 0; c < vdim; c++ {
		for i := 0; i < sdim; i++ {
			var sum float64
			for a, d := range sd {
				sum += x[c*ns+d] * G.At(a, i)
			}
			J.Set(i, c, sum)
		}
	}
	return J
}

func (gf *GridFunction) assertH1(op string) {
	if gf.fes.Family() != fem.H1 {
		panic(fmt.Errorf("%s of a grid function is only defined on H1 spaces, got %v", op, gf.fes))
	}
}

// Grad is the gradient of a scalar H1 grid function, a SpaceDim column
func (gf *GridFunction) Grad() *Grad {
	gf.assertH1("Grad")
	assertType("Grad", gf.RangeShape(), Scalar)
	return &Grad{gridDerivative{gf: gf.Copy().(*GridFunction)}}
}

// Jacobian of an H1 grid function, J(i, c) = d u_c / d x_i
func (gf *GridFunction) Jacobian() *Jacobian {
	gf.assertH1("Jacobian")
	return &Jacobian{gridDerivative{gf: gf.Copy().(*GridFunction)}}
}

// Div is the divergence of a vector H1 grid function with as many components as space
// dimensions
func (gf *GridFunction) Div() *Div {
	gf.assertH1("Div")
	if gf.fes.VectorDimension() != gf.fes.Mesh().SpaceDim {
		panic(fmt.Errorf("Div needs %d components, grid function has %d",
			gf.fes.Mesh().SpaceDim, gf.fes.VectorDimension()))
	}
	return &Div{gridDerivative{gf: gf.Copy().(*GridFunction)}}
}

type gridDerivative struct {
	gf *GridFunction
}

func (n *gridDerivative) TraceDomain() geometry.AttributeSet { return n.gf.TraceDomain() }

func (n *gridDerivative) SetTraceDomain(attrs geometry.AttributeSet) { n.gf.SetTraceDomain(attrs) }

func (n *gridDerivative) copyDerivative() gridDerivative {
	return gridDerivative{n.gf.Copy().(*GridFunction)}
}

type Grad struct{ gridDerivative }

func (n *Grad) RangeShape() RangeShape { return VectorShape(n.gf.fes.Mesh().SpaceDim) }
func (n *Grad) Value(p *geometry.Point) *mat.Dense {
	return n.gf.jacobian(p)
}
func (n *Grad) Copy() Function { return &Grad{n.copyDerivative()} }

type Jacobian struct{ gridDerivative }

func (n *Jacobian) RangeShape() RangeShape {
	return RangeShape{n.gf.fes.Mesh().SpaceDim, n.gf.fes.VectorDimension()}
}
func (n *Jacobian) Value(p *geometry.Point) *mat.Dense { return n.gf.jacobian(p) }
func (n *Jacobian) Copy() Function                     { return &Jacobian{n.copyDerivative()} }

type Div struct{ gridDerivative }

func (n *Div) RangeShape() RangeShape { return ScalarShape() }
func (n *Div) Value(p *geometry.Point) *mat.Dense {
	return scalarValue(mat.Trace(n.gf.jacobian(p)))
}
func (n *Div) Copy() Function { return &Div{n.copyDerivative()} }

// Component i of a vector grid function
func (gf *GridFunction) Component(i int) *Component { return NewComponent(gf, i) }
