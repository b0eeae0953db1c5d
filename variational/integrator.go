package variational

import (
	"github.com/notargets/goform/fem"
	"github.com/notargets/goform/geometry"
	"github.com/notargets/goform/quadrature"
	"gonum.org/v1/gonum/mat"
)

// OrderFunc returns the quadrature order to use on a simplex
type OrderFunc func(s *geometry.Simplex) int

// BilinearFormIntegrator computes the element matrix of one integrand over one region.
// Element matrix rows follow the test DOFs and columns the trial DOFs of the simplex.
type BilinearFormIntegrator interface {
	Region() geometry.Region
	Attributes() geometry.AttributeSet
	TrialSpace() *fem.Space
	TestSpace() *fem.Space
	ElementMatrix(s *geometry.Simplex) *mat.Dense
	Copy() BilinearFormIntegrator
}

// LinearFormIntegrator computes the element vector of one integrand over one region
type LinearFormIntegrator interface {
	Region() geometry.Region
	Attributes() geometry.AttributeSet
	TestSpace() *fem.Space
	ElementVector(s *geometry.Simplex) []float64
	Copy() LinearFormIntegrator
}

// InnerProduct is the bilinear integrand u : v of a trial and a test expression
type InnerProduct struct {
	trial ShapeFunction[Trial]
	test  ShapeFunction[Test]
}

func Inner(u ShapeFunction[Trial], v ShapeFunction[Test]) *InnerProduct {
	assertSameShape("Inner", u.RangeShape(), v.RangeShape())
	return &InnerProduct{trial: u.Copy(), test: v.Copy()}
}

func (ip *InnerProduct) Trial() ShapeFunction[Trial] { return ip.trial }
func (ip *InnerProduct) Test() ShapeFunction[Test]   { return ip.test }
func (ip *InnerProduct) RangeShape() RangeShape      { return ip.trial.RangeShape() }
func (ip *InnerProduct) Copy() *InnerProduct {
	return &InnerProduct{trial: ip.trial.Copy(), test: ip.test.Copy()}
}

// ElementMatrix evaluates the integrand DOF by DOF at every quadrature point
func (ip *InnerProduct) ElementMatrix(s *geometry.Simplex, rule *quadrature.Rule) (M *mat.Dense) {
	var (
		nu = len(ip.trial.Leaf().DOFs(s))
		nv = len(ip.test.Leaf().DOFs(s))
	)
	M = mat.NewDense(nv, nu, nil)
	for q, ref := range rule.Points {
		p := geometry.NewPoint(s, ref)
		w := rule.Weights[q] * p.Weight()
		ub, vb := ip.trial.Basis(p), ip.test.Basis(p)
		for i := 0; i < nv; i++ {
			for j := 0; j < nu; j++ {
				M.Set(i, j, M.At(i, j)+w*frobenius(vb.At(i), ub.At(j)))
			}
		}
	}
	return
}

// BilinearIntegrator integrates an InnerProduct over the elements (Integral), the boundary
// faces (BoundaryIntegral) or the interface faces (InterfaceIntegral) of a mesh
type BilinearIntegrator struct {
	integrand *InnerProduct
	region    geometry.Region
	attrs     geometry.AttributeSet
	order     OrderFunc
	kernel    bilinearKernel
}

func newBilinearIntegrator(ip *InnerProduct, region geometry.Region) *BilinearIntegrator {
	ip = ip.Copy()
	return &BilinearIntegrator{integrand: ip, region: region, kernel: matchKernel(ip)}
}

func Integral(ip *InnerProduct) *BilinearIntegrator {
	return newBilinearIntegrator(ip, geometry.Domain)
}

func BoundaryIntegral(ip *InnerProduct) *BilinearIntegrator {
	return newBilinearIntegrator(ip, geometry.Boundary)
}

func InterfaceIntegral(ip *InnerProduct) *BilinearIntegrator {
	return newBilinearIntegrator(ip, geometry.Interface)
}

// Over restricts the integrator to simplices carrying one of attrs. Without attributes it
// applies everywhere.
func (bi *BilinearIntegrator) Over(attrs ...int) *BilinearIntegrator {
	bi.attrs = geometry.NewAttributeSet(attrs...)
	return bi
}

func (bi *BilinearIntegrator) SetIntegrationOrder(fn OrderFunc) *BilinearIntegrator {
	bi.order = fn
	return bi
}

// IntegrationOrder defaults to the degree of the trial and test expressions plus the order of
// the simplex transformation weight
func (bi *BilinearIntegrator) IntegrationOrder(s *geometry.Simplex) int {
	if bi.order != nil {
		return bi.order(s)
	}
	return bi.integrand.trial.Order(s) + bi.integrand.test.Order(s) + s.Transformation().WeightOrder()
}

func (bi *BilinearIntegrator) Region() geometry.Region           { return bi.region }
func (bi *BilinearIntegrator) Attributes() geometry.AttributeSet { return bi.attrs }
func (bi *BilinearIntegrator) Integrand() *InnerProduct          { return bi.integrand }
func (bi *BilinearIntegrator) TrialSpace() *fem.Space {
	return bi.integrand.trial.Leaf().FiniteElementSpace()
}
func (bi *BilinearIntegrator) TestSpace() *fem.Space {
	return bi.integrand.test.Leaf().FiniteElementSpace()
}

// Kernel names the element matrix routine selected for the integrand
func (bi *BilinearIntegrator) Kernel() string { return bi.kernel.name }

func (bi *BilinearIntegrator) ElementMatrix(s *geometry.Simplex) *mat.Dense {
	rule := quadrature.Get(s.Dimension(), bi.IntegrationOrder(s))
	return bi.kernel.matrix(bi.integrand, s, rule)
}

func (bi *BilinearIntegrator) Copy() BilinearFormIntegrator {
	ip := bi.integrand.Copy()
	return &BilinearIntegrator{
		integrand: ip,
		region:    bi.region,
		attrs:     bi.attrs.Copy(),
		order:     bi.order,
		kernel:    matchKernel(ip),
	}
}

// LinearIntegrator integrates a scalar test expression over a region
type LinearIntegrator struct {
	integrand ShapeFunction[Test]
	region    geometry.Region
	attrs     geometry.AttributeSet
	order     OrderFunc
}

func newLinearIntegrator(v ShapeFunction[Test], region geometry.Region) *LinearIntegrator {
	assertType("LinearIntegral", v.RangeShape(), Scalar)
	return &LinearIntegrator{integrand: v.Copy(), region: region}
}

func LinearIntegral(v ShapeFunction[Test]) *LinearIntegrator {
	return newLinearIntegrator(v, geometry.Domain)
}

func LinearBoundaryIntegral(v ShapeFunction[Test]) *LinearIntegrator {
	return newLinearIntegrator(v, geometry.Boundary)
}

func LinearInterfaceIntegral(v ShapeFunction[Test]) *LinearIntegrator {
	return newLinearIntegrator(v, geometry.Interface)
}

// LinearIntegralOf integrates f : v over the elements
func LinearIntegralOf(f Function, v ShapeFunction[Test]) *LinearIntegrator {
	return LinearIntegral(NewShapeDot[Test](f, v))
}

// LinearBoundaryIntegralOf integrates f : v over the boundary faces
func LinearBoundaryIntegralOf(f Function, v ShapeFunction[Test]) *LinearIntegrator {
	return LinearBoundaryIntegral(NewShapeDot[Test](f, v))
}

func (li *LinearIntegrator) Over(attrs ...int) *LinearIntegrator {
	li.attrs = geometry.NewAttributeSet(attrs...)
	return li
}

func (li *LinearIntegrator) SetIntegrationOrder(fn OrderFunc) *LinearIntegrator {
	li.order = fn
	return li
}

// IntegrationOrder defaults to twice the degree of the test expression plus the order of the
// simplex transformation weight
func (li *LinearIntegrator) IntegrationOrder(s *geometry.Simplex) int {
	if li.order != nil {
		return li.order(s)
	}
	return 2*li.integrand.Order(s) + s.Transformation().WeightOrder()
}

func (li *LinearIntegrator) Region() geometry.Region           { return li.region }
func (li *LinearIntegrator) Attributes() geometry.AttributeSet { return li.attrs }
func (li *LinearIntegrator) Integrand() ShapeFunction[Test]    { return li.integrand }
func (li *LinearIntegrator) TestSpace() *fem.Space {
	return li.integrand.Leaf().FiniteElementSpace()
}

func (li *LinearIntegrator) ElementVector(s *geometry.Simplex) (F []float64) {
	rule := quadrature.Get(s.Dimension(), li.IntegrationOrder(s))
	F = make([]float64, len(li.integrand.Leaf().DOFs(s)))
	for q, ref := range rule.Points {
		p := geometry.NewPoint(s, ref)
		w := rule.Weights[q] * p.Weight()
		b := li.integrand.Basis(p)
		for i := range F {
			F[i] += w * b.At(i).At(0, 0)
		}
	}
	return
}

func (li *LinearIntegrator) Copy() LinearFormIntegrator {
	return &LinearIntegrator{
		integrand: li.integrand.Copy(),
		region:    li.region,
		attrs:     li.attrs.Copy(),
		order:     li.order,
	}
}
