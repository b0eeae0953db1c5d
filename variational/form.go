package variational

import (
	"fmt"

	"github.com/notargets/goform/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// BilinearForm a(u, v) is a sum of bilinear integrators over one trial and one test space
type BilinearForm struct {
	trial       *TrialFunction
	test        *TestFunction
	integrators []BilinearFormIntegrator
	assembly    Assembly
	operator    *utils.CSR
}

func NewBilinearForm(u *TrialFunction, v *TestFunction) *BilinearForm {
	return &BilinearForm{trial: u, test: v, assembly: &Native{}}
}

// Add appends a copy of the integrator
func (a *BilinearForm) Add(bfi BilinearFormIntegrator) *BilinearForm {
	if bfi.TrialSpace() != a.trial.FiniteElementSpace() || bfi.TestSpace() != a.test.FiniteElementSpace() {
		panic(fmt.Errorf("integrator over %v x %v added to a form over %v x %v",
			bfi.TrialSpace(), bfi.TestSpace(), a.trial.FiniteElementSpace(), a.test.FiniteElementSpace()))
	}
	a.integrators = append(a.integrators, bfi.Copy())
	return a
}

// From replaces the integrators by a copy of bfi
func (a *BilinearForm) From(bfi BilinearFormIntegrator) *BilinearForm {
	a.Clear()
	return a.Add(bfi)
}

func (a *BilinearForm) Clear() {
	a.integrators = nil
	a.operator = nil
}

func (a *BilinearForm) Integrators() []BilinearFormIntegrator { return a.integrators }

func (a *BilinearForm) SetAssembly(asm Assembly) *BilinearForm {
	a.assembly = asm
	return a
}

func (a *BilinearForm) Assemble() *BilinearForm {
	op := a.assembly.AssembleBilinear(BilinearAssemblyInput{
		Mesh:        a.trial.FiniteElementSpace().Mesh(),
		Trial:       a.trial.FiniteElementSpace(),
		Test:        a.test.FiniteElementSpace(),
		Integrators: a.integrators,
	})
	a.operator = &op
	return a
}

// Operator is the assembled matrix, rows follow test DOFs and columns trial DOFs
func (a *BilinearForm) Operator() utils.CSR {
	if a.operator == nil {
		panic("bilinear form operator requested before Assemble")
	}
	return *a.operator
}

func (a *BilinearForm) Dense() *mat.Dense { return a.Operator().ToDense() }

// Eval returns a(u, v) = v^T A u
func (a *BilinearForm) Eval(u, v *GridFunction) float64 {
	Au := a.Operator().MulVec(u.Data().RawVector().Data)
	return floats.Dot(v.Data().RawVector().Data, Au)
}

// LinearForm l(v) is a sum of linear integrators over one test space
type LinearForm struct {
	test        *TestFunction
	integrators []LinearFormIntegrator
	assembly    Assembly
	vector      *mat.VecDense
}

func NewLinearForm(v *TestFunction) *LinearForm {
	return &LinearForm{test: v, assembly: &Native{}}
}

func (l *LinearForm) Add(lfi LinearFormIntegrator) *LinearForm {
	if lfi.TestSpace() != l.test.FiniteElementSpace() {
		panic(fmt.Errorf("integrator over %v added to a form over %v", lfi.TestSpace(), l.test.FiniteElementSpace()))
	}
	l.integrators = append(l.integrators, lfi.Copy())
	return l
}

func (l *LinearForm) From(lfi LinearFormIntegrator) *LinearForm {
	l.Clear()
	return l.Add(lfi)
}

func (l *LinearForm) Clear() {
	l.integrators = nil
	l.vector = nil
}

func (l *LinearForm) Integrators() []LinearFormIntegrator { return l.integrators }

func (l *LinearForm) SetAssembly(asm Assembly) *LinearForm {
	l.assembly = asm
	return l
}

func (l *LinearForm) Assemble() *LinearForm {
	l.vector = l.assembly.AssembleLinear(LinearAssemblyInput{
		Mesh:        l.test.FiniteElementSpace().Mesh(),
		Test:        l.test.FiniteElementSpace(),
		Integrators: l.integrators,
	})
	return l
}

func (l *LinearForm) Vector() *mat.VecDense {
	if l.vector == nil {
		panic("linear form vector requested before Assemble")
	}
	return l.vector
}

// Eval returns l(u) = F . u
func (l *LinearForm) Eval(u *GridFunction) float64 {
	return mat.Dot(l.Vector(), u.Data())
}
