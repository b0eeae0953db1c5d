package variational

import (
	"fmt"

	"github.com/notargets/goform/geometry"
	"github.com/notargets/goform/utils"
	"gonum.org/v1/gonum/mat"
)

// GridFunctionIntegral integrates a scalar grid function over the elements carrying the
// given attributes by assembling l(v) = (u, v) and evaluating it on the constant one
type GridFunctionIntegral struct {
	gf    *GridFunction
	attrs []int
}

func NewGridFunctionIntegral(gf *GridFunction) *GridFunctionIntegral {
	assertType("GridFunctionIntegral", gf.RangeShape(), Scalar)
	return &GridFunctionIntegral{gf: gf}
}

func (gi *GridFunctionIntegral) Over(attrs ...int) *GridFunctionIntegral {
	gi.attrs = append([]int{}, attrs...)
	return gi
}

func (gi *GridFunctionIntegral) Compute() float64 {
	fes := gi.gf.FiniteElementSpace()
	v := NewTestFunction(fes)
	lf := NewLinearForm(v).From(LinearIntegral(NewShapeMult[Test](gi.gf, v)).Over(gi.attrs...))
	lf.Assemble()
	one := NewGridFunction(fes).Project(NewScalarFunction(1))
	return lf.Eval(one)
}

// DirichletBC prescribes the trial function to g on the boundary faces carrying the given
// attributes, on the whole boundary if none given
type DirichletBC struct {
	u     *TrialFunction
	g     Function
	attrs geometry.AttributeSet
}

func NewDirichletBC(u *TrialFunction, g Function) *DirichletBC {
	assertSameShape("DirichletBC", u.RangeShape(), g.RangeShape())
	return &DirichletBC{u: u, g: g.Copy()}
}

func (bc *DirichletBC) On(attrs ...int) *DirichletBC {
	bc.attrs = geometry.NewAttributeSet(attrs...)
	return bc
}

func (bc *DirichletBC) Attributes() geometry.AttributeSet { return bc.attrs }

// DOFs are the essential DOFs of the condition
func (bc *DirichletBC) DOFs() []int {
	return bc.u.FiniteElementSpace().BoundaryDOFs(bc.attrs.Slice()...)
}

// Project writes g at the essential DOFs of gf
func (bc *DirichletBC) Project(gf *GridFunction) {
	gf.ProjectOnBoundary(bc.g, bc.attrs.Slice()...)
}

// LinearSolver solves an assembled system
type LinearSolver interface {
	Solve(A utils.CSR, b *mat.VecDense) (*mat.VecDense, error)
}

// Problem is the variational problem a(u, v) = l(v) for all v, with Dirichlet conditions on u
type Problem struct {
	trial    *TrialFunction
	test     *TestFunction
	bilinear *BilinearForm
	linear   *LinearForm
	bcs      []*DirichletBC
	solution *GridFunction
	operator *utils.CSR
	rhs      *mat.VecDense
	assembly Assembly
	Logf     func(format string, v ...interface{})
}

func NewProblem(u *TrialFunction, v *TestFunction) *Problem {
	if u.FiniteElementSpace() != v.FiniteElementSpace() {
		panic(fmt.Errorf("problem needs the same trial and test space, got %v and %v",
			u.FiniteElementSpace(), v.FiniteElementSpace()))
	}
	return &Problem{
		trial:    u,
		test:     v,
		bilinear: NewBilinearForm(u, v),
		linear:   NewLinearForm(v),
		solution: NewGridFunction(u.FiniteElementSpace()),
	}
}

func (pb *Problem) AddBilinear(bfi BilinearFormIntegrator) *Problem {
	pb.bilinear.Add(bfi)
	return pb
}

// AddLinear adds a right hand side contribution l(v)
func (pb *Problem) AddLinear(lfi LinearFormIntegrator) *Problem {
	pb.linear.Add(lfi)
	return pb
}

func (pb *Problem) AddDirichletBC(bc *DirichletBC) *Problem {
	if bc.u.FiniteElementSpace() != pb.trial.FiniteElementSpace() {
		panic(fmt.Errorf("Dirichlet condition on %v given to a problem on %v",
			bc.u.FiniteElementSpace(), pb.trial.FiniteElementSpace()))
	}
	pb.bcs = append(pb.bcs, bc)
	return pb
}

// SetAssembly replaces the default Native assembler
func (pb *Problem) SetAssembly(asm Assembly) *Problem {
	pb.assembly = asm
	return pb
}

func (pb *Problem) BilinearForm() *BilinearForm { return pb.bilinear }
func (pb *Problem) LinearForm() *LinearForm     { return pb.linear }
func (pb *Problem) Solution() *GridFunction     { return pb.solution }

func (pb *Problem) logf(format string, v ...interface{}) {
	if pb.Logf != nil {
		pb.Logf(format, v...)
	}
}

// Assemble builds the operator and right hand side and eliminates the essential DOFs
func (pb *Problem) Assemble() *Problem {
	asm := pb.assembly
	if asm == nil {
		asm = &Native{Logf: pb.Logf}
	}
	pb.bilinear.SetAssembly(asm).Assemble()
	pb.linear.SetAssembly(asm).Assemble()

	b := mat.VecDenseCopyOf(pb.linear.Vector())
	var essential []int
	seen := make(map[int]struct{})
	for _, bc := range pb.bcs {
		bc.Project(pb.solution)
		for _, d := range bc.DOFs() {
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				essential = append(essential, d)
			}
		}
	}
	A := pb.bilinear.Operator()
	if len(essential) != 0 {
		A = A.EliminateRows(essential, pb.solution.Data().RawVector().Data, b.RawVector().Data)
	}
	pb.logf("problem assembled: %d unknowns, %d essential, %d nonzeros\n", b.Len(), len(essential), A.NNZ())
	pb.operator, pb.rhs = &A, b
	return pb
}

// Operator and RHS are the eliminated system, available after Assemble
func (pb *Problem) Operator() utils.CSR {
	if pb.operator == nil {
		panic("problem operator requested before Assemble")
	}
	return *pb.operator
}

func (pb *Problem) RHS() *mat.VecDense {
	if pb.rhs == nil {
		panic("problem right hand side requested before Assemble")
	}
	return pb.rhs
}

// Solve assembles if needed and stores the solution in Solution()
func (pb *Problem) Solve(solver LinearSolver) error {
	if pb.operator == nil {
		pb.Assemble()
	}
	x, err := solver.Solve(*pb.operator, pb.rhs)
	if err != nil {
		return err
	}
	pb.solution.SetData(x.RawVector().Data)
	return nil
}
