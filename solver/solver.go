package solver

import (
	"fmt"
	"math"

	"github.com/notargets/goform/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Solver solves an assembled linear system A x = b
type Solver interface {
	Solve(A utils.CSR, b *mat.VecDense) (*mat.VecDense, error)
}

// Operator is a linear operator in the matrix free form of gonum's iterative solvers.
// utils.CSR satisfies it.
type Operator interface {
	MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector)
}

// CG is the unpreconditioned conjugate gradient method for symmetric positive definite systems
type CG struct {
	Tolerance     float64
	MaxIterations int
	Logf          func(format string, v ...interface{})
}

func NewCG() *CG {
	return &CG{Tolerance: 1.e-10, MaxIterations: 10000}
}

func (s *CG) Solve(A utils.CSR, b *mat.VecDense) (*mat.VecDense, error) {
	if nr, nc := A.Dims(); nr != b.Len() || nc != b.Len() {
		return nil, fmt.Errorf("system of size %dx%d with a right hand side of length %d", nr, nc, b.Len())
	}
	return s.SolveOperator(A, b)
}

// SolveOperator iterates on a square operator of the size of b
func (s *CG) SolveOperator(A Operator, b *mat.VecDense) (*mat.VecDense, error) {
	var (
		n    = b.Len()
		x    = mat.NewVecDense(n, nil)
		Ap   = mat.NewVecDense(n, nil)
		bnrm = mat.Norm(b, 2)
	)
	if bnrm == 0 {
		return x, nil
	}
	r := mat.VecDenseCopyOf(b)
	p := mat.VecDenseCopyOf(r)
	rr := mat.Dot(r, r)
	for it := 0; it < s.MaxIterations; it++ {
		A.MulVecTo(Ap, false, p)
		pAp := mat.Dot(p, Ap)
		if pAp <= 0 {
			return nil, fmt.Errorf("conjugate gradient breakdown at iteration %d, operator is not positive definite", it)
		}
		alpha := rr / pAp
		x.AddScaledVec(x, alpha, p)
		r.AddScaledVec(r, -alpha, Ap)
		rrNew := mat.Dot(r, r)
		if res := math.Sqrt(rrNew) / bnrm; res < s.Tolerance {
			if s.Logf != nil {
				s.Logf("CG converged in %d iterations, relative residual %8.3e\n", it+1, res)
			}
			return x, nil
		}
		p.AddScaledVec(r, rrNew/rr, p)
		rr = rrNew
	}
	return nil, fmt.Errorf("CG did not converge in %d iterations, relative residual %8.3e",
		s.MaxIterations, math.Sqrt(rr)/bnrm)
}

// LU factors the system densely, suited to small problems and non symmetric operators
type LU struct{}

func (LU) Solve(A utils.CSR, b *mat.VecDense) (*mat.VecDense, error) {
	var (
		lu mat.LU
		x  = mat.NewVecDense(b.Len(), nil)
	)
	lu.Factorize(A.ToDense())
	if err := lu.SolveVecTo(x, false, b); err != nil {
		return nil, errors.Wrap(err, "LU solve")
	}
	return x, nil
}

// New returns the solver named by kind, "cg" or "lu"
func New(kind string, tol float64, maxIterations int) (Solver, error) {
	switch kind {
	case "cg", "CG", "":
		s := NewCG()
		if tol > 0 {
			s.Tolerance = tol
		}
		if maxIterations > 0 {
			s.MaxIterations = maxIterations
		}
		return s, nil
	case "lu", "LU":
		return LU{}, nil
	}
	return nil, fmt.Errorf("unknown solver %q", kind)
}
