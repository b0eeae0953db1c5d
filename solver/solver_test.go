package solver

import (
	"testing"

	"github.com/notargets/goform/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// laplacian1D is the tridiagonal [-1 2 -1] matrix of size n
func laplacian1D(n int) utils.CSR {
	K := utils.NewDOK(n, n)
	for i := 0; i < n; i++ {
		K.AddTo(i, i, 2)
		if i > 0 {
			K.AddTo(i, i-1, -1)
		}
		if i < n-1 {
			K.AddTo(i, i+1, -1)
		}
	}
	return K.ToCSR()
}

func TestSolvers(t *testing.T) {
	var (
		n     = 20
		A     = laplacian1D(n)
		exact = make([]float64, n)
	)
	for i := range exact {
		exact[i] = float64(i*i) - 3
	}
	b := mat.NewVecDense(n, A.MulVec(exact))
	for _, kind := range []string{"cg", "lu"} {
		s, err := New(kind, 1.e-12, 0)
		require.NoError(t, err)
		x, err := s.Solve(A, b)
		require.NoError(t, err, kind)
		assert.InDeltaSlice(t, exact, x.RawVector().Data, 1.e-8, kind)
	}
	_, err := New("gmres", 0, 0)
	assert.Error(t, err)
}

func TestCGEdgeCases(t *testing.T) {
	A := laplacian1D(50)
	{ // Zero right hand side
		x, err := NewCG().Solve(A, mat.NewVecDense(50, nil))
		require.NoError(t, err)
		assert.Equal(t, 0., mat.Norm(x, 2))
	}
	{ // Too few iterations
		b := mat.NewVecDense(50, nil)
		b.SetVec(0, 1)
		s := &CG{Tolerance: 1.e-14, MaxIterations: 2}
		_, err := s.Solve(A, b)
		assert.Error(t, err)
	}
	{ // Size mismatch
		_, err := NewCG().Solve(A, mat.NewVecDense(3, []float64{1, 2, 3}))
		assert.Error(t, err)
	}
}

func TestLUSingular(t *testing.T) {
	K := utils.NewDOK(2, 2)
	K.AddTo(0, 0, 1)
	K.AddTo(0, 1, 1)
	K.AddTo(1, 0, 1)
	K.AddTo(1, 1, 1)
	_, err := LU{}.Solve(K.ToCSR(), mat.NewVecDense(2, []float64{1, 2}))
	assert.Error(t, err)
}

// diagonal is a matrix free operator
type diagonal []float64

func (d diagonal) MulVecTo(dst *mat.VecDense, _ bool, x mat.Vector) {
	for i, v := range d {
		dst.SetVec(i, v*x.AtVec(i))
	}
}

func TestCGOperator(t *testing.T) {
	var _ Operator = utils.CSR{}
	{
		x, err := NewCG().SolveOperator(diagonal{1, 2, 4}, mat.NewVecDense(3, []float64{1, 1, 1}))
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1, .5, .25}, x.RawVector().Data, 1.e-12)
	}
	{ // Indefinite operators break down
		_, err := NewCG().SolveOperator(diagonal{1, -2}, mat.NewVecDense(2, []float64{0, 1}))
		assert.ErrorContains(t, err, "not positive definite")
	}
}
