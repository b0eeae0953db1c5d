package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestDOKAccumulation(t *testing.T) {
	K := NewDOK(3, 3)
	elem := mat.NewDense(2, 2, []float64{1, -1, -1, 1})
	K.AddSubMatrix([]int{0, 1}, []int{0, 1}, elem)
	K.AddSubMatrix([]int{1, 2}, []int{1, 2}, elem)
	K.AddTo(0, 0, 1)

	A := K.ToCSR()
	expected := mat.NewDense(3, 3, []float64{
		2, -1, 0,
		-1, 2, -1,
		0, -1, 1,
	})
	assert.True(t, mat.Equal(expected, A.ToDense()))
	assert.Equal(t, 7, A.NNZ())
	assert.Equal(t, []float64{1, -1, 1}, A.MulVec([]float64{1, 1, 2}))
	assert.Panics(t, func() { A.MulVec([]float64{1}) })
	assert.Panics(t, func() { K.AddSubMatrix([]int{0}, []int{0, 1}, elem) })
}

func TestReadOnly(t *testing.T) {
	K := NewDOK(2, 2).SetReadOnly("K")
	assert.PanicsWithError(t, "attempt to write to a read only matrix named: \"K\"", func() {
		K.AddTo(0, 0, 1)
	})
}

func TestEliminateRows(t *testing.T) {
	K := NewDOK(3, 3)
	K.AddSubMatrix([]int{0, 1, 2}, []int{0, 1, 2}, mat.NewDense(3, 3, []float64{
		2, -1, 0,
		-1, 2, -1,
		0, -1, 2,
	}))
	b := []float64{1, 1, 1}
	values := []float64{0, 0, 3}
	A := K.ToCSR().EliminateRows([]int{2}, values, b)
	expected := mat.NewDense(3, 3, []float64{
		2, -1, 0,
		-1, 2, 0,
		0, 0, 1,
	})
	assert.True(t, mat.Equal(expected, A.ToDense()))
	assert.Equal(t, []float64{1, 4, 3}, b)
}

func TestCSRMulVecTo(t *testing.T) {
	K := NewDOK(2, 3)
	K.AddSubMatrix([]int{0, 1}, []int{0, 1, 2}, mat.NewDense(2, 3, []float64{
		1, 0, 2,
		0, -3, 4,
	}))
	A := K.ToCSR()
	{
		var y mat.VecDense
		A.MulVecTo(&y, false, mat.NewVecDense(3, []float64{1, 2, 3}))
		assert.Equal(t, []float64{7, 6}, y.RawVector().Data)
		assert.Equal(t, []float64{7, 6}, A.MulVec([]float64{1, 2, 3}))
	}
	{
		y := mat.NewVecDense(3, []float64{9, 9, 9})
		A.MulVecTo(y, true, mat.NewVecDense(2, []float64{1, 1}))
		assert.Equal(t, []float64{1, -3, 6}, y.RawVector().Data)
	}
	{ // Square operators may write over their argument
		S := NewDOK(2, 2)
		S.AddSubMatrix([]int{0, 1}, []int{0, 1}, mat.NewDense(2, 2, []float64{2, 1, 1, 3}))
		x := mat.NewVecDense(2, []float64{1, 1})
		S.ToCSR().MulVecTo(x, false, x)
		assert.Equal(t, []float64{3, 4}, x.RawVector().Data)
	}
	assert.Panics(t, func() { A.MulVecTo(mat.NewVecDense(2, nil), true, mat.NewVecDense(2, nil)) })
	assert.Panics(t, func() { A.MulVecTo(mat.NewVecDense(2, nil), false, mat.NewVecDense(2, nil)) })
}
