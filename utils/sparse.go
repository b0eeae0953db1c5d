package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK is the assembly buffer for global operators, entries are accumulated in place
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }
func (m DOK) NNZ() int            { return m.M.NNZ() }

func (m DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return m
}

// AddTo accumulates val into entry (i, j)
func (m DOK) AddTo(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) Set(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, val)
}

// AddSubMatrix scatters A into the rows and columns given by the index maps
func (m DOK) AddSubMatrix(rows, cols []int, A mat.Matrix) {
	nr, nc := A.Dims()
	if nr != len(rows) || nc != len(cols) {
		panic(fmt.Errorf("submatrix is %dx%d but index maps are %dx%d", nr, nc, len(rows), len(cols)))
	}
	m.checkWritable()
	for i, r := range rows {
		for j, c := range cols {
			if val := A.At(i, j); val != 0 {
				m.M.Set(r, c, m.M.At(r, c)+val)
			}
		}
	}
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

// CSR is the compressed, read mostly form of an assembled operator
type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) NNZ() int                      { return m.M.NNZ() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}

func (m CSR) DoNonZero(fn func(i, j int, v float64)) { m.M.DoNonZero(fn) }

// MulVec returns A*x using the raw compressed rows
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("vector length %d does not match %d columns", len(x), nc))
	}
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		var sum float64
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			sum += raw.Data[k] * x[raw.Ind[k]]
		}
		y[i] = sum
	}
	return
}

// MulVecTo sets dst to A*x, or to the transpose product when trans is set. dst may alias x.
func (m CSR) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
		ny, nx = nr, nc
	)
	if trans {
		ny, nx = nc, nr
	}
	if x.Len() != nx {
		panic(fmt.Errorf("vector length %d does not match %d columns", x.Len(), nx))
	}
	if dst.IsEmpty() {
		dst.ReuseAsVec(ny)
	} else if dst.Len() != ny {
		panic(mat.ErrShape)
	}
	y := make([]float64, ny)
	for i := 0; i < nr; i++ {
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			if trans {
				y[raw.Ind[k]] += raw.Data[k] * x.AtVec(i)
			} else {
				y[i] += raw.Data[k] * x.AtVec(raw.Ind[k])
			}
		}
	}
	for i, v := range y {
		dst.SetVec(i, v)
	}
}

func (m CSR) ToDense() (A *mat.Dense) {
	nr, nc := m.Dims()
	A = mat.NewDense(nr, nc, nil)
	m.DoNonZero(func(i, j int, v float64) {
		A.Set(i, j, v)
	})
	return
}

// EliminateRows removes the listed unknowns from the system A x = b. Rows and columns of the
// essential unknowns are cleared and their diagonal set to one, the column contributions of
// the known values are moved to the right hand side, which is modified in place.
func (m CSR) EliminateRows(essential []int, values, b []float64) CSR {
	nr, nc := m.Dims()
	if nr != nc {
		panic(fmt.Errorf("elimination needs a square operator, got %dx%d", nr, nc))
	}
	isEssential := make([]bool, nr)
	for _, d := range essential {
		isEssential[d] = true
	}
	R := NewDOK(nr, nc)
	m.DoNonZero(func(i, j int, v float64) {
		switch {
		case isEssential[i]:
		case isEssential[j]:
			b[i] -= v * values[j]
		default:
			R.M.Set(i, j, v)
		}
	})
	for _, d := range essential {
		R.M.Set(d, d, 1)
		b[d] = values[d]
	}
	R.readOnly, R.name = m.readOnly, m.name
	return R.ToCSR()
}
