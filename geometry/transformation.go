package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transformation is the affine map from the reference simplex (vertices 0 and the unit vectors)
// to a physical simplex embedded in a space of equal or higher dimension.
type Transformation struct {
	dim, sdim int
	origin    []float64
	jac       *mat.Dense // sdim x dim
	pinv      *mat.Dense // dim x sdim, (J^T J)^-1 J^T
	weight    float64
}

func NewAffineTransformation(X [][]float64) (t *Transformation) {
	var (
		dim  = len(X) - 1
		sdim = len(X[0])
	)
	t = &Transformation{
		dim:    dim,
		sdim:   sdim,
		origin: append([]float64{}, X[0]...),
		weight: 1,
	}
	if dim == 0 {
		return
	}
	t.jac = mat.NewDense(sdim, dim, nil)
	for j := 0; j < dim; j++ {
		for i := 0; i < sdim; i++ {
			t.jac.Set(i, j, X[j+1][i]-X[0][i])
		}
	}
	var jtj, inv mat.Dense
	jtj.Mul(t.jac.T(), t.jac)
	det := metricDet(&jtj)
	if det <= 0 {
		t.weight = 0
		t.pinv = mat.NewDense(dim, sdim, nil)
		return
	}
	t.weight = sqrt(det)
	if err := inv.Inverse(&jtj); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			panic(fmt.Errorf("unable to invert simplex metric: %v", err))
		}
	}
	t.pinv = mat.NewDense(dim, sdim, nil)
	t.pinv.Mul(&inv, t.jac.T())
	return
}

func (t *Transformation) Dimension() int      { return t.dim }
func (t *Transformation) SpaceDimension() int { return t.sdim }

// Jacobian is the sdim x dim matrix of the map, nil for points
func (t *Transformation) Jacobian() *mat.Dense { return t.jac }

// InverseJacobian is the dim x sdim left inverse of the Jacobian, nil for points
func (t *Transformation) InverseJacobian() *mat.Dense { return t.pinv }

// Weight is the volume scaling sqrt(det(J^T J))
func (t *Transformation) Weight() float64 { return t.weight }

// Order is the polynomial order of the map, WeightOrder the order of its weight
func (t *Transformation) Order() int       { return 1 }
func (t *Transformation) WeightOrder() int { return 0 }

func (t *Transformation) Transform(ref []float64) (x []float64) {
	x = append([]float64{}, t.origin...)
	for j := 0; j < t.dim; j++ {
		for i := 0; i < t.sdim; i++ {
			x[i] += t.jac.At(i, j) * ref[j]
		}
	}
	return
}

// Inverse maps a physical point back to reference coordinates. Points off the simplex plane
// are projected onto it.
func (t *Transformation) Inverse(x []float64) (ref []float64) {
	ref = make([]float64, t.dim)
	for i := 0; i < t.dim; i++ {
		for j := 0; j < t.sdim; j++ {
			ref[i] += t.pinv.At(i, j) * (x[j] - t.origin[j])
		}
	}
	return
}

// PhysicalGradient maps reference gradients (rows, n x dim) to physical gradients (n x sdim)
func (t *Transformation) PhysicalGradient(refGrad *mat.Dense) (grad *mat.Dense) {
	n, _ := refGrad.Dims()
	grad = mat.NewDense(n, t.sdim, nil)
	if t.dim == 0 {
		return
	}
	grad.Mul(refGrad, t.pinv)
	return
}

// metricDet evaluates small determinants by cofactors so that degenerate simplices with exact
// coordinates give an exact zero
func metricDet(a *mat.Dense) float64 {
	n, _ := a.Dims()
	switch n {
	case 1:
		return a.At(0, 0)
	case 2:
		return a.At(0, 0)*a.At(1, 1) - a.At(0, 1)*a.At(1, 0)
	case 3:
		return a.At(0, 0)*(a.At(1, 1)*a.At(2, 2)-a.At(1, 2)*a.At(2, 1)) -
			a.At(0, 1)*(a.At(1, 0)*a.At(2, 2)-a.At(1, 2)*a.At(2, 0)) +
			a.At(0, 2)*(a.At(1, 0)*a.At(2, 1)-a.At(1, 1)*a.At(2, 0))
	}
	return mat.Det(a)
}
