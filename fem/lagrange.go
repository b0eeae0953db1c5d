package fem

import (
	"fmt"

	"github.com/notargets/goform/geometry"
	"gonum.org/v1/gonum/mat"
)

// FiniteElement is a Lagrange element on the reference simplex. Local DOFs are the vertices
// followed by the edge midpoints in geometry.SimplexEdges order (second order only).
type FiniteElement struct {
	dim, order int
	nodes      [][]float64
	edges      [][2]int
}

func NewLagrange(dim, order int) (fe *FiniteElement) {
	if dim < 0 || dim > 3 || order < 0 || order > 2 {
		panic(fmt.Errorf("no lagrange element of order %d on dimension %d", order, dim))
	}
	fe = &FiniteElement{dim: dim, order: order}
	switch {
	case order == 0:
		c := make([]float64, dim)
		for i := range c {
			c[i] = 1. / float64(dim+1)
		}
		fe.nodes = [][]float64{c}
	default:
		fe.nodes = referenceVertices(dim)
		if order == 2 {
			fe.edges = geometry.SimplexEdges(dim)
			for _, e := range fe.edges {
				a, b := fe.nodes[e[0]], fe.nodes[e[1]]
				mid := make([]float64, dim)
				for i := range mid {
					mid[i] = (a[i] + b[i]) / 2
				}
				fe.nodes = append(fe.nodes, mid)
			}
		}
	}
	return
}

func referenceVertices(dim int) (V [][]float64) {
	V = make([][]float64, dim+1)
	for i := range V {
		V[i] = make([]float64, dim)
		if i > 0 {
			V[i][i-1] = 1
		}
	}
	return
}

func (fe *FiniteElement) Dim() int           { return fe.dim }
func (fe *FiniteElement) Order() int         { return fe.order }
func (fe *FiniteElement) DOFs() int          { return len(fe.nodes) }
func (fe *FiniteElement) Nodes() [][]float64 { return fe.nodes }

// barycentric coordinates, lambda_0 = 1 - sum(x)
func barycentric(ref []float64) (l []float64) {
	l = make([]float64, len(ref)+1)
	l[0] = 1
	for i, x := range ref {
		l[0] -= x
		l[i+1] = x
	}
	return
}

// gradLambda is the reference gradient of barycentric coordinate i
func gradLambda(dim, i int) (g []float64) {
	g = make([]float64, dim)
	if i == 0 {
		for k := range g {
			g[k] = -1
		}
		return
	}
	g[i-1] = 1
	return
}

func (fe *FiniteElement) Basis(ref []float64) (phi []float64) {
	phi = make([]float64, fe.DOFs())
	if fe.order == 0 {
		phi[0] = 1
		return
	}
	l := barycentric(ref)
	if fe.order == 1 {
		copy(phi, l)
		return
	}
	for i := 0; i <= fe.dim; i++ {
		phi[i] = l[i] * (2*l[i] - 1)
	}
	for k, e := range fe.edges {
		phi[fe.dim+1+k] = 4 * l[e[0]] * l[e[1]]
	}
	return
}

// Gradient returns the reference gradients, one row per DOF. It is nil on points.
func (fe *FiniteElement) Gradient(ref []float64) (G *mat.Dense) {
	if fe.dim == 0 {
		return nil
	}
	G = mat.NewDense(fe.DOFs(), fe.dim, nil)
	if fe.order == 0 {
		return
	}
	if fe.order == 1 {
		for i := 0; i <= fe.dim; i++ {
			G.SetRow(i, gradLambda(fe.dim, i))
		}
		return
	}
	l := barycentric(ref)
	for i := 0; i <= fe.dim; i++ {
		gl := gradLambda(fe.dim, i)
		for k := range gl {
			G.Set(i, k, (4*l[i]-1)*gl[k])
		}
	}
	for n, e := range fe.edges {
		ga, gb := gradLambda(fe.dim, e[0]), gradLambda(fe.dim, e[1])
		for k := 0; k < fe.dim; k++ {
			G.Set(fe.dim+1+n, k, 4*(l[e[0]]*gb[k]+l[e[1]]*ga[k]))
		}
	}
	return
}
