package fem

import (
	"testing"

	"github.com/notargets/goform/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLagrangeBasis(t *testing.T) {
	for dim := 0; dim <= 3; dim++ {
		for order := 0; order <= 2; order++ {
			fe := NewLagrange(dim, order)
			// Nodal: phi_i(x_j) = delta_ij
			for j, x := range fe.Nodes() {
				phi := fe.Basis(x)
				for i := range phi {
					expected := 0.
					if i == j {
						expected = 1
					}
					assert.InDelta(t, expected, phi[i], 1.e-14, "dim %d order %d", dim, order)
				}
			}
			// Partition of unity and zero sum gradient at an interior point
			x := make([]float64, dim)
			for i := range x {
				x[i] = .1 * float64(i+1)
			}
			var sum float64
			for _, v := range fe.Basis(x) {
				sum += v
			}
			assert.InDelta(t, 1., sum, 1.e-14)
			if G := fe.Gradient(x); G != nil {
				for k := 0; k < dim; k++ {
					assert.InDelta(t, 0., mat.Sum(G.ColView(k)), 1.e-14)
				}
			}
		}
	}
	expectedDOFs := map[[2]int]int{{1, 1}: 2, {2, 1}: 3, {3, 1}: 4, {1, 2}: 3, {2, 2}: 6, {3, 2}: 10, {2, 0}: 1}
	for k, n := range expectedDOFs {
		assert.Equal(t, n, NewLagrange(k[0], k[1]).DOFs())
	}
	assert.Panics(t, func() { NewLagrange(2, 3) })
}

func TestSpaceSizes(t *testing.T) {
	m := geometry.UniformSquare(2)
	assert.Equal(t, 9, NewH1(m, 1, 1).Size())
	assert.Equal(t, 25, NewH1(m, 2, 1).Size())
	assert.Equal(t, 18, NewH1(m, 1, 2).Size())
	assert.Equal(t, 8, NewL2(m, 0, 1).Size())
	assert.Equal(t, 24, NewL2(m, 1, 1).Size())
	assert.Equal(t, "H1(P1, vdim 2, 18 dofs)", NewH1(m, 1, 2).String())
	assert.Panics(t, func() { NewH1(m, 0, 1) })
	assert.Panics(t, func() { NewL2(m, 2, 1) })
}

func TestDOFLayout(t *testing.T) {
	m := geometry.UniformSquare(1)
	fes := NewH1(m, 1, 2)
	el := m.Element(0)
	assert.Equal(t, m.EToV[0], fes.ScalarDOFs(el))
	dofs := fes.DOFs(el)
	require.Len(t, dofs, 6)
	for i, v := range m.EToV[0] {
		assert.Equal(t, v, dofs[i])
		assert.Equal(t, v+4, dofs[3+i])
	}
	face := m.Face(0)
	assert.Len(t, fes.DOFs(face), 4)

	p2 := NewH1(m, 2, 1)
	assert.Len(t, p2.DOFs(el), 6)
	assert.Len(t, p2.DOFs(face), 3)
	for _, d := range p2.DOFs(el)[3:] {
		assert.GreaterOrEqual(t, d, m.VertexCount())
	}

	l2 := NewL2(m, 1, 1)
	assert.Equal(t, []int{3, 4, 5}, l2.DOFs(m.Element(1)))
	assert.Panics(t, func() { l2.DOFs(face) })
	assert.Nil(t, l2.BoundaryDOFs())
}

func TestBoundaryDOFs(t *testing.T) {
	m := geometry.UniformSquare(2)
	fes := NewH1(m, 1, 1)
	assert.Len(t, fes.BoundaryDOFs(), 8)
	assert.Equal(t, []int{0, 1, 2}, fes.BoundaryDOFs(1))
	assert.Len(t, fes.BoundaryDOFs(1, 3), 6)
	assert.Len(t, NewH1(m, 2, 1).BoundaryDOFs(1), 5)
	assert.Len(t, NewH1(m, 1, 2).BoundaryDOFs(1), 6)
}

func TestPhysicalGradient(t *testing.T) {
	m, err := geometry.NewBuilder(2, 2).
		Vertex(0, 0).Vertex(2, 0).Vertex(0, 1).
		Element(1, 0, 1, 2).
		Finalize()
	require.NoError(t, err)
	fes := NewH1(m, 1, 1)
	G := fes.PhysicalGradient(m.Element(0), []float64{.2, .2})
	expected := mat.NewDense(3, 2, []float64{
		-.5, -1,
		.5, 0,
		0, 1,
	})
	assert.True(t, mat.EqualApprox(expected, G, 1.e-14))

	// Tangential gradient on a boundary face: the bottom edge from (0,0) to (2,0)
	for it := m.BoundaryIter(); !it.End(); it.Next() {
		s := it.Simplex()
		if s.Centroid()[1] != 0 {
			continue
		}
		G = fes.PhysicalGradient(s, []float64{.5})
		assert.True(t, mat.EqualApprox(mat.NewDense(2, 2, []float64{-.5, 0, .5, 0}), G, 1.e-14))
	}
}
