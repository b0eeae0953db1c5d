package Poisson

import (
	"testing"

	"github.com/notargets/goform/InputParameters"
	"github.com/notargets/goform/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoissonLinearProfile(t *testing.T) {
	var (
		m  = geometry.UniformSquare(4)
		ip = InputParameters.NewProblemParameters()
	)
	// u = 0 at y = 0, u = 1 at y = 1, insulated sides: u = y
	ip.DirichletBCs = map[int]float64{1: 0, 3: 1}
	ip.ParallelDegree = 3
	c, err := NewPoisson(m, ip, false)
	require.NoError(t, err)
	c.Assemble()
	require.NoError(t, c.Solve())
	data := c.Solution().Data().RawVector().Data
	for i, x := range m.Vertices {
		assert.InDelta(t, x[1], data[i], 1.e-8)
	}
	uMin, uMax, mean := c.Summary()
	assert.InDelta(t, 0., uMin, 1.e-8)
	assert.InDelta(t, 1., uMax, 1.e-8)
	assert.InDelta(t, .5, mean, 1.e-8)
}

func TestPoissonSourceAndFlux(t *testing.T) {
	var (
		m  = geometry.UniformInterval(8)
		ip = InputParameters.NewProblemParameters()
	)
	// -2 u'' = 2 on (0, 1), u(0) = 0, 2 u'(1) = 2: u = -x^2/2 + 2x
	ip.PolynomialOrder = 2
	ip.Diffusion = 2
	ip.Source = 2
	ip.DirichletBCs = map[int]float64{1: 0}
	ip.NeumannBCs = map[int]float64{2: 2}
	ip.Solver = "lu"
	c, err := NewPoisson(m, ip, false)
	require.NoError(t, err)
	require.NoError(t, c.Solve())
	data := c.Solution().Data().RawVector().Data
	for i, x := range m.Vertices {
		assert.InDelta(t, -x[0]*x[0]/2+2*x[0], data[i], 1.e-10)
	}
}

func TestPoissonErrors(t *testing.T) {
	ip := InputParameters.NewProblemParameters()
	ip.PolynomialOrder = 5
	_, err := NewPoisson(geometry.UniformSquare(2), ip, false)
	assert.Error(t, err)

	ip = InputParameters.NewProblemParameters()
	ip.Solver = "gmres"
	c, err := NewPoisson(geometry.UniformSquare(2), ip, false)
	require.NoError(t, err)
	assert.Error(t, c.Solve())
}
