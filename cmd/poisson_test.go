package cmd

import (
	"bytes"
	"testing"

	"github.com/notargets/goform/geometry"
	"github.com/notargets/goform/geometry/meshio"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

var testProblem = []byte(`
Title: Test Case
MeshFile: square.msh
PolynomialOrder: 1
Source: 1.
Solver: lu
DirichletBCs:
  1: 0.
  3: 0.
NeumannBCs:
  2: 1.
`)

func TestProcessPoissonInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "problem.yaml", testProblem, 0644))
	{ // No input file
		_, err := processPoissonInput(fs, &ModelPoisson{})
		assert.Error(t, err)
	}
	{ // Missing input file
		_, err := processPoissonInput(fs, &ModelPoisson{ICFile: "missing.yaml"})
		assert.Error(t, err)
	}
	{ // Flags override the file
		ip, err := processPoissonInput(fs, &ModelPoisson{ICFile: "problem.yaml", Order: 2, MeshFile: "other.mfem"})
		require.NoError(t, err)
		assert.Equal(t, "Test Case", ip.Title)
		assert.Equal(t, 2, ip.PolynomialOrder)
		assert.Equal(t, "other.mfem", ip.MeshFile)
		assert.Equal(t, "lu", ip.Solver)
		assert.Equal(t, map[int]float64{1: 0, 3: 0}, ip.DirichletBCs)
	}
	{ // Invalid order
		_, err := processPoissonInput(fs, &ModelPoisson{ICFile: "problem.yaml", Order: 5})
		assert.Error(t, err)
	}
}

func TestRunPoisson(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "problem.yaml", testProblem, 0644))
	require.NoError(t, meshio.Save(fs, geometry.UniformSquare(4), "square.msh", meshio.GMSH))

	require.NoError(t, RunPoisson(fs, &ModelPoisson{ICFile: "problem.yaml", OutputMesh: "out.mfem", Parallel: 2}))
	m, err := meshio.Load(fs, "out.mfem", meshio.MFEM)
	require.NoError(t, err)
	assert.Equal(t, 32, m.ElementCount())

	// Solution files
	require.NoError(t, RunPoisson(fs, &ModelPoisson{ICFile: "problem.yaml", OutputSolution: "u.sol"}))
	u, err := meshio.LoadSolution(fs, "u.sol", meshio.MEDIT)
	require.NoError(t, err)
	assert.Len(t, u.Data, 25)
	assert.InDelta(t, 0., floats.Min(u.Data), 1.e-12)
	assert.Greater(t, floats.Max(u.Data), 0.)
	require.NoError(t, RunPoisson(fs, &ModelPoisson{ICFile: "problem.yaml", OutputSolution: "u.gf", Order: 2}))
	u, err = meshio.LoadSolution(fs, "u.gf", meshio.MFEM)
	require.NoError(t, err)
	assert.Equal(t, "H1_2D_P2", u.Collection())
	assert.Len(t, u.Data, 81)
	assert.Error(t, RunPoisson(fs, &ModelPoisson{ICFile: "problem.yaml", OutputSolution: "u.vtk"}))

	// Unknown mesh extension
	assert.Error(t, RunPoisson(fs, &ModelPoisson{ICFile: "problem.yaml", MeshFile: "square.vtk"}))
	// Missing mesh file
	assert.Error(t, RunPoisson(fs, &ModelPoisson{ICFile: "problem.yaml", MeshFile: "missing.msh"}))
}

func TestMeshCommands(t *testing.T) {
	fs := afero.NewMemMapFs()
	m, err := GenerateMesh("square", 2)
	require.NoError(t, err)
	require.NoError(t, meshio.Save(fs, m, "square.mfem", meshio.MFEM))

	require.NoError(t, ConvertMesh(fs, "square.mfem", "", "square.mesh"))
	c, err := loadMesh(fs, "square.mesh", "medit")
	require.NoError(t, err)
	assert.Equal(t, m.ElementCount(), c.ElementCount())
	assert.InDelta(t, 4., c.Perimeter(), 1e-12)

	var buf bytes.Buffer
	require.NoError(t, MeshInfo(&buf, c, false))
	assert.Contains(t, buf.String(), "9 vertices, 8 elements")
	assert.Contains(t, buf.String(), "Boundary attribute 4: perimeter 1")

	_, err = GenerateMesh("torus", 2)
	assert.Error(t, err)
	for _, shape := range []string{"interval", "cube"} {
		m, err := GenerateMesh(shape, 1)
		require.NoError(t, err)
		assert.InDelta(t, 1., m.Volume(), 1e-12)
	}
}
