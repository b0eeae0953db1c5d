package meshio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolutionRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	cases := []struct {
		format FileFormat
		sol    *Solution
	}{
		{MFEM, &Solution{Family: "H1", Dim: 2, Order: 2, VDim: 2, Data: []float64{1, 2, 3, .1, .2, 1.e-30}}},
		{MFEM, &Solution{Family: "L2", Dim: 3, Order: 1, VDim: 1, Data: []float64{-1, 0, 1. / 3}}},
		{MEDIT, &Solution{Family: "H1", Dim: 2, Order: 1, VDim: 1, Data: []float64{0, .5, 1.7}}},
		{MEDIT, &Solution{Family: "H1", Dim: 2, Order: 1, VDim: 2, Data: []float64{1, 2, 3, 4, 5, 6}}},
	}
	for _, c := range cases {
		require.NoError(t, SaveSolution(fs, c.sol, "/u.gf", c.format))
		s, err := LoadSolution(fs, "/u.gf", c.format)
		require.NoError(t, err, c.format)
		assert.Equal(t, c.sol, s, c.format)
	}
}

func TestSolutionFiles(t *testing.T) {
	{ // MFEM header and node major ordering
		var buf bytes.Buffer
		require.NoError(t, WriteSolution(&buf,
			&Solution{Family: "H1", Dim: 2, Order: 1, VDim: 1, Data: []float64{1, 2.5}}, MFEM))
		assert.Equal(t, "FiniteElementSpace\nFiniteElementCollection: H1_2D_P1\nVDim: 1\nOrdering: 0\n\n1\n2.5\n",
			buf.String())
		s, err := ReadSolution(strings.NewReader(
			"FiniteElementSpace\nFiniteElementCollection: H1_2D_P1\nVDim: 2\nOrdering: 1\n\n1 10\n2 20\n3 30\n"), MFEM)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3, 10, 20, 30}, s.Data)
	}
	{ // Medit vertex values, one line per vertex
		var buf bytes.Buffer
		require.NoError(t, WriteSolution(&buf,
			&Solution{Family: "H1", Dim: 2, Order: 1, VDim: 2, Data: []float64{1, 2, 3, 4}}, MEDIT))
		assert.Equal(t, "MeshVersionFormatted 2\nDimension 2\n\nSolAtVertices\n2\n1 2\n1 3\n2 4\n\nEnd\n", buf.String())
	}
	{ // Rejected files
		_, err := ReadSolution(strings.NewReader("FiniteElementSpace\nFiniteElementCollection: ND_2D_P1\n"), MFEM)
		assert.ErrorContains(t, err, `unsupported finite element collection "ND_2D_P1"`)
		_, err = ReadSolution(strings.NewReader(
			"FiniteElementSpace\nFiniteElementCollection: H1_2D_P1\nVDim: 2\nOrdering: 0\n\n1 2 3\n"), MFEM)
		assert.EqualError(t, err, "3 coefficients do not split into 2 components")
		_, err = ReadSolution(strings.NewReader(
			"FiniteElementSpace\nFiniteElementCollection: H1_2D_P1\nVDim: 1\nOrdering: 0\n\n1 2.x\n"), MFEM)
		assert.ErrorContains(t, err, `invalid number "2.x"`)
		_, err = ReadSolution(strings.NewReader("MeshVersionFormatted 2\nDimension 2\nEnd\n"), MEDIT)
		assert.EqualError(t, err, "no SolAtVertices section found")
		_, err = ReadSolution(strings.NewReader("MeshVersionFormatted 2\nDimension 2\nSolAtVertices\n1\n2 1 1\n"), MEDIT)
		assert.ErrorContains(t, err, "2 solution fields found")
	}
	{ // Formats that cannot hold the function
		err := WriteSolution(&bytes.Buffer{}, &Solution{Family: "H1", Dim: 2, Order: 2, VDim: 1, Data: []float64{1}}, MEDIT)
		assert.EqualError(t, err, "Medit solutions hold vertex values, got H1 P2")
		err = WriteSolution(&bytes.Buffer{}, &Solution{Family: "H1", Dim: 2, Order: 1, VDim: 1, Data: []float64{1}}, GMSH)
		assert.EqualError(t, err, "GMSH solutions are not supported")
		fs := afero.NewMemMapFs()
		err = SaveSolution(fs, &Solution{VDim: 1}, "/u.gf", FileFormat(7))
		assert.EqualError(t, err, "unsupported mesh format: FileFormat(7)")
		exists, _ := afero.Exists(fs, "/u.gf")
		assert.False(t, exists)
	}
}
