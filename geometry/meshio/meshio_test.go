package meshio

import (
	"strings"
	"testing"

	"github.com/notargets/goform/geometry"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSameMesh(t *testing.T, expected, actual *geometry.Mesh, format FileFormat) {
	require.Equal(t, expected.Dim, actual.Dim, format)
	require.Equal(t, expected.SpaceDim, actual.SpaceDim, format)
	require.Equal(t, expected.VertexCount(), actual.VertexCount(), format)
	for i := range expected.Vertices {
		assert.InDeltaSlice(t, expected.Vertices[i], actual.Vertices[i], 1.e-15, format)
	}
	assert.Equal(t, expected.EToV, actual.EToV, format)
	assert.Equal(t, expected.ElementAttributes, actual.ElementAttributes, format)
	require.Equal(t, expected.FaceCount(), actual.FaceCount(), format)
	for key, f := range expected.FaceMap {
		g, ok := actual.FaceMap[key]
		require.True(t, ok, format)
		assert.Equal(t, expected.FaceAttributes[f], actual.FaceAttributes[g], "%v face %s", format, key)
	}
}

func TestRoundTrip(t *testing.T) {
	square := geometry.UniformSquare(3)
	for i := 0; i < square.ElementCount(); i += 2 {
		square.SetElementAttribute(i, 7)
	}
	// An interior face tag survives
	square.SetFaceAttribute(square.InterfaceIter().Simplex().Index(), 9)
	meshes := []*geometry.Mesh{geometry.UniformInterval(4), square, geometry.UniformCube(2)}

	fs := afero.NewMemMapFs()
	for _, format := range []FileFormat{MFEM, GMSH, MEDIT} {
		for _, m := range meshes {
			path := "test." + strings.ToLower(format.String())
			err := Save(fs, m, path, format)
			if format == MEDIT && m.Dim == 1 {
				assert.Error(t, err)
				continue
			}
			require.NoError(t, err, format)
			loaded, err := Load(fs, path, format)
			require.NoError(t, err, format)
			assertSameMesh(t, m, loaded, format)
		}
	}
	_, err := Load(fs, "/missing.msh", GMSH)
	assert.Error(t, err)
}

func TestFormats(t *testing.T) {
	for name, expected := range map[string]FileFormat{"mfem": MFEM, "Gmsh": GMSH, "MEDIT": MEDIT} {
		f, err := ParseFileFormat(name)
		require.NoError(t, err)
		assert.Equal(t, expected, f)
	}
	_, err := ParseFileFormat("vtk")
	assert.Error(t, err)
	for path, expected := range map[string]FileFormat{"a.mfem": MFEM, "b/c.MSH": GMSH, "d.mesh": MEDIT} {
		f, err := FormatFromExtension(path)
		require.NoError(t, err)
		assert.Equal(t, expected, f)
	}
	_, err = FormatFromExtension("e.su2")
	assert.Error(t, err)
}

const gmshSquare = `$MeshFormat
2.2 0 8
$EndMeshFormat
$PhysicalNames
2
1 10 "wall"
2 20 "fluid"
$EndPhysicalNames
$Nodes
4
11 0 0 0
12 1 0 0
13 1 1 0
14 0 1 0
$EndNodes
$Elements
5
1 15 2 0 1 11
2 1 2 10 1 11 12
3 1 2 10 2 12 13
4 2 2 20 3 11 12 13
5 2 2 20 3 11 13 14
$EndElements
$NodeData
1
"u"
$EndNodeData
`

func TestReadGmsh(t *testing.T) {
	m, err := Read(strings.NewReader(gmshSquare), GMSH)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Dim)
	assert.Equal(t, 2, m.SpaceDim)
	assert.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}}, m.EToV)
	assert.Equal(t, []int{20, 20}, m.ElementAttributes)
	assert.InDelta(t, 2., m.PerimeterOf(10), 1.e-15)
	assert.InDelta(t, 2., m.PerimeterOf(geometry.DefaultAttribute), 1.e-15)

	bad := []string{
		strings.Replace(gmshSquare, "2.2 0 8", "4.1 0 8", 1),
		strings.Replace(gmshSquare, "2.2 0 8", "2.2 1 8", 1),
		strings.Replace(gmshSquare, "4 2 2 20 3 11 12 13", "4 3 2 20 3 11 12 13 14", 1),
		strings.Replace(gmshSquare, "5 2 2 20 3 11 13 14", "5 2 2 20 3 11 13 15", 1),
		strings.Replace(gmshSquare, "$EndElements\n", "", 1),
	}
	for i, text := range bad {
		_, err := Read(strings.NewReader(text), GMSH)
		assert.Error(t, err, "case %d", i)
	}
}

func TestReadMFEMAndMedit(t *testing.T) {
	mfem := `MFEM mesh v1.0

# One triangle
dimension
2

elements
1
3 2 0 1 2

boundary
1
5 1 0 1

vertices
3
2
0 0
2 0
0 2
`
	m, err := Read(strings.NewReader(mfem), MFEM)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, m.ElementAttributes)
	assert.InDelta(t, 2., m.PerimeterOf(5), 1.e-15)
	assert.InDelta(t, 2., m.Volume(), 1.e-15)

	_, err = Read(strings.NewReader(strings.Replace(mfem, "v1.0", "v1.2", 1)), MFEM)
	assert.Error(t, err)
	_, err = Read(strings.NewReader(strings.Replace(mfem, "3 2 0 1 2", "3 3 0 1 2 3", 1)), MFEM)
	assert.Error(t, err)
	// Fractional vertex indices and malformed coordinates are rejected, not truncated
	_, err = Read(strings.NewReader(strings.Replace(mfem, "5 1 0 1\n", "5 1 0 1.7\n", 1)), MFEM)
	assert.ErrorContains(t, err, `invalid integer "1.7"`)
	_, err = Read(strings.NewReader(strings.Replace(mfem, "2 0\n0 2", "2 0\n0 2x", 1)), MFEM)
	assert.ErrorContains(t, err, `invalid number "2x"`)

	medit := `MeshVersionFormatted 2
Dimension 2
Vertices
3
0 0 0
2 0 0
0 2 0
Triangles
1
1 2 3 3
Edges
1
1 2 5
End
`
	m2, err := Read(strings.NewReader(medit), MEDIT)
	require.NoError(t, err)
	assertSameMesh(t, m, m2, MEDIT)

	_, err = Read(strings.NewReader(strings.Replace(medit, "Edges", "Corners", 1)), MEDIT)
	assert.Error(t, err)
}

func TestUnknownFormat(t *testing.T) {
	var (
		fs  = afero.NewMemMapFs()
		bad = FileFormat(7)
	)
	assert.Equal(t, "FileFormat(7)", bad.String())
	_, err := Load(fs, "a.mesh", bad)
	assert.EqualError(t, err, "unsupported mesh format: FileFormat(7)")

	err = Save(fs, geometry.UniformSquare(1), "b.mesh", bad)
	assert.EqualError(t, err, "unsupported mesh format: FileFormat(7)")
	exists, err := afero.Exists(fs, "b.mesh")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = Read(strings.NewReader(""), bad)
	assert.EqualError(t, err, "unsupported mesh format: FileFormat(7)")
}
