package geometry

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformMeshes(t *testing.T) {
	tests := []struct {
		name               string
		mesh               *Mesh
		nv, ne, nf, nb, ni int
		volume, perimeter  float64
		boundaryAttrs      []int
	}{
		{"interval", UniformInterval(4), 5, 4, 5, 2, 3, 1, 2, []int{1, 2}},
		{"square", UniformSquare(2), 9, 8, 16, 8, 8, 1, 4, []int{1, 2, 3, 4}},
		{"cube", UniformCube(1), 8, 6, 18, 12, 6, 1, 6, []int{1, 2, 3, 4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.mesh
			assert.Equal(t, tt.nv, m.VertexCount())
			assert.Equal(t, tt.ne, m.ElementCount())
			assert.Equal(t, tt.nf, m.FaceCount())
			assert.Equal(t, tt.nb, m.BoundaryCount())
			assert.Equal(t, tt.ni, m.InterfaceCount())
			assert.InDelta(t, tt.volume, m.Volume(), 1.e-12)
			assert.InDelta(t, tt.perimeter, m.Perimeter(), 1.e-12)
			assert.Equal(t, tt.boundaryAttrs, m.BoundaryAttributes().Slice())
			assert.NoError(t, m.Validate())
		})
	}
}

func TestPerimeterOfAttribute(t *testing.T) {
	m := UniformSquare(3)
	for attr := 1; attr <= 4; attr++ {
		assert.InDelta(t, 1., m.PerimeterOf(attr), 1.e-12)
	}
	c := UniformCube(2)
	assert.InDelta(t, 1., c.PerimeterOf(5), 1.e-12)
	assert.InDelta(t, 2., c.PerimeterOf(1, 6), 1.e-12)
}

func TestRegionIteration(t *testing.T) {
	m := UniformSquare(2)
	var count int
	it := m.BoundaryIter()
	for ; !it.End(); it.Next() {
		s := it.Simplex()
		assert.True(t, s.IsBoundary())
		assert.Equal(t, Boundary, s.Region())
		assert.Len(t, s.Incident(), 1)
		count++
	}
	assert.Equal(t, 8, count)
	// Restartable
	it.Reset()
	assert.False(t, it.End())
	for it = m.InterfaceIter(); !it.End(); it.Next() {
		assert.Equal(t, Interface, it.Simplex().Region())
		assert.Len(t, it.Simplex().Incident(), 2)
	}
	for it = m.ElementIter(); !it.End(); it.Next() {
		assert.Equal(t, Domain, it.Simplex().Region())
		assert.Nil(t, it.Simplex().Incident())
	}
}

func TestTransformation(t *testing.T) {
	t.Run("triangle", func(t *testing.T) {
		tr := NewAffineTransformation([][]float64{{0, 0}, {2, 0}, {0, 1}})
		assert.InDelta(t, 2., tr.Weight(), 1.e-14)
		x := tr.Transform([]float64{.5, .5})
		assert.InDeltaSlice(t, []float64{1, .5}, x, 1.e-14)
		assert.InDeltaSlice(t, []float64{.5, .5}, tr.Inverse(x), 1.e-14)
		assert.Equal(t, 1, tr.Order())
		assert.Equal(t, 0, tr.WeightOrder())
	})
	t.Run("embedded segment", func(t *testing.T) {
		tr := NewAffineTransformation([][]float64{{0, 0}, {3, 4}})
		assert.InDelta(t, 5., tr.Weight(), 1.e-14)
		assert.InDeltaSlice(t, []float64{.5}, tr.Inverse([]float64{1.5, 2}), 1.e-14)
	})
	t.Run("point", func(t *testing.T) {
		tr := NewAffineTransformation([][]float64{{1, 2}})
		assert.Equal(t, 1., tr.Weight())
		assert.Equal(t, []float64{1, 2}, tr.Transform(nil))
	})
}

func TestNormal(t *testing.T) {
	m := UniformSquare(2)
	for it := m.BoundaryIter(); !it.End(); it.Next() {
		s := it.Simplex()
		n := NewPoint(s, []float64{.5}).Normal()
		var expected []float64
		switch s.Attribute() {
		case 1:
			expected = []float64{0, -1}
		case 2:
			expected = []float64{1, 0}
		case 3:
			expected = []float64{0, 1}
		case 4:
			expected = []float64{-1, 0}
		}
		assert.InDeltaSlice(t, expected, n, 1.e-12)
	}
	assert.Panics(t, func() { NewPoint(m.Element(0), []float64{0, 0}).Normal() })
	iv := UniformInterval(2)
	for it := iv.BoundaryIter(); !it.End(); it.Next() {
		n := NewPoint(it.Simplex(), nil).Normal()
		assert.InDelta(t, 1., math.Abs(n[0]), 1.e-14)
	}
}

func TestBuilderErrors(t *testing.T) {
	_, err := NewBuilder(2, 2).
		Vertex(0, 0).Vertex(1, 0).Vertex(0, 1).
		Element(1, 0, 1, 7).
		Finalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing vertex 7")

	_, err = NewBuilder(2, 2).
		Vertex(0, 0).Vertex(1, 0).Vertex(0, 1).Vertex(1, 1, 1).
		Element(1, 0, 1, 2).
		Face(3, 0, 3).
		Finalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertex 3 has 3 coordinates")

	_, err = NewBuilder(2, 2).
		Vertex(0, 0).Vertex(1, 0).Vertex(2, 0).
		Element(1, 0, 1, 2).
		Finalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degenerate")

	m, err := NewBuilder(2, 2).
		Vertex(0, 0).Vertex(1, 0).Vertex(0, 1).
		Element(1, 0, 1, 2).
		Face(7, 1, 0).
		Finalize()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 7}, m.BoundaryAttributes().Slice())
	assert.InDelta(t, 1., m.PerimeterOf(7), 1.e-14)
}

func splitSquare(n int) *Mesh {
	m := UniformSquare(n)
	for it := m.ElementIter(); !it.End(); it.Next() {
		if s := it.Simplex(); s.Centroid()[0] > .5 {
			m.SetElementAttribute(s.Index(), 2)
		}
	}
	return m
}

func TestKeepTrim(t *testing.T) {
	m := splitSquare(2)
	assert.Equal(t, []int{1, 2}, m.Attributes().Slice())
	assert.InDelta(t, .5, m.VolumeOf(2), 1.e-12)

	left, err := m.Keep(1)
	require.NoError(t, err)
	assert.Equal(t, 4, left.ElementCount())
	assert.InDelta(t, .5, left.Volume(), 1.e-12)
	assert.InDelta(t, 3., left.Perimeter(), 1.e-12)
	// The cut at x=1/2 is new boundary and carries the default attribute, as does y=0
	assert.InDelta(t, 1.5, left.PerimeterOf(DefaultAttribute), 1.e-12)
	assert.InDelta(t, 1., left.PerimeterOf(4), 1.e-12)
	for i, pe := range left.ElementMap {
		assert.Equal(t, 1, m.ElementAttributes[pe])
		assert.InDeltaSlice(t, m.Element(pe).Centroid(), left.Element(i).Centroid(), 1.e-14)
	}

	right, err := m.Trim(1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, right.Attributes().Slice())
	assert.InDelta(t, .5, right.Volume(), 1.e-12)

	_, err = m.Trim(1, 2)
	assert.Error(t, err)
	_, err = m.Keep(9)
	assert.Error(t, err)
}

func TestSkinAndScale(t *testing.T) {
	m := UniformSquare(2)
	skin, err := m.Skin()
	require.NoError(t, err)
	assert.Equal(t, 1, skin.Dimension())
	assert.Equal(t, 2, skin.SpaceDimension())
	assert.Equal(t, 8, skin.ElementCount())
	assert.InDelta(t, 4., skin.Volume(), 1.e-12)
	assert.InDelta(t, 1., skin.VolumeOf(3), 1.e-12)
	_, err = UniformInterval(2).Skin()
	assert.Error(t, err)

	m.Scale(2)
	assert.InDelta(t, 4., m.Volume(), 1.e-12)
	assert.InDelta(t, 8., m.Perimeter(), 1.e-12)
}

func TestAttributeSet(t *testing.T) {
	var empty AttributeSet
	assert.True(t, empty.Matches(42))
	s := NewAttributeSet(3, 1)
	assert.True(t, s.Matches(1))
	assert.False(t, s.Matches(2))
	c := s.Copy()
	c[2] = struct{}{}
	assert.False(t, s.Contains(2))
	assert.Equal(t, []int{1, 2, 3}, s.Union(NewAttributeSet(2)).Slice())
	assert.Equal(t, "[1 3]", s.String())
	assert.Equal(t, "Interface", Interface.String())
}

func TestPrintStatistics(t *testing.T) {
	var buf bytes.Buffer
	UniformInterval(2).PrintStatistics(&buf)
	assert.Equal(t, `Dimension 1 in 1 dimensional space
3 vertices, 2 elements, 3 faces (2 boundary, 1 interface)
Element attribute 1: volume 1
Boundary attribute 1: perimeter 1
Boundary attribute 2: perimeter 1
`, buf.String())
	assert.Equal(t, "Interface", Interface.String())
	assert.Equal(t, "Region(9)", Region(9).String())
}
