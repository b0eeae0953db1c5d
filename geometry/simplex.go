package geometry

import "math"

// Simplex is a handle on one element or face of a mesh
type Simplex struct {
	mesh  *Mesh
	dim   int
	index int
	trans *Transformation
}

func (s *Simplex) Mesh() *Mesh       { return s.mesh }
func (s *Simplex) Dimension() int    { return s.dim }
func (s *Simplex) Index() int        { return s.index }
func (s *Simplex) IsElement() bool   { return s.dim == s.mesh.Dim }
func (s *Simplex) IsBoundary() bool  { return !s.IsElement() && len(s.mesh.FToE[s.index]) == 1 }
func (s *Simplex) IsInterface() bool { return !s.IsElement() && len(s.mesh.FToE[s.index]) > 1 }
func (s *Simplex) VertexCount() int  { return s.dim + 1 }
func (s *Simplex) Vertices() []int {
	if s.IsElement() {
		return s.mesh.EToV[s.index]
	}
	return s.mesh.FToV[s.index]
}

func (s *Simplex) Attribute() int {
	if s.IsElement() {
		return s.mesh.ElementAttributes[s.index]
	}
	return s.mesh.FaceAttributes[s.index]
}

// Region is Domain for elements, Boundary or Interface for faces
func (s *Simplex) Region() Region {
	switch {
	case s.IsElement():
		return Domain
	case s.IsBoundary():
		return Boundary
	}
	return Interface
}

// Incident returns the elements sharing a face, nil for elements
func (s *Simplex) Incident() []int {
	if s.IsElement() {
		return nil
	}
	return s.mesh.FToE[s.index]
}

// Edges returns the global edge indices following SimplexEdges(Dimension())
func (s *Simplex) Edges() []int {
	if s.IsElement() {
		return s.mesh.EToEdge[s.index]
	}
	return s.mesh.FToEdge[s.index]
}

func (s *Simplex) Coordinates() (X [][]float64) {
	verts := s.Vertices()
	X = make([][]float64, len(verts))
	for i, v := range verts {
		X[i] = s.mesh.Vertices[v]
	}
	return
}

func (s *Simplex) Transformation() *Transformation {
	if s.trans == nil {
		s.trans = NewAffineTransformation(s.Coordinates())
	}
	return s.trans
}

func (s *Simplex) Centroid() (c []float64) {
	c = make([]float64, s.mesh.SpaceDim)
	X := s.Coordinates()
	for _, x := range X {
		for i := range c {
			c[i] += x[i]
		}
	}
	for i := range c {
		c[i] /= float64(len(X))
	}
	return
}

// Measure is the length, area or volume of the simplex, one for points
func (s *Simplex) Measure() float64 {
	return s.Transformation().Weight() * referenceVolume(s.dim)
}

// SimplexIterator walks a simplex collection in mesh enumeration order. It is forward only and
// restartable with Reset.
type SimplexIterator struct {
	mesh    *Mesh
	dim     int
	indices []int // nil means 0..count-1
	count   int
	pos     int
}

func (it *SimplexIterator) End() bool  { return it.pos >= it.count }
func (it *SimplexIterator) Next()      { it.pos++ }
func (it *SimplexIterator) Reset()     { it.pos = 0 }
func (it *SimplexIterator) Count() int { return it.count }

func (it *SimplexIterator) Simplex() *Simplex {
	idx := it.pos
	if it.indices != nil {
		idx = it.indices[it.pos]
	}
	return &Simplex{mesh: it.mesh, dim: it.dim, index: idx}
}

func norm(x []float64) (n float64) {
	for _, v := range x {
		n += v * v
	}
	return math.Sqrt(n)
}
