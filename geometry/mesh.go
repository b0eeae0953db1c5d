package geometry

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// DefaultAttribute is carried by faces that were never tagged by a boundary element
const DefaultAttribute = 1

// Mesh is an unstructured simplicial mesh with all connectivity needed for assembly
type Mesh struct {
	Dim      int // Topological dimension of the elements
	SpaceDim int // Dimension of the coordinate space

	// Geometry
	Vertices [][]float64 // Vertex coordinates [nvertices][SpaceDim]

	// Element data
	EToV              [][]int // Element to vertex connectivity [nelems][Dim+1]
	ElementAttributes []int

	// Face data, faces are the (Dim-1) simplices of the elements
	FToV           [][]int        // Face to vertex, sorted [nfaces][Dim]
	FaceAttributes []int          // Attribute of each face
	FToE           [][]int        // Elements incident to each face, one (boundary) or two (interface)
	EToF           [][]int        // Element local face i is the face opposite local vertex i
	FaceMap        map[string]int // Map from sorted vertex string to face ID

	// Edge data, used by second order spaces
	Edges   [][2]int
	EdgeMap map[string]int
	EToEdge [][]int // Element local edge k follows SimplexEdges(Dim)
	FToEdge [][]int // Face local edge k follows SimplexEdges(Dim-1)

	boundary   []int
	interfaces []int
}

func simplexKey(v []int) string {
	sorted := make([]int, len(v))
	copy(sorted, v)
	sort.Ints(sorted)
	return fmt.Sprintf("%v", sorted)
}

// SimplexEdges returns the local vertex pairs forming the edges of a reference simplex
func SimplexEdges(dim int) (edges [][2]int) {
	for i := 0; i <= dim; i++ {
		for j := i + 1; j <= dim; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}
	return
}

// SimplexFaces returns the local vertices of each face, face i is opposite vertex i
func SimplexFaces(dim int) (faces [][]int) {
	faces = make([][]int, dim+1)
	for i := 0; i <= dim; i++ {
		for j := 0; j <= dim; j++ {
			if j != i {
				faces[i] = append(faces[i], j)
			}
		}
	}
	return
}

// BuildConnectivity builds face, edge and element adjacency from EToV. Face attributes set
// before the call, keyed by the sorted vertex string, are preserved.
func (m *Mesh) BuildConnectivity(faceTags map[string]int) {
	var (
		NE = len(m.EToV)
	)
	m.FToV, m.FToE, m.FaceAttributes = nil, nil, nil
	m.FaceMap = make(map[string]int)
	m.EToF = make([][]int, NE)
	m.Edges = nil
	m.EdgeMap = make(map[string]int)
	m.EToEdge = make([][]int, NE)

	localFaces := SimplexFaces(m.Dim)
	localEdges := SimplexEdges(m.Dim)
	for elemID, verts := range m.EToV {
		m.EToF[elemID] = make([]int, len(localFaces))
		for localFaceID, lf := range localFaces {
			faceVerts := make([]int, len(lf))
			for i, lv := range lf {
				faceVerts[i] = verts[lv]
			}
			sort.Ints(faceVerts)
			key := fmt.Sprintf("%v", faceVerts)
			if faceID, exists := m.FaceMap[key]; exists {
				// Face already exists - this is an interior face
				m.FToE[faceID] = append(m.FToE[faceID], elemID)
				m.EToF[elemID][localFaceID] = faceID
			} else {
				faceID = len(m.FToV)
				m.FToV = append(m.FToV, faceVerts)
				m.FToE = append(m.FToE, []int{elemID})
				attr := DefaultAttribute
				if tag, ok := faceTags[key]; ok {
					attr = tag
				}
				m.FaceAttributes = append(m.FaceAttributes, attr)
				m.FaceMap[key] = faceID
				m.EToF[elemID][localFaceID] = faceID
			}
		}
		m.EToEdge[elemID] = make([]int, len(localEdges))
		for k, le := range localEdges {
			m.EToEdge[elemID][k] = m.addEdge(verts[le[0]], verts[le[1]])
		}
	}

	m.boundary, m.interfaces = nil, nil
	m.FToEdge = make([][]int, len(m.FToV))
	faceEdges := SimplexEdges(m.Dim - 1)
	for faceID, verts := range m.FToV {
		switch len(m.FToE[faceID]) {
		case 1:
			m.boundary = append(m.boundary, faceID)
		default:
			m.interfaces = append(m.interfaces, faceID)
		}
		m.FToEdge[faceID] = make([]int, len(faceEdges))
		for k, le := range faceEdges {
			m.FToEdge[faceID][k] = m.EdgeMap[simplexKey([]int{verts[le[0]], verts[le[1]]})]
		}
	}
}

func (m *Mesh) addEdge(a, b int) int {
	if a > b {
		a, b = b, a
	}
	key := fmt.Sprintf("%v", []int{a, b})
	if id, ok := m.EdgeMap[key]; ok {
		return id
	}
	id := len(m.Edges)
	m.Edges = append(m.Edges, [2]int{a, b})
	m.EdgeMap[key] = id
	return id
}

func (m *Mesh) Dimension() int      { return m.Dim }
func (m *Mesh) SpaceDimension() int { return m.SpaceDim }
func (m *Mesh) VertexCount() int    { return len(m.Vertices) }
func (m *Mesh) ElementCount() int   { return len(m.EToV) }
func (m *Mesh) FaceCount() int      { return len(m.FToV) }
func (m *Mesh) EdgeCount() int      { return len(m.Edges) }
func (m *Mesh) BoundaryCount() int  { return len(m.boundary) }
func (m *Mesh) InterfaceCount() int { return len(m.interfaces) }

func (m *Mesh) Element(i int) *Simplex {
	return &Simplex{mesh: m, dim: m.Dim, index: i}
}

func (m *Mesh) Face(i int) *Simplex {
	return &Simplex{mesh: m, dim: m.Dim - 1, index: i}
}

func (m *Mesh) ElementIter() *SimplexIterator {
	return &SimplexIterator{mesh: m, dim: m.Dim, count: len(m.EToV)}
}

func (m *Mesh) FaceIter() *SimplexIterator {
	return &SimplexIterator{mesh: m, dim: m.Dim - 1, count: len(m.FToV)}
}

func (m *Mesh) BoundaryIter() *SimplexIterator {
	return &SimplexIterator{mesh: m, dim: m.Dim - 1, indices: m.boundary, count: len(m.boundary)}
}

func (m *Mesh) InterfaceIter() *SimplexIterator {
	return &SimplexIterator{mesh: m, dim: m.Dim - 1, indices: m.interfaces, count: len(m.interfaces)}
}

// Iter returns the iterator over the simplex collection of a region
func (m *Mesh) Iter(r Region) *SimplexIterator {
	switch r {
	case Domain:
		return m.ElementIter()
	case Boundary:
		return m.BoundaryIter()
	case Interface:
		return m.InterfaceIter()
	}
	panic(fmt.Errorf("unknown region %d", r))
}

// Attributes returns the set of element attributes
func (m *Mesh) Attributes() AttributeSet {
	return NewAttributeSet(m.ElementAttributes...)
}

// BoundaryAttributes returns the set of attributes carried by boundary faces
func (m *Mesh) BoundaryAttributes() AttributeSet {
	attrs := make([]int, len(m.boundary))
	for i, f := range m.boundary {
		attrs[i] = m.FaceAttributes[f]
	}
	return NewAttributeSet(attrs...)
}

func (m *Mesh) SetElementAttribute(i, attr int) { m.ElementAttributes[i] = attr }
func (m *Mesh) SetFaceAttribute(i, attr int)    { m.FaceAttributes[i] = attr }

// Volume is the total measure of the elements
func (m *Mesh) Volume() float64 { return m.VolumeOf() }

// VolumeOf is the measure of the elements with one of the attributes, all elements if none given
func (m *Mesh) VolumeOf(attrs ...int) (vol float64) {
	filter := NewAttributeSet(attrs...)
	for it := m.ElementIter(); !it.End(); it.Next() {
		s := it.Simplex()
		if filter.Matches(s.Attribute()) {
			vol += s.Measure()
		}
	}
	return
}

// Perimeter is the total measure of the boundary faces
func (m *Mesh) Perimeter() float64 { return m.PerimeterOf() }

func (m *Mesh) PerimeterOf(attrs ...int) (per float64) {
	filter := NewAttributeSet(attrs...)
	for it := m.BoundaryIter(); !it.End(); it.Next() {
		s := it.Simplex()
		if filter.Matches(s.Attribute()) {
			per += s.Measure()
		}
	}
	return
}

// Scale multiplies every vertex coordinate by c
func (m *Mesh) Scale(c float64) *Mesh {
	for _, v := range m.Vertices {
		for i := range v {
			v[i] *= c
		}
	}
	return m
}

// Validate reports every structural problem of the mesh at once
func (m *Mesh) Validate() error {
	var result *multierror.Error
	if m.Dim < 1 || m.Dim > 3 {
		result = multierror.Append(result, fmt.Errorf("unsupported mesh dimension %d", m.Dim))
	}
	if m.SpaceDim < m.Dim {
		result = multierror.Append(result,
			fmt.Errorf("space dimension %d is lower than mesh dimension %d", m.SpaceDim, m.Dim))
	}
	if len(m.EToV) == 0 {
		result = multierror.Append(result, fmt.Errorf("mesh has no elements"))
	}
	if len(m.ElementAttributes) != len(m.EToV) {
		result = multierror.Append(result, fmt.Errorf("element attribute count %d does not match element count %d",
			len(m.ElementAttributes), len(m.EToV)))
	}
	for i, v := range m.Vertices {
		if len(v) != m.SpaceDim {
			result = multierror.Append(result, fmt.Errorf("vertex %d has %d coordinates, expected %d", i, len(v), m.SpaceDim))
		}
	}
	if result.ErrorOrNil() != nil {
		return result.ErrorOrNil()
	}
	for k, verts := range m.EToV {
		if len(verts) != m.Dim+1 {
			result = multierror.Append(result, fmt.Errorf("element %d has %d vertices, expected %d", k, len(verts), m.Dim+1))
			continue
		}
		inRange := true
		for _, v := range verts {
			if v < 0 || v >= len(m.Vertices) {
				result = multierror.Append(result, fmt.Errorf("element %d references missing vertex %d", k, v))
				inRange = false
			}
		}
		if !inRange {
			continue
		}
		if len(NewAttributeSet(verts...)) != len(verts) {
			result = multierror.Append(result, fmt.Errorf("element %d repeats a vertex: %v", k, verts))
			continue
		}
		if w := m.Element(k).Transformation().Weight(); w < 1.e-14 {
			result = multierror.Append(result, fmt.Errorf("element %d is degenerate, jacobian weight %g", k, w))
		}
		if m.ElementAttributes[k] < 1 {
			result = multierror.Append(result, fmt.Errorf("element %d has non positive attribute %d", k, m.ElementAttributes[k]))
		}
	}
	for f, attr := range m.FaceAttributes {
		if attr < 1 {
			result = multierror.Append(result, fmt.Errorf("face %d has non positive attribute %d", f, attr))
		}
	}
	return result.ErrorOrNil()
}

// PrintStatistics writes the counts of the mesh and the measure of every attribute
func (m *Mesh) PrintStatistics(w io.Writer) {
	fmt.Fprintf(w, "Dimension %d in %d dimensional space\n", m.Dim, m.SpaceDim)
	fmt.Fprintf(w, "%d vertices, %d elements, %d faces (%d boundary, %d interface)\n",
		m.VertexCount(), m.ElementCount(), m.FaceCount(), m.BoundaryCount(), m.InterfaceCount())
	for _, attr := range m.Attributes().Slice() {
		fmt.Fprintf(w, "Element attribute %d: volume %g\n", attr, m.VolumeOf(attr))
	}
	for _, attr := range m.BoundaryAttributes().Slice() {
		fmt.Fprintf(w, "Boundary attribute %d: perimeter %g\n", attr, m.PerimeterOf(attr))
	}
}

func referenceVolume(dim int) float64 {
	return 1. / math.Gamma(float64(dim)+1)
}
