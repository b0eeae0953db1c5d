package geometry

import (
	"fmt"
	"sort"
)

// SubMesh is a mesh extracted from a parent with maps back to the parent numbering
type SubMesh struct {
	*Mesh
	Parent     *Mesh
	ElementMap []int // sub element -> parent element (or parent face for a skin)
	VertexMap  []int // sub vertex -> parent vertex
}

// Keep extracts the elements carrying one of attrs. Faces keep the attribute they have in the
// parent, faces that are new to the submesh boundary get DefaultAttribute.
func (m *Mesh) Keep(attrs ...int) (*SubMesh, error) {
	filter := NewAttributeSet(attrs...)
	if filter.Empty() {
		return nil, fmt.Errorf("keep requires at least one attribute")
	}
	var elems []int
	for i, a := range m.ElementAttributes {
		if filter.Contains(a) {
			elems = append(elems, i)
		}
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("no element carries any of the attributes %v", filter)
	}
	sub := &SubMesh{Parent: m, ElementMap: elems}
	vmap := make(map[int]int)
	b := NewBuilder(m.Dim, m.SpaceDim)
	for _, e := range elems {
		verts := make([]int, len(m.EToV[e]))
		for i, v := range m.EToV[e] {
			nv, ok := vmap[v]
			if !ok {
				nv = len(sub.VertexMap)
				vmap[v] = nv
				sub.VertexMap = append(sub.VertexMap, v)
				b.Vertex(m.Vertices[v]...)
			}
			verts[i] = nv
		}
		b.Element(m.ElementAttributes[e], verts...)
	}
	mesh, err := b.Finalize()
	if err != nil {
		return nil, err
	}
	for f, verts := range mesh.FToV {
		parentVerts := make([]int, len(verts))
		for i, v := range verts {
			parentVerts[i] = sub.VertexMap[v]
		}
		if pf, ok := m.FaceMap[simplexKey(parentVerts)]; ok && len(m.FToE[pf]) == 1 {
			mesh.FaceAttributes[f] = m.FaceAttributes[pf]
		}
	}
	sub.Mesh = mesh
	return sub, nil
}

// Trim removes the elements carrying one of attrs
func (m *Mesh) Trim(attrs ...int) (*SubMesh, error) {
	drop := NewAttributeSet(attrs...)
	var keep []int
	for _, a := range m.Attributes().Slice() {
		if !drop.Contains(a) {
			keep = append(keep, a)
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("trimming %v removes every element", drop)
	}
	return m.Keep(keep...)
}

// Skin returns the boundary faces as a mesh of dimension Dim-1, element attributes are the
// face attributes
func (m *Mesh) Skin() (*SubMesh, error) {
	if m.Dim < 2 {
		return nil, fmt.Errorf("skin of a %d dimensional mesh is not a mesh", m.Dim)
	}
	sub := &SubMesh{Parent: m}
	vmap := make(map[int]int)
	b := NewBuilder(m.Dim-1, m.SpaceDim)
	faces := append([]int{}, m.boundary...)
	sort.Ints(faces)
	for _, f := range faces {
		verts := make([]int, len(m.FToV[f]))
		for i, v := range m.FToV[f] {
			nv, ok := vmap[v]
			if !ok {
				nv = len(sub.VertexMap)
				vmap[v] = nv
				sub.VertexMap = append(sub.VertexMap, v)
				b.Vertex(m.Vertices[v]...)
			}
			verts[i] = nv
		}
		b.Element(m.FaceAttributes[f], verts...)
		sub.ElementMap = append(sub.ElementMap, f)
	}
	mesh, err := b.Finalize()
	if err != nil {
		return nil, err
	}
	sub.Mesh = mesh
	return sub, nil
}
