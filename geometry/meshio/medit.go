package meshio

import (
	"fmt"
	"io"

	"github.com/notargets/goform/geometry"
)

// meditKeyword names the section of the simplices of each dimension
var meditKeyword = []string{"", "Edges", "Triangles", "Tetrahedra"}

func meditDimension(key string) int {
	for dim, k := range meditKeyword {
		if k != "" && k == key {
			return dim
		}
	}
	return -1
}

// readMedit reads the ASCII Medit format, indices are one based and the trailing reference of
// every entity is its attribute
func readMedit(r io.Reader) (*geometry.Mesh, error) {
	var (
		t    = newTokenizer(r)
		rm   = &rawMesh{}
		sdim = -1
	)
	for {
		key, err := t.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, t.wrap(err)
		}
		switch key {
		case "MeshVersionFormatted":
			if _, err = t.Int(); err != nil {
				return nil, err
			}
		case "Dimension":
			if sdim, err = t.Int(); err != nil {
				return nil, err
			}
		case "Vertices":
			if sdim < 0 {
				return nil, t.wrap(fmt.Errorf("Vertices given before Dimension"))
			}
			if err = readMeditVertices(t, rm, sdim); err != nil {
				return nil, err
			}
		case "End":
			return buildMedit(rm)
		default:
			dim := meditDimension(key)
			if dim < 0 {
				return nil, t.wrap(fmt.Errorf("unsupported Medit section %q", key))
			}
			if err = readMeditCells(t, rm, dim); err != nil {
				return nil, err
			}
		}
	}
	return buildMedit(rm)
}

func buildMedit(rm *rawMesh) (*geometry.Mesh, error) {
	m, err := rm.build()
	if err != nil {
		return nil, err
	}
	if m.Dim < 2 {
		return nil, fmt.Errorf("Medit meshes of dimension %d are not supported", m.Dim)
	}
	return m, nil
}

func readMeditVertices(t *tokenizer, rm *rawMesh, sdim int) error {
	n, err := t.Int()
	if err != nil {
		return err
	}
	rm.vertices = make([][]float64, n)
	for i := range rm.vertices {
		rm.vertices[i] = make([]float64, sdim)
		for j := range rm.vertices[i] {
			if rm.vertices[i][j], err = t.Float(); err != nil {
				return err
			}
		}
		if _, err = t.Int(); err != nil {
			return err
		}
	}
	return nil
}

func readMeditCells(t *tokenizer, rm *rawMesh, dim int) error {
	n, err := t.Int()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		v, err := t.Ints(dim+1, -1)
		if err != nil {
			return err
		}
		ref, err := t.Int()
		if err != nil {
			return err
		}
		rm.addCell(ref, v)
	}
	return nil
}

func writeMedit(w io.Writer, m *geometry.Mesh) error {
	if m.Dim < 2 {
		return fmt.Errorf("Medit meshes of dimension %d are not supported", m.Dim)
	}
	fmt.Fprintf(w, "MeshVersionFormatted 2\nDimension %d\n\nVertices\n%d\n", m.SpaceDim, m.VertexCount())
	for _, x := range m.Vertices {
		for _, v := range x {
			fmt.Fprintf(w, "%.17g ", v)
		}
		fmt.Fprintln(w, 0)
	}
	fmt.Fprintf(w, "\n%s\n%d\n", meditKeyword[m.Dim], m.ElementCount())
	for e, verts := range m.EToV {
		writeMeditCell(w, verts, m.ElementAttributes[e])
	}
	faces := taggedFaces(m)
	fmt.Fprintf(w, "\n%s\n%d\n", meditKeyword[m.Dim-1], len(faces))
	for _, f := range faces {
		writeMeditCell(w, m.FToV[f], m.FaceAttributes[f])
	}
	_, err := fmt.Fprintf(w, "\nEnd\n")
	return err
}

func writeMeditCell(w io.Writer, verts []int, ref int) {
	for _, v := range verts {
		fmt.Fprintf(w, "%d ", v+1)
	}
	fmt.Fprintln(w, ref)
}
