package meshio

import (
	"fmt"
	"io"

	"github.com/notargets/goform/geometry"
)

// MFEM geometry codes of the simplices, indexed by dimension
var mfemGeometry = []int{0, 1, 2, 4}

func mfemDimension(geom int) (int, error) {
	for dim, g := range mfemGeometry {
		if g == geom {
			return dim, nil
		}
	}
	return 0, fmt.Errorf("unsupported MFEM geometry %d, only simplices are supported", geom)
}

func readMFEM(r io.Reader) (*geometry.Mesh, error) {
	var (
		t  = newTokenizer(r)
		rm = &rawMesh{}
	)
	header := make([]string, 3)
	for i := range header {
		f, err := t.Next()
		if err != nil {
			return nil, t.wrap(err)
		}
		header[i] = f
	}
	if header[0] != "MFEM" || header[1] != "mesh" || header[2] != "v1.0" {
		return nil, fmt.Errorf("unsupported MFEM header %v, expected MFEM mesh v1.0", header)
	}
	dim := -1
	for {
		key, err := t.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, t.wrap(err)
		}
		switch key {
		case "dimension":
			if dim, err = t.Int(); err != nil {
				return nil, err
			}
		case "elements", "boundary":
			if err = readMFEMCells(t, rm); err != nil {
				return nil, err
			}
		case "vertices":
			if err = readMFEMVertices(t, rm); err != nil {
				return nil, err
			}
		case "mfem_mesh_end":
		default:
			return nil, t.wrap(fmt.Errorf("unsupported MFEM section %q", key))
		}
	}
	m, err := rm.build()
	if err != nil {
		return nil, err
	}
	if dim >= 0 && dim != m.Dim {
		return nil, fmt.Errorf("MFEM dimension %d does not match %d dimensional elements", dim, m.Dim)
	}
	return m, nil
}

func readMFEMCells(t *tokenizer, rm *rawMesh) error {
	n, err := t.Int()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		attr, err := t.Int()
		if err != nil {
			return err
		}
		geom, err := t.Int()
		if err != nil {
			return err
		}
		dim, err := mfemDimension(geom)
		if err != nil {
			return t.wrap(err)
		}
		v, err := t.Ints(dim+1, 0)
		if err != nil {
			return err
		}
		rm.addCell(attr, v)
	}
	return nil
}

func readMFEMVertices(t *tokenizer, rm *rawMesh) error {
	n, err := t.Int()
	if err != nil {
		return err
	}
	sdim, err := t.Int()
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
	}
	return nil
}

func writeMFEM(w io.Writer, m *geometry.Mesh) error {
	fmt.Fprintf(w, "MFEM mesh v1.0\n\ndimension\n%d\n\nelements\n%d\n", m.Dim, m.ElementCount())
	for i, verts := range m.EToV {
		fmt.Fprintf(w, "%d %d", m.ElementAttributes[i], mfemGeometry[m.Dim])
		writeInts(w, verts, 0)
	}
	faces := taggedFaces(m)
	fmt.Fprintf(w, "\nboundary\n%d\n", len(faces))
	for _, f := range faces {
		fmt.Fprintf(w, "%d %d", m.FaceAttributes[f], mfemGeometry[m.Dim-1])
		writeInts(w, m.FToV[f], 0)
	}
	fmt.Fprintf(w, "\nvertices\n%d\n%d\n", m.VertexCount(), m.SpaceDim)
	for _, x := range m.Vertices {
		writeFloats(w, x)
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeInts(w io.Writer, v []int, offset int) {
	for _, i := range v {
		fmt.Fprintf(w, " %d", i+offset)
	}
	fmt.Fprintln(w)
}

func writeFloats(w io.Writer, x []float64) {
	for i, v := range x {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprintf(w, "%.17g", v)
	}
	fmt.Fprintln(w)
}
