package meshio

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/goform/geometry"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// FileFormat is a mesh file format
type FileFormat uint8

const (
	MFEM FileFormat = iota
	GMSH
	MEDIT
)

func (f FileFormat) String() string {
	if !f.valid() {
		return fmt.Sprintf("FileFormat(%d)", f)
	}
	return [...]string{"MFEM", "GMSH", "MEDIT"}[f]
}

func (f FileFormat) valid() bool { return f <= MEDIT }

// ParseFileFormat accepts a format name in any case
func ParseFileFormat(name string) (FileFormat, error) {
	switch strings.ToUpper(name) {
	case "MFEM":
		return MFEM, nil
	case "GMSH":
		return GMSH, nil
	case "MEDIT":
		return MEDIT, nil
	}
	return 0, fmt.Errorf("unsupported mesh format: %s", name)
}

// FormatFromExtension guesses the format of a mesh file from its extension
func FormatFromExtension(path string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mfem":
		return MFEM, nil
	case ".msh":
		return GMSH, nil
	case ".mesh":
		return MEDIT, nil
	default:
		return 0, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

// Load reads a mesh file from fs
func Load(fs afero.Fs, path string, format FileFormat) (*geometry.Mesh, error) {
	if !format.valid() {
		return nil, fmt.Errorf("unsupported mesh format: %v", format)
	}
	file, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s mesh %s", format, path)
	}
	defer file.Close()
	m, err := Read(file, format)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s mesh %s", format, path)
	}
	return m, nil
}

// Save writes a mesh file to fs
func Save(fs afero.Fs, m *geometry.Mesh, path string, format FileFormat) (err error) {
	if !format.valid() {
		return fmt.Errorf("unsupported mesh format: %v", format)
	}
	file, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s mesh %s", format, path)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
	}()
	if err = Write(file, m, format); err != nil {
		return errors.Wrapf(err, "writing %s mesh %s", format, path)
	}
	return nil
}

func Read(r io.Reader, format FileFormat) (*geometry.Mesh, error) {
	switch format {
	case MFEM:
		return readMFEM(r)
	case GMSH:
		return readGmsh22(r)
	case MEDIT:
		return readMedit(r)
	}
	return nil, fmt.Errorf("unsupported mesh format: %v", format)
}

func Write(w io.Writer, m *geometry.Mesh, format FileFormat) error {
	bw := bufio.NewWriter(w)
	var err error
	switch format {
	case MFEM:
		err = writeMFEM(bw, m)
	case GMSH:
		err = writeGmsh22(bw, m)
	case MEDIT:
		err = writeMedit(bw, m)
	default:
		err = fmt.Errorf("unsupported mesh format: %v", format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

// rawMesh collects the simplices of a file before the mesh is built. Cells of the highest
// dimension found become elements, cells one dimension lower tag faces.
type rawMesh struct {
	vertices [][]float64
	cells    [][]int
	attrs    []int
}

func (rm *rawMesh) addCell(attr int, v []int) {
	if attr <= 0 {
		attr = geometry.DefaultAttribute
	}
	rm.cells = append(rm.cells, v)
	rm.attrs = append(rm.attrs, attr)
}

// build trims the vertex coordinates to the space dimension, the element dimension unless a
// higher coordinate is nonzero
func (rm *rawMesh) build() (*geometry.Mesh, error) {
	dim := -1
	for _, c := range rm.cells {
		dim = max(dim, len(c)-1)
	}
	if dim < 1 {
		return nil, fmt.Errorf("no elements found")
	}
	sdim := dim
	for _, x := range rm.vertices {
		for i := dim; i < len(x); i++ {
			if x[i] != 0 {
				sdim = max(sdim, i+1)
			}
		}
	}
	b := geometry.NewBuilder(dim, sdim)
	for _, x := range rm.vertices {
		coords := make([]float64, sdim)
		copy(coords, x)
		b.Vertex(coords...)
	}
	for i, c := range rm.cells {
		switch len(c) - 1 {
		case dim:
			b.Element(rm.attrs[i], c...)
		case dim - 1:
			b.Face(rm.attrs[i], c...)
		}
	}
	return b.Finalize()
}

// taggedFaces returns the boundary faces and the interface faces carrying a non default
// attribute, the faces a file needs to restore the attributes
func taggedFaces(m *geometry.Mesh) (faces []int) {
	for it := m.FaceIter(); !it.End(); it.Next() {
		s := it.Simplex()
		if s.IsBoundary() || s.Attribute() != geometry.DefaultAttribute {
			faces = append(faces, s.Index())
		}
	}
	return
}

// tokenizer splits a text file into whitespace separated fields, dropping # comments
type tokenizer struct {
	scanner *bufio.Scanner
	fields  []string
	line    int
}

func newTokenizer(r io.Reader) *tokenizer {
	scanner := bufio.NewScanner(r)
	const maxScanTokenSize = 1024 * 1024 * 10
	scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)
	return &tokenizer{scanner: scanner}
}

// Next returns the next field, io.EOF at the end of the input
func (t *tokenizer) Next() (string, error) {
	for len(t.fields) == 0 {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		t.line++
		line := t.scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		t.fields = strings.Fields(line)
	}
	f := t.fields[0]
	t.fields = t.fields[1:]
	return f, nil
}

func (t *tokenizer) Int() (int, error) {
	f, err := t.Next()
	if err != nil {
		return 0, t.wrap(err)
	}
	v, err := strconv.Atoi(f)
	if err != nil {
		return 0, t.wrap(fmt.Errorf("invalid integer %q", f))
	}
	return v, nil
}

func (t *tokenizer) Float() (float64, error) {
	f, err := t.Next()
	if err != nil {
		return 0, t.wrap(err)
	}
	v, err := strconv.ParseFloat(f, 64)
	if err != nil {
		return 0, t.wrap(fmt.Errorf("invalid number %q", f))
	}
	return v, nil
}

// Ints reads n integers, shifted by offset
func (t *tokenizer) Ints(n, offset int) (v []int, err error) {
	v = make([]int, n)
	for i := range v {
		if v[i], err = t.Int(); err != nil {
			return nil, err
		}
		v[i] += offset
	}
	return
}

func (t *tokenizer) wrap(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return errors.Wrapf(err, "line %d", t.line)
}
