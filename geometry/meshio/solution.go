package meshio

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Solution is the coefficient vector of a finite element function and the description of its
// space. Data is component major: component c of scalar DOF d is Data[c*n+d], n = len(Data)/VDim.
type Solution struct {
	Family string
	Dim    int
	Order  int
	VDim   int
	Data   []float64
}

// ScalarSize is the number of scalar DOFs of each component
func (s *Solution) ScalarSize() int { return len(s.Data) / s.VDim }

// Collection is the MFEM name of the finite element collection
func (s *Solution) Collection() string {
	if s.Family == "L2" {
		return fmt.Sprintf("L2_T1_%dD_P%d", s.Dim, s.Order)
	}
	return fmt.Sprintf("%s_%dD_P%d", s.Family, s.Dim, s.Order)
}

func (s *Solution) check() error {
	if s.VDim < 1 || len(s.Data)%s.VDim != 0 {
		return fmt.Errorf("%d coefficients do not split into %d components", len(s.Data), s.VDim)
	}
	return nil
}

// SolutionFormatFromExtension guesses the format of a solution file from its extension
func SolutionFormatFromExtension(path string) (FileFormat, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gf":
		return MFEM, nil
	case ".sol":
		return MEDIT, nil
	default:
		return 0, fmt.Errorf("unsupported solution format: %s", ext)
	}
}

// LoadSolution reads a solution file from fs
func LoadSolution(fs afero.Fs, path string, format FileFormat) (*Solution, error) {
	if !format.valid() {
		return nil, fmt.Errorf("unsupported mesh format: %v", format)
	}
	file, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s solution %s", format, path)
	}
	defer file.Close()
	s, err := ReadSolution(file, format)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s solution %s", format, path)
	}
	return s, nil
}

// SaveSolution writes a solution file to fs
func SaveSolution(fs afero.Fs, s *Solution, path string, format FileFormat) (err error) {
	if !format.valid() {
		return fmt.Errorf("unsupported mesh format: %v", format)
	}
	file, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s solution %s", format, path)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
	}()
	if err = WriteSolution(file, s, format); err != nil {
		return errors.Wrapf(err, "writing %s solution %s", format, path)
	}
	return nil
}

func ReadSolution(r io.Reader, format FileFormat) (*Solution, error) {
	switch format {
	case MFEM:
		return readMFEMSolution(r)
	case MEDIT:
		return readMeditSolution(r)
	case GMSH:
		return nil, fmt.Errorf("%v solutions are not supported", format)
	}
	return nil, fmt.Errorf("unsupported mesh format: %v", format)
}

func WriteSolution(w io.Writer, s *Solution, format FileFormat) error {
	if err := s.check(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	var err error
	switch format {
	case MFEM:
		err = writeMFEMSolution(bw, s)
	case MEDIT:
		err = writeMeditSolution(bw, s)
	case GMSH:
		err = fmt.Errorf("%v solutions are not supported", format)
	default:
		err = fmt.Errorf("unsupported mesh format: %v", format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

// MFEM GridFunction layout, Ordering 0 is component major
func writeMFEMSolution(w io.Writer, s *Solution) error {
	fmt.Fprintf(w, "FiniteElementSpace\nFiniteElementCollection: %s\nVDim: %d\nOrdering: 0\n\n",
		s.Collection(), s.VDim)
	for _, v := range s.Data {
		fmt.Fprintf(w, "%.17g\n", v)
	}
	return nil
}

func readMFEMSolution(r io.Reader) (*Solution, error) {
	var (
		t        = newTokenizer(r)
		s        = &Solution{}
		ordering int
	)
	if key, err := t.Next(); err != nil {
		return nil, t.wrap(err)
	} else if key != "FiniteElementSpace" {
		return nil, t.wrap(fmt.Errorf("unsupported MFEM solution header %q", key))
	}
	for _, key := range []string{"FiniteElementCollection:", "VDim:", "Ordering:"} {
		f, err := t.Next()
		if err != nil {
			return nil, t.wrap(err)
		}
		if f != key {
			return nil, t.wrap(fmt.Errorf("expected %q, got %q", key, f))
		}
		switch key {
		case "FiniteElementCollection:":
			name, err := t.Next()
			if err != nil {
				return nil, t.wrap(err)
			}
			if err = s.parseCollection(name); err != nil {
				return nil, t.wrap(err)
			}
		case "VDim:":
			if s.VDim, err = t.Int(); err != nil {
				return nil, err
			}
		case "Ordering:":
			if ordering, err = t.Int(); err != nil {
				return nil, err
			}
		}
	}
	for {
		v, err := t.Float()
		if errors.Cause(err) == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, err
		}
		s.Data = append(s.Data, v)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	switch ordering {
	case 0:
	case 1:
		s.Data = componentMajor(s.Data, s.VDim)
	default:
		return nil, fmt.Errorf("unsupported MFEM ordering %d", ordering)
	}
	return s, nil
}

// parseCollection reads names like H1_2D_P1 or L2_T1_3D_P2
func (s *Solution) parseCollection(name string) error {
	parts := strings.Split(name, "_")
	s.Family = parts[0]
	if s.Family != "H1" && s.Family != "L2" {
		return fmt.Errorf("unsupported finite element collection %q", name)
	}
	s.Dim, s.Order = -1, -1
	for _, p := range parts[1:] {
		var err error
		switch {
		case strings.HasSuffix(p, "D"):
			s.Dim, err = strconv.Atoi(strings.TrimSuffix(p, "D"))
		case strings.HasPrefix(p, "P"):
			s.Order, err = strconv.Atoi(strings.TrimPrefix(p, "P"))
		}
		if err != nil {
			return fmt.Errorf("unsupported finite element collection %q", name)
		}
	}
	if s.Dim < 0 || s.Order < 0 {
		return fmt.Errorf("unsupported finite element collection %q", name)
	}
	return nil
}

// Medit solution field types, a scalar or a vector of the space dimension
const (
	meditScalar = 1
	meditVector = 2
)

// writeMeditSolution writes vertex values, only first order H1 functions have them
func writeMeditSolution(w io.Writer, s *Solution) error {
	if s.Family != "H1" || s.Order != 1 {
		return fmt.Errorf("Medit solutions hold vertex values, got %s P%d", s.Family, s.Order)
	}
	typ := meditScalar
	if s.VDim != 1 {
		if s.VDim != s.Dim {
			return fmt.Errorf("Medit vector solutions need %d components, got %d", s.Dim, s.VDim)
		}
		typ = meditVector
	}
	n := s.ScalarSize()
	fmt.Fprintf(w, "MeshVersionFormatted 2\nDimension %d\n\nSolAtVertices\n%d\n1 %d\n", s.Dim, n, typ)
	for d := 0; d < n; d++ {
		for c := 0; c < s.VDim; c++ {
			if c > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%.17g", s.Data[c*n+d])
		}
		fmt.Fprintln(w)
	}
	_, err := fmt.Fprintf(w, "\nEnd\n")
	return err
}

func readMeditSolution(r io.Reader) (*Solution, error) {
	var (
		t = newTokenizer(r)
		s = &Solution{Family: "H1", Order: 1, Dim: -1}
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
			if s.Dim, err = t.Int(); err != nil {
				return nil, err
			}
		case "SolAtVertices":
			if s.Dim < 0 {
				return nil, t.wrap(fmt.Errorf("SolAtVertices given before Dimension"))
			}
			if err = readMeditSolAtVertices(t, s); err != nil {
				return nil, err
			}
		case "End":
			return s, s.done()
		default:
			return nil, t.wrap(fmt.Errorf("unsupported Medit section %q", key))
		}
	}
	return s, s.done()
}

func (s *Solution) done() error {
	if s.VDim == 0 {
		return fmt.Errorf("no SolAtVertices section found")
	}
	return nil
}

func readMeditSolAtVertices(t *tokenizer, s *Solution) error {
	n, err := t.Int()
	if err != nil {
		return err
	}
	fields, err := t.Ints(2, 0)
	if err != nil {
		return err
	}
	if fields[0] != 1 {
		return t.wrap(fmt.Errorf("%d solution fields found, only one is supported", fields[0]))
	}
	switch fields[1] {
	case meditScalar:
		s.VDim = 1
	case meditVector:
		s.VDim = s.Dim
	default:
		return t.wrap(fmt.Errorf("unsupported Medit solution type %d", fields[1]))
	}
	s.Data = make([]float64, n*s.VDim)
	for d := 0; d < n; d++ {
		for c := 0; c < s.VDim; c++ {
			if s.Data[c*n+d], err = t.Float(); err != nil {
				return err
			}
		}
	}
	return nil
}

// componentMajor reorders node major coefficients
func componentMajor(data []float64, vdim int) []float64 {
	n := len(data) / vdim
	out := make([]float64, len(data))
	for d := 0; d < n; d++ {
		for c := 0; c < vdim; c++ {
			out[c*n+d] = data[d*vdim+c]
		}
	}
	return out
}
