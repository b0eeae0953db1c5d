package geometry

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Builder assembles a mesh one vertex, element and boundary face at a time
type Builder struct {
	dim, sdim int
	vertices  [][]float64
	elements  [][]int
	attrs     []int
	faces     [][]int
	faceAttrs []int
	errs      *multierror.Error
}

func NewBuilder(dim, sdim int) *Builder {
	return &Builder{dim: dim, sdim: sdim}
}

func (b *Builder) Vertex(x ...float64) *Builder {
	if len(x) != b.sdim {
		b.errs = multierror.Append(b.errs, fmt.Errorf("vertex %d has %d coordinates, expected %d",
			len(b.vertices), len(x), b.sdim))
	}
	b.vertices = append(b.vertices, append([]float64{}, x...))
	return b
}

func (b *Builder) Element(attr int, v ...int) *Builder {
	b.elements = append(b.elements, append([]int{}, v...))
	b.attrs = append(b.attrs, attr)
	return b
}

// Face tags the face with the given vertices, which must be a face of some element
func (b *Builder) Face(attr int, v ...int) *Builder {
	if len(v) != b.dim {
		b.errs = multierror.Append(b.errs, fmt.Errorf("face %d has %d vertices, expected %d",
			len(b.faces), len(v), b.dim))
	}
	b.faces = append(b.faces, append([]int{}, v...))
	b.faceAttrs = append(b.faceAttrs, attr)
	return b
}

// Finalize validates the input and builds connectivity
func (b *Builder) Finalize() (m *Mesh, err error) {
	m = &Mesh{
		Dim:               b.dim,
		SpaceDim:          b.sdim,
		Vertices:          b.vertices,
		EToV:              b.elements,
		ElementAttributes: b.attrs,
	}
	errs := b.errs
	if err = m.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err = errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	tags := make(map[string]int, len(b.faces))
	for _, f := range b.faces {
		for _, v := range f {
			if v < 0 || v >= len(b.vertices) {
				return nil, fmt.Errorf("face %v references missing vertex %d", f, v)
			}
		}
	}
	for i, f := range b.faces {
		tags[simplexKey(f)] = b.faceAttrs[i]
	}
	m.BuildConnectivity(tags)
	for i, f := range b.faces {
		if _, ok := m.FaceMap[simplexKey(f)]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("face %d %v is not a face of any element", i, f))
		}
	}
	if err = errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return m, nil
}
