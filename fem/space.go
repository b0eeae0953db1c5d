package fem

import (
	"fmt"
	"sort"

	"github.com/notargets/goform/geometry"
	"gonum.org/v1/gonum/mat"
)

// Family tags the conformity of a finite element space
type Family uint8

const (
	H1 Family = iota
	L2
)

func (f Family) String() string {
	names := [...]string{"H1", "L2"}
	if int(f) >= len(names) {
		return fmt.Sprintf("Family(%d)", f)
	}
	return names[f]
}

// Space is a Lagrange finite element space over a mesh. Vector valued spaces lay their global
// DOFs out by nodes: component c of scalar DOF d is c*ScalarSize() + d.
type Space struct {
	mesh       *geometry.Mesh
	family     Family
	order      int
	vdim       int
	scalarSize int
	elementFE  *FiniteElement
	faceFE     *FiniteElement
}

// NewH1 builds a continuous space of order 1 or 2
func NewH1(m *geometry.Mesh, order, vdim int) (fes *Space) {
	if order < 1 || order > 2 {
		panic(fmt.Errorf("H1 spaces support orders 1 and 2, got %d", order))
	}
	fes = newSpace(m, H1, order, vdim)
	fes.faceFE = NewLagrange(m.Dim-1, order)
	fes.scalarSize = m.VertexCount()
	if order == 2 {
		fes.scalarSize += m.EdgeCount()
	}
	return
}

// NewL2 builds a discontinuous space of order 0 or 1
func NewL2(m *geometry.Mesh, order, vdim int) (fes *Space) {
	if order < 0 || order > 1 {
		panic(fmt.Errorf("L2 spaces support orders 0 and 1, got %d", order))
	}
	fes = newSpace(m, L2, order, vdim)
	fes.scalarSize = m.ElementCount() * fes.elementFE.DOFs()
	return
}

func newSpace(m *geometry.Mesh, family Family, order, vdim int) *Space {
	if vdim < 1 {
		panic(fmt.Errorf("vector dimension must be positive, got %d", vdim))
	}
	return &Space{
		mesh:      m,
		family:    family,
		order:     order,
		vdim:      vdim,
		elementFE: NewLagrange(m.Dim, order),
	}
}

func (fes *Space) Mesh() *geometry.Mesh { return fes.mesh }
func (fes *Space) Family() Family       { return fes.family }
func (fes *Space) Order() int           { return fes.order }
func (fes *Space) VectorDimension() int { return fes.vdim }
func (fes *Space) ScalarSize() int      { return fes.scalarSize }
func (fes *Space) Size() int            { return fes.vdim * fes.scalarSize }

func (fes *Space) String() string {
	return fmt.Sprintf("%s(P%d, vdim %d, %d dofs)", fes.family, fes.order, fes.vdim, fes.Size())
}

// FiniteElement returns the reference element used on an element or face
func (fes *Space) FiniteElement(s *geometry.Simplex) *FiniteElement {
	if s.IsElement() {
		return fes.elementFE
	}
	if fes.family == L2 {
		panic(fmt.Errorf("%s space has no degrees of freedom on faces", fes.family))
	}
	return fes.faceFE
}

// ScalarDOFs returns the global scalar DOF of each local node of the simplex
func (fes *Space) ScalarDOFs(s *geometry.Simplex) (dofs []int) {
	fe := fes.FiniteElement(s)
	if fes.family == L2 {
		n := fe.DOFs()
		dofs = make([]int, n)
		for i := range dofs {
			dofs[i] = s.Index()*n + i
		}
		return
	}
	dofs = append(dofs, s.Vertices()...)
	if fes.order == 2 {
		nv := fes.mesh.VertexCount()
		for _, e := range s.Edges() {
			dofs = append(dofs, nv+e)
		}
	}
	return
}

// DOFs returns the global DOFs of the simplex, local ordering component major
func (fes *Space) DOFs(s *geometry.Simplex) (dofs []int) {
	scalar := fes.ScalarDOFs(s)
	if fes.vdim == 1 {
		return scalar
	}
	dofs = make([]int, 0, fes.vdim*len(scalar))
	for c := 0; c < fes.vdim; c++ {
		for _, d := range scalar {
			dofs = append(dofs, c*fes.scalarSize+d)
		}
	}
	return
}

// PhysicalGradient returns the physical gradients of the scalar basis at a reference point,
// one row of length SpaceDim per scalar DOF
func (fes *Space) PhysicalGradient(s *geometry.Simplex, ref []float64) *mat.Dense {
	fe := fes.FiniteElement(s)
	if fe.Dim() == 0 {
		return mat.NewDense(fe.DOFs(), fes.mesh.SpaceDim, nil)
	}
	return s.Transformation().PhysicalGradient(fe.Gradient(ref))
}

// BoundaryDOFs returns the sorted DOFs lying on boundary faces with one of attrs, every
// boundary face if attrs is empty
func (fes *Space) BoundaryDOFs(attrs ...int) (dofs []int) {
	if fes.family == L2 {
		return nil
	}
	filter := geometry.NewAttributeSet(attrs...)
	seen := make(map[int]struct{})
	for it := fes.mesh.BoundaryIter(); !it.End(); it.Next() {
		s := it.Simplex()
		if !filter.Matches(s.Attribute()) {
			continue
		}
		for _, d := range fes.DOFs(s) {
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				dofs = append(dofs, d)
			}
		}
	}
	sort.Ints(dofs)
	return
}
