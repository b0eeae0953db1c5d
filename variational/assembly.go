package variational

import (
	"github.com/notargets/goform/fem"
	"github.com/notargets/goform/geometry"
	"github.com/notargets/goform/utils"
	"gonum.org/v1/gonum/mat"
)

// BilinearAssemblyInput is the read only view handed to an assembler for one pass
type BilinearAssemblyInput struct {
	Mesh        *geometry.Mesh
	Trial, Test *fem.Space
	Integrators []BilinearFormIntegrator
}

type LinearAssemblyInput struct {
	Mesh        *geometry.Mesh
	Test        *fem.Space
	Integrators []LinearFormIntegrator
}

// Assembly accumulates element contributions into global operators
type Assembly interface {
	AssembleBilinear(input BilinearAssemblyInput) utils.CSR
	AssembleLinear(input LinearAssemblyInput) *mat.VecDense
}

// Regional is anything classified by the region it integrates over
type Regional interface {
	Region() geometry.Region
}

// Partition splits integrators by region, keeping their relative order
func Partition[T Regional](list []T) (domain, boundary, iface []T) {
	for _, it := range list {
		switch it.Region() {
		case geometry.Domain:
			domain = append(domain, it)
		case geometry.Boundary:
			boundary = append(boundary, it)
		case geometry.Interface:
			iface = append(iface, it)
		}
	}
	return
}

// Native assembles by walking the elements, boundary faces and interface faces of the mesh and
// scattering the element contribution of every integrator whose attributes match
type Native struct {
	Logf func(format string, v ...interface{})
}

func (n *Native) logf(format string, v ...interface{}) {
	if n.Logf != nil {
		n.Logf(format, v...)
	}
}

func (n *Native) AssembleBilinear(input BilinearAssemblyInput) utils.CSR {
	K := utils.NewDOK(input.Test.Size(), input.Trial.Size())
	domain, boundary, iface := Partition(input.Integrators)
	for region, list := range [][]BilinearFormIntegrator{domain, boundary, iface} {
		if len(list) == 0 {
			continue
		}
		var count int
		for it := input.Mesh.Iter(geometry.Region(region)); !it.End(); it.Next() {
			s := it.Simplex()
			for _, bfi := range list {
				if !bfi.Attributes().Matches(s.Attribute()) {
					continue
				}
				K.AddSubMatrix(input.Test.DOFs(s), input.Trial.DOFs(s), bfi.ElementMatrix(s))
				count++
			}
		}
		n.logf("bilinear %v: %d integrators, %d element contributions\n",
			geometry.Region(region), len(list), count)
	}
	return K.ToCSR()
}

func (n *Native) AssembleLinear(input LinearAssemblyInput) *mat.VecDense {
	F := make([]float64, input.Test.Size())
	domain, boundary, iface := Partition(input.Integrators)
	for region, list := range [][]LinearFormIntegrator{domain, boundary, iface} {
		if len(list) == 0 {
			continue
		}
		var count int
		for it := input.Mesh.Iter(geometry.Region(region)); !it.End(); it.Next() {
			s := it.Simplex()
			for _, lfi := range list {
				if !lfi.Attributes().Matches(s.Attribute()) {
					continue
				}
				dofs := input.Test.DOFs(s)
				for i, v := range lfi.ElementVector(s) {
					F[dofs[i]] += v
				}
				count++
			}
		}
		n.logf("linear %v: %d integrators, %d element contributions\n",
			geometry.Region(region), len(list), count)
	}
	return mat.NewVecDense(len(F), F)
}

// Parallel computes element contributions on ParallelDegree goroutines and scatters them in
// mesh order, so it produces the same operators as Native. Integrands must be safe to evaluate
// concurrently, which holds for everything built in this package around pure closures.
type Parallel struct {
	ParallelDegree int
	Logf           func(format string, v ...interface{})
}

func (n *Parallel) logf(format string, v ...interface{}) {
	if n.Logf != nil {
		n.Logf(format, v...)
	}
}

func regionSimplices(m *geometry.Mesh, r geometry.Region) (list []*geometry.Simplex) {
	it := m.Iter(r)
	list = make([]*geometry.Simplex, 0, it.Count())
	for ; !it.End(); it.Next() {
		list = append(list, it.Simplex())
	}
	return
}

func (n *Parallel) partition(count int) *utils.PartitionMap {
	return utils.NewPartitionMap(max(n.ParallelDegree, 1), count)
}

func (n *Parallel) AssembleBilinear(input BilinearAssemblyInput) utils.CSR {
	K := utils.NewDOK(input.Test.Size(), input.Trial.Size())
	domain, boundary, iface := Partition(input.Integrators)
	for region, list := range [][]BilinearFormIntegrator{domain, boundary, iface} {
		if len(list) == 0 {
			continue
		}
		var (
			simplices = regionSimplices(input.Mesh, geometry.Region(region))
			matrices  = make([][]*mat.Dense, len(simplices))
			pm        = n.partition(len(simplices))
		)
		pm.ParallelFor(func(bn, kMin, kMax int) {
			for k := kMin; k < kMax; k++ {
				s := simplices[k]
				matrices[k] = make([]*mat.Dense, len(list))
				for i, bfi := range list {
					if bfi.Attributes().Matches(s.Attribute()) {
						matrices[k][i] = bfi.ElementMatrix(s)
					}
				}
			}
		})
		var count int
		for k, s := range simplices {
			for _, M := range matrices[k] {
				if M != nil {
					K.AddSubMatrix(input.Test.DOFs(s), input.Trial.DOFs(s), M)
					count++
				}
			}
		}
		n.logf("bilinear %v: %d integrators, %d element contributions on %d threads\n",
			geometry.Region(region), len(list), count, pm.ParallelDegree)
	}
	return K.ToCSR()
}

func (n *Parallel) AssembleLinear(input LinearAssemblyInput) *mat.VecDense {
	F := make([]float64, input.Test.Size())
	domain, boundary, iface := Partition(input.Integrators)
	for region, list := range [][]LinearFormIntegrator{domain, boundary, iface} {
		if len(list) == 0 {
			continue
		}
		var (
			simplices = regionSimplices(input.Mesh, geometry.Region(region))
			vectors   = make([][][]float64, len(simplices))
			pm        = n.partition(len(simplices))
		)
		pm.ParallelFor(func(bn, kMin, kMax int) {
			for k := kMin; k < kMax; k++ {
				s := simplices[k]
				vectors[k] = make([][]float64, len(list))
				for i, lfi := range list {
					if lfi.Attributes().Matches(s.Attribute()) {
						vectors[k][i] = lfi.ElementVector(s)
					}
				}
			}
		})
		var count int
		for k, s := range simplices {
			dofs := input.Test.DOFs(s)
			for _, v := range vectors[k] {
				if v == nil {
					continue
				}
				for i, x := range v {
					F[dofs[i]] += x
				}
				count++
			}
		}
		n.logf("linear %v: %d integrators, %d element contributions on %d threads\n",
			geometry.Region(region), len(list), count, pm.ParallelDegree)
	}
	return mat.NewVecDense(len(F), F)
}
