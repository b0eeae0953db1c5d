package geometry

import "math"

// UniformInterval meshes [0,1] with n segments. The boundary point x=0 has attribute 1 and
// x=1 has attribute 2.
func UniformInterval(n int) *Mesh {
	b := NewBuilder(1, 1)
	for i := 0; i <= n; i++ {
		b.Vertex(float64(i) / float64(n))
	}
	for i := 0; i < n; i++ {
		b.Element(1, i, i+1)
	}
	b.Face(1, 0).Face(2, n)
	return mustFinalize(b)
}

// UniformSquare meshes [0,1]^2 with 2n^2 triangles. Boundary attributes are 1 (y=0), 2 (x=1),
// 3 (y=1) and 4 (x=0).
func UniformSquare(n int) *Mesh {
	var (
		b  = NewBuilder(2, 2)
		id = func(i, j int) int { return j*(n+1) + i }
	)
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			b.Vertex(float64(i)/float64(n), float64(j)/float64(n))
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			b.Element(1, id(i, j), id(i+1, j), id(i+1, j+1))
			b.Element(1, id(i, j), id(i+1, j+1), id(i, j+1))
		}
	}
	for i := 0; i < n; i++ {
		b.Face(1, id(i, 0), id(i+1, 0))
		b.Face(2, id(n, i), id(n, i+1))
		b.Face(3, id(i, n), id(i+1, n))
		b.Face(4, id(0, i), id(0, i+1))
	}
	return mustFinalize(b)
}

// UniformCube meshes [0,1]^3 with 6n^3 tetrahedra. Boundary attributes are 1 (x=0), 2 (x=1),
// 3 (y=0), 4 (y=1), 5 (z=0) and 6 (z=1).
func UniformCube(n int) *Mesh {
	var (
		b  = NewBuilder(3, 3)
		id = func(i, j, k int) int { return (k*(n+1)+j)*(n+1) + i }
		// Kuhn subdivision, one tetrahedron per ordering of the axes
		perms = [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	)
	h := 1. / float64(n)
	for k := 0; k <= n; k++ {
		for j := 0; j <= n; j++ {
			for i := 0; i <= n; i++ {
				b.Vertex(float64(i)*h, float64(j)*h, float64(k)*h)
			}
		}
	}
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				for _, p := range perms {
					c := [3]int{i, j, k}
					verts := []int{id(c[0], c[1], c[2])}
					for _, axis := range p {
						c[axis]++
						verts = append(verts, id(c[0], c[1], c[2]))
					}
					b.Element(1, verts...)
				}
			}
		}
	}
	m := mustFinalize(b)
	for it := m.BoundaryIter(); !it.End(); it.Next() {
		s := it.Simplex()
		c := s.Centroid()
		for axis := 0; axis < 3; axis++ {
			switch {
			case math.Abs(c[axis]) < 1.e-12:
				m.SetFaceAttribute(s.Index(), 2*axis+1)
			case math.Abs(c[axis]-1) < 1.e-12:
				m.SetFaceAttribute(s.Index(), 2*axis+2)
			}
		}
	}
	return m
}

func mustFinalize(b *Builder) *Mesh {
	m, err := b.Finalize()
	if err != nil {
		panic(err)
	}
	return m
}
