package geometry

import (
	"fmt"
	"math"
)

// Point is a location on a simplex given by reference coordinates. Physical coordinates are
// computed on first use.
type Point struct {
	simplex *Simplex
	ref     []float64
	phys    []float64
}

func NewPoint(s *Simplex, ref []float64) *Point {
	return &Point{simplex: s, ref: ref}
}

func (p *Point) Simplex() *Simplex    { return p.simplex }
func (p *Point) Reference() []float64 { return p.ref }
func (p *Point) Weight() float64      { return p.simplex.Transformation().Weight() }

func (p *Point) Coordinates() []float64 {
	if p.phys == nil {
		p.phys = p.simplex.Transformation().Transform(p.ref)
	}
	return p.phys
}

// Normal is the unit normal of a face, pointing out of the first incident element
func (p *Point) Normal() (n []float64) {
	s := p.simplex
	if s.IsElement() {
		panic(fmt.Errorf("normal requested on element %d, normals exist only on faces", s.Index()))
	}
	var (
		m  = s.Mesh()
		fc = s.Centroid()
		ec = m.Element(s.Incident()[0]).Centroid()
		t  = s.Transformation()
	)
	d := make([]float64, m.SpaceDim)
	for i := range d {
		d[i] = fc[i] - ec[i]
	}
	n = append([]float64{}, d...)
	if t.Dimension() > 0 {
		// Remove the tangential part
		ref := make([]float64, t.Dimension())
		for i := 0; i < t.Dimension(); i++ {
			for j := range d {
				ref[i] += t.InverseJacobian().At(i, j) * d[j]
			}
		}
		for j := range n {
			for i := range ref {
				n[j] -= t.Jacobian().At(j, i) * ref[i]
			}
		}
	}
	l := norm(n)
	for i := range n {
		n[i] /= l
	}
	return
}

func sqrt(x float64) float64 { return math.Sqrt(x) }
