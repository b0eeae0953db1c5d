package quadrature

import (
	"fmt"
	"sync"
)

// Rule is a quadrature rule on the reference simplex with vertices 0 and the unit vectors
type Rule struct {
	Dim     int
	Order   int // Total polynomial degree integrated exactly
	Points  [][]float64
	Weights []float64
}

func (r *Rule) Size() int { return len(r.Weights) }

type ruleKey struct{ dim, order int }

var (
	cacheMu sync.Mutex
	cache   = make(map[ruleKey]*Rule)
)

// Get returns a rule on the reference simplex of dimension dim, exact for polynomials of total
// degree order. Rules are built from collapsed coordinates and cached.
func Get(dim, order int) *Rule {
	if order < 0 {
		order = 0
	}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	key := ruleKey{dim, order}
	if r, ok := cache[key]; ok {
		return r
	}
	r := newCollapsedRule(dim, order)
	cache[key] = r
	return r
}

func newCollapsedRule(dim, order int) (r *Rule) {
	r = &Rule{Dim: dim, Order: order}
	// n points per direction integrate degree 2n-1 against the Jacobi weights
	N := (order+2)/2 - 1
	switch dim {
	case 0:
		r.Points = [][]float64{{}}
		r.Weights = []float64{1}
	case 1:
		a, wa := GaussLegendre(N + 1)
		for i := range a {
			r.Points = append(r.Points, []float64{(1 + a[i]) / 2})
			r.Weights = append(r.Weights, wa[i]/2)
		}
	case 2:
		a, wa := GaussLegendre(N + 1)
		b, wb := JacobiGQ(1, 0, N)
		for j := range b {
			v := (1 + b[j]) / 2
			for i := range a {
				u := (1 + a[i]) / 2
				r.Points = append(r.Points, []float64{u * (1 - v), v})
				r.Weights = append(r.Weights, wa[i]*wb[j]/8)
			}
		}
	case 3:
		a, wa := GaussLegendre(N + 1)
		b, wb := JacobiGQ(1, 0, N)
		c, wc := JacobiGQ(2, 0, N)
		for k := range c {
			w := (1 + c[k]) / 2
			for j := range b {
				v := (1 + b[j]) / 2
				for i := range a {
					u := (1 + a[i]) / 2
					r.Points = append(r.Points, []float64{u * (1 - v) * (1 - w), v * (1 - w), w})
					r.Weights = append(r.Weights, wa[i]*wb[j]*wc[k]/64)
				}
			}
		}
	default:
		panic(fmt.Errorf("no quadrature for simplices of dimension %d", dim))
	}
	return
}
