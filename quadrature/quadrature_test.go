package quadrature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func factorial(n int) float64 { return math.Gamma(float64(n) + 1) }

func TestJacobiGQMatchesLegendre(t *testing.T) {
	for N := 0; N < 6; N++ {
		X, W := JacobiGQ(0, 0, N)
		XL, WL := GaussLegendre(N + 1)
		assert.InDeltaSlice(t, XL, X, 1.e-12)
		assert.InDeltaSlice(t, WL, W, 1.e-12)
	}
}

func TestJacobiGQWeights(t *testing.T) {
	// Integral of (1-x)^alpha (1+x)^beta over [-1,1]
	for _, ab := range [][2]float64{{1, 0}, {2, 0}, {1, 1}} {
		for N := 0; N < 4; N++ {
			_, W := JacobiGQ(ab[0], ab[1], N)
			var sum float64
			for _, w := range W {
				sum += w
			}
			assert.InDelta(t, gamma0(ab[0], ab[1]), sum, 1.e-12)
		}
	}
	// Exactness against the weight: int_{-1}^{1} (1-x) x^2 dx = 2/3
	X, W := JacobiGQ(1, 0, 1)
	var sum float64
	for i := range X {
		sum += W[i] * X[i] * X[i]
	}
	assert.InDelta(t, 2./3., sum, 1.e-12)
}

func TestSimplexRuleExactness(t *testing.T) {
	for dim := 0; dim <= 3; dim++ {
		for order := 0; order <= 6; order++ {
			r := Get(dim, order)
			assert.Equal(t, dim, r.Dim)
			// All monomials of total degree <= order
			var exps [][3]int
			for a := 0; a <= order; a++ {
				for b := 0; b+a <= order; b++ {
					for c := 0; c+b+a <= order; c++ {
						e := [3]int{a, b, c}
						ok := true
						for k := dim; k < 3; k++ {
							if e[k] != 0 {
								ok = false
							}
						}
						if ok {
							exps = append(exps, e)
						}
					}
				}
			}
			for _, e := range exps {
				var approx float64
				for q, p := range r.Points {
					v := r.Weights[q]
					for k := 0; k < dim; k++ {
						v *= math.Pow(p[k], float64(e[k]))
					}
					approx += v
				}
				exact := factorial(e[0]) * factorial(e[1]) * factorial(e[2]) / factorial(e[0]+e[1]+e[2]+dim)
				assert.InDelta(t, exact, approx, 1.e-12, "dim %d order %d monomial %v", dim, order, e)
			}
		}
	}
}

func TestRuleCache(t *testing.T) {
	assert.Same(t, Get(2, 3), Get(2, 3))
	assert.Same(t, Get(2, 0), Get(2, -1))
	assert.Equal(t, 1, Get(3, 1).Size())
	assert.Equal(t, 4, Get(2, 2).Size())
	assert.Panics(t, func() { Get(4, 1) })
}
