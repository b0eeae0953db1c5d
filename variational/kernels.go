package variational

import (
	"github.com/notargets/goform/geometry"
	"github.com/notargets/goform/quadrature"
	"gonum.org/v1/gonum/mat"
)

// bilinearKernel is an element matrix routine. Specialized kernels are selected by inspecting
// the integrand tree, they use the same quadrature as the generic evaluator and agree with it
// up to rounding.
type bilinearKernel struct {
	name   string
	matrix func(ip *InnerProduct, s *geometry.Simplex, rule *quadrature.Rule) *mat.Dense
}

var (
	genericKernel = bilinearKernel{"generic", func(ip *InnerProduct, s *geometry.Simplex, rule *quadrature.Rule) *mat.Dense {
		return ip.ElementMatrix(s, rule)
	}}
	// grad u : grad v
	diffusionKernel = bilinearKernel{"diffusion", diffusionMatrix}
	// (f grad u) : grad v, f scalar
	weightedDiffusionKernel = bilinearKernel{"weighted-diffusion", diffusionMatrix}
	// (F grad u) : grad v, F a SpaceDim x SpaceDim matrix
	matrixDiffusionKernel = bilinearKernel{"matrix-diffusion", diffusionMatrix}
	// u : v and (f u) : v, f scalar
	massKernel = bilinearKernel{"mass", massMatrix}
)

func matchKernel(ip *InnerProduct) bilinearKernel {
	// Specialized kernels assume a square element matrix over one space
	if ip.trial.Leaf().FiniteElementSpace() != ip.test.Leaf().FiniteElementSpace() {
		return genericKernel
	}
	switch ip.test.(type) {
	case *ShapeGrad[Test]:
		switch u := ip.trial.(type) {
		case *ShapeGrad[Trial]:
			return diffusionKernel
		case *ShapeMult[Trial]:
			if _, ok := u.u.(*ShapeGrad[Trial]); !ok {
				break
			}
			switch u.f.RangeShape().Type() {
			case Scalar:
				return weightedDiffusionKernel
			case Matrix:
				return matrixDiffusionKernel
			}
		}
	case *Argument[Test]:
		switch u := ip.trial.(type) {
		case *Argument[Trial]:
			return massKernel
		case *ShapeMult[Trial]:
			if _, ok := u.u.(*Argument[Trial]); ok && u.f.RangeShape().Type() == Scalar {
				return massKernel
			}
		}
	}
	return genericKernel
}

// coefficient returns the left factor of a ShapeMult trial expression, nil otherwise
func coefficient(ip *InnerProduct) Function {
	if m, ok := ip.trial.(*ShapeMult[Trial]); ok {
		return m.f
	}
	return nil
}

func diffusionMatrix(ip *InnerProduct, s *geometry.Simplex, rule *quadrature.Rule) (M *mat.Dense) {
	var (
		trialFES = ip.trial.Leaf().FiniteElementSpace()
		testFES  = ip.test.Leaf().FiniteElementSpace()
		f        = coefficient(ip)
	)
	for q, ref := range rule.Points {
		p := geometry.NewPoint(s, ref)
		w := rule.Weights[q] * p.Weight()
		Gu := trialFES.PhysicalGradient(s, ref)
		Gv := testFES.PhysicalGradient(s, ref)
		if f != nil {
			fv := f.Value(p)
			if f.RangeShape().Type() == Scalar {
				w *= fv.At(0, 0)
			} else {
				var GvF mat.Dense
				GvF.Mul(Gv, fv)
				Gv = &GvF
			}
		}
		var K mat.Dense
		K.Mul(Gv, Gu.T())
		if M == nil {
			nv, nu := K.Dims()
			M = mat.NewDense(nv, nu, nil)
		}
		K.Scale(w, &K)
		M.Add(M, &K)
	}
	return
}

func massMatrix(ip *InnerProduct, s *geometry.Simplex, rule *quadrature.Rule) (M *mat.Dense) {
	var (
		trialFES = ip.trial.Leaf().FiniteElementSpace()
		testFES  = ip.test.Leaf().FiniteElementSpace()
		trialFE  = trialFES.FiniteElement(s)
		testFE   = testFES.FiniteElement(s)
		nu, nv   = trialFE.DOFs(), testFE.DOFs()
		vdim     = trialFES.VectorDimension()
		f        = coefficient(ip)
		m        = mat.NewDense(nv, nu, nil)
	)
	for q, ref := range rule.Points {
		p := geometry.NewPoint(s, ref)
		w := rule.Weights[q] * p.Weight()
		if f != nil {
			w *= f.Value(p).At(0, 0)
		}
		phiU, phiV := trialFE.Basis(ref), testFE.Basis(ref)
		for i, a := range phiV {
			for j, b := range phiU {
				m.Set(i, j, m.At(i, j)+w*a*b)
			}
		}
	}
	if vdim == 1 {
		return m
	}
	// Components do not couple, one block per component
	M = mat.NewDense(vdim*nv, vdim*nu, nil)
	for c := 0; c < vdim; c++ {
		M.Slice(c*nv, (c+1)*nv, c*nu, (c+1)*nu).(*mat.Dense).Copy(m)
	}
	return
}
