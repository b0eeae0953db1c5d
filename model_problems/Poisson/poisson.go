package Poisson

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/notargets/goform/InputParameters"
	"github.com/notargets/goform/fem"
	"github.com/notargets/goform/geometry"
	"github.com/notargets/goform/solver"
	"github.com/notargets/goform/variational"
)

/*
Solves -div(k grad u) = f with constant k and f, Dirichlet values and Neumann fluxes given per
boundary attribute. Boundaries without a condition carry a zero flux.

Weak form: (k grad u, grad v) = (f, v) + sum over Neumann attributes of (g, v) on the boundary
*/
type Poisson struct {
	Mesh    *geometry.Mesh
	Params  *InputParameters.ProblemParameters
	FES     *fem.Space
	Problem *variational.Problem
	Logf    func(format string, v ...interface{})
	verbose bool
}

func NewPoisson(m *geometry.Mesh, ip *InputParameters.ProblemParameters, verbose bool) (c *Poisson, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	if m.Dim < 1 {
		return nil, fmt.Errorf("Poisson problem needs elements of dimension at least 1")
	}
	c = &Poisson{
		Mesh:    m,
		Params:  ip,
		FES:     fem.NewH1(m, ip.PolynomialOrder, 1),
		verbose: verbose,
	}
	var (
		u = variational.NewTrialFunction(c.FES)
		v = variational.NewTestFunction(c.FES)
		k = variational.NewScalarFunction(ip.Diffusion)
	)
	c.Problem = variational.NewProblem(u, v).
		AddBilinear(variational.Integral(variational.Inner(variational.NewShapeMult[variational.Trial](k, u.Grad()), v.Grad())))
	if ip.Source != 0 {
		c.Problem.AddLinear(variational.LinearIntegralOf(variational.NewScalarFunction(ip.Source), v))
	}
	for _, attr := range slices.Sorted(maps.Keys(ip.NeumannBCs)) {
		flux := variational.NewScalarFunction(ip.NeumannBCs[attr])
		c.Problem.AddLinear(variational.LinearBoundaryIntegralOf(flux, v).Over(attr))
	}
	for _, attr := range slices.Sorted(maps.Keys(ip.DirichletBCs)) {
		g := variational.NewScalarFunction(ip.DirichletBCs[attr])
		c.Problem.AddDirichletBC(variational.NewDirichletBC(u, g).On(attr))
	}
	if verbose {
		fmt.Printf("Poisson Equation in %d Dimensions\n", m.Dim)
		fmt.Printf("%s on %d elements, %d Dirichlet and %d Neumann boundary attributes\n",
			c.FES, m.ElementCount(), len(ip.DirichletBCs), len(ip.NeumannBCs))
	}
	return
}

// Assemble builds the eliminated linear system
func (c *Poisson) Assemble() {
	start := time.Now()
	c.Problem.Logf = c.Logf
	if c.Params.ParallelDegree > 1 {
		c.Problem.SetAssembly(&variational.Parallel{ParallelDegree: c.Params.ParallelDegree, Logf: c.Logf})
	}
	c.Problem.Assemble()
	if c.verbose {
		fmt.Printf("Assembly time: %v\n", time.Since(start))
	}
}

func (c *Poisson) Solve() (err error) {
	var s solver.Solver
	if s, err = solver.New(c.Params.Solver, c.Params.Tolerance, c.Params.MaxIterations); err != nil {
		return
	}
	if cg, ok := s.(*solver.CG); ok {
		cg.Logf = c.Logf
	}
	start := time.Now()
	if err = c.Problem.Solve(s); err != nil {
		return
	}
	if c.verbose {
		fmt.Printf("Solve time: %v\n", time.Since(start))
	}
	return
}

func (c *Poisson) Solution() *variational.GridFunction { return c.Problem.Solution() }

// Summary returns the range and the mean of the solution
func (c *Poisson) Summary() (uMin, uMax, mean float64) {
	gf := c.Solution()
	integral := variational.NewGridFunctionIntegral(gf).Compute()
	return gf.Min(), gf.Max(), integral / c.Mesh.Volume()
}

func (c *Poisson) PrintSummary() {
	uMin, uMax, mean := c.Summary()
	fmt.Printf("%s\n", c.Params.Title)
	fmt.Printf("Solution min = %8.5f, max = %8.5f, mean = %8.5f\n", uMin, uMax, mean)
}
