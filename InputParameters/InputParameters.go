package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
	"github.com/hashicorp/go-multierror"
)

// Parameters obtained from the YAML input file
type ProblemParameters struct {
	Title           string          `yaml:"Title"`
	MeshFile        string          `yaml:"MeshFile"`   // Empty for a generated unit square
	MeshFormat      string          `yaml:"MeshFormat"` // Guessed from the extension if empty
	Refinement      int             `yaml:"Refinement"` // Divisions of the generated unit square
	PolynomialOrder int             `yaml:"PolynomialOrder"`
	Source          float64         `yaml:"Source"`
	Diffusion       float64         `yaml:"Diffusion"`
	DirichletBCs    map[int]float64 `yaml:"DirichletBCs"` // Boundary attribute to value
	NeumannBCs      map[int]float64 `yaml:"NeumannBCs"`   // Boundary attribute to flux
	Solver          string          `yaml:"Solver"`
	Tolerance       float64         `yaml:"Tolerance"`
	MaxIterations   int             `yaml:"MaxIterations"`
	ParallelDegree  int             `yaml:"ParallelDegree"` // Assembly goroutines, 1 assembles serially
}

func NewProblemParameters() *ProblemParameters {
	return &ProblemParameters{
		Refinement:      8,
		PolynomialOrder: 1,
		Diffusion:       1,
		Solver:          "cg",
		Tolerance:       1.e-10,
		MaxIterations:   10000,
		ParallelDegree:  1,
	}
}

// Parse overlays the YAML data on the current values and validates the result
func (ip *ProblemParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.Validate()
}

func (ip *ProblemParameters) Validate() error {
	var errs *multierror.Error
	if ip.PolynomialOrder < 1 || ip.PolynomialOrder > 2 {
		errs = multierror.Append(errs, fmt.Errorf("PolynomialOrder must be 1 or 2, got %d", ip.PolynomialOrder))
	}
	if ip.Diffusion <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("Diffusion must be positive, got %v", ip.Diffusion))
	}
	if ip.MeshFile == "" && ip.Refinement < 1 {
		errs = multierror.Append(errs, fmt.Errorf("Refinement must be positive, got %d", ip.Refinement))
	}
	if ip.ParallelDegree < 1 {
		errs = multierror.Append(errs, fmt.Errorf("ParallelDegree must be positive, got %d", ip.ParallelDegree))
	}
	for attr := range ip.NeumannBCs {
		if _, ok := ip.DirichletBCs[attr]; ok {
			errs = multierror.Append(errs, fmt.Errorf("boundary attribute %d has both Dirichlet and Neumann conditions", attr))
		}
	}
	return errs.ErrorOrNil()
}

func (ip *ProblemParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	if ip.MeshFile != "" {
		fmt.Printf("[%s]\t\t= Mesh File\n", ip.MeshFile)
	} else {
		fmt.Printf("[%d]\t\t\t\t= Unit Square Refinement\n", ip.Refinement)
	}
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Printf("%8.5f\t\t= Source\n", ip.Source)
	fmt.Printf("%8.5f\t\t= Diffusion\n", ip.Diffusion)
	fmt.Printf("[%s]\t\t\t= Solver\n", ip.Solver)
	fmt.Printf("[%d]\t\t\t\t= Parallel Degree\n", ip.ParallelDegree)
	printBCs("Dirichlet", ip.DirichletBCs)
	printBCs("Neumann", ip.NeumannBCs)
}

func printBCs(kind string, bcs map[int]float64) {
	keys := make([]int, len(bcs))
	i := 0
	for k := range bcs {
		keys[i] = k
		i++
	}
	sort.Ints(keys)
	for _, key := range keys {
		fmt.Printf("%sBCs[%d] = %v\n", kind, key, bcs[key])
	}
}
