/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/notargets/goform/InputParameters"
	"github.com/notargets/goform/geometry"
	"github.com/notargets/goform/geometry/meshio"
	"github.com/notargets/goform/model_problems/Poisson"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type ModelPoisson struct {
	ICFile     string
	MeshFile   string
	Order      int
	OutputMesh string
	// OutputSolution is a .gf (MFEM) or .sol (Medit) file
	OutputSolution string
	Perf           bool
	Parallel       int
}

// PoissonCmd represents the poisson command
var PoissonCmd = &cobra.Command{
	Use:   "poisson",
	Short: "Scalar diffusion problem with Dirichlet and Neumann boundary conditions",
	Long: `
Solves -div(k grad u) = f on a mesh file or a generated unit square,

goform poisson -I problem.yaml [-F mesh.msh]`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		mp := &ModelPoisson{}
		if mp.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if mp.MeshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			return
		}
		mp.Order, _ = cmd.Flags().GetInt("order")
		mp.OutputMesh, _ = cmd.Flags().GetString("outputMesh")
		mp.OutputSolution, _ = cmd.Flags().GetString("outputSolution")
		mp.Perf, _ = cmd.Flags().GetBool("perf")
		mp.Parallel, _ = cmd.Flags().GetInt("parallel")
		stop, err := startProfile()
		if err != nil {
			return
		}
		defer stop()
		return RunPoisson(afero.NewOsFs(), mp)
	},
}

func init() {
	rootCmd.AddCommand(PoissonCmd)
	PoissonCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- PolynomialOrder\n\t- DirichletBCs")
	PoissonCmd.Flags().StringP("meshFile", "F", "", "Mesh file in MFEM (.mfem), Gmsh 2.2 (.msh) or Medit (.mesh) format, overrides MeshFile")
	PoissonCmd.Flags().IntP("order", "n", 0, "polynomial degree, overrides PolynomialOrder")
	PoissonCmd.Flags().StringP("outputMesh", "o", "", "write the mesh to this file after solving")
	PoissonCmd.Flags().StringP("outputSolution", "s", "", "write the solution to this file, MFEM (.gf) or Medit (.sol) format")
	PoissonCmd.Flags().Bool("perf", false, "count the CPU instructions of the assembly (Linux only)")
	PoissonCmd.Flags().IntP("parallel", "p", 0, "number of assembly goroutines, overrides ParallelDegree")
}

const exampleProblem = `
########################################
Title: "Test Case"
PolynomialOrder: 1
Source: 1.
DirichletBCs:
  1: 0.
  3: 0.
NeumannBCs:
  2: 1.
########################################
`

func processPoissonInput(fs afero.Fs, mp *ModelPoisson) (ip *InputParameters.ProblemParameters, err error) {
	ip = InputParameters.NewProblemParameters()
	if len(mp.ICFile) == 0 {
		fmt.Printf("Example File:%s\n", exampleProblem)
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
	}
	var data []byte
	if data, err = afero.ReadFile(fs, mp.ICFile); err != nil {
		return nil, errors.Wrap(err, "reading input parameters")
	}
	if err = ip.Parse(data); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", mp.ICFile)
	}
	if mp.MeshFile != "" {
		ip.MeshFile = mp.MeshFile
	}
	if mp.Order != 0 {
		ip.PolynomialOrder = mp.Order
	}
	if mp.Parallel != 0 {
		ip.ParallelDegree = mp.Parallel
	}
	return ip, ip.Validate()
}

func loadMesh(fs afero.Fs, path, format string) (*geometry.Mesh, error) {
	var (
		f   meshio.FileFormat
		err error
	)
	if format != "" {
		f, err = meshio.ParseFileFormat(format)
	} else {
		f, err = meshio.FormatFromExtension(path)
	}
	if err != nil {
		return nil, err
	}
	return meshio.Load(fs, path, f)
}

func RunPoisson(fs afero.Fs, mp *ModelPoisson) (err error) {
	var (
		ip *InputParameters.ProblemParameters
		m  *geometry.Mesh
	)
	if ip, err = processPoissonInput(fs, mp); err != nil {
		return
	}
	ip.Print()
	if ip.MeshFile != "" {
		if m, err = loadMesh(fs, ip.MeshFile, ip.MeshFormat); err != nil {
			return
		}
	} else {
		m = geometry.UniformSquare(ip.Refinement)
	}
	c, err := Poisson.NewPoisson(m, ip, true)
	if err != nil {
		return
	}
	c.Logf = logger()
	if mp.Perf {
		var instructions uint64
		if instructions, err = countInstructions(c.Assemble); err != nil {
			fmt.Fprintf(os.Stderr, "perf counters unavailable: %v\n", err)
			c.Assemble()
		} else {
			fmt.Printf("Assembly instructions: %d\n", instructions)
		}
	} else {
		c.Assemble()
	}
	if err = c.Solve(); err != nil {
		return
	}
	c.PrintSummary()
	if mp.OutputMesh != "" {
		var f meshio.FileFormat
		if f, err = meshio.FormatFromExtension(mp.OutputMesh); err != nil {
			return
		}
		if err = meshio.Save(fs, m, mp.OutputMesh, f); err != nil {
			return
		}
	}
	if mp.OutputSolution != "" {
		var f meshio.FileFormat
		if f, err = meshio.SolutionFormatFromExtension(mp.OutputSolution); err != nil {
			return
		}
		if err = c.Solution().Save(fs, mp.OutputSolution, f); err != nil {
			return
		}
	}
	return
}
