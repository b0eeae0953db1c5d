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
	"io"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/notargets/goform/geometry"
	"github.com/notargets/goform/geometry/meshio"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// MeshCmd groups the mesh utilities
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Mesh file utilities",
}

var meshInfoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print the counts, attributes and measures of a mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		dump, _ := cmd.Flags().GetBool("dump")
		m, err := loadMesh(afero.NewOsFs(), args[0], format)
		if err != nil {
			return err
		}
		return MeshInfo(os.Stdout, m, dump)
	},
}

var meshConvertCmd = &cobra.Command{
	Use:   "convert IN OUT",
	Short: "Convert a mesh between the MFEM, Gmsh 2.2 and Medit formats",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return ConvertMesh(afero.NewOsFs(), args[0], format, args[1])
	},
}

var meshGenerateCmd = &cobra.Command{
	Use:   "generate interval|square|cube N OUT",
	Short: "Write a uniform simplicial mesh of the unit interval, square or cube",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid number of divisions %q", args[1])
		}
		m, err := GenerateMesh(args[0], n)
		if err != nil {
			return err
		}
		f, err := meshio.FormatFromExtension(args[2])
		if err != nil {
			return err
		}
		return meshio.Save(afero.NewOsFs(), m, args[2], f)
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.AddCommand(meshInfoCmd, meshConvertCmd, meshGenerateCmd)
	MeshCmd.PersistentFlags().StringP("format", "f", "", "input format (MFEM, GMSH, MEDIT), guessed from the extension by default")
	meshInfoCmd.Flags().Bool("dump", false, "dump the complete mesh structure")
}

func MeshInfo(w io.Writer, m *geometry.Mesh, dump bool) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.PrintStatistics(w)
	if dump {
		spew.Fdump(w, m)
	}
	return nil
}

func ConvertMesh(fs afero.Fs, in, format, out string) error {
	m, err := loadMesh(fs, in, format)
	if err != nil {
		return err
	}
	f, err := meshio.FormatFromExtension(out)
	if err != nil {
		return err
	}
	return meshio.Save(fs, m, out, f)
}

func GenerateMesh(shape string, n int) (*geometry.Mesh, error) {
	switch shape {
	case "interval":
		return geometry.UniformInterval(n), nil
	case "square":
		return geometry.UniformSquare(n), nil
	case "cube":
		return geometry.UniformCube(n), nil
	}
	return nil, fmt.Errorf("unknown shape %q, use interval, square or cube", shape)
}
