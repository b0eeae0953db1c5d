package variational

import (
	"fmt"

	"github.com/notargets/goform/fem"
	"github.com/notargets/goform/geometry/meshio"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Solution describes the coefficients of gf for the solution file formats
func (gf *GridFunction) Solution() *meshio.Solution {
	return &meshio.Solution{
		Family: gf.fes.Family().String(),
		Dim:    gf.fes.Mesh().Dim,
		Order:  gf.fes.Order(),
		VDim:   gf.fes.VectorDimension(),
		Data:   append([]float64{}, gf.data.RawVector().Data...),
	}
}

// Save writes the coefficients of gf to fs. Medit files only hold first order H1 functions.
func (gf *GridFunction) Save(fs afero.Fs, path string, format meshio.FileFormat) error {
	return meshio.SaveSolution(fs, gf.Solution(), path, format)
}

// LoadGridFunction reads a solution file written over a space like fes
func LoadGridFunction(fs afero.Fs, path string, format meshio.FileFormat, fes *fem.Space) (*GridFunction, error) {
	s, err := meshio.LoadSolution(fs, path, format)
	if err != nil {
		return nil, err
	}
	if err = matchSolution(s, fes); err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return NewGridFunction(fes).SetData(s.Data), nil
}

func matchSolution(s *meshio.Solution, fes *fem.Space) error {
	switch {
	case s.Family != fes.Family().String() || s.Order != fes.Order():
		return fmt.Errorf("solution of %s P%d does not fit %v", s.Family, s.Order, fes)
	case s.VDim != fes.VectorDimension() || len(s.Data) != fes.Size():
		return fmt.Errorf("solution of %d values in %d components does not fit %v",
			len(s.Data), s.VDim, fes)
	}
	return nil
}
