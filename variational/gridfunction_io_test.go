package variational

import (
	"testing"

	"github.com/notargets/goform/fem"
	"github.com/notargets/goform/geometry"
	"github.com/notargets/goform/geometry/meshio"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridFunctionSaveLoad(t *testing.T) {
	var (
		fs = afero.NewMemMapFs()
		m  = geometry.UniformSquare(3)
		f  = NewVectorFunc(2, func(p *geometry.Point) []float64 {
			x := p.Coordinates()
			return []float64{x[0] * x[1], 1 - x[0]}
		})
	)
	for _, c := range []struct {
		fes    *fem.Space
		format meshio.FileFormat
	}{
		{fem.NewH1(m, 2, 2), meshio.MFEM},
		{fem.NewL2(m, 1, 2), meshio.MFEM},
		{fem.NewH1(m, 1, 2), meshio.MEDIT},
	} {
		gf := NewGridFunction(c.fes).Project(f)
		require.NoError(t, gf.Save(fs, "/u.sol", c.format))
		loaded, err := LoadGridFunction(fs, "/u.sol", c.format, c.fes)
		require.NoError(t, err, "%v %v", c.fes, c.format)
		assert.Equal(t, gf.Data().RawVector().Data, loaded.Data().RawVector().Data, "%v %v", c.fes, c.format)
		assert.Same(t, c.fes, loaded.FiniteElementSpace())
	}
	{ // A file over another space is rejected
		require.NoError(t, NewGridFunction(fem.NewH1(m, 2, 1)).Save(fs, "/p2.gf", meshio.MFEM))
		_, err := LoadGridFunction(fs, "/p2.gf", meshio.MFEM, fem.NewH1(m, 1, 1))
		assert.ErrorContains(t, err, "solution of H1 P2 does not fit")
		_, err = LoadGridFunction(fs, "/p2.gf", meshio.MFEM, fem.NewH1(geometry.UniformSquare(2), 2, 1))
		assert.ErrorContains(t, err, "solution of 49 values in 1 components does not fit")
		assert.Error(t, NewGridFunction(fem.NewH1(m, 2, 1)).Save(fs, "/p2.sol", meshio.MEDIT))
	}
}
